package handlers

import (
	"html"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lguportal/portal/internal/middleware"
	"lguportal/portal/internal/service"
)

var dashboardTitles = map[string]string{
	service.AdminDashboardPath:    "Administrator Dashboard",
	service.StaffDashboardPath:    "Staff Dashboard",
	service.VerifierDashboardPath: "Verifier Dashboard",
}

type dashboardPage struct {
	Title     string
	FullName  string
	Email     string
	Role      string
	LoginTime time.Time
	CSRFToken string
}

func (h HandlerSet) Dashboard(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, middleware.LoginPath)
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", dashboardPage{
		Title:     dashboardTitles[c.FullPath()],
		FullName:  html.UnescapeString(session.FullName),
		Email:     session.Email,
		Role:      string(session.Role),
		LoginTime: session.LoginTime,
		CSRFToken: middleware.CSRFTokenFrom(c),
	})
}
