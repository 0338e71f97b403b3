package handlers

import (
	"errors"
	"html"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lguportal/portal/internal/input"
	"lguportal/portal/internal/middleware"
	"lguportal/portal/internal/models"
	"lguportal/portal/internal/service"
)

const (
	msgStep1Success   = "Please proceed to provide additional information."
	msgAccountCreated = "Account created successfully! You can now login."
	msgDocumentLost   = " Your ID document could not be saved; please submit it to the administrator."
	msgGeneric        = "An error occurred. Please try again later."
	msgCreateFailed   = "An error occurred while creating your account"
)

type messageKind string

const (
	kindError   messageKind = "error"
	kindSuccess messageKind = "success"
)

type option struct {
	Value string
	Label string
}

var roleOptions = []option{
	{Value: string(models.UserRoleAdmin), Label: "Administrator"},
	{Value: string(models.UserRoleStaff), Label: "Staff"},
	{Value: string(models.UserRoleVerifier), Label: "Verifier"},
}

var civilStatusOptions = []option{
	{Value: string(models.CivilStatusSingle), Label: "Single"},
	{Value: string(models.CivilStatusMarried), Label: "Married"},
	{Value: string(models.CivilStatusDivorced), Label: "Divorced"},
	{Value: string(models.CivilStatusWidowed), Label: "Widowed"},
}

// formValues are redisplayed after a failed submission. Passwords never are.
type formValues struct {
	Email       string
	FirstName   string
	MiddleName  string
	LastName    string
	Birthday    string
	Address     string
	CivilStatus string
	Role        string
}

type portalPage struct {
	View          string
	Message       string
	MessageKind   messageKind
	CSRFToken     string
	Form          formValues
	Roles         []option
	CivilStatuses []option
}

func (h HandlerSet) Root(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

func (h HandlerSet) ShowPortal(c *gin.Context) {
	if c.Query("logout") == "1" {
		h.endSession(c)
		c.Redirect(http.StatusSeeOther, middleware.LoginPath)
		return
	}

	if session, ok := middleware.CurrentSession(c); ok {
		c.Redirect(http.StatusSeeOther, service.ResolveRedirect(session.Role))
		return
	}

	view := service.ViewLogin
	switch v := service.View(c.Query("view")); v {
	case service.ViewRegister, service.ViewAdditional:
		view = v
	}
	h.render(c, http.StatusOK, view, "", "", formValues{})
}

func (h HandlerSet) SubmitPortal(c *gin.Context) {
	req, err := parsePortalRequest(c)
	if err != nil {
		h.log.Warn().Err(err).Msg("rejecting portal submission")
		h.render(c, http.StatusBadRequest, service.ViewLogin, msgGeneric, kindError, formValues{})
		return
	}

	switch r := req.(type) {
	case loginRequest:
		h.login(c, r)
	case registerStep1Request:
		h.registerStep1(c, r)
	case registerStep2Request:
		h.registerStep2(c, r)
	}
}

func (h HandlerSet) Logout(c *gin.Context) {
	h.endSession(c)
	c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

func (h HandlerSet) login(c *gin.Context, req loginRequest) {
	previous, _ := c.Cookie(middleware.SessionCookie)

	result, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Email:         req.Email,
		Password:      req.Password,
		PreviousToken: previous,
		IPAddress:     c.ClientIP(),
		UserAgent:     c.GetHeader("User-Agent"),
	})
	if err != nil {
		h.renderError(c, req.view(), err, formValues{Email: redisplay(req.Email)})
		return
	}

	middleware.SetCookie(c, middleware.SessionCookie, result.SessionToken,
		int(h.cfg.Security.SessionTTL.Seconds()), h.cfg.Security.CookieSecure)
	c.Redirect(http.StatusSeeOther, result.Redirect)
}

func (h HandlerSet) registerStep1(c *gin.Context, req registerStep1Request) {
	previous, _ := c.Cookie(middleware.RegistrationCookie)

	result, err := h.registration.Step1(c.Request.Context(), service.Step1Input{
		Email:         req.Email,
		Password:      req.Password,
		PreviousToken: previous,
	})
	if err != nil {
		h.renderError(c, result.View, err, formValues{Email: redisplay(req.Email)})
		return
	}

	middleware.SetCookie(c, middleware.RegistrationCookie, result.Token,
		int(h.cfg.Security.RegistrationTTL.Seconds()), h.cfg.Security.CookieSecure)
	h.render(c, http.StatusOK, result.View, msgStep1Success, kindSuccess, formValues{})
}

func (h HandlerSet) registerStep2(c *gin.Context, req registerStep2Request) {
	token, _ := c.Cookie(middleware.RegistrationCookie)

	in := req.Step2Input
	if req.file != nil {
		doc, closer := openDocument(req.file)
		defer closer.Close()
		in.Document = doc
	}

	result, err := h.registration.Step2(c.Request.Context(), token, in)
	if err != nil {
		if result.View == service.ViewRegister {
			middleware.ClearCookie(c, middleware.RegistrationCookie, h.cfg.Security.CookieSecure)
		}
		h.renderError(c, result.View, err, formValues{
			FirstName:   redisplay(in.FirstName),
			MiddleName:  redisplay(in.MiddleName),
			LastName:    redisplay(in.LastName),
			Birthday:    redisplay(in.Birthday),
			Address:     redisplay(in.Address),
			CivilStatus: redisplay(in.CivilStatus),
			Role:        redisplay(in.Role),
		})
		return
	}

	middleware.ClearCookie(c, middleware.RegistrationCookie, h.cfg.Security.CookieSecure)

	message := msgAccountCreated
	if result.UploadErr != nil {
		message += msgDocumentLost
	}
	h.render(c, http.StatusOK, result.View, message, kindSuccess, formValues{})
}

func (h HandlerSet) endSession(c *gin.Context) {
	if token, err := c.Cookie(middleware.SessionCookie); err == nil {
		if err := h.auth.Logout(c.Request.Context(), token); err != nil {
			h.log.Error().Err(err).Msg("logout failed")
		}
	}
	middleware.ClearCookie(c, middleware.SessionCookie, h.cfg.Security.CookieSecure)
	middleware.ClearCookie(c, middleware.RegistrationCookie, h.cfg.Security.CookieSecure)
}

func (h HandlerSet) renderError(c *gin.Context, view service.View, err error, form formValues) {
	status, message := h.describe(c, err)
	h.render(c, status, view, message, kindError, form)
}

// describe maps a workflow error to a status and the message shown to the
// user. Unknown errors are logged and reported generically.
func (h HandlerSet) describe(c *gin.Context, err error) (int, string) {
	var (
		validation  *service.ValidationError
		persistence *service.PersistenceError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusUnprocessableEntity, validation.Message
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, service.ErrAccountInactive):
		return http.StatusForbidden, "Account is not active. Please contact administrator."
	case errors.Is(err, service.ErrDuplicateEmail):
		return http.StatusConflict, "Email address already registered"
	case errors.Is(err, service.ErrRegistrationExpired):
		return http.StatusBadRequest, "Registration session expired. Please start over."
	case errors.As(err, &persistence):
		h.log.Error().Err(err).Str("request_id", middleware.RequestIDFrom(c)).Msg("registration not persisted")
		return http.StatusInternalServerError, msgCreateFailed
	default:
		h.log.Error().Err(err).Str("request_id", middleware.RequestIDFrom(c)).Msg("portal request failed")
		return http.StatusInternalServerError, msgGeneric
	}
}

func (h HandlerSet) render(c *gin.Context, status int, view service.View, message string, kind messageKind, form formValues) {
	c.HTML(status, "portal.html", portalPage{
		View:          string(view),
		Message:       message,
		MessageKind:   kind,
		CSRFToken:     middleware.CSRFTokenFrom(c),
		Form:          form,
		Roles:         roleOptions,
		CivilStatuses: civilStatusOptions,
	})
}

// redisplay sanitizes a submitted value and undoes the entity escaping, since
// html/template escapes again on output.
func redisplay(value string) string {
	return html.UnescapeString(input.Sanitize(strings.TrimSpace(value)))
}
