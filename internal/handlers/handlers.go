package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"lguportal/portal/internal/config"
	"lguportal/portal/internal/middleware"
	"lguportal/portal/internal/models"
	"lguportal/portal/internal/service"
	"lguportal/portal/internal/storage"
)

// Dependencies are the stores the portal runs on. Ping funcs feed /healthz;
// a nil func reports the backend as disabled.
type Dependencies struct {
	Users        service.UserStore
	Sessions     service.SessionStore
	Pending      service.PendingStore
	Documents    storage.DocumentStore
	PingDatabase func(ctx context.Context) error
	PingCache    func(ctx context.Context) error
}

type HandlerSet struct {
	log          zerolog.Logger
	cfg          *config.AppConfig
	auth         *service.AuthService
	registration *service.RegistrationService
	pingDatabase func(ctx context.Context) error
	pingCache    func(ctx context.Context) error
}

func NewHandlerSet(log zerolog.Logger, cfg *config.AppConfig, deps Dependencies) HandlerSet {
	auth := service.NewAuthService(deps.Users, deps.Sessions, cfg, log)
	documents := service.NewDocumentService(deps.Documents, cfg.Storage.MaxUploadBytes, log)
	registration := service.NewRegistrationService(deps.Users, deps.Pending, documents, cfg, log)

	return HandlerSet{
		log:          log,
		cfg:          cfg,
		auth:         auth,
		registration: registration,
		pingDatabase: deps.PingDatabase,
		pingCache:    deps.PingCache,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)
	router.GET("/", h.Root)

	portal := router.Group("")
	portal.Use(
		middleware.NoCache(),
		middleware.BrowserID(h.cfg.Security.CookieSecure),
		middleware.CSRF(h.cfg.Security.SessionSecret),
		middleware.LoadSession(h.auth, h.log),
	)
	{
		portal.GET(middleware.LoginPath, h.ShowPortal)
		portal.POST(middleware.LoginPath,
			middleware.LoginRateLimit(h.cfg.Security.LoginRate, h.cfg.Security.LoginBurst),
			h.SubmitPortal,
		)
		portal.POST("/logout", h.Logout)

		portal.GET(service.StaffDashboardPath, middleware.RequireSession(), h.Dashboard)
		portal.GET(service.AdminDashboardPath, middleware.RequireRoles(models.UserRoleAdmin), h.Dashboard)
		portal.GET(service.VerifierDashboardPath, middleware.RequireRoles(models.UserRoleVerifier), h.Dashboard)
	}
}
