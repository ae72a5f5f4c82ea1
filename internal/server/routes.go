package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/eventure/eventure-api/internal/auth"
	"github.com/eventure/eventure-api/internal/config"
	"github.com/eventure/eventure-api/internal/constants"
	"github.com/eventure/eventure-api/internal/metrics"
	"github.com/eventure/eventure-api/internal/middleware"
	"github.com/eventure/eventure-api/internal/telemetry"
	"github.com/eventure/eventure-api/internal/utils"
)

// SetupRoutes builds the router from the server's handlers.
func (s *Server) SetupRoutes() {
	s.router = NewRouter(s.Config, s.Handlers, s.authMiddleware, s.metrics)
}

// GetRouter returns the configured router.
func (s *Server) GetRouter() chi.Router {
	return s.router
}

// NewRouter configures the middleware chain and every route of the API.
//
// Route protection:
//   - /api/auth/me and /api/events/mine require a valid token
//   - POST /api/events requires the organizer or admin role
//   - /api/admin/* requires the admin role
//   - credential and reset endpoints are rate limited per client IP
//
// The metrics endpoint is mounted only when m is non-nil.
func NewRouter(cfg *config.AppConfig, h *Handlers, authMW *auth.Middleware, m *metrics.Metrics) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(telemetry.Middleware(cfg.App.Name))
	r.Use(middleware.Recovery())
	if cfg.Logging.RequestLog {
		r.Use(middleware.RequestLogger())
	}
	r.Use(middleware.SecurityHeaders())
	if m != nil {
		r.Use(m.Middleware)
	}
	r.Use(corsHandler(&cfg.CORS))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		utils.NotFound(w, constants.MsgNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		utils.Error(w, http.StatusMethodNotAllowed, constants.CodeMethodNotAllowed, constants.MsgMethodNotAllowed, nil)
	})

	r.Get(constants.HealthPath, h.Health.Health)
	r.Get(constants.HealthReadyPath, h.Health.Ready)
	r.Get(constants.VersionPath, h.Health.Version)
	if m != nil {
		r.Handle(constants.MetricsPath, m.Handler())
	}

	r.Route(constants.APIBasePath, func(r chi.Router) {
		r.Route(constants.AuthBasePath, func(r chi.Router) {
			r.Use(middleware.NoStore())

			r.Post(constants.AuthRegisterPath, h.Auth.Register)
			r.Post(constants.AuthLogoutPath, h.Auth.Logout)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(cfg.RateLimit.AuthRequests, cfg.RateLimit.AuthWindow))

				r.Post(constants.AuthLoginPath, h.Auth.Login)
				r.Post(constants.AuthForgotPasswordPath, h.PasswordReset.ForgotPassword)
				r.Post(constants.AuthVerifyResetCodePath, h.PasswordReset.VerifyResetCode)
				r.Post(constants.AuthResetPasswordPath, h.PasswordReset.ResetPassword)
				r.Post(constants.AuthResetPasswordWithCodePath, h.PasswordReset.ResetPassword)
			})

			r.With(authMW.Authenticate).Get(constants.AuthMePath, h.Auth.Me)
		})

		r.Route(constants.EventsBasePath, func(r chi.Router) {
			r.Get("/", h.Events.List)

			r.Group(func(r chi.Router) {
				r.Use(authMW.Authenticate)
				r.Use(auth.Authorize(constants.RoleOrganizer, constants.RoleAdmin))

				r.Get(constants.EventsMinePath, h.Events.Mine)
				r.Post("/", h.Events.Create)
			})

			r.Get(constants.EventDetailPath, h.Events.Get)
		})

		r.Route(constants.AdminBasePath, func(r chi.Router) {
			r.Use(authMW.Authenticate)
			r.Use(auth.Authorize(constants.RoleAdmin))

			r.Get(constants.AdminStatsPath, h.Admin.Stats)
			r.Get(constants.AdminEventsPath, h.Admin.Events)
			r.Put(constants.AdminEventApprovePath, h.Admin.Approve)
			r.Put(constants.AdminEventDeclinePath, h.Admin.Decline)
			r.Delete(constants.AdminEventDetailPath, h.Admin.Delete)
		})

		r.Get(constants.DevTestEmailPath, h.Dev.TestEmail)
	})

	return r
}

// corsHandler allows the configured browser origins to call the API with cookies.
func corsHandler(cfg *config.CORSSettings) func(http.Handler) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = constants.DefaultAllowedOrigins
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   constants.CORSAllowedMethods,
		AllowedHeaders:   constants.CORSAllowedHeaders,
		ExposedHeaders:   constants.CORSExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           constants.CORSMaxAge,
	})
}
