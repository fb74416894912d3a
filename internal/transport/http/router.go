package http

import (
	"net/http"

	"github.com/auth-otp-api/internal/application/auth"
	"github.com/auth-otp-api/internal/config"
	"github.com/auth-otp-api/internal/transport/http/handler"
	appmiddleware "github.com/auth-otp-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo:  deps.UserRepo,
		Mailer:    deps.Mailer,
		SMSSender: deps.SMSSender,
		Signer:    deps.JWTProvider,
	})

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc)
	pwH := handler.NewPasswordResetHandler(authSvc)
	userH := handler.NewUserHandler(authSvc)

	r.NotFound(handler.NotFound)

	r.Get("/health-check/{action}", healthH.Ping)

	r.Route("/api/auth", func(r chi.Router) {
		r.With(sensitiveRL.Limit).Post("/register", authH.Register)
		r.Post("/verify-otp", authH.VerifyOTP)
		r.With(sensitiveRL.Limit).Post("/login", authH.Login)
		r.Post("/resend-otp", authH.ResendOTP)
		r.With(sensitiveRL.Limit).Post("/forgot-password", pwH.Forgot)
		r.Post("/verify-reset-code", pwH.VerifyResetCode)
		r.Post("/reset-password", pwH.Reset)
	})

	r.Group(func(r chi.Router) {
		r.Use(appmiddleware.Auth(deps.JWTProvider))
		r.Get("/api/users/me", userH.Me)
	})

	return r
}
