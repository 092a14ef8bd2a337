package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/learnloop/community-backend/api/controllers"
	"github.com/learnloop/community-backend/api/middleware"
	"github.com/learnloop/community-backend/internal/auth"
	"github.com/learnloop/community-backend/internal/communities"
	"github.com/learnloop/community-backend/internal/invites"
	"github.com/learnloop/community-backend/internal/memberships"
	"github.com/learnloop/community-backend/internal/messages"
	"github.com/learnloop/community-backend/internal/users"
	"github.com/learnloop/community-backend/pkg/auth/session"
	"github.com/learnloop/community-backend/pkg/config"
	"github.com/learnloop/community-backend/pkg/logger"
	"github.com/learnloop/community-backend/pkg/redis"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// RouterParams bundles everything the HTTP surface needs.
type RouterParams struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             pinger
	Redis          *redis.Client
	SessionChecker session.AccessSessionChecker

	Auth        auth.Service
	Users       users.Service
	Communities communities.Service
	Memberships memberships.Service
	Messages    messages.Service
	Invites     invites.Service
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, params.DB, params.Redis, logg))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, params.Redis, logg)).Post("/login", controllers.AuthLogin(params.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, params.Redis, logg)).Post("/register", controllers.AuthRegister(params.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(params.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, params.SessionChecker, logg))

		r.Get("/ping", controllers.PrivatePing())
		r.Post("/auth/logout", controllers.AuthLogout(params.Auth, logg))

		r.Route("/me", func(r chi.Router) {
			r.Get("/", controllers.MeProfile(params.Users, logg))
			r.Patch("/", controllers.MeUpdateProfile(params.Users, logg))
		})

		r.Route("/communities", func(r chi.Router) {
			r.Get("/", controllers.CommunityList(params.Communities, logg))
			r.Post("/", controllers.CommunityCreate(params.Communities, logg))

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", controllers.CommunityGet(params.Communities, logg))
				r.Post("/join", controllers.CommunityJoin(params.Communities, logg))

				r.Route("/members", func(r chi.Router) {
					r.Get("/", controllers.MemberList(params.Memberships, logg))
					r.Patch("/{userId}", controllers.MemberChangeRole(params.Memberships, logg))
					r.Delete("/{userId}", controllers.MemberRemove(params.Memberships, logg))
				})

				r.Route("/messages", func(r chi.Router) {
					r.Get("/", controllers.MessageList(params.Messages, logg))
					r.Post("/", controllers.MessagePost(params.Messages, logg))
				})

				r.Post("/invites", controllers.InviteCreate(params.Invites, logg))
			})
		})

		r.Route("/invites", func(r chi.Router) {
			r.Get("/", controllers.InviteListPending(params.Invites, logg))
			r.Post("/{id}/resolve", controllers.InviteResolve(params.Invites, logg))
			r.Delete("/{id}", controllers.InviteDelete(params.Invites, logg))
		})
	})

	return r
}
