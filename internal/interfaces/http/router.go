package http

import (
	"net/http"
	"time"

	"github.com/castellan/site-auth/internal/application"
	"github.com/castellan/site-auth/internal/domain"
	"github.com/castellan/site-auth/internal/infrastructure/cache"
	"github.com/castellan/site-auth/internal/infrastructure/config"
	"github.com/castellan/site-auth/internal/infrastructure/database"
	"github.com/castellan/site-auth/internal/infrastructure/email"
	"github.com/castellan/site-auth/internal/infrastructure/repository"
	"github.com/castellan/site-auth/internal/infrastructure/token"
	"github.com/castellan/site-auth/internal/interfaces/http/handlers"
	"github.com/castellan/site-auth/internal/interfaces/http/middleware/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

type Router struct {
	router *chi.Mux
	db     *database.Postgres
}

func NewRouter(
	db *database.Postgres,
	cfg *config.Config,
	logger *zap.Logger,
) *Router {
	userRepo := repository.NewUserRepository(db, logger)
	oauthRepo := repository.NewOAuth2Repository(db, logger)
	signupRepo := repository.NewSignupCodeRepository(db, logger)
	groupRepo := repository.NewGroupRepository(db, logger)

	redisClient := cache.NewRedisClient(cfg)
	groupCache := cache.NewGroupCache(groupRepo, redisClient, logger)

	generator := token.NewGenerator()
	notifier := email.NewEmailService(cfg, logger)

	oauth2Service := application.NewOAuth2Service(oauthRepo, userRepo, signupRepo, generator, notifier, cfg, logger)
	permissionService := application.NewPermissionService(groupCache, logger)
	groupService := application.NewGroupService(groupCache, logger)

	authMiddleware := auth.NewAuthMiddleware(oauthRepo, userRepo, permissionService, logger)

	// Initialize handlers
	oauth2Handler := handlers.NewOAuth2Handler(oauth2Service, cfg, logger)
	groupHandler := handlers.NewGroupHandler(groupService, logger)
	clientHandler := handlers.NewClientHandler(oauthRepo, logger)

	// Create router with middleware
	router := createRouter()

	// Health check endpoints
	router.Group(func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})

		r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
			// Check database connection
			if err := db.Ping(); err != nil {
				logger.Error("Database health check failed", zap.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("Database connection failed"))
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("Ready"))
		})

		r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("Alive"))
		})
	})

	// Swagger UI configuration
	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
		httpSwagger.DeepLinking(true),
		httpSwagger.PersistAuthorization(true),
	))

	router.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "docs/swagger.json")
	})

	// OAuth2 protocol routes
	router.Route("/oauth2", func(r chi.Router) {
		// The authorize endpoint works with or without a logged-in principal;
		// unauthenticated browsers are bounced to the login surface.
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.OptionalAuthenticator)
			r.Get("/authorize", oauth2Handler.AuthorizeHandler)
		})

		r.Post("/token", oauth2Handler.TokenHandler)
		r.Post("/token/revoke", oauth2Handler.RevokeTokenHandler)
		r.Post("/password", oauth2Handler.VerifyPasswordHandler)
		r.Post("/signup", oauth2Handler.IssueSignupCodeHandler)
		r.Post("/signup/verify", oauth2Handler.VerifySignupCodeHandler)
	})

	// Admin API routes
	router.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticator)
			r.With(authMiddleware.RequirePermission(domain.PermViewGroups)).
				Get("/permissions", groupHandler.ListPermissionsHandler)

			r.With(authMiddleware.RequirePermission(domain.PermViewGroups)).
				Get("/groups", groupHandler.ListGroupsHandler)
			r.With(authMiddleware.RequirePermission(domain.PermViewGroups)).
				Get("/groups/{key}", groupHandler.GetGroupHandler)
			r.With(authMiddleware.RequirePermission(domain.PermCreateGroups)).
				Post("/groups", groupHandler.CreateGroupHandler)
			r.With(authMiddleware.RequirePermission(domain.PermUpdateGroups)).
				Put("/groups/{key}", groupHandler.UpdateGroupHandler)
			r.With(authMiddleware.RequirePermission(domain.PermDeleteGroups)).
				Delete("/groups/{key}", groupHandler.DeleteGroupHandler)

			// Session family revocation for security events
			r.With(authMiddleware.RequirePermission(domain.PermRevokeSessions)).
				Post("/tokens/revoke", oauth2Handler.RevokeUserTokensHandler)

			// Client registry management. A client's redirect URIs anchor
			// the authorize-time validation.
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.RequirePermission(domain.PermManageClients))
				r.Get("/clients", clientHandler.ListClientsHandler)
				r.Post("/clients", clientHandler.CreateClientHandler)
				r.Get("/clients/{id}", clientHandler.GetClientHandler)
				r.Put("/clients/{id}", clientHandler.UpdateClientHandler)
				r.Delete("/clients/{id}", clientHandler.DeleteClientHandler)
			})
		})
	})

	return &Router{router: router, db: db}
}

func createRouter() *chi.Mux {
	router := chi.NewRouter()

	// Add middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Timeout(60 * time.Second))

	return router
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
