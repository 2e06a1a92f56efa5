package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/monther20/bassita/internal/api/handler"
	customMiddleware "github.com/monther20/bassita/internal/api/middleware"
	"github.com/monther20/bassita/internal/config"
	"github.com/monther20/bassita/internal/repository/mongo"
	"github.com/monther20/bassita/internal/repository/redis"
	"github.com/monther20/bassita/internal/security"
	"github.com/monther20/bassita/internal/service"
	"github.com/monther20/bassita/internal/watch"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, db *mongo.DB, redisClient *redis.Client) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	if cfg.Metrics.Enabled {
		r.Use(customMiddleware.Metrics)
	}

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize security components
	jwtManager := security.NewJWTManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)

	// Initialize the change hub and repositories
	hub := watch.NewHub()
	userRepo := mongo.NewUserRepository(db)
	orgRepo := mongo.NewOrganizationRepository(db)
	workspaceRepo := mongo.NewWorkspaceRepository(db)
	boardRepo := mongo.NewBoardRepository(db, hub)
	taskRepo := mongo.NewTaskRepository(db, hub)
	templateRepo := mongo.NewTemplateRepository(db)

	// Initialize cache and rate limiter
	cache := redis.NewCache(redisClient, cfg.Cache)
	rateLimiter := redis.NewRateLimiter(
		redisClient,
		cfg.Security.RateLimit.RequestsPerMinute,
		cfg.Security.RateLimit.Burst,
	)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	orgService := service.NewOrganizationService(orgRepo, cache)
	workspaceService := service.NewWorkspaceService(workspaceRepo, orgRepo, boardRepo, cache)
	boardService := service.NewBoardService(boardRepo, workspaceRepo, templateRepo, cache, hub)
	taskService := service.NewTaskService(taskRepo, boardRepo, workspaceRepo, cache, hub)
	templateService := service.NewTemplateService(templateRepo, cache)
	searchService := service.NewSearchService(orgRepo, workspaceRepo, boardRepo, cache)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	orgHandler := handler.NewOrganizationHandler(orgService)
	workspaceHandler := handler.NewWorkspaceHandler(workspaceService)
	boardHandler := handler.NewBoardHandler(boardService)
	taskHandler := handler.NewTaskHandler(taskService)
	templateHandler := handler.NewTemplateHandler(templateService)
	searchHandler := handler.NewSearchHandler(searchService)
	subscribeHandler := handler.NewSubscribeHandler(boardService, taskService)

	// Auth middleware
	authMiddleware := customMiddleware.NewAuthMiddleware(jwtManager)
	rateLimitMiddleware := customMiddleware.NewRateLimitMiddleware(rateLimiter)

	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db, redisClient))

		// Auth routes (public)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(rateLimitMiddleware.Limit)

			r.Get("/me", authHandler.Me)

			// Organization routes
			r.Route("/organizations", func(r chi.Router) {
				r.Get("/", orgHandler.List)
				r.Post("/", orgHandler.Create)
				r.Post("/switch", orgHandler.Switch)

				r.Route("/{organizationID}", func(r chi.Router) {
					r.Get("/", orgHandler.Get)
					r.Patch("/", orgHandler.Update)
					r.Delete("/", orgHandler.Delete)

					r.Post("/members", orgHandler.AddMember)
					r.Delete("/members/{userID}", orgHandler.RemoveMember)

					r.Get("/dashboard", workspaceHandler.Dashboard)
					r.Get("/sidebar", boardHandler.Sidebar)
					r.Get("/search", searchHandler.Search)
				})
			})

			// Workspace routes
			r.Route("/workspaces", func(r chi.Router) {
				r.Get("/", workspaceHandler.List)
				r.Post("/", workspaceHandler.Create)

				r.Route("/{workspaceID}", func(r chi.Router) {
					r.Get("/", workspaceHandler.Get)
					r.Patch("/", workspaceHandler.Update)
					r.Delete("/", workspaceHandler.Delete)

					r.Post("/members", workspaceHandler.AddMember)
					r.Delete("/members/{userID}", workspaceHandler.RemoveMember)

					r.Get("/boards", boardHandler.ListByWorkspace)
				})
			})

			// Board routes
			r.Route("/boards", func(r chi.Router) {
				r.Post("/", boardHandler.Create)

				r.Route("/{boardID}", func(r chi.Router) {
					r.Get("/", boardHandler.Get)
					r.Patch("/", boardHandler.Update)
					r.Delete("/", boardHandler.Delete)

					r.Post("/members", boardHandler.AddMember)
					r.Delete("/members/{userID}", boardHandler.RemoveMember)

					r.Post("/columns", boardHandler.AddColumn)
					r.Put("/columns/order", boardHandler.ReorderColumns)
					r.Patch("/columns/{columnID}", boardHandler.UpdateColumn)
					r.Delete("/columns/{columnID}", boardHandler.DeleteColumn)

					r.Put("/labels", boardHandler.ReplaceLabels)

					r.Get("/tasks", taskHandler.ListByBoard)
					r.Put("/tasks/order", taskHandler.Reorder)

					r.Get("/subscribe", subscribeHandler.Subscribe)
				})
			})

			// Task routes
			r.Route("/tasks", func(r chi.Router) {
				r.Post("/", taskHandler.Create)

				r.Route("/{taskID}", func(r chi.Router) {
					r.Get("/", taskHandler.Get)
					r.Patch("/", taskHandler.Update)
					r.Delete("/", taskHandler.Delete)
					r.Post("/move", taskHandler.Move)
				})
			})

			// Template routes
			r.Route("/templates", func(r chi.Router) {
				r.Get("/", templateHandler.List)
				r.Get("/{templateID}", templateHandler.Get)
			})
		})
	})

	return r
}
