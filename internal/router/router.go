package router

import (
	"github.com/anonto42/social-feed/backend/internal/blob"
	"github.com/anonto42/social-feed/backend/internal/handlers"
	"github.com/anonto42/social-feed/backend/internal/repositories"
	"github.com/anonto42/social-feed/backend/internal/store"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"
)

// SetupMiddleware configures global Echo middleware.
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Info("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies.
// There is no authentication layer: the app serves a single demo
// identity.
func SetupRoutes(e *echo.Echo, docs store.DocumentStore, blobs blob.Store, demoUserID string) {
	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	postRepo := repositories.NewStorePostRepository(docs, blobs)
	userRepo := repositories.NewStoreUserRepository(docs, blobs)

	api := e.Group("/api/v1")

	// Feed routes
	feedHandler := handlers.NewFeedHandler(postRepo, docs)
	feedHandler.RegisterFeedRoutes(api)
	log.Info("Feed routes configured.")

	// Post routes
	postHandler := handlers.NewPostHandler(postRepo)
	postHandler.RegisterPostRoutes(api)
	log.Info("Post routes configured.")

	// Profile routes
	userHandler := handlers.NewUserHandler(userRepo, demoUserID)
	userHandler.RegisterProfileRoutes(api)
	log.Info("Profile routes configured.")

	log.Info("All routes configured.")
}
