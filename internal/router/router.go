package router

import (
	"github.com/conduit-go/backend/internal/auth"
	"github.com/conduit-go/backend/internal/handlers"
	appMiddleware "github.com/conduit-go/backend/internal/middleware"
	"github.com/conduit-go/backend/internal/models"
	"github.com/conduit-go/backend/internal/repositories"
	"github.com/conduit-go/backend/pkg/config"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
}

// SetupRoutes migrates the schema, wires repositories and handlers, and
// registers all application routes.
func SetupRoutes(e *echo.Echo, db *gorm.DB, cfg *config.Config, logger *zap.Logger) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Article{},
		&models.Follow{},
		&models.Favourite{},
	)
	if err != nil {
		return err
	}
	logger.Info("auto-migrations completed for all models")

	e.GET("/health", handlers.HealthCheck)

	userRepo := repositories.NewPostgresUserRepository(db)
	articleRepo := repositories.NewPostgresArticleRepository(db)
	followRepo := repositories.NewPostgresFollowRepository(db)
	favouriteRepo := repositories.NewPostgresFavouriteRepository(db)

	tokens := auth.NewTokenManager(cfg.JWTSecret)

	// Every route runs user resolution; failures degrade to anonymous.
	// Guarded routes additionally require a resolved user.
	public := e.Group("", appMiddleware.ResolveUser(tokens, userRepo, logger))
	authed := e.Group("", appMiddleware.ResolveUser(tokens, userRepo, logger), appMiddleware.RequireAuth())

	userHandler := handlers.NewUserHandler(userRepo, tokens)
	userHandler.RegisterRoutes(public, authed)

	profileHandler := handlers.NewProfileHandler(userRepo, followRepo)
	profileHandler.RegisterRoutes(public, authed)

	articleHandler := handlers.NewArticleHandler(articleRepo, favouriteRepo, followRepo)
	articleHandler.RegisterRoutes(public, authed)

	logger.Info("all routes configured")
	return nil
}
