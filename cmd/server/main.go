package main

import (
	"github.com/conduit-go/backend/internal/router"
	"github.com/conduit-go/backend/internal/validators"
	"github.com/conduit-go/backend/pkg/config"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()

	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer config.CloseDB(db, logger)
	logger.Info("connected to PostgreSQL")

	e := echo.New()
	e.HideBanner = true

	router.SetupMiddleware(e)
	e.Validator = validators.NewValidator()

	if err := router.SetupRoutes(e, db, cfg, logger); err != nil {
		logger.Fatal("failed to set up routes", zap.Error(err))
	}

	logger.Info("starting server", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
