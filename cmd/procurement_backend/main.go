package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/procureflow/procurement_app/cmd/docs"
	portssvc "github.com/procureflow/procurement_app/internal/core/ports/services"
	"github.com/procureflow/procurement_app/internal/core/services"
	"github.com/procureflow/procurement_app/internal/handlers"
	"github.com/procureflow/procurement_app/internal/middleware"
	"github.com/procureflow/procurement_app/internal/platform/config"
	"github.com/procureflow/procurement_app/internal/repositories/database/pgsql"
	"github.com/procureflow/procurement_app/internal/repositories/extraction"
	"github.com/procureflow/procurement_app/internal/repositories/storage"
	"github.com/procureflow/procurement_app/pkg/database"
)

// @title Procurement API
// @version 1.0
// @description Purchase request approval and reconciliation backend.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		os.Exit(1)
	}

	fileStore, err := storage.NewLocalFileStore(cfg.UploadDir)
	if err != nil {
		logger.Error("Failed to initialize file store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var refiner portssvc.TextRefiner
	if cfg.RefinerURL != "" {
		refiner = extraction.NewHTTPRefiner(cfg.RefinerURL)
		logger.Info("Remote text refiner enabled", slog.String("endpoint", cfg.RefinerURL))
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceProvider := services.NewContainer(&repos, services.ContainerDeps{
		FileStore:  fileStore,
		Fetcher:    storage.NewHTTPFetcher(cfg.MaxUploadBytes),
		Recognizer: extraction.NewNoopRecognizer(),
		Refiner:    refiner,
		Auth: services.AuthConfig{
			JWTSecret:      cfg.JWTSecret,
			ExpiryDuration: cfg.JWTExpiryDuration,
			Issuer:         cfg.JWTIssuer,
			BcryptCost:     cfg.BcryptCost,
		},
		Documents: services.DocumentServiceConfig{
			MaxUploadBytes: cfg.MaxUploadBytes,
		},
	})

	docs.SwaggerInfo.Host = "localhost:" + cfg.Port

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceProvider)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations before the server starts.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		logger.Error("Failed to open database connection for migrations", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		logger.Error("Failed to ping database for migrations", slog.String("error", err.Error()))
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		logger.Error("Could not create postgres driver instance for migrations", slog.String("error", err.Error()))
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		logger.Error("Could not create migrate instance", slog.String("error", err.Error()))
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		logger.Error("Migration source error", slog.String("error", sourceErr.Error()))
		return sourceErr
	}
	if dbErr != nil {
		logger.Error("Migration database error", slog.String("error", dbErr.Error()))
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
