package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/salonhub/visits-service/config"
	_ "github.com/salonhub/visits-service/docs"
	"github.com/salonhub/visits-service/internal/database"
	"github.com/salonhub/visits-service/internal/handlers"
	"github.com/salonhub/visits-service/internal/middleware"
	"github.com/salonhub/visits-service/internal/sweepers"
	"github.com/salonhub/visits-service/internal/telemetry"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Msg("Starting visits service")

	dbURL := config.GetDatabaseURL()
	if dbURL == "" {
		logger.Fatal().Msg("DATABASE_URL not set")
	}

	ctx := context.Background()
	if err := database.Connect(
		ctx,
		dbURL,
		cfg.Database.MaxConnections,
		cfg.Database.MinConnections,
		cfg.Database.MaxConnLifetime,
		cfg.Database.MaxConnIdleTime,
	); err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	logger.Info().Msg("Database connected")

	telCfg := telemetry.GetConfigFromEnv()
	if cfg.Telemetry.Enabled {
		telCfg.Enabled = true
	}
	if cfg.Telemetry.Endpoint != "" {
		telCfg.Endpoint = cfg.Telemetry.Endpoint
	}
	telShutdown, err := telemetry.Init(ctx, telCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize telemetry")
	}

	retentionSweeper := sweepers.NewLogRetentionSweeper(
		database.Pool(), logger, cfg.Logs.Retention, cfg.Logs.SweepInterval)
	go retentionSweeper.Start(ctx)

	if cfg.Logging.Level == "info" || cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	setupMiddleware(router, logger)

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	internal := router.Group("/internal")
	internal.Use(middleware.InternalAuthMiddleware())
	internal.Use(middleware.ServiceRateLimitMiddleware(
		cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize))
	{
		internal.GET("/health", handlers.HealthCheck)
		internal.GET("/logs", handlers.ListLogs)

		clients := internal.Group("/clients")
		{
			clients.GET("/:clientId/records", handlers.GetClientRecords)
			clients.GET("/:clientId/records/closest", handlers.GetClosestGroup)
		}

		stats := internal.Group("/stats")
		{
			stats.GET("/masters", handlers.GetMasterStats)
			stats.GET("/export", handlers.ExportMasterStats)
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")
	retentionSweeper.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := telShutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Telemetry forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

func initLogger(cfg config.Logging) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "visits-service").Logger()
	return &logger
}

func setupMiddleware(router *gin.Engine, logger *zerolog.Logger) {
	router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", c.Writer.Status()).
			Dur("latency", latency).
			Str("ip", c.ClientIP()).
			Msg("HTTP request")
	})
}
