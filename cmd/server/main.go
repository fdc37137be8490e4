package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/segyhp/upn-qr/internal/config"
	"github.com/segyhp/upn-qr/internal/handler"
	"github.com/segyhp/upn-qr/internal/logger"
	"github.com/segyhp/upn-qr/internal/render"
	"github.com/segyhp/upn-qr/internal/repository"
	"github.com/segyhp/upn-qr/internal/service"
	"github.com/segyhp/upn-qr/internal/validation"
	customError "github.com/segyhp/upn-qr/pkg/errors"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.Logging.Level, cfg.LogFormat())
	slog.SetDefault(log)

	// Load schema
	schema, err := validation.ResolveSchema(cfg.Schema.Path, cfg.Schema.Strict)
	if err != nil {
		err = customError.WrapSchemaLoad(cfg.Schema.Path, err)
		log.Error("failed to load schema", "code", customError.Code(err), "error", err)
		os.Exit(1)
	}

	validator, err := validation.New(schema, validation.DefaultFormats())
	if err != nil {
		err = customError.WrapSchemaLoad(cfg.Schema.Path, err)
		log.Error("failed to compile schema", "code", customError.Code(err), "error", err)
		os.Exit(1)
	}

	// Initialize rasterizer
	opts := cfg.RenderOptions()
	qr, err := render.NewQRRasterizer(opts)
	if err != nil {
		log.Error("invalid QR options", "error", err)
		os.Exit(1)
	}

	var rasterizer render.Rasterizer = qr
	var images repository.ImageRepository
	if cfg.CacheEnabled() {
		redisClient := initRedis(cfg)
		defer redisClient.Close()

		images = repository.NewImageRepository(redisClient)
		rasterizer = render.NewCachedRasterizer(qr, images, cfg.Redis.CacheTTL, opts.Key(), log)
		log.Info("render cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
	} else if cfg.IsProduction() {
		log.Warn("render cache disabled, every request renders a new image")
	}

	// Initialize service
	upnService := service.NewUPNService(validator, rasterizer, log)
	upnHandler := handler.NewUPNHandler(upnService, log)
	healthHandler := handler.NewHealthHandler(schema.Title, images)

	// Setup routes
	router := handler.NewRouter(upnHandler, healthHandler, log)

	// Start server
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server starting", "addr", server.Addr, "env", cfg.Server.Env, "schema", schema.Title)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server exited")
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}
