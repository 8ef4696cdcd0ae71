package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"genesis-backend/internal/config"
	"genesis-backend/internal/gateway"
	"genesis-backend/internal/generator"
	"genesis-backend/internal/handler"
	"genesis-backend/internal/render"
	"genesis-backend/internal/sandbox"
	"genesis-backend/internal/service"
	"genesis-backend/internal/storage"
	"genesis-backend/internal/telemetry"
	"genesis-backend/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./configs/config.yaml", "path to the config file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		var cerr *config.ConfigurationError
		if errors.As(err, &cerr) {
			fmt.Fprintln(os.Stderr, cerr.Error())
			os.Exit(1)
		}
		log.Fatalf("Invalid config: %v", err)
	}

	var file *logger.FileOptions
	if cfg.Log.File != "" {
		file = &logger.FileOptions{
			Path:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		}
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, file); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	tel, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		logger.Fatalf("Failed to init telemetry: %v", err)
	}

	store := storage.New(cfg.Storage)
	sessions := service.NewSessionService(store, cfg.Session)
	go sessions.Run(ctx)

	gen, err := generator.New(ctx, cfg, generator.WithTelemetry(tel))
	if err != nil {
		logger.Fatalf("Failed to init generator: %v", err)
	}
	pipeline := render.NewPipeline(sandbox.NewExecutor(cfg.Sandbox.Timeout), render.WithTelemetry(tel))
	gw := gateway.New(cfg.Gateway, gen, sessions, gateway.WithTelemetry(tel))

	handlers := &handler.Handlers{
		Generate:    handler.NewGenerateHandler(gen, sessions, gw),
		Compile:     handler.NewCompileHandler(pipeline),
		Session:     handler.NewSessionHandler(sessions, gw),
		Gateway:     gw,
		GatewayPath: cfg.Gateway.Path,
	}
	router := setupRouter(cfg, handlers)

	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		logger.Infof("Server listening on port %d (storage %s, env %s)", cfg.Server.Port, cfg.Storage.Type, cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	gw.Shutdown()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	if err := tel.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Telemetry flush failed: %v", err)
	}
	if err := store.Close(); err != nil {
		logger.Errorf("Storage close failed: %v", err)
	}
	logger.Info("Server stopped")
}

func setupRouter(cfg *config.Config, handlers *handler.Handlers) *gin.Engine {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(handler.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           time.Duration(cfg.CORS.MaxAge) * time.Second,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Unix(),
		})
	})

	handlers.Mount(router)
	return router
}
