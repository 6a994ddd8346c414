package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/repo-vetter/internal/api"
	"github.com/Kamar-Folarin/repo-vetter/internal/config"
	"github.com/Kamar-Folarin/repo-vetter/internal/engine"
	"github.com/Kamar-Folarin/repo-vetter/internal/github"
	"github.com/Kamar-Folarin/repo-vetter/internal/metrics"
)

// @title Repo Vetter API
// @version 1.0
// @description Legitimacy and innovation scoring for GitHub repositories
// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
	logger.SetOutput(os.Stdout)
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(level)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.GitHub.Token == "" {
		logger.Warn("GITHUB_TOKEN is not set, using the unauthenticated rate limit")
	}

	client := github.NewGitHubClientFromConfig(cfg.GitHub, logger)
	recorder := metrics.NewRecorder()
	eng := engine.New(client, cfg.Analysis, logger, engine.WithMetrics(recorder))

	gin.SetMode(gin.ReleaseMode)
	handler := api.NewHandler(eng, logger, cfg.RequestTimeout)
	router := api.SetupRouter(handler, recorder)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	logger.Info("Server exited properly")
}
