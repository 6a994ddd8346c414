package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/Kamar-Folarin/repo-vetter/internal/metrics"

	_ "github.com/Kamar-Folarin/repo-vetter/docs"
)

// @title Repo Vetter API
// @version 1.0
// @description Legitimacy and innovation scoring for GitHub repositories
// @contact.name API Support
// @contact.url http://github.com/Kamar-Folarin
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// SetupRouter configures the API routes and middleware
func SetupRouter(h *Handler, recorder *metrics.Recorder) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", h.Health)
	if recorder != nil {
		r.GET("/metrics", gin.WrapH(recorder.Handler()))
	}
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/analyze", h.Analyze)
		v1.POST("/analyze/batch", h.AnalyzeBatch)
		v1.GET("/repos/:owner/:repo/report", h.GetReport)
		v1.GET("/signatures", h.ListSignatures)
		v1.GET("/strategies", h.ListStrategies)
	}

	return r
}

func requestLogger(h *Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.WithFields(logrus.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Debug("Handled request")
	}
}
