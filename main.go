package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"violation-report/config"
	"violation-report/handlers"
	"violation-report/metrics"
	"violation-report/report"
)

const (
	EndPointRoot           = "/"
	EndPointHealth         = "/health"
	EndPointMetrics        = "/metrics"
	EndPointGenerateReport = "/generate-report"
)

func main() {
	// Load configuration
	cfg := config.Load()
	config.SetupLogging(cfg.LogLevel, cfg.LogFormat)

	log.Info("Starting the violation report service...")

	metrics.Register()

	generator := report.NewGenerator(report.OptionsFromConfig(cfg))
	h := handlers.NewHandlers(generator, cfg.MaxRequestBytes)

	// Setup HTTP server
	router := setupRouter(cfg.AllowedOrigins, h)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Infof("Starting HTTP server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// In-flight builds get the fetch timeout plus a margin to finish.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ImageFetchTimeout+30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}

// setupRouter registers the service routes. The report endpoint is served
// both under /api/v3 and at the root path used by existing pipeline callers.
func setupRouter(allowedOrigins []string, h *handlers.Handlers) *gin.Engine {
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		AllowOrigins:     allowedOrigins,
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET(EndPointRoot, h.Root)
	router.GET(EndPointHealth, h.HealthCheck)
	router.GET(EndPointMetrics, gin.WrapH(promhttp.Handler()))
	router.POST(EndPointGenerateReport, h.GenerateReport)

	api := router.Group("/api/v3")
	{
		api.GET(EndPointHealth, h.HealthCheck)
		api.POST(EndPointGenerateReport, h.GenerateReport)
	}
	return router
}
