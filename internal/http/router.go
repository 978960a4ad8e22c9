// Package httpapi wires the ops HTTP transport (Gin) to the application
// services. The bot itself talks to Telegram; this surface exists for
// operators: liveness, Prometheus metrics, and a read-only request lookup.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/timaholls/tg-info-S3Disk/internal/config"
	"github.com/timaholls/tg-info-S3Disk/internal/domain"
	"github.com/timaholls/tg-info-S3Disk/internal/http/handlers"
	"github.com/timaholls/tg-info-S3Disk/internal/http/middleware"
	"github.com/timaholls/tg-info-S3Disk/internal/repo"
	"github.com/timaholls/tg-info-S3Disk/internal/services"
)

// requestRepoShim adapts the repo free functions to the services.RequestRepo
// interface expected by RequestService.
type requestRepoShim struct{}

func (requestRepoShim) CreateRequest(ctx context.Context, db *gorm.DB, in domain.CreateRequestInput) (domain.CreateResult, error) {
	return repo.CreateRequest(ctx, db, in)
}

func (requestRepoShim) LatestRequest(ctx context.Context, db *gorm.DB, telegramID string) (*domain.Request, error) {
	return repo.LatestRequest(ctx, db, telegramID)
}

// RegisterRoutes attaches middleware and endpoints to the Gin engine.
//
// Middleware order:
//  1. OpenTelemetry tracing
//  2. RequestID correlation
//  3. Structured logging
//  4. Panic recovery
//  5. Metrics
//  6. CORS
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"GET", "OPTIONS"},
			AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:   []string{"X-Request-ID", "Content-Length"},
			MaxAge:          12 * time.Hour,
		}))
	} else {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.CORS.AllowedOrigins,
			AllowMethods:  []string{"GET", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders: []string{"X-Request-ID", "Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	reqSvc := services.NewRequestService(db, requestRepoShim{})
	h := handlers.New(reqSvc)

	api := r.Group("/api/v1")
	{
		api.GET("/requests/:identity", h.GetLatestRequest)
	}
}
