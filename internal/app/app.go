// Package app assembles the application and exposes the local HTTP gateway.
// In production the handler runs behind a managed GraphQL gateway via the
// Lambda entry; the gin router exists so the same core can be exercised
// locally with plain HTTP.
package app

import (
	"encoding/json"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/handler"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/shared/apperr"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/shared/config"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/utils/metrics"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/utils/middleware"
)

// Application holds the assembled components.
type Application struct {
	cfg     *config.Config
	handler *handler.Handler
	metrics *metrics.Metrics
	logger  *zap.Logger
	router  *gin.Engine
}

// NewApplication creates the application around an assembled handler.
func NewApplication(cfg *config.Config, h *handler.Handler, m *metrics.Metrics, logger *zap.Logger) *Application {
	a := &Application{
		cfg:     cfg,
		handler: h,
		metrics: m,
		logger:  logger,
	}
	a.router = a.buildRouter()
	return a
}

// Router returns the HTTP router.
func (a *Application) Router() http.Handler {
	return a.router
}

// Handler returns the core request handler, for entry points that bypass
// HTTP.
func (a *Application) Handler() *handler.Handler {
	return a.handler
}

// Stop flushes buffered log entries.
func (a *Application) Stop() {
	_ = a.logger.Sync()
}

func (a *Application) buildRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.Logging(a.logger))
	r.Use(middleware.Metrics(a.metrics))
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/graphql", middleware.ClaimsExtractor(), a.serveOperation)

	return r
}

// serveOperation adapts the HTTP shape to the core's request record. The
// identity claims come from the bearer token, not the request body, so a
// caller cannot impersonate by posting a claims bag.
func (a *Application) serveOperation(c *gin.Context) {
	var body struct {
		Operation string          `json:"operation"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"kind": apperr.KindValidation, "message": "malformed request body"},
		})
		return
	}

	result, err := a.handler.Handle(c.Request.Context(), handler.Request{
		Operation: body.Operation,
		Arguments: body.Arguments,
		Identity:  middleware.ClaimsFromContext(c),
	})
	if err != nil {
		appErr := apperr.Normalize(err)
		c.JSON(statusFor(appErr.Kind), gin.H{
			"error": gin.H{"kind": appErr.Kind, "message": appErr.Message},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindAuthorization:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
