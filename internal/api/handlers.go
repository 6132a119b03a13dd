package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sentistack/sentiment-engine/internal/classifier"
	"github.com/sentistack/sentiment-engine/internal/models"
	"github.com/sentistack/sentiment-engine/internal/services"
)

// Handler binds the prediction service to HTTP routes.
type Handler struct {
	service *services.PredictionService
	logger  *slog.Logger
}

// NewHandler constructs the route handler.
func NewHandler(service *services.PredictionService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Register attaches all routes to the router.
func (h *Handler) Register(router *gin.Engine) {
	router.GET("/", h.root)
	router.GET("/health", h.health)
	router.GET("/metrics", h.metrics)

	v1 := router.Group("/api/v1")
	v1.POST("/predict", h.predict)
	v1.POST("/predict/batch", h.predictBatch)
	v1.POST("/metrics/reset", h.resetMetrics)
}

func (h *Handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "sentiment-engine",
		"version": services.Version,
		"endpoints": gin.H{
			"health":        "/health",
			"metrics":       "/metrics",
			"predict":       "/api/v1/predict",
			"predict_batch": "/api/v1/predict/batch",
		},
	})
}

func (h *Handler) health(c *gin.Context) {
	resp := h.service.Health()
	status := http.StatusOK
	if !resp.ModelLoaded {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

func (h *Handler) metrics(c *gin.Context) {
	resp, err := h.service.Metrics()
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) predict(c *gin.Context) {
	var req models.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.RequestID == "" {
		req.RequestID = c.GetString(requestIDKey)
	}

	resp, err := h.service.Predict(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) predictBatch(c *gin.Context) {
	var req models.BatchPredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.RequestID == "" {
		req.RequestID = c.GetString(requestIDKey)
	}

	resp, err := h.service.PredictBatch(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) resetMetrics(c *gin.Context) {
	h.service.ResetMetrics()
	c.JSON(http.StatusOK, gin.H{"message": "metrics reset"})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, classifier.ErrNotLoaded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "model not loaded"})
	default:
		h.logger.Error("request failed",
			slog.String("path", c.Request.URL.Path), slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "prediction failed"})
	}
}
