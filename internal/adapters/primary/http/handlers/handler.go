package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"inference-service/internal/core/services"
)

const headerLicenseKey = "X-License-Key"

type Handler struct {
	predictSvc *services.PredictionService
	statusSvc  *services.StatusService
	logSvc     *services.PredictionLogService
	licenses   *services.LicenseService
	registry   *services.ModelRegistry

	requestTimeout time.Duration
}

func New(
	predictSvc *services.PredictionService,
	statusSvc *services.StatusService,
	logSvc *services.PredictionLogService,
	licenses *services.LicenseService,
	registry *services.ModelRegistry,
	requestTimeout time.Duration,
) *Handler {
	return &Handler{
		predictSvc:     predictSvc,
		statusSvc:      statusSvc,
		logSvc:         logSvc,
		licenses:       licenses,
		registry:       registry,
		requestTimeout: requestTimeout,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	// Predictions
	r.POST("/predict/demand", h.PredictDemand)
	r.POST("/predict/pricing", h.PredictPricing)
	r.POST("/predict/fraud", h.PredictFraud)
	r.POST("/predict/churn", h.PredictChurn)

	// Model management
	r.GET("/models/status", h.ModelStatus)
	r.POST("/models/:name/invalidate", h.InvalidateModel)
	r.POST("/models/update", h.UpdateModels)

	// Analytics & monitoring
	r.POST("/analytics/log-prediction", h.LogPrediction)
	r.GET("/analytics/drift-status", h.DriftStatus)

	r.GET("/health", h.Health)
}

func licenseKey(c *gin.Context) string {
	return c.GetHeader(headerLicenseKey)
}
