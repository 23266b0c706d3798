package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"inference-service/internal/adapters/primary/http/dto"
)

func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.requestTimeout <= 0 {
		return c.Request.Context(), func() {}
	}
	return context.WithTimeout(c.Request.Context(), h.requestTimeout)
}

func (h *Handler) PredictDemand(c *gin.Context) {
	var req dto.ForecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	resp, err := h.predictSvc.Forecast(ctx, licenseKey(c), req.ToDomain())
	if err != nil {
		log.WithError(err).Error("demand prediction failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToForecastResponse(resp))
}

func (h *Handler) PredictPricing(c *gin.Context) {
	var req dto.PricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	resp, err := h.predictSvc.Pricing(ctx, licenseKey(c), req.ToDomain())
	if err != nil {
		log.WithError(err).Error("pricing prediction failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPricingResponse(resp))
}

func (h *Handler) PredictFraud(c *gin.Context) {
	var req dto.FraudRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	resp, err := h.predictSvc.Fraud(ctx, licenseKey(c), req.ToDomain())
	if err != nil {
		log.WithError(err).Error("fraud detection failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFraudResponse(resp))
}

func (h *Handler) PredictChurn(c *gin.Context) {
	var req dto.ChurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	resp, err := h.predictSvc.Churn(ctx, licenseKey(c), req.ToDomain())
	if err != nil {
		log.WithError(err).Error("churn prediction failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToChurnResponse(resp))
}
