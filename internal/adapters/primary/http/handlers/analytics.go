package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"inference-service/internal/adapters/primary/http/dto"
)

// LogPrediction accepts a monitoring record from the host application. The
// response is an ack; persistence happens in the background and must never
// fail or delay the caller.
func (h *Handler) LogPrediction(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := h.logSvc.Log(body)
	c.JSON(http.StatusOK, dto.LogPredictionResponse{Status: "logged", ID: id})
}

// DriftStatus is a stub for drift analysis, which runs outside this daemon.
func (h *Handler) DriftStatus(c *gin.Context) {
	c.JSON(http.StatusOK, dto.DriftStatusResponse{
		ModelsDriftDetected: []string{},
		RequiresRetraining:  false,
		NextCheck:           time.Now().Add(6 * time.Hour).Format(time.RFC3339),
	})
}
