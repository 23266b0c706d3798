package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"inference-service/internal/core/domain"
)

// mapDomainError translates domain errors to stable HTTP responses. Internal
// failures get a generic message; the wrapped detail stays in the logs.
func mapDomainError(c *gin.Context, err error) {
	switch {
	// Not found
	case errors.Is(err, domain.ErrModelNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrModelNotFound.Error()})

	// Forbidden
	case errors.Is(err, domain.ErrFeatureNotLicensed),
		errors.Is(err, domain.ErrLicenseInvalid):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})

	// Bad request / validation
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrInvalidModelName):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	// Timeout
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request timed out"})

	// Load failures are operator-facing but safe to name.
	case errors.Is(err, domain.ErrModelLoad):
		c.JSON(http.StatusInternalServerError, gin.H{"error": domain.ErrModelLoad.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
