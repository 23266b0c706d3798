package ports

import (
	"context"

	"inference-service/internal/core/domain"
)

// PredictionLogRepository persists monitoring records. Writes happen on a
// background worker; implementations may be slow but must not be wired
// directly into the request path.
type PredictionLogRepository interface {
	Insert(ctx context.Context, rec *domain.PredictionRecord) error
}
