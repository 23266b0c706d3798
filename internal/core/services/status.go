package services

import (
	"context"
	"errors"
	"time"

	"inference-service/internal/core/domain"
	ports "inference-service/internal/core/ports/output"
)

// StatusService reports license state and per-model availability. It reads
// metadata directly from the store rather than through the registry, so
// listing models never pulls scoring payloads into the cache.
type StatusService struct {
	licenses *LicenseService
	store    ports.ArtifactStore
	now      func() time.Time
}

func NewStatusService(licenses *LicenseService, store ports.ArtifactStore) *StatusService {
	return &StatusService{
		licenses: licenses,
		store:    store,
		now:      time.Now,
	}
}

// Status walks the model catalog and reports every model persisted on disk.
// Models without artifacts are skipped; availability reflects the presented
// license at call time.
func (s *StatusService) Status(ctx context.Context, licenseKey string) (*domain.StatusReport, error) {
	grant := s.licenses.Verify(licenseKey)

	report := &domain.StatusReport{
		LicenseValid: grant.Valid,
		Models:       make([]domain.ModelStatus, 0, len(domain.Catalog)),
		Timestamp:    s.now(),
	}
	if grant.Valid && !grant.ExpiresAt.IsZero() {
		expires := grant.ExpiresAt
		report.LicenseExpires = &expires
	}

	for _, entry := range domain.Catalog {
		meta, err := s.store.Metadata(ctx, entry.ModelName)
		if err != nil {
			if errors.Is(err, domain.ErrModelNotFound) {
				continue
			}
			return nil, err
		}

		report.Models = append(report.Models, domain.ModelStatus{
			Name:         entry.ModelName,
			Version:      meta.Version,
			TrainingDate: meta.TrainingDate,
			Available:    s.licenses.CanUse(grant, entry.Feature),
			Metrics:      meta.EvaluationMetrics,
		})
	}

	return report, nil
}
