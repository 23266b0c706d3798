package ports

import (
	"context"

	"inference-service/internal/core/domain"
)

// ArtifactStore reads persisted model artifacts. Implementations return
// domain.ErrModelNotFound when nothing is persisted under the name and
// domain.ErrModelLoad when the persisted artifact cannot be decoded or its
// metadata is missing or malformed.
type ArtifactStore interface {
	// Load reads and decodes the full artifact, scoring payload included.
	Load(ctx context.Context, name string) (*domain.ModelArtifact, error)

	// Metadata reads only the metadata document. Used by the status report
	// so that listing models never forces a scoring payload into memory.
	Metadata(ctx context.Context, name string) (*domain.ModelMetadata, error)
}
