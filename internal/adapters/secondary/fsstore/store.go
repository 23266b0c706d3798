// Package fsstore reads model artifacts from a local directory. Each model
// is a file pair under a shared name: <name>.model.json holds the scoring
// payload and <name>_metadata.json the descriptive metadata.
package fsstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"inference-service/internal/core/domain"
	ports "inference-service/internal/core/ports/output"
	"inference-service/internal/predictor"
)

type store struct {
	dir string
}

func New(dir string) ports.ArtifactStore {
	return &store{dir: dir}
}

type metadataFile struct {
	ModelVersion        string             `json:"model_version"`
	TrainingDate        string             `json:"training_date"`
	FeatureSchema       []string           `json:"feature_schema"`
	EvaluationMetrics   map[string]float64 `json:"evaluation_metrics"`
	UnsupervisedMetrics *struct {
		AnomalyThreshold float64 `json:"anomaly_threshold"`
	} `json:"unsupervised_metrics"`
}

func (s *store) Load(ctx context.Context, name string) (*domain.ModelArtifact, error) {
	payload, err := os.ReadFile(s.payloadPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrModelNotFound
		}
		return nil, fmt.Errorf("read payload for %s: %v: %w", name, err, domain.ErrModelLoad)
	}

	meta, err := s.readMetadata(name)
	if err != nil {
		return nil, err
	}

	bundle, err := predictor.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %v: %w", name, err, domain.ErrModelLoad)
	}

	return &domain.ModelArtifact{
		Name:          name,
		ModelMetadata: *meta,
		Scorer:        bundle,
		LoadedAt:      time.Now(),
	}, nil
}

func (s *store) Metadata(ctx context.Context, name string) (*domain.ModelMetadata, error) {
	// The payload must exist too; metadata alone is not a registered model.
	if _, err := os.Stat(s.payloadPath(name)); err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrModelNotFound
		}
		return nil, fmt.Errorf("stat payload for %s: %v: %w", name, err, domain.ErrModelLoad)
	}
	return s.readMetadata(name)
}

func (s *store) readMetadata(name string) (*domain.ModelMetadata, error) {
	raw, err := os.ReadFile(s.metadataPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("metadata missing for %s: %w", name, domain.ErrModelLoad)
		}
		return nil, fmt.Errorf("read metadata for %s: %v: %w", name, err, domain.ErrModelLoad)
	}

	var mf metadataFile
	if err := json.Unmarshal(raw, &mf); err != nil {
		return nil, fmt.Errorf("decode metadata for %s: %v: %w", name, err, domain.ErrModelLoad)
	}

	// Schema order is fixed at load time; an empty schema or version means
	// the artifact was packaged wrong, which is a deployment error.
	if mf.ModelVersion == "" || len(mf.FeatureSchema) == 0 {
		return nil, fmt.Errorf("metadata incomplete for %s: %w", name, domain.ErrModelLoad)
	}

	meta := &domain.ModelMetadata{
		Version:           mf.ModelVersion,
		TrainingDate:      mf.TrainingDate,
		FeatureSchema:     mf.FeatureSchema,
		EvaluationMetrics: mf.EvaluationMetrics,
	}
	if meta.EvaluationMetrics == nil {
		meta.EvaluationMetrics = map[string]float64{}
	}
	if mf.UnsupervisedMetrics != nil {
		threshold := mf.UnsupervisedMetrics.AnomalyThreshold
		meta.AnomalyThreshold = &threshold
	}
	return meta, nil
}

func (s *store) payloadPath(name string) string {
	return filepath.Join(s.dir, name+".model.json")
}

func (s *store) metadataPath(name string) string {
	return filepath.Join(s.dir, name+"_metadata.json")
}
