package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"inference-service/internal/core/domain"
)

// MockArtifactStore is a mock of ArtifactStore.
type MockArtifactStore struct {
	mock.Mock
}

func (m *MockArtifactStore) Load(ctx context.Context, name string) (*domain.ModelArtifact, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ModelArtifact), args.Error(1)
}

func (m *MockArtifactStore) Metadata(ctx context.Context, name string) (*domain.ModelMetadata, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ModelMetadata), args.Error(1)
}

// MockPredictionLogRepo is a mock of PredictionLogRepository.
type MockPredictionLogRepo struct {
	mock.Mock
}

func (m *MockPredictionLogRepo) Insert(ctx context.Context, rec *domain.PredictionRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

// StubRegressor returns a fixed value for any input.
type StubRegressor struct {
	Value float64
}

func (s StubRegressor) Predict(x []float64) float64 { return s.Value }

// StubClassifier returns a fixed probability for any input.
type StubClassifier struct {
	Probability float64
}

func (s StubClassifier) PredictProba(x []float64) float64 { return s.Probability }

// StubDetector returns a fixed per-sample score for any input.
type StubDetector struct {
	Score float64
}

func (s StubDetector) ScoreSample(x []float64) float64 { return s.Score }
