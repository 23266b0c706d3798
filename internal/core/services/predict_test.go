package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"inference-service/internal/core/domain"
	"inference-service/internal/metrics"
	"inference-service/internal/testutil"
)

func permissivePolicy() LicensePolicy {
	return LicensePolicy{
		MinKeyLength: 20,
		GrantPeriod:  30 * 24 * time.Hour,
		Features: []string{
			domain.FeatureDemandForecasting,
			domain.FeatureDynamicPricing,
			domain.FeatureGuestChurn,
			domain.FeatureFraudDetection,
		},
	}
}

func newPredictionService(store *testutil.MockArtifactStore, policy LicensePolicy) *PredictionService {
	m := metrics.New(nil)
	return NewPredictionService(NewLicenseService(policy), NewModelRegistry(store, m), m)
}

func regressorArtifact(name string, value float64, evalMetrics map[string]float64) *domain.ModelArtifact {
	if evalMetrics == nil {
		evalMetrics = map[string]float64{}
	}
	return &domain.ModelArtifact{
		Name: name,
		ModelMetadata: domain.ModelMetadata{
			Version:           "v1",
			FeatureSchema:     []string{"occupancy_rate", "avg_rate"},
			EvaluationMetrics: evalMetrics,
		},
		Scorer:   domain.ScoringBundle{Regressor: testutil.StubRegressor{Value: value}},
		LoadedAt: time.Now(),
	}
}

func ptr(v float64) *float64 { return &v }

func TestForecast_RawValueAndMAPEConfidence(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	store.On("Load", mock.Anything, "demand_forecast").
		Return(regressorArtifact("demand_forecast", 42.5, map[string]float64{"test_mape": 0.08}), nil)

	svc := newPredictionService(store, permissivePolicy())

	resp, err := svc.Forecast(context.Background(), validKey, domain.ForecastRequest{
		PropertyID: "prop_001",
		RoomType:   "Deluxe King",
		Features:   map[string]any{"occupancy_rate": 0.65},
	})
	require.NoError(t, err)

	assert.InDelta(t, 42.5, resp.ForecastValue, 1e-9)
	assert.InDelta(t, 0.08, resp.Confidence, 1e-9)
	assert.Equal(t, "v1", resp.ModelVersion)
	assert.Equal(t, "prop_001", resp.PropertyID)
}

func TestForecast_ConfidenceFallback(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	store.On("Load", mock.Anything, "demand_forecast").
		Return(regressorArtifact("demand_forecast", 10.0, nil), nil)

	svc := newPredictionService(store, permissivePolicy())

	resp, err := svc.Forecast(context.Background(), validKey, domain.ForecastRequest{})
	require.NoError(t, err)
	assert.InDelta(t, 0.15, resp.Confidence, 1e-9)
}

func TestForecast_ForbiddenBeforeAnyLoad(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	policy := permissivePolicy()
	policy.Features = []string{domain.FeatureDynamicPricing} // no forecasting

	svc := newPredictionService(store, policy)

	_, err := svc.Forecast(context.Background(), validKey, domain.ForecastRequest{})
	assert.ErrorIs(t, err, domain.ErrFeatureNotLicensed)
	store.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
}

func TestForecast_ShortKeyForbidden(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	svc := newPredictionService(store, permissivePolicy())

	_, err := svc.Forecast(context.Background(), "short", domain.ForecastRequest{})
	assert.ErrorIs(t, err, domain.ErrFeatureNotLicensed)
	store.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
}

func TestForecast_NotFoundPropagates(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	store.On("Load", mock.Anything, "demand_forecast").Return(nil, domain.ErrModelNotFound)

	svc := newPredictionService(store, permissivePolicy())

	_, err := svc.Forecast(context.Background(), validKey, domain.ForecastRequest{})
	assert.ErrorIs(t, err, domain.ErrModelNotFound)
}

func TestPricing_ClampCeiling(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	store.On("Load", mock.Anything, "dynamic_pricing").
		Return(regressorArtifact("dynamic_pricing", 200.0, nil), nil)

	svc := newPredictionService(store, permissivePolicy())

	resp, err := svc.Pricing(context.Background(), validKey, domain.PricingRequest{
		CurrentPrice: ptr(100.0),
	})
	require.NoError(t, err)

	assert.InDelta(t, 130.0, resp.RecommendedPrice, 1e-9)
	assert.InDelta(t, 30.0, resp.PriceChangePercent, 1e-9)
	assert.InDelta(t, 100.0, resp.CurrentPrice, 1e-9)
}

func TestPricing_ClampFloor(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	store.On("Load", mock.Anything, "dynamic_pricing").
		Return(regressorArtifact("dynamic_pricing", 10.0, nil), nil)

	svc := newPredictionService(store, permissivePolicy())

	resp, err := svc.Pricing(context.Background(), validKey, domain.PricingRequest{
		CurrentPrice: ptr(100.0),
	})
	require.NoError(t, err)

	assert.InDelta(t, 80.0, resp.RecommendedPrice, 1e-9)
	assert.InDelta(t, -20.0, resp.PriceChangePercent, 1e-9)
}

func TestPricing_WithinBoundsUnclamped(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	store.On("Load", mock.Anything, "dynamic_pricing").
		Return(regressorArtifact("dynamic_pricing", 111.115, nil), nil)

	svc := newPredictionService(store, permissivePolicy())

	resp, err := svc.Pricing(context.Background(), validKey, domain.PricingRequest{
		CurrentPrice: ptr(100.0),
	})
	require.NoError(t, err)

	assert.InDelta(t, 111.12, resp.RecommendedPrice, 1e-9)
	assert.InDelta(t, 11.11, resp.PriceChangePercent, 1e-9)
}

func TestPricing_DefaultBaseline(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	store.On("Load", mock.Anything, "dynamic_pricing").
		Return(regressorArtifact("dynamic_pricing", 500.0, nil), nil)

	svc := newPredictionService(store, permissivePolicy())

	resp, err := svc.Pricing(context.Background(), validKey, domain.PricingRequest{})
	require.NoError(t, err)

	// Absent baseline defaults to 150; ceiling is 195.
	assert.InDelta(t, 150.0, resp.CurrentPrice, 1e-9)
	assert.InDelta(t, 195.0, resp.RecommendedPrice, 1e-9)
}

func TestPricing_ZeroBaselineIsInternalError(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	store.On("Load", mock.Anything, "dynamic_pricing").
		Return(regressorArtifact("dynamic_pricing", 100.0, nil), nil)

	svc := newPredictionService(store, permissivePolicy())

	_, err := svc.Pricing(context.Background(), validKey, domain.PricingRequest{
		CurrentPrice: ptr(0.0),
	})
	assert.ErrorIs(t, err, domain.ErrPrediction)
}

func fraudArtifact(p float64, anomalyScore float64, threshold *float64) *domain.ModelArtifact {
	return &domain.ModelArtifact{
		Name: "fraud_detection",
		ModelMetadata: domain.ModelMetadata{
			Version:           "v1",
			FeatureSchema:     []string{"amount"},
			EvaluationMetrics: map[string]float64{},
			AnomalyThreshold:  threshold,
		},
		Scorer: domain.ScoringBundle{
			Classifier: testutil.StubClassifier{Probability: p},
			// ScoreSample follows score_samples: the anomaly score reported
			// downstream is its negation.
			Anomaly: testutil.StubDetector{Score: -anomalyScore},
		},
		LoadedAt: time.Now(),
	}
}

func TestFraud_BlockOnHighProbability(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	store.On("Load", mock.Anything, "fraud_detection").
		Return(fraudArtifact(0.8, 0.1, ptr(0.7)), nil)

	svc := newPredictionService(store, permissivePolicy())

	resp, err := svc.Fraud(context.Background(), validKey, domain.FraudRequest{TransactionID: "txn_123"})
	require.NoError(t, err)

	assert.True(t, resp.FraudFlag)
	assert.Equal(t, "block", resp.RecommendedAction)
	assert.InDelta(t, 80.0, resp.FraudProbability, 1e-9)
	assert.Equal(t, []string{"high_amount", "geo_mismatch"}, resp.Reasons)
}

func TestFraud_ReviewOnAnomalyAboveThreshold(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	store.On("Load", mock.Anything, "fraud_detection").
		Return(fraudArtifact(0.6, 0.9, ptr(0.7)), nil)

	svc := newPredictionService(store, permissivePolicy())

	resp, err := svc.Fraud(context.Background(), validKey, domain.FraudRequest{})
	require.NoError(t, err)

	assert.True(t, resp.FraudFlag)
	assert.Equal(t, "review", resp.RecommendedAction)
	assert.InDelta(t, 0.9, resp.AnomalyScore, 1e-9)
}

func TestFraud_AcceptWhenClean(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	store.On("Load", mock.Anything, "fraud_detection").
		Return(fraudArtifact(0.1, 0.2, ptr(0.7)), nil)

	svc := newPredictionService(store, permissivePolicy())

	resp, err := svc.Fraud(context.Background(), validKey, domain.FraudRequest{})
	require.NoError(t, err)

	assert.False(t, resp.FraudFlag)
	assert.Equal(t, "accept", resp.RecommendedAction)
	assert.Empty(t, resp.Reasons)
}

func TestFraud_ThresholdFallback(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	// No stored threshold: the 0.7 fallback applies, and 0.75 trips it.
	store.On("Load", mock.Anything, "fraud_detection").
		Return(fraudArtifact(0.2, 0.75, nil), nil)

	svc := newPredictionService(store, permissivePolicy())

	resp, err := svc.Fraud(context.Background(), validKey, domain.FraudRequest{})
	require.NoError(t, err)
	assert.True(t, resp.FraudFlag)
	assert.Equal(t, "review", resp.RecommendedAction)
}

func TestFraud_MissingModelsContributeZero(t *testing.T) {
	artifact := fraudArtifact(0, 0, ptr(0.7))
	artifact.Scorer = domain.ScoringBundle{}
	store := new(testutil.MockArtifactStore)
	store.On("Load", mock.Anything, "fraud_detection").Return(artifact, nil)

	svc := newPredictionService(store, permissivePolicy())

	resp, err := svc.Fraud(context.Background(), validKey, domain.FraudRequest{})
	require.NoError(t, err)
	assert.False(t, resp.FraudFlag)
	assert.Equal(t, "accept", resp.RecommendedAction)
	assert.Zero(t, resp.FraudProbability)
	assert.Zero(t, resp.AnomalyScore)
}

func churnArtifact(p float64) *domain.ModelArtifact {
	return &domain.ModelArtifact{
		Name: "guest_churn",
		ModelMetadata: domain.ModelMetadata{
			Version:           "v2",
			FeatureSchema:     []string{"feedback_score"},
			EvaluationMetrics: map[string]float64{},
		},
		Scorer:   domain.ScoringBundle{Classifier: testutil.StubClassifier{Probability: p}},
		LoadedAt: time.Now(),
	}
}

func TestChurn_Segments(t *testing.T) {
	cases := []struct {
		probability float64
		segment     string
		actions     int
	}{
		{0.75, "high", 2},
		{0.5, "medium", 1},
		{0.1, "low", 0},
		{0.7, "medium", 1},  // boundary is exclusive
		{0.4, "low", 0},     // boundary is exclusive
	}

	for _, tc := range cases {
		store := new(testutil.MockArtifactStore)
		store.On("Load", mock.Anything, "guest_churn").Return(churnArtifact(tc.probability), nil)

		svc := newPredictionService(store, permissivePolicy())

		resp, err := svc.Churn(context.Background(), validKey, domain.ChurnRequest{GuestID: "guest_123"})
		require.NoError(t, err)

		assert.Equal(t, tc.segment, resp.RiskSegment, "probability %v", tc.probability)
		assert.Len(t, resp.RecommendedActions, tc.actions, "probability %v", tc.probability)
		assert.InDelta(t, round2(tc.probability*100), resp.ChurnProbability, 1e-9)
	}
}

func TestChurn_HighSegmentActions(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	store.On("Load", mock.Anything, "guest_churn").Return(churnArtifact(0.9), nil)

	svc := newPredictionService(store, permissivePolicy())

	resp, err := svc.Churn(context.Background(), validKey, domain.ChurnRequest{})
	require.NoError(t, err)

	require.Len(t, resp.RecommendedActions, 2)
	assert.Equal(t, "loyalty_offer", resp.RecommendedActions[0].Action)
	assert.Equal(t, "personal_outreach", resp.RecommendedActions[1].Action)
}

func TestChurn_MissingClassifierIsInternalError(t *testing.T) {
	artifact := churnArtifact(0.5)
	artifact.Scorer = domain.ScoringBundle{}
	store := new(testutil.MockArtifactStore)
	store.On("Load", mock.Anything, "guest_churn").Return(artifact, nil)

	svc := newPredictionService(store, permissivePolicy())

	_, err := svc.Churn(context.Background(), validKey, domain.ChurnRequest{})
	assert.ErrorIs(t, err, domain.ErrPrediction)
}
