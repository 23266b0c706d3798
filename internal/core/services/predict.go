package services

import (
	"context"
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"inference-service/internal/core/domain"
	"inference-service/internal/metrics"
)

const (
	// Confidence fallbacks when the artifact carries no test MAPE.
	defaultForecastConfidence = 0.15
	defaultPricingConfidence  = 0.12

	// Baseline price when the caller supplies none.
	defaultCurrentPrice = 150.0

	// Pricing clamp bounds relative to the current price.
	priceFloorFactor = 0.8
	priceCeilFactor  = 1.3

	// Fraud decision thresholds.
	fraudProbabilityFlag    = 0.5
	fraudProbabilityBlock   = 0.7
	defaultAnomalyThreshold = 0.7

	// Churn segmentation thresholds.
	churnHighThreshold   = 0.7
	churnMediumThreshold = 0.4
)

// PredictionService runs the per-domain prediction pipelines. Every domain
// shares one skeleton: authorize, fetch artifact, assemble vector, score,
// post-process. Authorization short-circuits before any model I/O so a
// rejected request never pays load cost. Handlers are stateless across
// requests; the registry and the grant cache are the only shared state.
type PredictionService struct {
	licenses *LicenseService
	registry *ModelRegistry
	m        *metrics.Metrics
	now      func() time.Time
}

func NewPredictionService(licenses *LicenseService, registry *ModelRegistry, m *metrics.Metrics) *PredictionService {
	return &PredictionService{
		licenses: licenses,
		registry: registry,
		m:        m,
		now:      time.Now,
	}
}

// Forecast predicts demand. The response value is the raw model output;
// confidence is the recorded test-set MAPE.
func (s *PredictionService) Forecast(ctx context.Context, licenseKey string, req domain.ForecastRequest) (*domain.ForecastResponse, error) {
	defer s.observe(domain.DomainForecast, time.Now())

	artifact, err := s.authorize(ctx, licenseKey, domain.DomainForecast)
	if err != nil {
		return nil, err
	}

	if artifact.Scorer.Regressor == nil {
		return nil, s.fail(domain.DomainForecast, fmt.Errorf("%w: %s has no regressor", domain.ErrPrediction, artifact.Name))
	}

	vec := domain.AssembleFeatures(artifact.FeatureSchema, req.Features)
	value := artifact.Scorer.Regressor.Predict(vec)

	confidence := defaultForecastConfidence
	if mape, ok := artifact.Metric("test_mape"); ok {
		confidence = mape
	}

	s.m.PredictionsTotal.WithLabelValues(string(domain.DomainForecast), "ok").Inc()
	return &domain.ForecastResponse{
		PropertyID:    req.PropertyID,
		RoomType:      req.RoomType,
		ForecastValue: value,
		Confidence:    confidence,
		ModelVersion:  artifact.Version,
		Timestamp:     s.now(),
	}, nil
}

// Pricing recommends a price. The raw prediction is clamped to
// [current*0.8, current*1.3] before being reported.
func (s *PredictionService) Pricing(ctx context.Context, licenseKey string, req domain.PricingRequest) (*domain.PricingResponse, error) {
	defer s.observe(domain.DomainPricing, time.Now())

	artifact, err := s.authorize(ctx, licenseKey, domain.DomainPricing)
	if err != nil {
		return nil, err
	}

	if artifact.Scorer.Regressor == nil {
		return nil, s.fail(domain.DomainPricing, fmt.Errorf("%w: %s has no regressor", domain.ErrPrediction, artifact.Name))
	}

	currentPrice := defaultCurrentPrice
	if req.CurrentPrice != nil {
		currentPrice = *req.CurrentPrice
	}
	if currentPrice == 0 {
		return nil, s.fail(domain.DomainPricing, fmt.Errorf("%w: zero price baseline", domain.ErrPrediction))
	}

	vec := domain.AssembleFeatures(artifact.FeatureSchema, req.Features)
	raw := artifact.Scorer.Regressor.Predict(vec)

	recommended := math.Max(currentPrice*priceFloorFactor, math.Min(currentPrice*priceCeilFactor, raw))
	changePercent := (recommended - currentPrice) / currentPrice * 100

	confidence := defaultPricingConfidence
	if mape, ok := artifact.Metric("test_mape"); ok {
		confidence = mape
	}

	occupancy := occupancyValue(req.Features["occupancy_rate"])

	s.m.PredictionsTotal.WithLabelValues(string(domain.DomainPricing), "ok").Inc()
	return &domain.PricingResponse{
		PropertyID:         req.PropertyID,
		RoomType:           req.RoomType,
		CurrentPrice:       currentPrice,
		RecommendedPrice:   round2(recommended),
		PriceChangePercent: round2(changePercent),
		Confidence:         confidence,
		Reasoning:          fmt.Sprintf("Based on occupancy (%g) and competitor pricing", occupancy),
		ModelVersion:       artifact.Version,
		Timestamp:          s.now(),
	}, nil
}

// Fraud scores a transaction by combining a supervised probability with an
// anomaly score. Either model may be absent from the artifact; a missing
// model contributes zero.
func (s *PredictionService) Fraud(ctx context.Context, licenseKey string, req domain.FraudRequest) (*domain.FraudResponse, error) {
	defer s.observe(domain.DomainFraud, time.Now())

	artifact, err := s.authorize(ctx, licenseKey, domain.DomainFraud)
	if err != nil {
		return nil, err
	}

	vec := domain.AssembleFeatures(artifact.FeatureSchema, req.Features)

	probability := 0.0
	if artifact.Scorer.Classifier != nil {
		probability = artifact.Scorer.Classifier.PredictProba(vec)
	}

	anomaly := 0.0
	if artifact.Scorer.Anomaly != nil {
		anomaly = -artifact.Scorer.Anomaly.ScoreSample(vec)
	}

	threshold := defaultAnomalyThreshold
	if artifact.AnomalyThreshold != nil {
		threshold = *artifact.AnomalyThreshold
	}

	flagged := probability > fraudProbabilityFlag || anomaly > threshold

	action := "accept"
	switch {
	case probability > fraudProbabilityBlock:
		action = "block"
	case flagged:
		action = "review"
	}

	reasons := []string{}
	if flagged {
		reasons = []string{"high_amount", "geo_mismatch"}
	}

	s.m.PredictionsTotal.WithLabelValues(string(domain.DomainFraud), "ok").Inc()
	return &domain.FraudResponse{
		TransactionID:     req.TransactionID,
		FraudProbability:  round2(probability * 100),
		AnomalyScore:      round3(anomaly),
		FraudFlag:         flagged,
		RecommendedAction: action,
		Reasons:           reasons,
		ModelVersion:      artifact.Version,
		Timestamp:         s.now(),
	}, nil
}

// Churn scores a guest and maps the probability to a risk segment with a
// fixed recommendation table.
func (s *PredictionService) Churn(ctx context.Context, licenseKey string, req domain.ChurnRequest) (*domain.ChurnResponse, error) {
	defer s.observe(domain.DomainChurn, time.Now())

	artifact, err := s.authorize(ctx, licenseKey, domain.DomainChurn)
	if err != nil {
		return nil, err
	}

	if artifact.Scorer.Classifier == nil {
		return nil, s.fail(domain.DomainChurn, fmt.Errorf("%w: %s has no classifier", domain.ErrPrediction, artifact.Name))
	}

	vec := domain.AssembleFeatures(artifact.FeatureSchema, req.Features)
	probability := artifact.Scorer.Classifier.PredictProba(vec)

	segment := "low"
	switch {
	case probability > churnHighThreshold:
		segment = "high"
	case probability > churnMediumThreshold:
		segment = "medium"
	}

	s.m.PredictionsTotal.WithLabelValues(string(domain.DomainChurn), "ok").Inc()
	return &domain.ChurnResponse{
		GuestID:            req.GuestID,
		ChurnProbability:   round2(probability * 100),
		RiskSegment:        segment,
		RecommendedActions: churnRecommendations(segment),
		ModelVersion:       artifact.Version,
		Timestamp:          s.now(),
	}, nil
}

// authorize runs the shared front of the pipeline: entitlement check first,
// artifact fetch second. The order is fixed; authorization must reject
// before any load I/O happens.
func (s *PredictionService) authorize(ctx context.Context, licenseKey string, d domain.PredictionDomain) (*domain.ModelArtifact, error) {
	entry, ok := catalogEntry(d)
	if !ok {
		s.m.PredictionsTotal.WithLabelValues(string(d), "error").Inc()
		return nil, fmt.Errorf("%w: unknown domain %q", domain.ErrInvalidRequest, d)
	}

	grant := s.licenses.Verify(licenseKey)
	if !s.licenses.CanUse(grant, entry.Feature) {
		s.m.PredictionsTotal.WithLabelValues(string(d), "forbidden").Inc()
		return nil, domain.ErrFeatureNotLicensed
	}

	artifact, err := s.registry.Get(ctx, entry.ModelName)
	if err != nil {
		s.m.PredictionsTotal.WithLabelValues(string(d), "error").Inc()
		return nil, err
	}
	return artifact, nil
}

func (s *PredictionService) fail(d domain.PredictionDomain, err error) error {
	s.m.PredictionsTotal.WithLabelValues(string(d), "error").Inc()
	log.WithError(err).WithField("domain", string(d)).Error("prediction failed")
	return err
}

func (s *PredictionService) observe(d domain.PredictionDomain, start time.Time) {
	s.m.PredictionDuration.WithLabelValues(string(d)).Observe(time.Since(start).Seconds())
}

func catalogEntry(d domain.PredictionDomain) (domain.CatalogEntry, bool) {
	for _, entry := range domain.Catalog {
		if entry.Domain == d {
			return entry, true
		}
	}
	return domain.CatalogEntry{}, false
}

func churnRecommendations(segment string) []domain.ChurnAction {
	switch segment {
	case "high":
		return []domain.ChurnAction{
			{Action: "loyalty_offer", Details: "Offer discount on next stay"},
			{Action: "personal_outreach", Details: "Manager to call guest"},
		}
	case "medium":
		return []domain.ChurnAction{
			{Action: "feedback_request", Details: "Ask for feedback to improve"},
		}
	default:
		return []domain.ChurnAction{}
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

// occupancyValue extracts the occupancy rate for the reasoning string,
// falling back to 0.5 when absent or non-numeric.
func occupancyValue(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	default:
		return 0.5
	}
}
