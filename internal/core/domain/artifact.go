package domain

import "time"

// Regressor produces a point estimate from an ordered feature vector.
type Regressor interface {
	Predict(x []float64) float64
}

// Classifier produces the positive-class probability for a feature vector.
type Classifier interface {
	PredictProba(x []float64) float64
}

// AnomalyDetector scores a sample the way sklearn's score_samples does:
// higher means more normal. Callers negate the score to get an anomaly
// measure where higher means more anomalous.
type AnomalyDetector interface {
	ScoreSample(x []float64) float64
}

// ScoringBundle holds the callables decoded from a model payload. Which
// fields are set depends on the model: regressors for forecast/pricing, a
// classifier for churn, and a classifier/detector pair for fraud (either of
// which may be absent).
type ScoringBundle struct {
	Regressor  Regressor
	Classifier Classifier
	Anomaly    AnomalyDetector
}

// ModelMetadata is the descriptive half of a model artifact, read from the
// metadata document that accompanies every scoring payload.
type ModelMetadata struct {
	Version           string
	TrainingDate      string
	FeatureSchema     []string
	EvaluationMetrics map[string]float64

	// AnomalyThreshold is the stored 95th-percentile training score for
	// fraud models; nil when the metadata carries no unsupervised metrics.
	AnomalyThreshold *float64
}

// Metric returns a named evaluation metric.
func (m *ModelMetadata) Metric(name string) (float64, bool) {
	v, ok := m.EvaluationMetrics[name]
	return v, ok
}

// ModelArtifact is a loaded model plus its metadata. Immutable once loaded;
// owned by the registry and shared read-only with request handlers.
type ModelArtifact struct {
	Name string
	ModelMetadata

	Scorer   ScoringBundle
	LoadedAt time.Time
}
