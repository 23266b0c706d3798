// Package predictor decodes scoring payloads into callable models. A payload
// is a JSON document describing the trained parameters; the shapes mirror
// what the training pipelines export: a top-level model (with an optional
// standard scaler for churn) or, for fraud, a supervised_model plus an
// isolation_forest-style detector.
package predictor

import (
	"encoding/json"
	"fmt"
	"math"

	"inference-service/internal/core/domain"
)

const (
	TypeLinear   = "linear"
	TypeLogistic = "logistic"
	TypeGaussian = "gaussian"
)

type modelSpec struct {
	Type         string    `json:"type"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	Scaler       *scalerSpec `json:"scaler,omitempty"`
}

type scalerSpec struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

type anomalySpec struct {
	Type   string    `json:"type"`
	Mean   []float64 `json:"mean"`
	Scale  []float64 `json:"scale"`
	Offset float64   `json:"offset"`
}

type payload struct {
	Model           *modelSpec   `json:"model,omitempty"`
	Scaler          *scalerSpec  `json:"scaler,omitempty"`
	SupervisedModel *modelSpec   `json:"supervised_model,omitempty"`
	IsolationForest *anomalySpec `json:"isolation_forest,omitempty"`
}

// Decode parses a scoring payload into a bundle of callables. An empty or
// unrecognized payload is a decode error; a fraud payload may legitimately
// carry only one of its two models.
func Decode(raw []byte) (domain.ScoringBundle, error) {
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.ScoringBundle{}, fmt.Errorf("decode payload: %w", err)
	}

	var bundle domain.ScoringBundle

	if p.Model != nil {
		scaler := p.Model.Scaler
		if scaler == nil {
			scaler = p.Scaler
		}
		switch p.Model.Type {
		case TypeLinear:
			bundle.Regressor = newLinear(p.Model, scaler)
		case TypeLogistic:
			bundle.Classifier = newLogistic(p.Model, scaler)
		default:
			return domain.ScoringBundle{}, fmt.Errorf("unknown model type %q", p.Model.Type)
		}
	}

	if p.SupervisedModel != nil {
		if p.SupervisedModel.Type != TypeLogistic {
			return domain.ScoringBundle{}, fmt.Errorf("unknown supervised model type %q", p.SupervisedModel.Type)
		}
		bundle.Classifier = newLogistic(p.SupervisedModel, p.SupervisedModel.Scaler)
	}

	if p.IsolationForest != nil {
		if p.IsolationForest.Type != "" && p.IsolationForest.Type != TypeGaussian {
			return domain.ScoringBundle{}, fmt.Errorf("unknown anomaly model type %q", p.IsolationForest.Type)
		}
		bundle.Anomaly = &Gaussian{
			Mean:   p.IsolationForest.Mean,
			Scale:  p.IsolationForest.Scale,
			Offset: p.IsolationForest.Offset,
		}
	}

	if bundle.Regressor == nil && bundle.Classifier == nil && bundle.Anomaly == nil {
		return domain.ScoringBundle{}, fmt.Errorf("payload declares no model")
	}

	return bundle, nil
}

// Linear is a linear model: dot(coefficients, x) + intercept.
type Linear struct {
	Coefficients []float64
	Intercept    float64
	Scaler       *Scaler
}

func newLinear(spec *modelSpec, scaler *scalerSpec) *Linear {
	return &Linear{
		Coefficients: spec.Coefficients,
		Intercept:    spec.Intercept,
		Scaler:       newScaler(scaler),
	}
}

func (m *Linear) Predict(x []float64) float64 {
	if m.Scaler != nil {
		x = m.Scaler.Transform(x)
	}
	return dot(m.Coefficients, x) + m.Intercept
}

// Logistic is a logistic-regression classifier; PredictProba returns the
// positive-class probability.
type Logistic struct {
	Coefficients []float64
	Intercept    float64
	Scaler       *Scaler
}

func newLogistic(spec *modelSpec, scaler *scalerSpec) *Logistic {
	return &Logistic{
		Coefficients: spec.Coefficients,
		Intercept:    spec.Intercept,
		Scaler:       newScaler(scaler),
	}
}

func (m *Logistic) PredictProba(x []float64) float64 {
	if m.Scaler != nil {
		x = m.Scaler.Transform(x)
	}
	z := dot(m.Coefficients, x) + m.Intercept
	return 1.0 / (1.0 + math.Exp(-z))
}

// Scaler is a standard scaler: (x - mean) / scale, per position.
type Scaler struct {
	Mean  []float64
	Scale []float64
}

func newScaler(spec *scalerSpec) *Scaler {
	if spec == nil {
		return nil
	}
	return &Scaler{Mean: spec.Mean, Scale: spec.Scale}
}

func (s *Scaler) Transform(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		m, sc := 0.0, 1.0
		if i < len(s.Mean) {
			m = s.Mean[i]
		}
		if i < len(s.Scale) && s.Scale[i] != 0 {
			sc = s.Scale[i]
		}
		out[i] = (v - m) / sc
	}
	return out
}

// Gaussian scores samples by mean absolute z-score against the training
// distribution. ScoreSample follows the score_samples convention: higher
// means more normal, so Offset minus the deviation. Callers negate the
// result to obtain an anomaly score comparable to the stored threshold.
type Gaussian struct {
	Mean   []float64
	Scale  []float64
	Offset float64
}

func (g *Gaussian) ScoreSample(x []float64) float64 {
	if len(x) == 0 {
		return g.Offset
	}
	var sum float64
	for i, v := range x {
		m, sc := 0.0, 1.0
		if i < len(g.Mean) {
			m = g.Mean[i]
		}
		if i < len(g.Scale) && g.Scale[i] != 0 {
			sc = g.Scale[i]
		}
		sum += math.Abs((v - m) / sc)
	}
	return g.Offset - sum/float64(len(x))
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
