package domain

import "time"

// Responses are never mutated after construction.

type ForecastResponse struct {
	PropertyID    string
	RoomType      string
	ForecastValue float64
	Confidence    float64
	ModelVersion  string
	Timestamp     time.Time
}

type PricingResponse struct {
	PropertyID         string
	RoomType           string
	CurrentPrice       float64
	RecommendedPrice   float64
	PriceChangePercent float64
	Confidence         float64
	Reasoning          string
	ModelVersion       string
	Timestamp          time.Time
}

type FraudResponse struct {
	TransactionID     string
	FraudProbability  float64 // percentage, 2 decimals
	AnomalyScore      float64 // 3 decimals
	FraudFlag         bool
	RecommendedAction string // block | review | accept
	Reasons           []string
	ModelVersion      string
	Timestamp         time.Time
}

type ChurnAction struct {
	Action  string
	Details string
}

type ChurnResponse struct {
	GuestID            string
	ChurnProbability   float64 // percentage, 2 decimals
	RiskSegment        string  // high | medium | low
	RecommendedActions []ChurnAction
	ModelVersion       string
	Timestamp          time.Time
}

// ModelStatus is one entry of the status report.
type ModelStatus struct {
	Name         string
	Version      string
	TrainingDate string
	Available    bool
	Metrics      map[string]float64
}

// StatusReport describes the license and every cataloged model present on
// disk.
type StatusReport struct {
	LicenseValid   bool
	LicenseExpires *time.Time
	Models         []ModelStatus
	Timestamp      time.Time
}

// PredictionRecord is an opaque monitoring record accepted by the
// log-prediction hook.
type PredictionRecord struct {
	ID         string
	Body       map[string]any
	ReceivedAt time.Time
}
