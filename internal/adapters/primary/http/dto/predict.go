package dto

import (
	"time"

	"inference-service/internal/core/domain"
)

// One request variant per prediction domain. Feature maps stay loosely
// typed; the assembler tolerates missing and malformed entries.

type ForecastRequest struct {
	PropertyID string         `json:"property_id"`
	RoomType   string         `json:"room_type"`
	DaysAhead  int            `json:"days_ahead"`
	Features   map[string]any `json:"features"`
}

func (r ForecastRequest) ToDomain() domain.ForecastRequest {
	return domain.ForecastRequest{
		PropertyID: r.PropertyID,
		RoomType:   r.RoomType,
		DaysAhead:  r.DaysAhead,
		Features:   r.Features,
	}
}

type PricingRequest struct {
	PropertyID   string         `json:"property_id"`
	RoomType     string         `json:"room_type"`
	CurrentPrice *float64       `json:"current_price"`
	Features     map[string]any `json:"features"`
}

func (r PricingRequest) ToDomain() domain.PricingRequest {
	return domain.PricingRequest{
		PropertyID:   r.PropertyID,
		RoomType:     r.RoomType,
		CurrentPrice: r.CurrentPrice,
		Features:     r.Features,
	}
}

type FraudRequest struct {
	TransactionID string         `json:"transaction_id"`
	Features      map[string]any `json:"features"`
}

func (r FraudRequest) ToDomain() domain.FraudRequest {
	return domain.FraudRequest{
		TransactionID: r.TransactionID,
		Features:      r.Features,
	}
}

type ChurnRequest struct {
	GuestID  string         `json:"guest_id"`
	Features map[string]any `json:"features"`
}

func (r ChurnRequest) ToDomain() domain.ChurnRequest {
	return domain.ChurnRequest{
		GuestID:  r.GuestID,
		Features: r.Features,
	}
}

type ForecastResponse struct {
	PropertyID    string  `json:"property_id"`
	RoomType      string  `json:"room_type"`
	ForecastValue float64 `json:"forecast_value"`
	Confidence    float64 `json:"confidence"`
	ModelVersion  string  `json:"model_version"`
	Timestamp     string  `json:"timestamp"`
}

func ToForecastResponse(r *domain.ForecastResponse) ForecastResponse {
	return ForecastResponse{
		PropertyID:    r.PropertyID,
		RoomType:      r.RoomType,
		ForecastValue: r.ForecastValue,
		Confidence:    r.Confidence,
		ModelVersion:  r.ModelVersion,
		Timestamp:     r.Timestamp.Format(time.RFC3339),
	}
}

type PricingResponse struct {
	PropertyID         string  `json:"property_id"`
	RoomType           string  `json:"room_type"`
	CurrentPrice       float64 `json:"current_price"`
	RecommendedPrice   float64 `json:"recommended_price"`
	PriceChangePercent float64 `json:"price_change_percent"`
	Confidence         float64 `json:"confidence"`
	Reasoning          string  `json:"reasoning"`
	ModelVersion       string  `json:"model_version"`
	Timestamp          string  `json:"timestamp"`
}

func ToPricingResponse(r *domain.PricingResponse) PricingResponse {
	return PricingResponse{
		PropertyID:         r.PropertyID,
		RoomType:           r.RoomType,
		CurrentPrice:       r.CurrentPrice,
		RecommendedPrice:   r.RecommendedPrice,
		PriceChangePercent: r.PriceChangePercent,
		Confidence:         r.Confidence,
		Reasoning:          r.Reasoning,
		ModelVersion:       r.ModelVersion,
		Timestamp:          r.Timestamp.Format(time.RFC3339),
	}
}

type FraudResponse struct {
	TransactionID     string   `json:"transaction_id"`
	FraudProbability  float64  `json:"fraud_probability"`
	AnomalyScore      float64  `json:"anomaly_score"`
	FraudFlag         bool     `json:"fraud_flag"`
	RecommendedAction string   `json:"recommended_action"`
	Reasons           []string `json:"reasons"`
	ModelVersion      string   `json:"model_version"`
	Timestamp         string   `json:"timestamp"`
}

func ToFraudResponse(r *domain.FraudResponse) FraudResponse {
	return FraudResponse{
		TransactionID:     r.TransactionID,
		FraudProbability:  r.FraudProbability,
		AnomalyScore:      r.AnomalyScore,
		FraudFlag:         r.FraudFlag,
		RecommendedAction: r.RecommendedAction,
		Reasons:           r.Reasons,
		ModelVersion:      r.ModelVersion,
		Timestamp:         r.Timestamp.Format(time.RFC3339),
	}
}

type ChurnActionDTO struct {
	Action  string `json:"action"`
	Details string `json:"details"`
}

type ChurnResponse struct {
	GuestID            string           `json:"guest_id"`
	ChurnProbability   float64          `json:"churn_probability"`
	RiskSegment        string           `json:"risk_segment"`
	RecommendedActions []ChurnActionDTO `json:"recommended_actions"`
	ModelVersion       string           `json:"model_version"`
	Timestamp          string           `json:"timestamp"`
}

func ToChurnResponse(r *domain.ChurnResponse) ChurnResponse {
	actions := make([]ChurnActionDTO, 0, len(r.RecommendedActions))
	for _, a := range r.RecommendedActions {
		actions = append(actions, ChurnActionDTO{Action: a.Action, Details: a.Details})
	}
	return ChurnResponse{
		GuestID:            r.GuestID,
		ChurnProbability:   r.ChurnProbability,
		RiskSegment:        r.RiskSegment,
		RecommendedActions: actions,
		ModelVersion:       r.ModelVersion,
		Timestamp:          r.Timestamp.Format(time.RFC3339),
	}
}
