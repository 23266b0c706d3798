package domain

// PredictionDomain tags a prediction request with the model family it
// targets.
type PredictionDomain string

const (
	DomainForecast PredictionDomain = "forecast"
	DomainPricing  PredictionDomain = "pricing"
	DomainFraud    PredictionDomain = "fraud"
	DomainChurn    PredictionDomain = "churn"
)

// CatalogEntry binds a prediction domain to the model it is served by and
// the license feature that gates it.
type CatalogEntry struct {
	Domain    PredictionDomain
	ModelName string
	Feature   string
}

// Catalog is the fixed domain/model/entitlement mapping. Order matters for
// the status report, which lists models in catalog order.
var Catalog = []CatalogEntry{
	{Domain: DomainForecast, ModelName: "demand_forecast", Feature: FeatureDemandForecasting},
	{Domain: DomainPricing, ModelName: "dynamic_pricing", Feature: FeatureDynamicPricing},
	{Domain: DomainFraud, ModelName: "fraud_detection", Feature: FeatureFraudDetection},
	{Domain: DomainChurn, ModelName: "guest_churn", Feature: FeatureGuestChurn},
}

// ForecastRequest asks for a demand forecast. Features is a loosely typed
// map; names the model's schema does not mention are ignored and missing
// names default to zero during assembly.
type ForecastRequest struct {
	PropertyID string
	RoomType   string
	DaysAhead  int
	Features   map[string]any
}

// PricingRequest asks for a price recommendation. CurrentPrice is the clamp
// baseline; nil means the caller did not supply one and the default baseline
// applies.
type PricingRequest struct {
	PropertyID   string
	RoomType     string
	CurrentPrice *float64
	Features     map[string]any
}

// FraudRequest asks for a fraud score on a single transaction.
type FraudRequest struct {
	TransactionID string
	Features      map[string]any
}

// ChurnRequest asks for a churn score on a single guest.
type ChurnRequest struct {
	GuestID  string
	Features map[string]any
}
