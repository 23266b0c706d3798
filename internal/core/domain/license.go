package domain

import "time"

// Feature identifiers gated by the license.
const (
	FeatureDemandForecasting     = "demand_forecasting"
	FeatureDynamicPricing        = "dynamic_pricing"
	FeatureGuestChurn            = "guest_churn"
	FeatureFraudDetection        = "fraud_detection"
	FeatureMaintenancePrediction = "maintenance_prediction"
)

// LicenseGrant is the outcome of verifying a presented license key. An
// invalid grant carries no entitlements and a zero expiry.
type LicenseGrant struct {
	Valid        bool
	ExpiresAt    time.Time
	Entitlements map[string]bool
}

// CanUseAt reports whether the grant permits a feature at the given instant.
// Expiry is evaluated against the instant, not against verification time: a
// grant held in memory can go stale mid-session.
func (g LicenseGrant) CanUseAt(feature string, at time.Time) bool {
	if !g.Valid {
		return false
	}
	if !g.ExpiresAt.IsZero() && !at.Before(g.ExpiresAt) {
		return false
	}
	return g.Entitlements[feature]
}
