package domain

import "errors"

// ============================================================================
// Registry Errors
// ============================================================================

var (
	ErrModelNotFound = errors.New("model not found")
	ErrModelLoad     = errors.New("model artifact failed to load")
)

// ============================================================================
// License Errors
// ============================================================================

var (
	ErrLicenseInvalid     = errors.New("license not valid")
	ErrFeatureNotLicensed = errors.New("feature not available in your license")
)

// ============================================================================
// Validation Errors
// ============================================================================

var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrInvalidModelName = errors.New("model name is required")
)

// ============================================================================
// Prediction Errors
// ============================================================================

// ErrPrediction covers scoring and post-processing failures. Internal detail
// is attached via wrapping for logs and must not reach the response body.
var ErrPrediction = errors.New("prediction failed")
