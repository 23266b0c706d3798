package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"inference-service/internal/core/domain"
)

func testPolicy() LicensePolicy {
	return LicensePolicy{
		MinKeyLength: 20,
		GrantPeriod:  30 * 24 * time.Hour,
		CacheTTL:     5 * time.Minute,
		Features:     []string{domain.FeatureDemandForecasting, domain.FeatureFraudDetection},
	}
}

const validKey = "0123456789abcdefghijklmnop" // 26 chars

func TestVerify_ValidKey(t *testing.T) {
	svc := NewLicenseService(testPolicy())

	grant := svc.Verify(validKey)

	assert.True(t, grant.Valid)
	assert.True(t, svc.CanUse(grant, domain.FeatureDemandForecasting))
	assert.True(t, svc.CanUse(grant, domain.FeatureFraudDetection))
	assert.False(t, svc.CanUse(grant, domain.FeatureDynamicPricing))
}

func TestVerify_ShortKeyFailsClosed(t *testing.T) {
	svc := NewLicenseService(testPolicy())

	for _, key := range []string{"", "short", "exactly-twenty-chars"} {
		grant := svc.Verify(key)
		assert.False(t, grant.Valid, "key %q", key)
		assert.False(t, svc.CanUse(grant, domain.FeatureDemandForecasting), "key %q", key)
		assert.False(t, svc.CanUse(grant, domain.FeatureFraudDetection), "key %q", key)
	}
}

func TestVerify_FallbackKey(t *testing.T) {
	policy := testPolicy()
	policy.FallbackKey = validKey
	svc := NewLicenseService(policy)

	grant := svc.Verify("")
	assert.True(t, grant.Valid)
}

func TestCanUse_ExpiryEvaluatedAtCallTime(t *testing.T) {
	svc := NewLicenseService(testPolicy())

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	grant := svc.Verify(validKey)
	assert.True(t, svc.CanUse(grant, domain.FeatureDemandForecasting))

	// The grant object is unchanged; only the clock moved.
	svc.now = func() time.Time { return grant.ExpiresAt.Add(-time.Second) }
	assert.True(t, svc.CanUse(grant, domain.FeatureDemandForecasting))

	svc.now = func() time.Time { return grant.ExpiresAt }
	assert.False(t, svc.CanUse(grant, domain.FeatureDemandForecasting))

	svc.now = func() time.Time { return grant.ExpiresAt.Add(time.Hour) }
	assert.False(t, svc.CanUse(grant, domain.FeatureDemandForecasting))
}

func TestVerify_GrantCache(t *testing.T) {
	svc := NewLicenseService(testPolicy())

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	first := svc.Verify(validKey)

	// Within TTL the cached grant (same expiry) comes back.
	svc.now = func() time.Time { return base.Add(time.Minute) }
	second := svc.Verify(validKey)
	assert.Equal(t, first.ExpiresAt, second.ExpiresAt)

	// After TTL the grant is recomputed with a fresh expiry.
	svc.now = func() time.Time { return base.Add(10 * time.Minute) }
	third := svc.Verify(validKey)
	assert.True(t, third.ExpiresAt.After(first.ExpiresAt))
}
