package services

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"inference-service/internal/core/domain"
)

// LicensePolicy declares how keys are judged and what a valid key unlocks.
// The entitlement set comes from configuration, never from token content.
type LicensePolicy struct {
	// FallbackKey is used when a request presents no key of its own.
	FallbackKey  string
	MinKeyLength int
	GrantPeriod  time.Duration
	CacheTTL     time.Duration
	Features     []string
}

// LicenseService verifies license keys and answers entitlement checks. The
// current check is a deliberate placeholder for a real license server call;
// the contract it preserves is fail-closed: any verification failure or
// ambiguity yields a grant with no entitlements, never access. Substituting
// a production verification scheme means changing Verify only.
type LicenseService struct {
	policy LicensePolicy
	now    func() time.Time

	mu    sync.RWMutex
	cache map[string]cachedGrant
}

type cachedGrant struct {
	grant    domain.LicenseGrant
	cachedAt time.Time
}

func NewLicenseService(policy LicensePolicy) *LicenseService {
	return &LicenseService{
		policy: policy,
		now:    time.Now,
		cache:  make(map[string]cachedGrant),
	}
}

// Verify judges a license key and returns the resulting grant. Malformed or
// absent keys never produce an error, only an invalid grant. Grants are
// cached per key for the policy TTL; verification is idempotent and
// side-effect-free, so redundant recomputation under contention is fine.
func (s *LicenseService) Verify(key string) domain.LicenseGrant {
	if key == "" {
		key = s.policy.FallbackKey
	}
	if key == "" || len(key) <= s.policy.MinKeyLength {
		return domain.LicenseGrant{Valid: false}
	}

	if grant, ok := s.cachedGrant(key); ok {
		return grant
	}

	entitlements := make(map[string]bool, len(s.policy.Features))
	for _, f := range s.policy.Features {
		entitlements[f] = true
	}

	grant := domain.LicenseGrant{
		Valid:        true,
		ExpiresAt:    s.now().Add(s.policy.GrantPeriod),
		Entitlements: entitlements,
	}

	s.storeGrant(key, grant)

	prefix := key
	if len(prefix) > 10 {
		prefix = prefix[:10]
	}
	log.WithField("key_prefix", prefix).Info("license verified")

	return grant
}

// CanUse reports whether the grant permits a feature right now. Expiry is
// re-evaluated on every call: a grant held across requests can go stale.
func (s *LicenseService) CanUse(grant domain.LicenseGrant, feature string) bool {
	return grant.CanUseAt(feature, s.now())
}

func (s *LicenseService) cachedGrant(key string) (domain.LicenseGrant, bool) {
	if s.policy.CacheTTL <= 0 {
		return domain.LicenseGrant{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.cache[key]
	if !ok || s.now().Sub(entry.cachedAt) >= s.policy.CacheTTL {
		return domain.LicenseGrant{}, false
	}
	return entry.grant, true
}

func (s *LicenseService) storeGrant(key string, grant domain.LicenseGrant) {
	if s.policy.CacheTTL <= 0 {
		return
	}
	s.mu.Lock()
	s.cache[key] = cachedGrant{grant: grant, cachedAt: s.now()}
	s.mu.Unlock()
}
