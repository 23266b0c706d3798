package services

import (
	"context"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"inference-service/internal/core/domain"
	ports "inference-service/internal/core/ports/output"
	"inference-service/internal/metrics"
)

// ModelRegistry caches model artifacts loaded from an injected store. A
// cached artifact is returned without touching storage until it is
// invalidated. Concurrent first access to an uncached name performs exactly
// one load; every waiter observes the same artifact or the same error. Load
// errors are not cached, so a later call retries the store.
type ModelRegistry struct {
	store ports.ArtifactStore
	m     *metrics.Metrics

	mu    sync.RWMutex
	cache map[string]*domain.ModelArtifact
	group singleflight.Group
}

func NewModelRegistry(store ports.ArtifactStore, m *metrics.Metrics) *ModelRegistry {
	return &ModelRegistry{
		store: store,
		m:     m,
		cache: make(map[string]*domain.ModelArtifact),
	}
}

// Get returns the artifact registered under name, loading it on first
// access. A caller whose context expires while a load is in flight gets the
// context error; the load itself continues on a detached context and
// populates the cache for later callers.
func (r *ModelRegistry) Get(ctx context.Context, name string) (*domain.ModelArtifact, error) {
	if name == "" {
		return nil, domain.ErrInvalidModelName
	}

	r.mu.RLock()
	artifact, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		return artifact, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(name, func() (any, error) {
		return r.load(loadCtx, name)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.ModelArtifact), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Invalidate drops a cached entry so the next Get reloads from storage.
// Requests already holding the old artifact finish against it; the swap is
// atomic from a reader's point of view.
func (r *ModelRegistry) Invalidate(name string) {
	r.mu.Lock()
	_, cached := r.cache[name]
	delete(r.cache, name)
	r.mu.Unlock()
	r.group.Forget(name)

	if cached {
		r.m.ModelsCached.Dec()
		log.WithField("model", name).Info("model cache invalidated")
	}
}

// LoadedNames lists the currently cached model names, sorted.
func (r *ModelRegistry) LoadedNames() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.cache))
	for name := range r.cache {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

func (r *ModelRegistry) load(ctx context.Context, name string) (*domain.ModelArtifact, error) {
	// A racing caller may have completed a load between this caller's cache
	// miss and its singleflight turn.
	r.mu.RLock()
	cached, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	artifact, err := r.store.Load(ctx, name)
	if err != nil {
		r.m.ModelLoadsTotal.WithLabelValues(name, "error").Inc()
		log.WithError(err).WithField("model", name).Error("model load failed")
		return nil, err
	}

	r.mu.Lock()
	r.cache[name] = artifact
	r.mu.Unlock()

	r.m.ModelLoadsTotal.WithLabelValues(name, "ok").Inc()
	r.m.ModelsCached.Inc()
	log.WithFields(log.Fields{"model": name, "version": artifact.Version}).Info("model loaded")

	return artifact, nil
}
