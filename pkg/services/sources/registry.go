package sources

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/de-tools/profit-atlas/pkg/services/config"
	"github.com/de-tools/profit-atlas/pkg/services/profitability"
)

// LoaderFactory builds a loader for one source profile.
type LoaderFactory func(ctx context.Context, profile config.SourceProfile, settings config.Settings) (profitability.Loader, error)

// Registry manages loader factories by source type
type Registry interface {
	// Register adds a new source type
	Register(sourceType string, factory LoaderFactory) error
	// Create instantiates a loader for the profile's source type
	Create(ctx context.Context, profile config.SourceProfile, settings config.Settings) (profitability.Loader, error)
	// ListTypes returns the registered source types
	ListTypes() []string
}

type registry struct {
	mu        sync.RWMutex
	factories map[string]LoaderFactory
}

func NewRegistry(factories map[string]LoaderFactory) Registry {
	r := &registry{
		factories: make(map[string]LoaderFactory),
	}
	for t, f := range factories {
		r.factories[t] = f
	}
	return r
}

func (r *registry) Register(sourceType string, factory LoaderFactory) error {
	if sourceType == "" {
		return fmt.Errorf("source type cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[sourceType]; exists {
		return fmt.Errorf("source type %q is already registered", sourceType)
	}

	r.factories[sourceType] = factory
	return nil
}

func (r *registry) Create(ctx context.Context, profile config.SourceProfile, settings config.Settings) (profitability.Loader, error) {
	r.mu.RLock()
	factory, exists := r.factories[profile.Type]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("source type %q is not registered", profile.Type)
	}

	return factory(ctx, profile, settings)
}

func (r *registry) ListTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
