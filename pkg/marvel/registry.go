package marvel

import (
	"sort"
	"sync"
)

// Resource kinds served by the gateway.
const (
	KindCharacters = "characters"
	KindComics     = "comics"
	KindCreators   = "creators"
	KindEvents     = "events"
	KindSeries     = "series"
	KindStories    = "stories"
)

// Factory wraps a resource in a model variant. The variant must share the
// resource rather than copy it.
type Factory func(resource *Resource) Entity

// Registry maps resource kinds to model variants. Kinds without a factory
// stay generic *Resource values.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a registry preloaded with the built-in variants.
func NewRegistry() *Registry {
	registry := &Registry{factories: make(map[string]Factory)}
	registry.Register(KindCharacters, func(r *Resource) Entity { return &Character{Resource: r} })
	registry.Register(KindComics, func(r *Resource) Entity { return &Comic{Resource: r} })
	registry.Register(KindCreators, func(r *Resource) Entity { return &Creator{Resource: r} })
	registry.Register(KindStories, func(r *Resource) Entity { return &Story{Resource: r} })

	return registry
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the registry used by fetchers without their own.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

func registryFor(fetcher *Fetcher) *Registry {
	if fetcher == nil || fetcher.registry == nil {
		return defaultRegistry
	}

	return fetcher.registry
}

// Register adds or replaces the factory for kind.
func (r *Registry) Register(kind string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[kind] = factory
}

// Lookup returns the factory for kind.
func (r *Registry) Lookup(kind string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[kind]

	return factory, ok
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.factories))
	for kind := range r.factories {
		kinds = append(kinds, kind)
	}

	sort.Strings(kinds)

	return kinds
}

// Upgrade wraps resource in the variant for its own resource type.
func (r *Registry) Upgrade(resource *Resource) Entity {
	kind, err := resource.ResourceType()
	if err != nil {
		return resource
	}

	return r.UpgradeAs(resource, kind)
}

// UpgradeAs wraps resource in the variant registered for kind.
func (r *Registry) UpgradeAs(resource *Resource, kind string) Entity {
	factory, ok := r.Lookup(kind)
	if !ok {
		return resource
	}

	return factory(resource)
}
