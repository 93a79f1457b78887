package calendar

// Registry maps ecosystem names to their adapter implementations.
// Registration happens once at startup; lookups are read-only afterwards.
type Registry struct {
	adapters map[string]Adapter
}

func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register binds an adapter to an ecosystem name (e.g. "ics_feed").
func (r *Registry) Register(ecosystem string, a Adapter) {
	r.adapters[ecosystem] = a
}

// Get returns the adapter for an ecosystem, or ErrUnknownEcosystem.
func (r *Registry) Get(ecosystem string) (Adapter, error) {
	a, ok := r.adapters[ecosystem]
	if !ok {
		return nil, ErrUnknownEcosystem
	}
	return a, nil
}

// Ecosystems lists the registered ecosystem names.
func (r *Registry) Ecosystems() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	return names
}
