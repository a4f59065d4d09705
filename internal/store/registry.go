package store

import "fmt"

// Registry holds named Client instances, constructed explicitly and
// passed through the executor/validator rather than cached behind a
// package-level global (spec.md §9's "StoreRegistry" redesign
// guidance, generalizing the teacher's provider-factory registry
// pattern to be keyed by store name instead of provider type — Genesis
// drives exactly one store family but may run against several named
// targets, e.g. per-environment Vault mounts, in one process).
type Registry struct {
	clients map[string]Client
}

// NewRegistry returns an empty registry. Tests construct a fresh one
// per case instead of clearing a shared global.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]Client)}
}

// Register adds or replaces the client for name.
func (r *Registry) Register(name string, client Client) {
	r.clients[name] = client
}

// Get returns the client registered under name.
func (r *Registry) Get(name string) (Client, error) {
	client, ok := r.clients[name]
	if !ok {
		return nil, fmt.Errorf("no store registered under name %q", name)
	}
	return client, nil
}

// Names returns every registered store name.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	return names
}
