// Package registry maps resource names to the ordered set of provider
// endpoints that can serve them. Pure lookup — no I/O. Endpoint templates are
// validated at registration time so an unresolvable URL can never reach the
// network layer.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrUnknownResource is returned by Resolve for unregistered resource names.
var ErrUnknownResource = errors.New("unknown resource")

// Endpoint is one provider's way of serving a resource. Static configuration,
// read-only at runtime. Priority orders the attempt sequence (ascending).
type Endpoint struct {
	Provider    string
	URLTemplate string            // {param} placeholders, substituted per request
	Headers     map[string]string
	Query       map[string]string // secret query params, appended at request time and kept out of logs
	Timeout     time.Duration
	Priority    int
	MaxAttempts int
	Backoff     time.Duration
}

type entry struct {
	params    map[string]bool
	endpoints []Endpoint
}

// Registry holds the resource → endpoints table. Safe for concurrent reads
// after registration is complete.
type Registry struct {
	resources map[string]*entry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{resources: make(map[string]*entry)}
}

// Register adds endpoints for a resource. params declares the parameter names
// callers may supply; any endpoint whose template references a placeholder
// outside that set is rejected here rather than producing a broken URL later.
func (r *Registry) Register(name string, params []string, endpoints ...Endpoint) error {
	if name == "" {
		return fmt.Errorf("resource name must not be empty")
	}
	if len(endpoints) == 0 {
		return fmt.Errorf("resource %q: at least one endpoint required", name)
	}

	known := make(map[string]bool, len(params))
	for _, p := range params {
		known[p] = true
	}

	for _, ep := range endpoints {
		if ep.Provider == "" {
			return fmt.Errorf("resource %q: endpoint missing provider", name)
		}
		placeholders, err := templatePlaceholders(ep.URLTemplate)
		if err != nil {
			return fmt.Errorf("resource %q provider %q: %w", name, ep.Provider, err)
		}
		for _, ph := range placeholders {
			if !known[ph] {
				return fmt.Errorf("resource %q provider %q: template references undeclared parameter %q",
					name, ep.Provider, ph)
			}
		}
	}

	sorted := make([]Endpoint, len(endpoints))
	copy(sorted, endpoints)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority < sorted[j].Priority })

	r.resources[name] = &entry{params: known, endpoints: sorted}
	return nil
}

// MustRegister is Register for static tables built at startup.
func (r *Registry) MustRegister(name string, params []string, endpoints ...Endpoint) {
	if err := r.Register(name, params, endpoints...); err != nil {
		panic(err)
	}
}

// Resolve returns the endpoints for a resource, ordered by ascending priority.
func (r *Registry) Resolve(name string) ([]Endpoint, error) {
	e, ok := r.resources[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownResource, name)
	}
	out := make([]Endpoint, len(e.endpoints))
	copy(out, e.endpoints)
	return out, nil
}

// Params returns the declared parameter names for a resource.
func (r *Registry) Params(name string) ([]string, error) {
	e, ok := r.resources[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownResource, name)
	}
	out := make([]string, 0, len(e.params))
	for p := range e.params {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

// Resources returns all registered resource names, sorted.
func (r *Registry) Resources() []string {
	names := make([]string, 0, len(r.resources))
	for name := range r.resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Providers returns the distinct provider IDs across all resources, sorted.
func (r *Registry) Providers() []string {
	seen := make(map[string]bool)
	for _, e := range r.resources {
		for _, ep := range e.endpoints {
			seen[ep.Provider] = true
		}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// templatePlaceholders extracts {name} placeholders from a URL template and
// rejects unbalanced or empty braces.
func templatePlaceholders(template string) ([]string, error) {
	var out []string
	rest := template
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			if strings.IndexByte(rest, '}') >= 0 {
				return nil, fmt.Errorf("unbalanced brace in template %q", template)
			}
			return out, nil
		}
		closing := strings.IndexByte(rest[open:], '}')
		if closing < 0 {
			return nil, fmt.Errorf("unbalanced brace in template %q", template)
		}
		name := rest[open+1 : open+closing]
		if name == "" {
			return nil, fmt.Errorf("empty placeholder in template %q", template)
		}
		out = append(out, name)
		rest = rest[open+closing+1:]
	}
}
