package favorites

import (
	"sort"
	"sync"

	"github.com/varoOP/shinkrolist/internal/domain"
)

// Registry tracks every rendered binding, grouped by the section that
// rendered it. Re-rendering a section replaces only that section's bindings.
type Registry struct {
	mu       sync.RWMutex
	sections map[string][]domain.Binding
}

func NewRegistry() *Registry {
	return &Registry{sections: make(map[string][]domain.Binding)}
}

func (r *Registry) Replace(section string, bindings []domain.Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(bindings) == 0 {
		delete(r.sections, section)
		return
	}
	r.sections[section] = append([]domain.Binding(nil), bindings...)
}

func (r *Registry) Clear(section string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sections, section)
}

// Section returns the bindings registered for section
func (r *Registry) Section(section string) []domain.Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Binding(nil), r.sections[section]...)
}

// Bindings returns every binding displaying malID, across all sections
func (r *Registry) Bindings(malID int) []domain.Binding {
	var out []domain.Binding
	r.Each(func(b domain.Binding) {
		if b.MalID() == malID {
			out = append(out, b)
		}
	})
	return out
}

// Each calls fn for every binding. fn runs without the registry lock held.
func (r *Registry) Each(fn func(domain.Binding)) {
	r.mu.RLock()
	names := make([]string, 0, len(r.sections))
	for name := range r.sections {
		names = append(names, name)
	}
	sort.Strings(names)

	var all []domain.Binding
	for _, name := range names {
		all = append(all, r.sections[name]...)
	}
	r.mu.RUnlock()

	for _, b := range all {
		fn(b)
	}
}

// Len returns the number of registered bindings
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, bs := range r.sections {
		n += len(bs)
	}
	return n
}
