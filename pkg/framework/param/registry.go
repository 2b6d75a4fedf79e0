package param

import (
	"fmt"
	"strings"
	"sync"
)

// Registry manages processor parameters by ID and by name
type Registry struct {
	params map[uint32]*Parameter
	names  map[string]uint32
	order  []uint32 // Maintain order for indexed access
	mu     sync.RWMutex
}

// NewRegistry creates a new parameter registry
func NewRegistry() *Registry {
	return &Registry{
		params: make(map[uint32]*Parameter),
		names:  make(map[string]uint32),
		order:  make([]uint32, 0),
	}
}

// Add registers parameters. IDs and names (case-insensitive, both Name and
// ShortName) must be unique.
func (r *Registry) Add(params ...*Parameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range params {
		if _, exists := r.params[p.ID]; exists {
			return fmt.Errorf("parameter ID %d already exists", p.ID)
		}
		keys := []string{strings.ToLower(p.Name)}
		if short := strings.ToLower(p.ShortName); short != keys[0] {
			keys = append(keys, short)
		}
		for _, key := range keys {
			if _, exists := r.names[key]; exists {
				return fmt.Errorf("parameter name %q already exists", key)
			}
		}

		r.params[p.ID] = p
		r.order = append(r.order, p.ID)
		for _, key := range keys {
			r.names[key] = p.ID
		}
	}

	return nil
}

// Get retrieves a parameter by ID
func (r *Registry) Get(id uint32) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.params[id]
}

// GetByName retrieves a parameter by Name or ShortName, ignoring case
func (r *Registry) GetByName(name string) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.names[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil
	}
	return r.params[id]
}

// GetByIndex retrieves a parameter by index
func (r *Registry) GetByIndex(index int32) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index < 0 || index >= int32(len(r.order)) {
		return nil
	}
	return r.params[r.order[index]]
}

// Count returns the number of parameters
func (r *Registry) Count() int32 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int32(len(r.order))
}

// All returns all parameters in order
func (r *Registry) All() []*Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Parameter, len(r.order))
	for i, id := range r.order {
		result[i] = r.params[id]
	}
	return result
}

// Reset restores every parameter to its default
func (r *Registry) Reset() {
	for _, p := range r.All() {
		p.Reset()
	}
}
