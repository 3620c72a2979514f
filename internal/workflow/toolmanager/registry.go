package toolmanager

import (
	"fmt"

	"github.com/Cyclone1070/wisemcp/internal/tool"
)

// Registry is the immutable catalogue of tool descriptors, in registration order.
type Registry struct {
	descriptors []tool.Descriptor
	index       map[tool.Name]int
}

// NewRegistry validates every descriptor and rejects duplicate names.
func NewRegistry(descriptors ...tool.Descriptor) (*Registry, error) {
	r := &Registry{
		descriptors: make([]tool.Descriptor, 0, len(descriptors)),
		index:       make(map[tool.Name]int, len(descriptors)),
	}
	for _, d := range descriptors {
		if err := d.Check(); err != nil {
			return nil, err
		}
		if _, dup := r.index[d.Name]; dup {
			return nil, fmt.Errorf("tool %s registered twice", d.Name)
		}
		r.index[d.Name] = len(r.descriptors)
		r.descriptors = append(r.descriptors, d)
	}
	return r, nil
}

// Describe returns all descriptors in registration order.
func (r *Registry) Describe() []tool.Descriptor {
	out := make([]tool.Descriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}

// Resolve looks a descriptor up by name.
func (r *Registry) Resolve(name string) (tool.Descriptor, bool) {
	i, ok := r.index[tool.Name(name)]
	if !ok {
		return tool.Descriptor{}, false
	}
	return r.descriptors[i], true
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []tool.Name {
	names := make([]tool.Name, len(r.descriptors))
	for i, d := range r.descriptors {
		names[i] = d.Name
	}
	return names
}
