package entrypoint

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"gopkg.in/ini.v1"
)

// ErrDuplicate signals a key registered twice within a group.
var ErrDuplicate = fmt.Errorf("duplicate entry point")

// Registry holds entry points indexed by group then key, preserving
// document order. Keys are unique within a group.
type Registry struct {
	groups  []string
	byGroup map[string]map[string]*EntryPoint
	order   map[string][]string
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{
		byGroup: make(map[string]map[string]*EntryPoint),
		order:   make(map[string][]string),
	}
}

// Add registers an entry point. Registering the same (group, name)
// twice is an error.
func (r *Registry) Add(ep *EntryPoint) error {
	if ep.Group == "" || ep.Name == "" {
		return fmt.Errorf("entry point with empty group or name: %v", ep)
	}
	group, ok := r.byGroup[ep.Group]
	if !ok {
		group = make(map[string]*EntryPoint)
		r.byGroup[ep.Group] = group
		r.groups = append(r.groups, ep.Group)
	}
	if _, exists := group[ep.Name]; exists {
		return fmt.Errorf("%q in group %q: %w", ep.Name, ep.Group, ErrDuplicate)
	}
	group[ep.Name] = ep
	r.order[ep.Group] = append(r.order[ep.Group], ep.Name)
	return nil
}

// Groups returns group names in document order
func (r *Registry) Groups() []string {
	out := make([]string, len(r.groups))
	copy(out, r.groups)
	return out
}

// Group returns the entry points of a group in document order
func (r *Registry) Group(name string) []*EntryPoint {
	eps := make([]*EntryPoint, 0, len(r.order[name]))
	for _, key := range r.order[name] {
		eps = append(eps, r.byGroup[name][key])
	}
	return eps
}

// Lookup returns the entry point registered under (group, name)
func (r *Registry) Lookup(group, name string) (*EntryPoint, bool) {
	ep, ok := r.byGroup[group][name]
	return ep, ok
}

// Len returns the total number of entry points
func (r *Registry) Len() int {
	n := 0
	for _, keys := range r.order {
		n += len(keys)
	}
	return n
}

// Parse reads an entry-point registry document
func Parse(r io.Reader) (*Registry, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parseBytes(b)
}

// ParseFile reads an entry-point registry document from a file
func ParseFile(fs afero.Fs, path string) (*Registry, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	reg, err := parseBytes(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

func parseBytes(b []byte) (*Registry, error) {
	// Shadowing keeps duplicate assignments around so they can be
	// reported instead of silently last-one-wins.
	f, err := ini.LoadSources(ini.LoadOptions{
		AllowShadows:             true,
		KeyValueDelimiters:       "=",
		SpaceBeforeInlineComment: true,
	}, b)
	if err != nil {
		return nil, fmt.Errorf("parsing entry-point registry: %w", err)
	}
	reg := NewRegistry()
	for _, section := range f.Sections() {
		group := section.Name()
		if group == ini.DefaultSection {
			if len(section.Keys()) > 0 {
				return nil, fmt.Errorf("entry %q appears before any group header",
					section.Keys()[0].Name())
			}
			continue
		}
		for _, key := range section.Keys() {
			if shadows := key.ValueWithShadows(); len(shadows) > 1 {
				return nil, fmt.Errorf("%q in group %q: %w", key.Name(), group, ErrDuplicate)
			}
			module, attrs, err := ParseRef(key.Value())
			if err != nil {
				return nil, fmt.Errorf("group %q, key %q: %w", group, key.Name(), err)
			}
			ep := &EntryPoint{
				Group:  group,
				Name:   key.Name(),
				Module: module,
				Attrs:  attrs,
			}
			if err := reg.Add(ep); err != nil {
				return nil, err
			}
		}
	}
	return reg, nil
}
