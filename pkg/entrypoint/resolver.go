package entrypoint

import (
	"fmt"
)

// ErrUnresolved signals an entry point with no registered factory.
var ErrUnresolved = fmt.Errorf("unresolved entry point")

// Factory builds the implementation behind an entry point.
type Factory func(ep *EntryPoint) (interface{}, error)

// Resolver binds implementation references to factories. Registry
// values stay opaque strings until resolved here.
type Resolver struct {
	factories map[string]map[string]Factory
}

// NewResolver returns a resolver with no registered factories
func NewResolver() *Resolver {
	return &Resolver{factories: make(map[string]map[string]Factory)}
}

// Register binds the factory for an implementation reference within a
// group. Later registrations of the same (group, ref) override earlier
// ones.
func (r *Resolver) Register(group, ref string, f Factory) {
	group = canonGroup(group)
	refs, ok := r.factories[group]
	if !ok {
		refs = make(map[string]Factory)
		r.factories[group] = refs
	}
	refs[ref] = f
}

// Resolve returns the implementation behind an entry point, or an
// error wrapping ErrUnresolved when no factory is registered for its
// reference.
func (r *Resolver) Resolve(ep *EntryPoint) (interface{}, error) {
	f, ok := r.factories[canonGroup(ep.Group)][ep.Ref()]
	if !ok {
		return nil, fmt.Errorf("%q in group %q: %w", ep.Ref(), ep.Group, ErrUnresolved)
	}
	impl, err := f(ep)
	if err != nil {
		return nil, fmt.Errorf("resolving %q in group %q: %w", ep.Ref(), ep.Group, err)
	}
	return impl, nil
}

// ResolveName looks up (group, name) in reg and resolves it.
func (r *Resolver) ResolveName(reg *Registry, group, name string) (interface{}, error) {
	ep, ok := reg.Lookup(group, name)
	if !ok {
		return nil, fmt.Errorf("%q in group %q: %w", name, group, ErrUnresolved)
	}
	return r.Resolve(ep)
}

func canonGroup(group string) string {
	if group == "" {
		return "-"
	}
	return group
}
