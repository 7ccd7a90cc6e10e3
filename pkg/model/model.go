package model

import (
	"fmt"
	"path/filepath"

	"github.com/guildai/guild-cli/pkg/guildfile"
	"github.com/guildai/guild-cli/pkg/namespace"
)

// Model is a named model resolved from a distribution.
type Model struct {
	Name string
	Dist Distribution
}

// OpDef returns the operation definition backing the model
func (m *Model) OpDef() (*guildfile.OpDef, error) {
	gf := m.Dist.Guildfile()
	if gf == nil {
		return nil, fmt.Errorf("distribution %s has no guildfile", m.Dist.ProjectName())
	}
	op, ok := gf.OpDef(m.Name)
	if !ok {
		return nil, fmt.Errorf("undefined model %q in %s", m.Name, m.Dist.ProjectName())
	}
	return op, nil
}

// FullName returns the package-qualified model name.
func (m *Model) FullName(ns *namespace.Table) string {
	project := m.Dist.ProjectName()
	if IsGuildfileProject(project) {
		return UnescapeProjectName(project) + "/" + m.Name
	}
	return ns.Apply(project) + "/" + m.Name
}

// Reference identifies the model and the distribution state it came
// from.
func (m *Model) Reference(ns *namespace.Table) Ref {
	project := m.Dist.ProjectName()
	if IsGuildfileProject(project) {
		path := UnescapeProjectName(project)
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		version := m.Dist.Version()
		if version == "" {
			version = "unknown"
		}
		return Ref{
			DistType:    DistTypeGuildfile,
			DistName:    path,
			DistVersion: version,
			ModelName:   m.Name,
		}
	}
	return Ref{
		DistType:    DistTypePackage,
		DistName:    ns.Apply(project),
		DistVersion: m.Dist.Version(),
		ModelName:   m.Name,
	}
}

// Set resolves models across a list of distributions.
type Set struct {
	dists []Distribution
	ns    *namespace.Table
}

// NewSet builds a model set over distributions. A nil namespace table
// falls back to the builtins.
func NewSet(ns *namespace.Table, dists ...Distribution) *Set {
	if ns == nil {
		ns = namespace.Builtins()
	}
	return &Set{dists: dists, ns: ns}
}

// Namespaces returns the set's namespace table
func (s *Set) Namespaces() *namespace.Table {
	return s.ns
}

// Iter calls fn for every model in every distribution, in order.
func (s *Set) Iter(fn func(*Model)) {
	for _, dist := range s.dists {
		gf := dist.Guildfile()
		if gf == nil {
			continue
		}
		for _, op := range gf.Operations {
			fn(&Model{Name: op.Name, Dist: dist})
		}
	}
}

// Lookup finds a model by full name (package/model) or bare model
// name.
func (s *Set) Lookup(name string) (*Model, error) {
	var found *Model
	s.Iter(func(m *Model) {
		if found != nil {
			return
		}
		if m.Name == name || m.FullName(s.ns) == name {
			found = m
		}
	})
	if found == nil {
		return nil, fmt.Errorf("undefined model %q", name)
	}
	return found, nil
}
