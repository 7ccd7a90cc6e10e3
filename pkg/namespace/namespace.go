// Package namespace translates between distribution project names
// and namespaced package names. Namespaces are declared in the
// entry-point registry under the guild.namespaces group; the builtin
// table covers gpkg and the pypi catch-all.
package namespace

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultNamespace is the catch-all applied to project names no other
// namespace claims.
const DefaultNamespace = "pypi"

// Namespace maps a pip-style project prefix to a package namespace.
type Namespace struct {
	Name      string
	PipPrefix string
}

// Table is an ordered set of namespaces, longest prefix first.
type Table struct {
	namespaces []Namespace
}

// Builtins returns the builtin namespace table
func Builtins() *Table {
	t := &Table{}
	t.Add(Namespace{Name: "gpkg", PipPrefix: "gpkg."})
	t.Add(Namespace{Name: DefaultNamespace, PipPrefix: ""})
	return t
}

// Add registers a namespace, keeping longest-prefix order
func (t *Table) Add(ns Namespace) {
	t.namespaces = append(t.namespaces, ns)
	sort.SliceStable(t.namespaces, func(i, j int) bool {
		return len(t.namespaces[i].PipPrefix) > len(t.namespaces[j].PipPrefix)
	})
}

// Names returns the registered namespace names
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.namespaces))
	for _, ns := range t.namespaces {
		names = append(names, ns.Name)
	}
	return names
}

// Lookup returns the namespace registered under name
func (t *Table) Lookup(name string) (Namespace, bool) {
	for _, ns := range t.namespaces {
		if ns.Name == name {
			return ns, true
		}
	}
	return Namespace{}, false
}

// Apply returns the namespaced package name for a distribution
// project name. A project claimed by a namespace prefix keeps its
// name; anything else lands in the default namespace.
func (t *Table) Apply(projectName string) string {
	for _, ns := range t.namespaces {
		if ns.PipPrefix == "" {
			continue
		}
		if strings.HasPrefix(projectName, ns.PipPrefix) {
			return projectName
		}
	}
	return DefaultNamespace + "." + projectName
}

// Split breaks a namespaced package name into its namespace and
// member parts.
func (t *Table) Split(fullName string) (Namespace, string, error) {
	nsName, member, found := strings.Cut(fullName, ".")
	if !found || member == "" {
		return Namespace{}, "", fmt.Errorf("package name %q has no namespace", fullName)
	}
	ns, ok := t.Lookup(nsName)
	if !ok {
		return Namespace{}, "", fmt.Errorf("unknown namespace %q in %q", nsName, fullName)
	}
	return ns, member, nil
}
