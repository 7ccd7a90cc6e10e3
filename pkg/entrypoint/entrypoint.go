// Package entrypoint implements the entry-point registry: a static
// table mapping (group, key) pairs to implementation references,
// consumed by a resolver that binds references to registered
// factories.
//
// The registry document is INI-like: one bracketed section per group,
// each followed by "key = module.path:ClassName" lines.
package entrypoint

import (
	"fmt"
	"strings"
)

// Builtin registry groups.
const (
	GroupConsoleScripts = "console_scripts"
	GroupPlugins        = "guild.plugins"
	GroupNamespaces     = "guild.namespaces"
	GroupPythonFlags    = "guild.python.flags"
	GroupRemoteTypes    = "guild.remotetypes"

	// Groups synthesized from guildfile-backed distributions.
	GroupModels    = "guild.models"
	GroupResources = "guild.resources"
)

// EntryPoint is a single named reference from a registry group to an
// implementation.
type EntryPoint struct {
	Group  string
	Name   string
	Module string
	Attrs  []string
}

// ParseRef parses an implementation reference of the form
// "module.path:Attr.Attr".
func ParseRef(ref string) (module string, attrs []string, err error) {
	module, attrPart, found := strings.Cut(strings.TrimSpace(ref), ":")
	module = strings.TrimSpace(module)
	if module == "" {
		return "", nil, fmt.Errorf("invalid entry point reference %q: empty module", ref)
	}
	if strings.ContainsAny(module, " \t") {
		return "", nil, fmt.Errorf("invalid entry point reference %q: module contains spaces", ref)
	}
	if !found {
		return module, nil, nil
	}
	attrPart = strings.TrimSpace(attrPart)
	if attrPart == "" {
		return "", nil, fmt.Errorf("invalid entry point reference %q: empty attribute", ref)
	}
	for _, attr := range strings.Split(attrPart, ".") {
		if attr == "" {
			return "", nil, fmt.Errorf("invalid entry point reference %q: empty attribute", ref)
		}
		attrs = append(attrs, attr)
	}
	return module, attrs, nil
}

// Ref returns the canonical "module:attrs" form of the reference.
func (e *EntryPoint) Ref() string {
	if len(e.Attrs) == 0 {
		return e.Module
	}
	return e.Module + ":" + strings.Join(e.Attrs, ".")
}

func (e *EntryPoint) String() string {
	return fmt.Sprintf("%s = %s", e.Name, e.Ref())
}
