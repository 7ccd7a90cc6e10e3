package guildfile

import (
	"fmt"
)

// FlagsImport controls which flags an operation imports from its main
// module. Absent means import all; the boolean "no" disables the
// import; a list names the imported flags.
type FlagsImport struct {
	All      bool
	Disabled bool
	Names    []string
}

func parseFlagsImport(raw interface{}) (FlagsImport, error) {
	switch val := raw.(type) {
	case nil:
		return FlagsImport{All: true}, nil
	case bool:
		if val {
			return FlagsImport{All: true}, nil
		}
		return FlagsImport{Disabled: true}, nil
	case string:
		switch val {
		case "all":
			return FlagsImport{All: true}, nil
		case "no", "off":
			return FlagsImport{Disabled: true}, nil
		}
		return FlagsImport{}, fmt.Errorf("invalid flags-import %q", val)
	case []interface{}:
		fi := FlagsImport{}
		for _, item := range val {
			name, ok := item.(string)
			if !ok {
				return FlagsImport{}, fmt.Errorf("invalid flags-import entry %v", item)
			}
			fi.Names = append(fi.Names, name)
		}
		return fi, nil
	default:
		return FlagsImport{}, fmt.Errorf("invalid flags-import %v", raw)
	}
}

// Imports reports whether the named flag is imported.
func (f FlagsImport) Imports(name string) bool {
	if f.Disabled {
		return false
	}
	if f.All {
		return true
	}
	for _, n := range f.Names {
		if n == name {
			return true
		}
	}
	return false
}

func (f FlagsImport) String() string {
	switch {
	case f.Disabled:
		return "no"
	case f.All:
		return "all"
	default:
		return fmt.Sprintf("%v", f.Names)
	}
}

// PluginScope selects the plugins enabled for an operation: all of
// them, none, or an explicit list. The zero value leaves the choice
// to project defaults.
type PluginScope struct {
	Set      bool
	All      bool
	Disabled bool
	Names    []string
}

func parsePluginScope(raw interface{}) (PluginScope, error) {
	switch val := raw.(type) {
	case nil:
		return PluginScope{}, nil
	case bool:
		if val {
			return PluginScope{Set: true, All: true}, nil
		}
		return PluginScope{Set: true, Disabled: true}, nil
	case string:
		switch val {
		case "all":
			return PluginScope{Set: true, All: true}, nil
		case "no", "off":
			return PluginScope{Set: true, Disabled: true}, nil
		case "":
			return PluginScope{}, fmt.Errorf("invalid plugins scope %q", val)
		}
		// a bare name enables a single plugin
		return PluginScope{Set: true, Names: []string{val}}, nil
	case []interface{}:
		ps := PluginScope{Set: true}
		for _, item := range val {
			name, ok := item.(string)
			if !ok {
				return PluginScope{}, fmt.Errorf("invalid plugins entry %v", item)
			}
			ps.Names = append(ps.Names, name)
		}
		return ps, nil
	default:
		return PluginScope{}, fmt.Errorf("invalid plugins scope %v", raw)
	}
}

// Enables reports whether the named plugin is in scope.
func (p PluginScope) Enables(name string) bool {
	if !p.Set || p.Disabled {
		return false
	}
	if p.All {
		return true
	}
	for _, n := range p.Names {
		if n == name {
			return true
		}
	}
	return false
}

func (p PluginScope) String() string {
	switch {
	case !p.Set:
		return ""
	case p.Disabled:
		return "no"
	case p.All:
		return "all"
	default:
		return fmt.Sprintf("%v", p.Names)
	}
}
