package guildfile

import (
	"fmt"

	"github.com/guildai/guild-cli/pkg/query"
	"github.com/mitchellh/mapstructure"
	yaml "gopkg.in/yaml.v2"
)

// OpDef is a named, declaratively configured unit of pipeline
// execution.
type OpDef struct {
	Name        string
	Description string
	Main        string
	Default     bool
	Requires    []*DepDef
	FlagsImport FlagsImport
	Compare     []string
	Plugins     PluginScope
}

// DepDef is one entry under an operation's requires list: either a
// set of URL sources resolved into the run directory, or a reference
// to another operation's output.
type DepDef struct {
	TargetPath    string
	DefaultUnpack bool
	Sources       []DepSource

	Operation string
	Select    string
}

// DepSource is a single downloadable source of an inline dependency.
type DepSource struct {
	URL    string
	SHA256 string
}

// IsOperation reports whether the dependency references another
// operation's output.
func (d *DepDef) IsOperation() bool {
	return d.Operation != ""
}

func (d *DepDef) String() string {
	if d.IsOperation() {
		return "operation:" + d.Operation
	}
	if len(d.Sources) > 0 {
		return d.Sources[0].URL
	}
	return "<empty>"
}

// CompareCols parses the operation's compare list into query columns.
func (o *OpDef) CompareCols() ([]query.Col, error) {
	cols := make([]query.Col, 0, len(o.Compare))
	for _, spec := range o.Compare {
		col, err := query.ParseCol(spec)
		if err != nil {
			return nil, fmt.Errorf("operation %q: %w", o.Name, err)
		}
		cols = append(cols, col)
	}
	return cols, nil
}

type opDefDoc struct {
	Description string        `mapstructure:"description"`
	Main        string        `mapstructure:"main"`
	Default     bool          `mapstructure:"default"`
	Requires    []interface{} `mapstructure:"requires"`
	FlagsImport interface{}   `mapstructure:"flags-import"`
	Compare     []string      `mapstructure:"compare"`
	Plugins     interface{}   `mapstructure:"plugins"`
}

type depDefDoc struct {
	URL           string         `mapstructure:"url"`
	SHA256        string         `mapstructure:"sha256"`
	TargetPath    string         `mapstructure:"target-path"`
	DefaultUnpack *bool          `mapstructure:"default-unpack"`
	Sources       []depSourceDoc `mapstructure:"sources"`
	Operation     string         `mapstructure:"operation"`
	Select        string         `mapstructure:"select"`
}

type depSourceDoc struct {
	URL    string `mapstructure:"url"`
	SHA256 string `mapstructure:"sha256"`
}

func parseOpDef(name string, raw interface{}) (*OpDef, error) {
	body, ok := normalize(raw).(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("operation %q: definition is not a mapping", name)
	}
	var doc opDefDoc
	if err := decodeStrict(body, &doc); err != nil {
		return nil, fmt.Errorf("operation %q: %v", name, err)
	}
	op := &OpDef{
		Name:        name,
		Description: doc.Description,
		Main:        doc.Main,
		Default:     doc.Default,
		Compare:     doc.Compare,
	}
	var err error
	if op.FlagsImport, err = parseFlagsImport(doc.FlagsImport); err != nil {
		return nil, fmt.Errorf("operation %q: %v", name, err)
	}
	if op.Plugins, err = parsePluginScope(doc.Plugins); err != nil {
		return nil, fmt.Errorf("operation %q: %v", name, err)
	}
	for i, rawDep := range doc.Requires {
		dep, err := parseDepDef(rawDep)
		if err != nil {
			return nil, fmt.Errorf("operation %q, requires[%d]: %v", name, i, err)
		}
		op.Requires = append(op.Requires, dep)
	}
	return op, nil
}

func parseDepDef(raw interface{}) (*DepDef, error) {
	// string shorthand for a single URL source
	if url, ok := raw.(string); ok {
		return &DepDef{
			DefaultUnpack: true,
			Sources:       []DepSource{{URL: url}},
		}, nil
	}
	body, ok := normalize(raw).(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("entry is not a mapping or URL")
	}
	var doc depDefDoc
	if err := decodeStrict(body, &doc); err != nil {
		return nil, err
	}
	dep := &DepDef{
		TargetPath:    doc.TargetPath,
		DefaultUnpack: true,
		Operation:     doc.Operation,
		Select:        doc.Select,
	}
	if doc.DefaultUnpack != nil {
		dep.DefaultUnpack = *doc.DefaultUnpack
	}
	for _, src := range doc.Sources {
		dep.Sources = append(dep.Sources, DepSource{URL: src.URL, SHA256: src.SHA256})
	}
	if doc.URL != "" {
		dep.Sources = append(dep.Sources, DepSource{URL: doc.URL, SHA256: doc.SHA256})
	}
	return dep, nil
}

func decodeStrict(body map[string]interface{}, target interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      target,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(body)
}

// normalize rewrites yaml.v2 mappings into string-keyed maps so
// mapstructure can decode them. A document parsed into yaml.MapSlice
// nests further mappings as MapSlice values.
func normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case yaml.MapSlice:
		out := make(map[string]interface{}, len(val))
		for _, item := range val {
			out[fmt.Sprintf("%v", item.Key)] = normalize(item.Value)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[fmt.Sprintf("%v", k)] = normalize(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	default:
		return v
	}
}
