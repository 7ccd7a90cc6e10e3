// Package query parses column specs used by compare lists and batch
// objectives.
//
// A spec is a comma separated list of columns, each of the form:
//
//	[QUALIFIER] KEY [step] [as NAME]
//
// KEY is a scalar tag, optionally namespaced as "prefix#tag".
// QUALIFIER selects a value from the scalar series and defaults to
// the last logged value.
package query

import (
	"fmt"
	"strings"
)

// Qualifiers selecting a value out of a scalar series.
const (
	QualifierLast  = "last"
	QualifierFirst = "first"
	QualifierMin   = "min"
	QualifierMax   = "max"
	QualifierAvg   = "avg"
	QualifierTotal = "total"
	QualifierCount = "count"
)

var qualifiers = map[string]bool{
	QualifierLast:  true,
	QualifierFirst: true,
	QualifierMin:   true,
	QualifierMax:   true,
	QualifierAvg:   true,
	QualifierTotal: true,
	QualifierCount: true,
}

// ParseError reports an invalid column spec.
type ParseError struct {
	Spec string
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid column spec %q: %s", e.Spec, e.Msg)
}

// Col is one parsed column.
type Col struct {
	Prefix    string
	Tag       string
	Qualifier string
	Step      bool
	Named     string
}

// Select is a parsed column spec.
type Select struct {
	Cols []Col
}

// SplitKey returns the prefix and tag parts of the column key.
func (c Col) SplitKey() (prefix, tag string) {
	return c.Prefix, c.Tag
}

// Key returns the column key in "prefix#tag" form.
func (c Col) Key() string {
	if c.Prefix == "" {
		return c.Tag
	}
	return c.Prefix + "#" + c.Tag
}

// String reconstructs the column spec.
func (c Col) String() string {
	var parts []string
	if c.Qualifier != "" && c.Qualifier != QualifierLast {
		parts = append(parts, c.Qualifier)
	}
	parts = append(parts, c.Key())
	if c.Step {
		parts = append(parts, "step")
	}
	if c.Named != "" {
		parts = append(parts, "as", c.Named)
	}
	return strings.Join(parts, " ")
}

// Header returns the display name for the column, honoring renames.
func (c Col) Header() string {
	if c.Named != "" {
		return c.Named
	}
	var parts []string
	if c.Qualifier != "" && c.Qualifier != QualifierLast {
		parts = append(parts, c.Qualifier)
	}
	parts = append(parts, c.Key())
	if c.Step {
		parts = append(parts, "step")
	}
	return strings.Join(parts, " ")
}

// ParseColSpec parses a comma separated column spec.
func ParseColSpec(spec string) (*Select, error) {
	sel := &Select{}
	for _, colSpec := range strings.Split(spec, ",") {
		if strings.TrimSpace(colSpec) == "" {
			return nil, &ParseError{Spec: spec, Msg: "empty column"}
		}
		col, err := ParseCol(colSpec)
		if err != nil {
			return nil, err
		}
		sel.Cols = append(sel.Cols, col)
	}
	return sel, nil
}

// ParseCol parses a single column spec.
func ParseCol(spec string) (Col, error) {
	tokens := strings.Fields(spec)
	if len(tokens) == 0 {
		return Col{}, &ParseError{Spec: spec, Msg: "empty column"}
	}
	col := Col{Qualifier: QualifierLast}
	if qualifiers[tokens[0]] && len(tokens) > 1 {
		col.Qualifier = tokens[0]
		tokens = tokens[1:]
	}
	key := tokens[0]
	tokens = tokens[1:]
	if strings.Contains(key, ",") {
		return Col{}, &ParseError{Spec: spec, Msg: "unexpected comma in key"}
	}
	prefix, tag, found := strings.Cut(key, "#")
	if found {
		if prefix == "" || tag == "" {
			return Col{}, &ParseError{Spec: spec, Msg: fmt.Sprintf("malformed key %q", key)}
		}
		col.Prefix, col.Tag = prefix, tag
	} else {
		col.Tag = key
	}
	if len(tokens) > 0 && tokens[0] == "step" {
		col.Step = true
		tokens = tokens[1:]
	}
	if len(tokens) > 0 {
		if tokens[0] != "as" {
			return Col{}, &ParseError{Spec: spec, Msg: fmt.Sprintf("unexpected token %q", tokens[0])}
		}
		if len(tokens) != 2 {
			return Col{}, &ParseError{Spec: spec, Msg: "expected a name after 'as'"}
		}
		col.Named = tokens[1]
		tokens = nil
	}
	if len(tokens) > 0 {
		return Col{}, &ParseError{Spec: spec, Msg: fmt.Sprintf("unexpected token %q", tokens[0])}
	}
	return col, nil
}
