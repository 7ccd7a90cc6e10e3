// Package guildfile loads the project configuration document mapping
// operation names to their execution parameters: entry command, data
// source requirements, flag imports, compare columns and plugin
// scope.
//
// The document is YAML, loaded once and treated as an immutable
// lookup table. Order of definition is preserved.
package guildfile

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v2"
)

// NAMES lists the file names recognized as project configuration.
var NAMES = []string{"guild.yml", "guild.yaml"}

// ErrNotFound is returned when a directory holds no project file.
var ErrNotFound = fmt.Errorf("no guildfile found")

// Guildfile is a loaded project configuration document.
type Guildfile struct {
	Src        string
	Dir        string
	Operations []*OpDef

	data []byte
}

// Parse decodes a project document. src is recorded as the document
// origin and may be empty for in-memory documents.
func Parse(data []byte, src string) (*Guildfile, error) {
	var doc yaml.MapSlice
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %v", srcLabel(src), err)
	}
	gf := &Guildfile{
		Src:  src,
		Dir:  srcDir(src),
		data: data,
	}
	for _, item := range doc {
		name, ok := item.Key.(string)
		if !ok {
			return nil, fmt.Errorf("%s: operation name %v is not a string", srcLabel(src), item.Key)
		}
		op, err := parseOpDef(name, item.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", srcLabel(src), err)
		}
		gf.Operations = append(gf.Operations, op)
	}
	return gf, nil
}

// FromFile loads a project document from a file
func FromFile(fs afero.Fs, path string) (*Guildfile, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	return Parse(data, path)
}

// FromDir loads the project document found in dir, trying the
// recognized names in order.
func FromDir(fs afero.Fs, dir string) (*Guildfile, error) {
	for _, name := range NAMES {
		path := filepath.Join(dir, name)
		if ok, err := afero.Exists(fs, path); err == nil && ok {
			return FromFile(fs, path)
		}
	}
	return nil, fmt.Errorf("%s: %w", dir, ErrNotFound)
}

// OpDef returns the first operation defined under name
func (gf *Guildfile) OpDef(name string) (*OpDef, bool) {
	for _, op := range gf.Operations {
		if op.Name == name {
			return op, true
		}
	}
	return nil, false
}

// OpNames returns operation names in document order, including
// duplicates when the document is invalid.
func (gf *Guildfile) OpNames() []string {
	names := make([]string, 0, len(gf.Operations))
	for _, op := range gf.Operations {
		names = append(names, op.Name)
	}
	return names
}

// DefaultOp returns the first operation marked default, or nil
func (gf *Guildfile) DefaultOp() *OpDef {
	for _, op := range gf.Operations {
		if op.Default {
			return op
		}
	}
	return nil
}

// Hash returns the md5 hex digest of the document source, or "-" for
// an empty document. It versions guildfile-backed distributions.
func (gf *Guildfile) Hash() string {
	if len(gf.data) == 0 {
		return "-"
	}
	sum := md5.Sum(gf.data)
	return hex.EncodeToString(sum[:])
}

func srcLabel(src string) string {
	if src == "" {
		return "guildfile"
	}
	return src
}

func srcDir(src string) string {
	if src == "" {
		return ""
	}
	return filepath.Dir(src)
}
