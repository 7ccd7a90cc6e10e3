package model

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/guildai/guild-cli/pkg/entrypoint"
	"github.com/guildai/guild-cli/pkg/guildfile"
)

// Distribution is a source of models: a project guildfile or an
// installed package.
type Distribution interface {
	ProjectName() string
	Version() string
	Guildfile() *guildfile.Guildfile
	EntryMap() *entrypoint.Registry
}

// GuildfileDist presents a project guildfile as a distribution. Its
// entry map is synthesized from the document: one guild.models entry
// per operation and one guild.resources entry per requires
// dependency.
type GuildfileDist struct {
	gf       *guildfile.Guildfile
	entryMap *entrypoint.Registry
}

// NewGuildfileDist builds a distribution from a loaded guildfile
func NewGuildfileDist(gf *guildfile.Guildfile) *GuildfileDist {
	d := &GuildfileDist{gf: gf}
	d.entryMap = synthesizeEntryMap(gf)
	return d
}

// ProjectName encodes the guildfile directory, relative paths rooted
// at ".".
func (d *GuildfileDist) ProjectName() string {
	dir := d.gf.Dir
	if dir == "" {
		dir = "."
	}
	if !filepath.IsAbs(dir) && !strings.HasPrefix(dir, ".") {
		dir = "./" + dir
	}
	return EscapeProjectName(dir)
}

// Version is the guildfile content hash
func (d *GuildfileDist) Version() string {
	return d.gf.Hash()
}

// Guildfile backing the distribution
func (d *GuildfileDist) Guildfile() *guildfile.Guildfile {
	return d.gf
}

// EntryMap returns the synthesized entry-point registry
func (d *GuildfileDist) EntryMap() *entrypoint.Registry {
	return d.entryMap
}

func synthesizeEntryMap(gf *guildfile.Guildfile) *entrypoint.Registry {
	reg := entrypoint.NewRegistry()
	for _, op := range gf.Operations {
		// duplicates surface through guildfile validation, not here
		_ = reg.Add(&entrypoint.EntryPoint{
			Group:  entrypoint.GroupModels,
			Name:   op.Name,
			Module: "guild.model",
			Attrs:  []string{"GuildfileModel"},
		})
		for i, dep := range op.Requires {
			_ = reg.Add(&entrypoint.EntryPoint{
				Group:  entrypoint.GroupResources,
				Name:   resourceName(op.Name, dep, i),
				Module: "guild.model",
				Attrs:  []string{"GuildfileResource"},
			})
		}
	}
	return reg
}

func resourceName(opName string, dep *guildfile.DepDef, index int) string {
	switch {
	case dep.IsOperation():
		return opName + ":" + dep.Operation
	case dep.TargetPath != "":
		return opName + ":" + dep.TargetPath
	default:
		return fmt.Sprintf("%s:requires[%d]", opName, index)
	}
}

// PackageDist presents an installed package as a distribution. Its
// models come from the guildfile shipped with the package and its
// entry map from the package's registry section.
type PackageDist struct {
	name     string
	version  string
	gf       *guildfile.Guildfile
	entryMap *entrypoint.Registry
}

// NewPackageDist builds a package distribution
func NewPackageDist(name, version string, gf *guildfile.Guildfile, entryMap *entrypoint.Registry) *PackageDist {
	if entryMap == nil {
		entryMap = entrypoint.NewRegistry()
	}
	return &PackageDist{name: name, version: version, gf: gf, entryMap: entryMap}
}

// ProjectName of the package
func (d *PackageDist) ProjectName() string { return d.name }

// Version of the package
func (d *PackageDist) Version() string { return d.version }

// Guildfile shipped with the package, possibly nil
func (d *PackageDist) Guildfile() *guildfile.Guildfile { return d.gf }

// EntryMap of the package
func (d *PackageDist) EntryMap() *entrypoint.Registry { return d.entryMap }
