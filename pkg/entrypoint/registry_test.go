package entrypoint

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const registryDoc = `
[console_scripts]
guild = guild.main_bootstrap:main

[guild.plugins]
cpu = guild.plugins.cpu:CPUPlugin
gpu = guild.plugins.gpu:GPUPlugin
keras = guild.plugins.keras:KerasPlugin

[guild.namespaces]
gpkg = guild.namespace:gpkg
pypi = guild.namespace:pypi

[guild.python.flags]
argparse = guild.plugins.python_flags:ArgparseFlagsParser

[guild.remotetypes]
local = guild.remotes.local:LocalRemote
s3 = guild.remotes.s3:S3Remote
`

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := Parse(strings.NewReader(registryDoc))
	require.NoError(t, err)
	return reg
}

func TestParseGroups(t *testing.T) {
	reg := testRegistry(t)

	assert.Equal(t, []string{
		GroupConsoleScripts,
		GroupPlugins,
		GroupNamespaces,
		GroupPythonFlags,
		GroupRemoteTypes,
	}, reg.Groups())
	assert.Equal(t, 9, reg.Len())
}

func TestParseEntryPoint(t *testing.T) {
	reg := testRegistry(t)

	ep, ok := reg.Lookup(GroupPlugins, "cpu")
	require.True(t, ok)
	assert.Equal(t, "guild.plugins.cpu", ep.Module)
	assert.Equal(t, []string{"CPUPlugin"}, ep.Attrs)
	assert.Equal(t, "guild.plugins.cpu:CPUPlugin", ep.Ref())

	_, ok = reg.Lookup(GroupPlugins, "tpu")
	assert.False(t, ok)
}

func TestGroupOrder(t *testing.T) {
	reg := testRegistry(t)

	var names []string
	for _, ep := range reg.Group(GroupPlugins) {
		names = append(names, ep.Name)
	}
	assert.Equal(t, []string{"cpu", "gpu", "keras"}, names)
}

func TestDuplicateKey(t *testing.T) {
	doc := `
[guild.plugins]
cpu = guild.plugins.cpu:CPUPlugin
cpu = guild.plugins.cpu2:CPUPlugin
`
	_, err := Parse(strings.NewReader(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestSameKeyAcrossGroups(t *testing.T) {
	// the uniqueness constraint is per group
	doc := `
[guild.plugins]
s3 = guild.plugins.s3:S3Plugin

[guild.remotetypes]
s3 = guild.remotes.s3:S3Remote
`
	reg, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())
}

func TestEntryBeforeGroup(t *testing.T) {
	_, err := Parse(strings.NewReader("stray = some.module:Thing\n[guild.plugins]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "before any group header")
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		ref     string
		module  string
		attrs   []string
		wantErr bool
	}{
		{ref: "guild.plugins.cpu:CPUPlugin", module: "guild.plugins.cpu", attrs: []string{"CPUPlugin"}},
		{ref: "guild.main_bootstrap:main", module: "guild.main_bootstrap", attrs: []string{"main"}},
		{ref: "guild.namespace:Namespace.gpkg", module: "guild.namespace", attrs: []string{"Namespace", "gpkg"}},
		{ref: "plain.module", module: "plain.module"},
		{ref: "", wantErr: true},
		{ref: "module:", wantErr: true},
		{ref: "module:a..b", wantErr: true},
		{ref: "mod ule:Attr", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			module, attrs, err := ParseRef(tt.ref)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.module, module)
			assert.Equal(t, tt.attrs, attrs)
		})
	}
}

func TestParseFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "entry_points.ini", []byte(registryDoc), 0600))

	reg, err := ParseFile(fs, "entry_points.ini")
	require.NoError(t, err)
	assert.Equal(t, 9, reg.Len())

	_, err = ParseFile(fs, "missing.ini")
	require.Error(t, err)
}
