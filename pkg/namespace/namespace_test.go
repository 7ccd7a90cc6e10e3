package namespace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	tbl := Builtins()

	assert.Equal(t, "gpkg.mnist", tbl.Apply("gpkg.mnist"))
	assert.Equal(t, "pypi.mnist", tbl.Apply("mnist"))
	assert.Equal(t, "pypi.tensorflow", tbl.Apply("tensorflow"))
}

func TestApplyCustomNamespace(t *testing.T) {
	tbl := Builtins()
	tbl.Add(Namespace{Name: "acme", PipPrefix: "acme."})

	assert.Equal(t, "acme.classifier", tbl.Apply("acme.classifier"))
	assert.Equal(t, "pypi.other", tbl.Apply("other"))
}

func TestSplit(t *testing.T) {
	tbl := Builtins()

	ns, member, err := tbl.Split("gpkg.mnist")
	require.NoError(t, err)
	assert.Equal(t, "gpkg", ns.Name)
	assert.Equal(t, "mnist", member)

	_, _, err = tbl.Split("nodots")
	require.Error(t, err)

	_, _, err = tbl.Split("unknown.pkg")
	require.Error(t, err)
}

func TestLookup(t *testing.T) {
	tbl := Builtins()

	ns, ok := tbl.Lookup("gpkg")
	require.True(t, ok)
	assert.Equal(t, "gpkg.", ns.PipPrefix)

	_, ok = tbl.Lookup("conda")
	assert.False(t, ok)
}
