package entrypoint

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemote struct {
	name string
}

func TestResolve(t *testing.T) {
	reg := testRegistry(t)
	resolver := NewResolver()
	resolver.Register(GroupRemoteTypes, "guild.remotes.s3:S3Remote", func(ep *EntryPoint) (interface{}, error) {
		return &fakeRemote{name: ep.Name}, nil
	})

	ep, ok := reg.Lookup(GroupRemoteTypes, "s3")
	require.True(t, ok)

	impl, err := resolver.Resolve(ep)
	require.NoError(t, err)
	remote, ok := impl.(*fakeRemote)
	require.True(t, ok)
	assert.Equal(t, "s3", remote.name)
}

func TestResolveUnknownRef(t *testing.T) {
	reg := testRegistry(t)
	resolver := NewResolver()

	ep, ok := reg.Lookup(GroupRemoteTypes, "local")
	require.True(t, ok)

	_, err := resolver.Resolve(ep)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnresolved)
	assert.Contains(t, err.Error(), "guild.remotes.local:LocalRemote")
	assert.Contains(t, err.Error(), GroupRemoteTypes)
}

func TestResolveName(t *testing.T) {
	reg := testRegistry(t)
	resolver := NewResolver()
	resolver.Register(GroupNamespaces, "guild.namespace:gpkg", func(*EntryPoint) (interface{}, error) {
		return "gpkg-namespace", nil
	})

	impl, err := resolver.ResolveName(reg, GroupNamespaces, "gpkg")
	require.NoError(t, err)
	assert.Equal(t, "gpkg-namespace", impl)

	_, err = resolver.ResolveName(reg, GroupNamespaces, "conda")
	assert.ErrorIs(t, err, ErrUnresolved)
}

func TestResolveFactoryError(t *testing.T) {
	reg := testRegistry(t)
	resolver := NewResolver()
	resolver.Register(GroupPlugins, "guild.plugins.cpu:CPUPlugin", func(*EntryPoint) (interface{}, error) {
		return nil, fmt.Errorf("psutil unavailable")
	})

	ep, _ := reg.Lookup(GroupPlugins, "cpu")
	_, err := resolver.Resolve(ep)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "psutil unavailable"))
}
