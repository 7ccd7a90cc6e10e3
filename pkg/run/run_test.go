package run

import (
	"context"
	"testing"
	"time"

	"github.com/guildai/guild-cli/pkg/storage/localfs"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRun(t *testing.T) *Run {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "abc123/attrs/flags", []byte("lr: 0.1\nepochs: 10\n"), 0600))
	require.NoError(t, afero.WriteFile(fs, "abc123/attrs/status", []byte("completed\n"), 0600))
	require.NoError(t, afero.WriteFile(fs, "abc123/attrs/started", []byte("\"2026-08-01T10:30:00Z\"\n"), 0600))
	return New("abc123", localfs.New(fs))
}

func TestFlags(t *testing.T) {
	r := testRun(t)

	flags, err := r.Flags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.1, flags["lr"])
	assert.Equal(t, 10, flags["epochs"])
}

func TestFlagsMissing(t *testing.T) {
	r := New("nosuchrun", localfs.New(afero.NewMemMapFs()))

	flags, err := r.Flags(context.Background())
	require.NoError(t, err)
	assert.Nil(t, flags)
}

func TestStatus(t *testing.T) {
	r := testRun(t)
	assert.Equal(t, StatusCompleted, r.Status(context.Background()))

	missing := New("nosuchrun", localfs.New(afero.NewMemMapFs()))
	assert.Equal(t, StatusRunning, missing.Status(context.Background()))
}

func TestStarted(t *testing.T) {
	r := testRun(t)
	want := time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC)
	assert.True(t, want.Equal(r.Started(context.Background())))
}

func TestWriteAttr(t *testing.T) {
	fs := afero.NewMemMapFs()
	r := New("def456", localfs.New(fs))

	require.NoError(t, r.WriteAttr(context.Background(), "objective", map[string]string{"maximize": "acc"}))

	val, err := r.Attr(context.Background(), "objective")
	require.NoError(t, err)
	m, ok := val.(map[interface{}]interface{})
	require.True(t, ok)
	assert.Equal(t, "acc", m["maximize"])
}
