package runindex

import (
	"context"
	"testing"

	"github.com/guildai/guild-cli/pkg/query"
	"github.com/guildai/guild-cli/pkg/run"
	"github.com/guildai/guild-cli/pkg/storage/localfs"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scalarLog = `
- tag: loss
  value: 1.5
  step: 1
- tag: loss
  value: 0.8
  step: 2
- tag: loss
  value: 0.9
  step: 3
- prefix: val
  tag: acc
  value: 0.91
  step: 3
`

func testIndex(t *testing.T) (*Index, *run.Run) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "abc123/scalars.yaml", []byte(scalarLog), 0600))
	store := localfs.New(fs)
	ix := New(store)
	r := run.New("abc123", store)
	require.NoError(t, ix.Refresh(context.Background(), []*run.Run{r}))
	return ix, r
}

func TestScalarQualifiers(t *testing.T) {
	ix, r := testIndex(t)

	tests := []struct {
		qualifier string
		want      float64
	}{
		{qualifier: "", want: 0.9},
		{qualifier: query.QualifierLast, want: 0.9},
		{qualifier: query.QualifierFirst, want: 1.5},
		{qualifier: query.QualifierMin, want: 0.8},
		{qualifier: query.QualifierMax, want: 1.5},
		{qualifier: query.QualifierTotal, want: 3.2},
		{qualifier: query.QualifierCount, want: 3},
	}
	for _, tt := range tests {
		t.Run(tt.qualifier, func(t *testing.T) {
			val, ok := ix.Scalar(r, "", "loss", tt.qualifier, false)
			require.True(t, ok)
			assert.InDelta(t, tt.want, val, 1e-9)
		})
	}

	val, ok := ix.Scalar(r, "", "loss", query.QualifierAvg, false)
	require.True(t, ok)
	assert.InDelta(t, 3.2/3, val, 1e-9)
}

func TestScalarStep(t *testing.T) {
	ix, r := testIndex(t)

	step, ok := ix.Scalar(r, "", "loss", query.QualifierMin, true)
	require.True(t, ok)
	assert.Equal(t, 2.0, step)
}

func TestScalarPrefix(t *testing.T) {
	ix, r := testIndex(t)

	val, ok := ix.Scalar(r, "val", "acc", "", false)
	require.True(t, ok)
	assert.Equal(t, 0.91, val)

	_, ok = ix.Scalar(r, "train", "acc", "", false)
	assert.False(t, ok)
}

func TestScalarMissing(t *testing.T) {
	ix, r := testIndex(t)

	_, ok := ix.Scalar(r, "", "psnr", "", false)
	assert.False(t, ok)

	other := run.New("unindexed", nil)
	_, ok = ix.Scalar(other, "", "loss", "", false)
	assert.False(t, ok)
}

func TestRefreshMissingLog(t *testing.T) {
	store := localfs.New(afero.NewMemMapFs())
	ix := New(store)
	r := run.New("nolog", store)

	require.NoError(t, ix.Refresh(context.Background(), []*run.Run{r}))
	_, ok := ix.Scalar(r, "", "loss", "", false)
	assert.False(t, ok)
}

func TestColValue(t *testing.T) {
	ix, r := testIndex(t)

	col, err := query.ParseCol("min loss step as best_step")
	require.NoError(t, err)
	val, ok := ix.ColValue(r, col)
	require.True(t, ok)
	assert.Equal(t, 2.0, val)
}
