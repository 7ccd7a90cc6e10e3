package batch

import (
	"context"
	"testing"

	"github.com/guildai/guild-cli/pkg/run"
	"github.com/guildai/guild-cli/pkg/runindex"
	"github.com/guildai/guild-cli/pkg/storage/localfs"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newState(t *testing.T, b *Batch) *State {
	t.Helper()
	if b.Index == nil {
		b.Index = runindex.New(localfs.New(afero.NewMemMapFs()))
	}
	s, err := NewState(b)
	require.NoError(t, err)
	return s
}

func TestFlagDims(t *testing.T) {
	s := newState(t, &Batch{
		ProtoFlags: map[string]interface{}{
			"lr":      "uniform(1e-4, 1e-1)",
			"dropout": "uniform(0.1, 0.9, 0.5)",
			"layers":  []interface{}{2, 3, 4},
			"epochs":  10,
		},
	})

	// names sort alphabetically
	assert.Equal(t, []string{"dropout", "epochs", "layers", "lr"}, s.FlagNames)

	dropout, epochs, layers, lr := s.FlagDims[0], s.FlagDims[1], s.FlagDims[2], s.FlagDims[3]
	assert.True(t, dropout.IsRange)
	assert.Equal(t, 0.1, dropout.Min)
	assert.Equal(t, 0.9, dropout.Max)
	assert.Equal(t, 0.5, s.Defaults[0])

	assert.False(t, epochs.IsRange)
	assert.Equal(t, []interface{}{10}, epochs.Values)
	assert.Nil(t, s.Defaults[1])

	assert.Equal(t, []interface{}{2, 3, 4}, layers.Values)

	assert.True(t, lr.IsRange)
	assert.InDelta(t, 1e-4, lr.Min, 1e-12)
}

func TestFlagDimErrors(t *testing.T) {
	_, err := NewState(&Batch{
		ProtoFlags: map[string]interface{}{"lr": "loguniform(1e-4, 1e-1)"},
	})
	require.Error(t, err)
	var berr *Error
	require.ErrorAs(t, err, &berr)
	assert.Contains(t, berr.Msg, "must be 'uniform'")

	_, err = NewState(&Batch{
		ProtoFlags: map[string]interface{}{"lr": "uniform(1e-4)"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 2 arguments")

	_, err = NewState(&Batch{
		ProtoFlags: map[string]interface{}{"lr": "uniform(low, high)"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be float or int")
}

func TestObjectiveForms(t *testing.T) {
	s := newState(t, &Batch{})
	assert.Equal(t, "loss", s.LossDesc)

	s = newState(t, &Batch{Objective: "val#acc"})
	assert.Equal(t, "val#acc", s.LossDesc)

	s = newState(t, &Batch{Objective: map[interface{}]interface{}{"maximize": "acc"}})
	assert.Equal(t, "acc", s.LossDesc)

	_, err := NewState(&Batch{Objective: 42})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported objective type")

	_, err = NewState(&Batch{Objective: "loss, acc"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only one column")
}

func writeRun(t *testing.T, fs afero.Fs, id, flags, status, started, scalars string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, id+"/attrs/flags", []byte(flags), 0600))
	require.NoError(t, afero.WriteFile(fs, id+"/attrs/status", []byte(status), 0600))
	require.NoError(t, afero.WriteFile(fs, id+"/attrs/started", []byte(started), 0600))
	if scalars != "" {
		require.NoError(t, afero.WriteFile(fs, id+"/scalars.yaml", []byte(scalars), 0600))
	}
}

func TestPreviousTrials(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeRun(t, fs, "run2", "lr: 0.01\n", "completed\n", "\"2026-08-02T09:00:00Z\"\n",
		"- {tag: loss, value: 0.4, step: 5}\n")
	writeRun(t, fs, "run1", "lr: 0.1\n", "completed\n", "\"2026-08-01T09:00:00Z\"\n",
		"- {tag: loss, value: 0.7, step: 5}\n")
	writeRun(t, fs, "run3", "lr: 0.5\n", "error\n", "\"2026-08-03T09:00:00Z\"\n", "")
	writeRun(t, fs, "run4", "lr: 0.9\n", "completed\n", "\"2026-08-04T09:00:00Z\"\n", "")
	writeRun(t, fs, "current", "lr: 0.2\n", "running\n", "\"2026-08-05T09:00:00Z\"\n", "")

	store := localfs.New(fs)
	runs := []*run.Run{
		run.New("run1", store),
		run.New("run2", store),
		run.New("run3", store),
		run.New("run4", store),
		run.New("current", store),
	}
	s := newState(t, &Batch{
		ProtoFlags: map[string]interface{}{"lr": "uniform(1e-4, 1.0)"},
		Runs:       runs,
		Index:      runindex.New(store),
	})

	trials, err := s.PreviousTrials(context.Background(), "current")
	require.NoError(t, err)
	// run3 errored, run4 has no loss, current is excluded
	require.Len(t, trials, 2)
	assert.Equal(t, "run1", trials[0].RunID)
	assert.Equal(t, 0.7, trials[0].Loss)
	assert.Equal(t, 0.1, trials[0].Flags["lr"])
	assert.Equal(t, "run2", trials[1].RunID)
}

func TestPreviousTrialsProjectsSearchFlags(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeRun(t, fs, "run1", "momentum: 0.9\n", "completed\n", "\"2026-08-01T09:00:00Z\"\n",
		"- {tag: loss, value: 0.7, step: 5}\n")
	writeRun(t, fs, "run2", "lr: 0.01\nmomentum: 0.9\n", "completed\n", "\"2026-08-02T09:00:00Z\"\n",
		"- {tag: loss, value: 0.4, step: 5}\n")
	store := localfs.New(fs)
	s := newState(t, &Batch{
		ProtoFlags: map[string]interface{}{"lr": "uniform(1e-4, 1.0)"},
		Runs:       []*run.Run{run.New("run1", store), run.New("run2", store)},
		Index:      runindex.New(store),
	})

	trials, err := s.PreviousTrials(context.Background(), "current")
	require.NoError(t, err)
	// run1 lacks the lr search flag and is skipped; run2's flags are
	// restricted to the search flags
	require.Len(t, trials, 1)
	assert.Equal(t, "run2", trials[0].RunID)
	assert.Equal(t, map[string]interface{}{"lr": 0.01}, trials[0].Flags)
}

func TestMinimizeColdStartUsesDefaults(t *testing.T) {
	s := newState(t, &Batch{
		ProtoFlags: map[string]interface{}{
			"lr":      "uniform(1e-4, 1e-1)",
			"dropout": "uniform(0.1, 0.9, 0.5)",
		},
	})

	in, err := s.Minimize(context.Background(), "current")
	require.NoError(t, err)
	assert.Equal(t, 1, in.RandomStarts)
	assert.Empty(t, in.X0)
	require.Len(t, in.Dims, 2)
	// dropout's default narrows its dimension to a single choice
	assert.Equal(t, []interface{}{0.5}, in.Dims[0].Values)
	assert.False(t, in.Dims[0].IsRange)
	// lr has no default and keeps its range
	assert.True(t, in.Dims[1].IsRange)
}

func TestMinimizeWithPreviousTrials(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeRun(t, fs, "run1", "lr: 0.1\n", "completed\n", "\"2026-08-01T09:00:00Z\"\n",
		"- {tag: loss, value: 0.7, step: 5}\n")
	writeRun(t, fs, "run2", "lr: 0.01\n", "completed\n", "\"2026-08-02T09:00:00Z\"\n",
		"- {tag: loss, value: 0.4, step: 5}\n")
	store := localfs.New(fs)
	s := newState(t, &Batch{
		ProtoFlags: map[string]interface{}{"lr": "uniform(1e-4, 1.0)"},
		Runs:       []*run.Run{run.New("run1", store), run.New("run2", store)},
		Index:      runindex.New(store),
	})

	in, err := s.Minimize(context.Background(), "current")
	require.NoError(t, err)
	assert.Equal(t, 0, in.RandomStarts)
	assert.Equal(t, s.FlagDims, in.Dims)
	assert.Equal(t, [][]interface{}{{0.1}, {0.01}}, in.X0)
	assert.Equal(t, []float64{0.7, 0.4}, in.Y0)
}

func TestRunLossNegatesMaximize(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeRun(t, fs, "run1", "lr: 0.1\n", "completed\n", "\"2026-08-01T09:00:00Z\"\n",
		"- {tag: acc, value: 0.93, step: 10}\n")
	store := localfs.New(fs)
	ix := runindex.New(store)
	r := run.New("run1", store)
	require.NoError(t, ix.Refresh(context.Background(), []*run.Run{r}))

	s := newState(t, &Batch{
		Objective: map[interface{}]interface{}{"maximize": "acc"},
		Index:     ix,
	})
	loss, ok := s.RunLoss(r)
	require.True(t, ok)
	assert.InDelta(t, -0.93, loss, 1e-9)
}
