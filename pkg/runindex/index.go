// Package runindex maintains an in-memory index of run scalars read
// from a store, and answers column queries against it.
package runindex

import (
	"context"
	"fmt"
	"io"

	"github.com/guildai/guild-cli/pkg/errors"
	"github.com/guildai/guild-cli/pkg/query"
	"github.com/guildai/guild-cli/pkg/run"
	"github.com/guildai/guild-cli/pkg/storage"
	yaml "gopkg.in/yaml.v2"
)

// Scalar is one logged scalar sample.
type Scalar struct {
	Prefix string  `yaml:"prefix,omitempty"`
	Tag    string  `yaml:"tag"`
	Value  float64 `yaml:"value"`
	Step   int64   `yaml:"step"`
}

// Index caches run scalars keyed by run id.
type Index struct {
	store   storage.Store
	scalars map[string][]Scalar
}

// New returns an empty index over store
func New(store storage.Store) *Index {
	return &Index{
		store:   store,
		scalars: make(map[string][]Scalar),
	}
}

// Refresh loads the scalar logs of the given runs, replacing whatever
// the index held for them. Runs with no scalar log index as empty.
func (ix *Index) Refresh(ctx context.Context, runs []*run.Run) error {
	for _, r := range runs {
		scalars, err := ix.loadScalars(ctx, r.ID)
		if err != nil {
			return err
		}
		ix.scalars[r.ID] = scalars
	}
	return nil
}

func (ix *Index) loadScalars(ctx context.Context, runID string) ([]Scalar, error) {
	rdr, err := ix.store.Get(ctx, run.ScalarsPath(runID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	defer rdr.Close()
	b, err := io.ReadAll(rdr)
	if err != nil {
		return nil, err
	}
	var scalars []Scalar
	if err := yaml.Unmarshal(b, &scalars); err != nil {
		return nil, fmt.Errorf("run %s: parsing scalar log: %v", runID, err)
	}
	return scalars, nil
}

// Scalar answers a column query against a run's indexed series. The
// second return is false when the series is empty or the run is not
// indexed. With step set, the result is the step of the selected
// sample rather than its value.
func (ix *Index) Scalar(r *run.Run, prefix, tag, qualifier string, step bool) (float64, bool) {
	var series []Scalar
	for _, s := range ix.scalars[r.ID] {
		if s.Tag == tag && (prefix == "" || s.Prefix == prefix) {
			series = append(series, s)
		}
	}
	if len(series) == 0 {
		return 0, false
	}
	sel, ok := selectSample(series, qualifier)
	if !ok {
		return 0, false
	}
	if step {
		return float64(sel.Step), true
	}
	return sel.Value, true
}

func selectSample(series []Scalar, qualifier string) (Scalar, bool) {
	switch qualifier {
	case "", query.QualifierLast:
		return series[len(series)-1], true
	case query.QualifierFirst:
		return series[0], true
	case query.QualifierMin:
		best := series[0]
		for _, s := range series[1:] {
			if s.Value < best.Value {
				best = s
			}
		}
		return best, true
	case query.QualifierMax:
		best := series[0]
		for _, s := range series[1:] {
			if s.Value > best.Value {
				best = s
			}
		}
		return best, true
	case query.QualifierAvg:
		return Scalar{Value: total(series) / float64(len(series)), Step: lastStep(series)}, true
	case query.QualifierTotal:
		return Scalar{Value: total(series), Step: lastStep(series)}, true
	case query.QualifierCount:
		return Scalar{Value: float64(len(series)), Step: lastStep(series)}, true
	default:
		return Scalar{}, false
	}
}

// ColValue answers a parsed query column for a run.
func (ix *Index) ColValue(r *run.Run, col query.Col) (float64, bool) {
	return ix.Scalar(r, col.Prefix, col.Tag, col.Qualifier, col.Step)
}

func total(series []Scalar) float64 {
	var sum float64
	for _, s := range series {
		sum += s.Value
	}
	return sum
}

func lastStep(series []Scalar) int64 {
	return series[len(series)-1].Step
}
