package batch

import (
	"context"
	"sort"

	"github.com/guildai/guild-cli/pkg/run"
	"go.uber.org/zap"
)

// Trial is one completed trial of a batch.
type Trial struct {
	RunID string
	Flags map[string]interface{}
	Loss  float64
}

// PreviousTrials collects the batch's completed trials, excluding the
// run identified by trialRunID. Runs whose loss cannot be read from
// the index are skipped with a warning.
func (s *State) PreviousTrials(ctx context.Context, trialRunID string) ([]Trial, error) {
	candidates := s.previousTrialRunCandidates(ctx, trialRunID)
	if len(candidates) == 0 {
		return nil, nil
	}
	if err := s.batch.Index.Refresh(ctx, candidates); err != nil {
		return nil, err
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Started(ctx).Before(candidates[j].Started(ctx))
	})
	var trials []Trial
	for _, r := range candidates {
		loss, ok := s.RunLoss(r)
		if !ok {
			s.logger.Warn("could not get loss for run, ignoring",
				zap.String("loss", s.LossDesc),
				zap.String("run", r.ID))
			continue
		}
		flags, err := r.Flags(ctx)
		if err != nil {
			return nil, err
		}
		searchFlags, ok := s.projectFlags(flags)
		if !ok {
			s.logger.Warn("run is missing one or more flags, ignoring",
				zap.String("run", r.ID))
			continue
		}
		trials = append(trials, Trial{RunID: r.ID, Flags: searchFlags, Loss: loss})
	}
	return trials, nil
}

// projectFlags restricts a run's flags to the search flag names. A
// run missing any search flag cannot serve as an observation.
func (s *State) projectFlags(flags map[string]interface{}) (map[string]interface{}, bool) {
	projected := make(map[string]interface{}, len(s.FlagNames))
	for _, name := range s.FlagNames {
		val, ok := flags[name]
		if !ok {
			return nil, false
		}
		projected[name] = val
	}
	return projected, true
}

// MinimizeInputs holds the inputs for one optimizer step.
type MinimizeInputs struct {
	Dims         []Dim
	X0           [][]interface{}
	Y0           []float64
	RandomStarts int
}

// Minimize arbitrates between accumulated observations and a cold
// start: with previous trials the optimizer gets their flag vectors
// and losses over the full search dimensions; without any, it gets a
// single random start over dimensions narrowed to flag defaults.
func (s *State) Minimize(ctx context.Context, trialRunID string) (MinimizeInputs, error) {
	trials, err := s.PreviousTrials(ctx, trialRunID)
	if err != nil {
		return MinimizeInputs{}, err
	}
	if len(trials) == 0 {
		return MinimizeInputs{
			Dims:         s.dimsWithDefaults(),
			RandomStarts: 1,
		}, nil
	}
	in := MinimizeInputs{Dims: s.FlagDims}
	for _, trial := range trials {
		x := make([]interface{}, len(s.FlagNames))
		for i, name := range s.FlagNames {
			x[i] = trial.Flags[name]
		}
		in.X0 = append(in.X0, x)
		in.Y0 = append(in.Y0, trial.Loss)
	}
	return in, nil
}

// dimsWithDefaults narrows each dimension carrying a flag default to
// that single value, so the first trial runs the declared defaults
// instead of a random sample.
func (s *State) dimsWithDefaults() []Dim {
	dims := make([]Dim, len(s.FlagDims))
	copy(dims, s.FlagDims)
	for i, dflt := range s.Defaults {
		if dflt != nil {
			dims[i] = Dim{Values: []interface{}{dflt}}
		}
	}
	return dims
}

func (s *State) previousTrialRunCandidates(ctx context.Context, trialRunID string) []*run.Run {
	var candidates []*run.Run
	for _, r := range s.batch.Runs {
		if r.ID == trialRunID {
			continue
		}
		if r.Status(ctx) != run.StatusCompleted {
			continue
		}
		candidates = append(candidates, r)
	}
	return candidates
}
