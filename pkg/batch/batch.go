// Package batch prepares optimizer-batch state from a proto run's
// flags and objective: search dimensions per flag, a loss function
// over indexed run scalars, and the accumulated previous trials.
package batch

import (
	"fmt"
	"sort"

	"github.com/guildai/guild-cli/pkg/flagutil"
	"github.com/guildai/guild-cli/pkg/query"
	"github.com/guildai/guild-cli/pkg/run"
	"github.com/guildai/guild-cli/pkg/runindex"
	"go.uber.org/zap"
)

// Error reports invalid batch configuration in user terms.
type Error struct {
	Msg string
}

func (e *Error) Error() string {
	return e.Msg
}

func errorf(format string, args ...interface{}) *Error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

// Batch describes one optimizer batch.
type Batch struct {
	ProtoFlags map[string]interface{}
	Objective  interface{}
	RandomSeed int64
	Runs       []*run.Run
	Index      *runindex.Index
	Logger     *zap.Logger
}

// Dim is the search dimension of one flag.
type Dim struct {
	// Values holds categorical choices when IsRange is false.
	Values []interface{}

	Min     float64
	Max     float64
	IsRange bool
}

// State is the prepared batch state.
type State struct {
	FlagNames  []string
	FlagDims   []Dim
	Defaults   []interface{}
	LossDesc   string
	RandomSeed int64

	batch   *Batch
	lossCol query.Col
	negate  float64
	logger  *zap.Logger
}

// NewState prepares batch state, validating flag dimensions and the
// objective.
func NewState(b *Batch) (*State, error) {
	s := &State{
		batch:      b,
		RandomSeed: b.RandomSeed,
		logger:     b.Logger,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if err := s.initFlagDims(); err != nil {
		return nil, err
	}
	if err := s.initObjective(); err != nil {
		return nil, err
	}
	return s, nil
}

// initFlagDims derives flag names, dims and defaults from proto
// flags. A flag value in the form 'uniform(min, max [, default])'
// specifies a range with an optional default.
func (s *State) initFlagDims() error {
	names := make([]string, 0, len(s.batch.ProtoFlags))
	for name := range s.batch.ProtoFlags {
		names = append(names, name)
	}
	sort.Strings(names)
	s.FlagNames = names
	s.FlagDims = make([]Dim, len(names))
	s.Defaults = make([]interface{}, len(names))
	for i, name := range names {
		dim, dflt, err := flagDim(s.batch.ProtoFlags[name], name)
		if err != nil {
			return err
		}
		s.FlagDims[i] = dim
		s.Defaults[i] = dflt
	}
	return nil
}

func flagDim(val interface{}, flagName string) (Dim, interface{}, error) {
	if list, ok := val.([]interface{}); ok {
		return Dim{Values: list}, nil, nil
	}
	str, ok := val.(string)
	if !ok {
		return Dim{Values: []interface{}{val}}, nil, nil
	}
	funcName, args, err := flagutil.ParseFunction(str)
	if err != nil {
		if err == flagutil.ErrNotFunction {
			return Dim{Values: []interface{}{val}}, nil, nil
		}
		return Dim{}, nil, errorf("invalid value %q for flag %s: %v", str, flagName, err)
	}
	if funcName != "" && funcName != "uniform" {
		return Dim{}, nil, errorf(
			"unsupported function %q for flag %s - must be 'uniform'", funcName, flagName)
	}
	return distributionDim(args, str, flagName)
}

func distributionDim(args []interface{}, val, flagName string) (Dim, interface{}, error) {
	if len(args) != 2 && len(args) != 3 {
		return Dim{}, nil, errorf(
			"unexpected argument list in %s for flag %s - expected 2 arguments", val, flagName)
	}
	nums := make([]float64, 0, len(args))
	for _, arg := range args {
		f, ok := flagutil.AsFloat(arg)
		if !ok {
			return Dim{}, nil, errorf("invalid distribution %v - must be float or int", arg)
		}
		nums = append(nums, f)
	}
	dim := Dim{Min: nums[0], Max: nums[1], IsRange: true}
	if len(args) == 3 {
		return dim, args[2], nil
	}
	return dim, nil, nil
}

func (s *State) initObjective() error {
	negate, colSpec, err := objectiveColSpec(s.batch.Objective)
	if err != nil {
		return err
	}
	sel, err := query.ParseColSpec(colSpec)
	if err != nil {
		return errorf("cannot parse objective %q: %v", colSpec, err)
	}
	if len(sel.Cols) > 1 {
		return errorf("invalid objective %q: only one column may be specified", colSpec)
	}
	s.negate = negate
	s.lossCol = sel.Cols[0]
	s.LossDesc = s.lossCol.String()
	return nil
}

func objectiveColSpec(objective interface{}) (float64, string, error) {
	switch obj := objective.(type) {
	case nil:
		return 1, "loss", nil
	case string:
		return 1, obj, nil
	case map[string]interface{}:
		if minimize, ok := obj["minimize"].(string); ok && minimize != "" {
			return 1, minimize, nil
		}
		if maximize, ok := obj["maximize"].(string); ok && maximize != "" {
			return -1, maximize, nil
		}
	case map[interface{}]interface{}:
		if minimize, ok := obj["minimize"].(string); ok && minimize != "" {
			return 1, minimize, nil
		}
		if maximize, ok := obj["maximize"].(string); ok && maximize != "" {
			return -1, maximize, nil
		}
	}
	return 0, "", errorf("unsupported objective type %v", objective)
}

// RunLoss returns the objective value for a run, negated for
// maximization objectives.
func (s *State) RunLoss(r *run.Run) (float64, bool) {
	val, ok := s.batch.Index.ColValue(r, s.lossCol)
	if !ok {
		return 0, false
	}
	return val * s.negate, true
}
