package guildfile

import (
	"fmt"

	"go.uber.org/multierr"
)

// Validate checks the document invariants, accumulating findings:
//
//   - operation names are unique within the document
//   - each operation has an entry command
//   - each requires entry has exactly one of URL sources or an
//     operation reference
//   - every operation reference resolves within the same document
//   - compare entries parse as query columns
func (gf *Guildfile) Validate() error {
	var errs error
	seen := make(map[string]bool, len(gf.Operations))
	for _, op := range gf.Operations {
		if seen[op.Name] {
			errs = multierr.Append(errs, fmt.Errorf("operation %q defined more than once", op.Name))
		}
		seen[op.Name] = true
	}
	for _, op := range gf.Operations {
		errs = multierr.Append(errs, gf.validateOp(op))
	}
	return errs
}

func (gf *Guildfile) validateOp(op *OpDef) error {
	var errs error
	if op.Main == "" {
		errs = multierr.Append(errs, fmt.Errorf("operation %q: missing main", op.Name))
	}
	for i, dep := range op.Requires {
		hasSources := len(dep.Sources) > 0
		switch {
		case hasSources && dep.IsOperation():
			errs = multierr.Append(errs,
				fmt.Errorf("operation %q, requires[%d]: both sources and an operation reference", op.Name, i))
		case !hasSources && !dep.IsOperation():
			errs = multierr.Append(errs,
				fmt.Errorf("operation %q, requires[%d]: neither sources nor an operation reference", op.Name, i))
		}
		if dep.IsOperation() {
			if _, ok := gf.OpDef(dep.Operation); !ok {
				errs = multierr.Append(errs,
					fmt.Errorf("operation %q, requires[%d]: unknown operation %q", op.Name, i, dep.Operation))
			}
			if dep.Operation == op.Name {
				errs = multierr.Append(errs,
					fmt.Errorf("operation %q, requires[%d]: operation requires itself", op.Name, i))
			}
		}
		for j, src := range dep.Sources {
			if src.URL == "" {
				errs = multierr.Append(errs,
					fmt.Errorf("operation %q, requires[%d], sources[%d]: empty url", op.Name, i, j))
			}
		}
	}
	if _, err := op.CompareCols(); err != nil {
		errs = multierr.Append(errs, err)
	}
	return errs
}
