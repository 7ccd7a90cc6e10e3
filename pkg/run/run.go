// Package run reads recorded run metadata from a store. A run's
// attributes live as YAML documents under "<id>/attrs/<name>" and its
// logged scalars under "<id>/scalars.yaml".
package run

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/guildai/guild-cli/pkg/errors"
	"github.com/guildai/guild-cli/pkg/storage"
	yaml "gopkg.in/yaml.v2"
)

// Statuses recorded for a run.
const (
	StatusCompleted = "completed"
	StatusError     = "error"
	StatusRunning   = "running"
)

// AttrPath returns the store key of a run attribute
func AttrPath(runID, name string) string {
	return runID + "/attrs/" + name
}

// ScalarsPath returns the store key of a run's scalar log
func ScalarsPath(runID string) string {
	return runID + "/scalars.yaml"
}

// Run is a recorded run.
type Run struct {
	ID    string
	store storage.Store
}

// New returns a run handle for id backed by store
func New(id string, store storage.Store) *Run {
	return &Run{ID: id, store: store}
}

// Attr reads and decodes a run attribute. A missing attribute
// reports storage.ErrNotFound.
func (r *Run) Attr(ctx context.Context, name string) (interface{}, error) {
	rdr, err := r.store.Get(ctx, AttrPath(r.ID, name))
	if err != nil {
		return nil, err
	}
	defer rdr.Close()
	b, err := io.ReadAll(rdr)
	if err != nil {
		return nil, err
	}
	var val interface{}
	if err := yaml.Unmarshal(b, &val); err != nil {
		return nil, fmt.Errorf("run %s, attribute %q: %v", r.ID, name, err)
	}
	return val, nil
}

// Flags reads the run's flag assignments
func (r *Run) Flags(ctx context.Context) (map[string]interface{}, error) {
	val, err := r.Attr(ctx, "flags")
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	raw, ok := val.(map[interface{}]interface{})
	if !ok {
		return nil, fmt.Errorf("run %s: flags attribute is not a mapping", r.ID)
	}
	flags := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		flags[fmt.Sprintf("%v", k)] = v
	}
	return flags, nil
}

// Status reads the run status, defaulting to running when unset
func (r *Run) Status(ctx context.Context) string {
	val, err := r.Attr(ctx, "status")
	if err != nil {
		return StatusRunning
	}
	s, ok := val.(string)
	if !ok {
		return StatusRunning
	}
	return s
}

// Started reads the run start time, zero when unset
func (r *Run) Started(ctx context.Context) time.Time {
	val, err := r.Attr(ctx, "started")
	if err != nil {
		return time.Time{}
	}
	switch v := val.(type) {
	case time.Time:
		return v
	case string:
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}
		}
		return t
	default:
		return time.Time{}
	}
}

// WriteAttr encodes and stores a run attribute
func (r *Run) WriteAttr(ctx context.Context, name string, val interface{}) error {
	b, err := yaml.Marshal(val)
	if err != nil {
		return fmt.Errorf("run %s, attribute %q: %v", r.ID, name, err)
	}
	return r.store.Put(ctx, AttrPath(r.ID, name), bytes.NewReader(b))
}
