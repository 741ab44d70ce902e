// Package wizard accumulates multi-step registration data on the device until
// the final step submits it as one write.
package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"inkbook/internal/client/kv"
	"inkbook/internal/pkg/validator"
)

var (
	ErrUnknownStep    = errors.New("wizard: unknown step")
	ErrStepIncomplete = errors.New("wizard: current step is incomplete")
	ErrLastStep       = errors.New("wizard: already at the last step")
	ErrStepOutOfRange = errors.New("wizard: step out of range")
)

// Data is one step's partial object.
type Data map[string]any

type state struct {
	Current int             `json:"current"`
	Steps   map[string]Data `json:"steps"`
}

// Store is safe for concurrent use. Every mutation is written through to kv.
type Store struct {
	kv   kv.Store
	flow Flow

	mu    sync.Mutex
	state state
}

// Open restores the stored wizard for flow, or starts an empty one.
func Open(ctx context.Context, store kv.Store, flow Flow) (*Store, error) {
	s := &Store{kv: store, flow: flow, state: state{Steps: map[string]Data{}}}

	raw, err := store.Get(ctx, s.Key())
	if errors.Is(err, kv.ErrNotFound) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}

	var saved state
	if err := json.Unmarshal(raw, &saved); err != nil {
		return nil, fmt.Errorf("wizard %s: corrupt draft: %w", flow.Name, err)
	}
	for key, data := range saved.Steps {
		if flow.index(key) >= 0 {
			s.state.Steps[key] = data
		}
	}
	if saved.Current >= 0 && saved.Current < len(flow.Steps) {
		s.state.Current = saved.Current
	}
	return s, nil
}

// Key is the kv key this wizard persists under.
func (s *Store) Key() string {
	return "wizard:" + s.flow.Name
}

func (s *Store) Flow() Flow { return s.flow }

// UpdateStep replaces the step's slot wholesale. Fields not in data are
// dropped; callers that want to keep them use MergeStep or pass the previous
// values along.
func (s *Store) UpdateStep(ctx context.Context, key string, data Data) error {
	if s.flow.index(key) < 0 {
		return ErrUnknownStep
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Steps[key] = copyData(data)
	return s.persist(ctx)
}

// MergeStep overlays data onto the step's existing fields.
func (s *Store) MergeStep(ctx context.Context, key string, data Data) error {
	if s.flow.index(key) < 0 {
		return ErrUnknownStep
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	merged := copyData(s.state.Steps[key])
	if merged == nil {
		merged = Data{}
	}
	for k, v := range data {
		merged[k] = v
	}
	s.state.Steps[key] = merged
	return s.persist(ctx)
}

// Step returns a copy of the step's fields.
func (s *Store) Step(key string) Data {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyData(s.state.Steps[key])
}

func (s *Store) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Current
}

func (s *Store) Current() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flow.Steps[s.state.Current]
}

// GoTo moves the pointer back to any earlier step, or forward up to the
// first incomplete one.
func (s *Store) GoTo(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.flow.Steps) {
		return ErrStepOutOfRange
	}
	for i := 0; i < index; i++ {
		if len(s.missing(s.flow.Steps[i])) > 0 {
			return ErrStepIncomplete
		}
	}
	s.state.Current = index
	return s.persist(ctx)
}

// Next advances when the current step is complete.
func (s *Store) Next(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.missing(s.flow.Steps[s.state.Current])) > 0 {
		return ErrStepIncomplete
	}
	if s.state.Current == len(s.flow.Steps)-1 {
		return ErrLastStep
	}
	s.state.Current++
	return s.persist(ctx)
}

func (s *Store) Back(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Current == 0 {
		return nil
	}
	s.state.Current--
	return s.persist(ctx)
}

func (s *Store) StepComplete(key string) bool {
	return len(s.MissingFields(key)) == 0
}

// MissingFields lists the fields of a step that are absent or fail their
// rule, sorted.
func (s *Store) MissingFields(key string) []string {
	i := s.flow.index(key)
	if i < 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.missing(s.flow.Steps[i])
}

func (s *Store) missing(step Step) []string {
	data := s.state.Steps[step.Key]
	var out []string
	for field, rule := range step.Rules {
		v, ok := data[field]
		if !ok || v == nil || validator.Var(v, rule) != nil {
			out = append(out, field)
		}
	}
	sort.Strings(out)
	return out
}

// Complete reports whether every step is complete.
func (s *Store) Complete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, step := range s.flow.Steps {
		if len(s.missing(step)) > 0 {
			return false
		}
	}
	return true
}

// Assemble merges all steps in flow order into one object.
func (s *Store) Assemble() Data {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := Data{}
	for _, step := range s.flow.Steps {
		for k, v := range s.state.Steps[step.Key] {
			out[k] = v
		}
	}
	return out
}

// Decode assembles the steps into a typed payload such as
// api.ArtistRegistration.
func (s *Store) Decode(out any) error {
	raw, err := json.Marshal(s.Assemble())
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// Clear drops everything, on successful submission or abandonment.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state{Steps: map[string]Data{}}
	return s.kv.Delete(ctx, s.Key())
}

func (s *Store) persist(ctx context.Context) error {
	raw, err := json.Marshal(s.state)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.Key(), raw)
}

func copyData(d Data) Data {
	if d == nil {
		return nil
	}
	out := make(Data, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
