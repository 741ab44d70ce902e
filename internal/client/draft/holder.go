// Package draft holds one screen's editable copy of an entity, its last-saved
// snapshot and the confirm-discard gate that guards leaving with edits.
package draft

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
)

var (
	ErrNotLoaded        = errors.New("draft: not loaded")
	ErrSaveInProgress   = errors.New("draft: save already in progress")
	errMissingFetchSave = errors.New("draft: Fetch and Save are required")
)

type SaveResult int

const (
	// SaveNoop: nothing changed, nothing was sent.
	SaveNoop SaveResult = iota
	SaveApplied
)

// Navigator performs the screen's back navigation.
type Navigator interface {
	Back()
}

// Notifier shows transient messages.
type Notifier interface {
	Toast(message string)
}

// ValidationError is shown inline next to the fields; nothing was sent.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}

type Config[T any] struct {
	// Fetch loads the current entity once per screen mount.
	Fetch func(ctx context.Context) (T, error)
	// Save writes the draft. A non-nil result is the server echo and becomes
	// the new snapshot.
	Save func(ctx context.Context, draft T) (*T, error)
	// Equal defines "unchanged". Defaults to JSONEqual.
	Equal func(a, b T) bool
	// Validate returns field -> message for invariants checked before saving.
	Validate func(T) map[string]string
	// Clone deep-copies a value. Defaults to a JSON round trip.
	Clone func(T) T

	Nav    Navigator
	Notify Notifier
}

// Holder is safe for concurrent use.
type Holder[T any] struct {
	cfg Config[T]

	mu      sync.Mutex
	draft   T
	initial T
	loaded  bool
	loading bool
	saving  bool
	err     error
}

func New[T any](cfg Config[T]) (*Holder[T], error) {
	if cfg.Fetch == nil || cfg.Save == nil {
		return nil, errMissingFetchSave
	}
	if cfg.Equal == nil {
		cfg.Equal = func(a, b T) bool { return JSONEqual(a, b) }
	}
	if cfg.Clone == nil {
		cfg.Clone = jsonClone[T]
	}
	return &Holder[T]{cfg: cfg}, nil
}

// Load fetches the entity and resets draft and snapshot to it. A failure is
// kept in Err for the full-screen error state.
func (h *Holder[T]) Load(ctx context.Context) error {
	h.mu.Lock()
	h.loading = true
	h.err = nil
	h.mu.Unlock()

	v, err := h.cfg.Fetch(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.loading = false
	if err != nil {
		h.err = err
		return err
	}
	h.initial = h.cfg.Clone(v)
	h.draft = h.cfg.Clone(v)
	h.loaded = true
	return nil
}

func (h *Holder[T]) Draft() T {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cfg.Clone(h.draft)
}

func (h *Holder[T]) Initial() T {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cfg.Clone(h.initial)
}

// Edit mutates the draft only.
func (h *Holder[T]) Edit(fn func(d *T)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fn(&h.draft)
}

func (h *Holder[T]) HasUnsavedChanges() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loaded && !h.cfg.Equal(h.draft, h.initial)
}

// Discard drops the draft back to the snapshot.
func (h *Holder[T]) Discard() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.draft = h.cfg.Clone(h.initial)
}

func (h *Holder[T]) Loaded() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loaded
}

func (h *Holder[T]) Loading() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loading
}

func (h *Holder[T]) Saving() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.saving
}

func (h *Holder[T]) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Save writes the draft when it differs from the snapshot, then navigates
// back. On a backend error the draft is left as is, a toast is shown and the
// error is returned so the user can retry.
func (h *Holder[T]) Save(ctx context.Context) (SaveResult, error) {
	h.mu.Lock()
	if !h.loaded {
		h.mu.Unlock()
		return SaveNoop, ErrNotLoaded
	}
	if h.saving {
		h.mu.Unlock()
		return SaveNoop, ErrSaveInProgress
	}
	if h.cfg.Equal(h.draft, h.initial) {
		h.mu.Unlock()
		h.back()
		return SaveNoop, nil
	}
	if h.cfg.Validate != nil {
		if fields := h.cfg.Validate(h.draft); len(fields) > 0 {
			h.mu.Unlock()
			return SaveNoop, &ValidationError{Fields: fields}
		}
	}
	sent := h.cfg.Clone(h.draft)
	h.saving = true
	h.err = nil
	h.mu.Unlock()

	echo, err := h.cfg.Save(ctx, sent)

	h.mu.Lock()
	h.saving = false
	if err != nil {
		h.err = err
		h.mu.Unlock()
		if h.cfg.Notify != nil {
			h.cfg.Notify.Toast(err.Error())
		}
		return SaveNoop, err
	}

	saved := sent
	if echo != nil {
		saved = *echo
	}
	// edits made while the request was in flight stay in the draft
	if h.cfg.Equal(h.draft, sent) {
		h.draft = h.cfg.Clone(saved)
	}
	h.initial = h.cfg.Clone(saved)
	h.mu.Unlock()

	h.back()
	return SaveApplied, nil
}

func (h *Holder[T]) back() {
	if h.cfg.Nav != nil {
		h.cfg.Nav.Back()
	}
}

// Gate builds the confirm-discard gate for this holder.
func (h *Holder[T]) Gate(p Prompter) *Gate {
	return NewGate(h.HasUnsavedChanges, p, h.Discard, h.back)
}
