package draft

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type studioForm struct {
	Name     string  `json:"name"`
	StyleIDs []int64 `json:"style_ids"`
}

var formEqual = All(
	func(a, b studioForm) bool { return a.Name == b.Name },
	func(a, b studioForm) bool { return SameIDSet(a.StyleIDs, b.StyleIDs) },
)

type recorder struct {
	mu     sync.Mutex
	backs  int
	toasts []string
}

func (r *recorder) Back() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backs++
}

func (r *recorder) Toast(m string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, m)
}

type fakeBackend struct {
	row    studioForm
	saves  int
	fail   error
	echoFn func(studioForm) studioForm
}

func (b *fakeBackend) fetch(ctx context.Context) (studioForm, error) { return b.row, nil }

func (b *fakeBackend) save(ctx context.Context, d studioForm) (*studioForm, error) {
	b.saves++
	if b.fail != nil {
		return nil, b.fail
	}
	b.row = d
	if b.echoFn != nil {
		echo := b.echoFn(d)
		b.row = echo
		return &echo, nil
	}
	return nil, nil
}

func newHolder(t *testing.T, b *fakeBackend, r *recorder) *Holder[studioForm] {
	t.Helper()
	h, err := New(Config[studioForm]{
		Fetch: b.fetch,
		Save:  b.save,
		Equal: formEqual,
		Validate: func(f studioForm) map[string]string {
			if len(f.StyleIDs) == 0 {
				return map[string]string{"style_ids": "select at least one style"}
			}
			return nil
		},
		Nav:    r,
		Notify: r,
	})
	require.NoError(t, err)
	require.NoError(t, h.Load(context.Background()))
	return h
}

func TestHasUnsavedChanges_UsesFieldEquality(t *testing.T) {
	b := &fakeBackend{row: studioForm{Name: "Ink Den", StyleIDs: []int64{1, 2, 3}}}
	h := newHolder(t, b, &recorder{})

	assert.False(t, h.HasUnsavedChanges())

	h.Edit(func(d *studioForm) { d.StyleIDs = []int64{3, 1, 2} })
	assert.False(t, h.HasUnsavedChanges(), "reordering a set is not a change")

	h.Edit(func(d *studioForm) { d.StyleIDs = []int64{3, 1} })
	assert.True(t, h.HasUnsavedChanges())

	h.Edit(func(d *studioForm) { d.StyleIDs = []int64{1, 2, 3} })
	assert.False(t, h.HasUnsavedChanges())

	h.Edit(func(d *studioForm) { d.Name = "Ink Den " })
	assert.True(t, h.HasUnsavedChanges())
}

func TestEdit_DoesNotLeakIntoSnapshot(t *testing.T) {
	b := &fakeBackend{row: studioForm{Name: "A", StyleIDs: []int64{1, 2}}}
	h := newHolder(t, b, &recorder{})

	h.Edit(func(d *studioForm) { d.StyleIDs[0] = 9 })
	assert.Equal(t, []int64{1, 2}, h.Initial().StyleIDs)
	assert.True(t, h.HasUnsavedChanges())
}

func TestSave_NoopWhenClean(t *testing.T) {
	b := &fakeBackend{row: studioForm{Name: "A", StyleIDs: []int64{1}}}
	r := &recorder{}
	h := newHolder(t, b, r)

	res, err := h.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SaveNoop, res)
	assert.Zero(t, b.saves)
	assert.Equal(t, 1, r.backs)
}

func TestSave_ValidationBlocksWrite(t *testing.T) {
	b := &fakeBackend{row: studioForm{Name: "A", StyleIDs: []int64{1}}}
	r := &recorder{}
	h := newHolder(t, b, r)

	h.Edit(func(d *studioForm) { d.StyleIDs = nil })
	_, err := h.Save(context.Background())
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "style_ids")
	assert.Zero(t, b.saves)
	assert.Zero(t, r.backs)
	assert.Empty(t, r.toasts)
}

func TestSave_FailureKeepsDraft(t *testing.T) {
	b := &fakeBackend{row: studioForm{Name: "A", StyleIDs: []int64{1}}, fail: errors.New("network down")}
	r := &recorder{}
	h := newHolder(t, b, r)

	h.Edit(func(d *studioForm) { d.Name = "B" })
	_, err := h.Save(context.Background())
	require.Error(t, err)
	assert.Equal(t, "B", h.Draft().Name)
	assert.Equal(t, "A", h.Initial().Name)
	assert.True(t, h.HasUnsavedChanges())
	assert.Equal(t, []string{"network down"}, r.toasts)
	assert.Zero(t, r.backs)
	assert.EqualError(t, h.Err(), "network down")

	b.fail = nil
	res, err := h.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SaveApplied, res)
	assert.False(t, h.HasUnsavedChanges())
	assert.Equal(t, 1, r.backs)
}

func TestSave_AdoptsServerEcho(t *testing.T) {
	b := &fakeBackend{
		row:    studioForm{Name: "A", StyleIDs: []int64{1}},
		echoFn: func(f studioForm) studioForm { f.Name = strings.TrimSpace(f.Name); return f },
	}
	h := newHolder(t, b, &recorder{})

	h.Edit(func(d *studioForm) { d.Name = "  trimmed  " })
	_, err := h.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "trimmed", h.Initial().Name)
	assert.Equal(t, "trimmed", h.Draft().Name)
	assert.False(t, h.HasUnsavedChanges())
}

func TestGate_ConfirmDiscardRoundTrip(t *testing.T) {
	b := &fakeBackend{row: studioForm{Name: "Saved", StyleIDs: []int64{1}}}
	r := &recorder{}
	h := newHolder(t, b, r)
	ctx := context.Background()

	var answer Choice
	prompts := 0
	gate := h.Gate(PrompterFunc(func(context.Context) (Choice, error) {
		prompts++
		return answer, nil
	}))

	left, err := gate.RequestBack(ctx)
	require.NoError(t, err)
	assert.True(t, left)
	assert.Zero(t, prompts, "clean screens leave without asking")

	h.Edit(func(d *studioForm) { d.Name = "Unsaved" })

	answer = ContinueEditing
	left, err = gate.RequestBack(ctx)
	require.NoError(t, err)
	assert.False(t, left)
	assert.Equal(t, "Unsaved", h.Draft().Name)

	answer = DiscardChanges
	left, err = gate.RequestBack(ctx)
	require.NoError(t, err)
	assert.True(t, left)
	assert.Equal(t, 2, prompts)
	assert.Equal(t, 2, r.backs)
	assert.Zero(t, b.saves)

	// re-entering the screen shows the last saved value
	again := newHolder(t, b, r)
	assert.Equal(t, "Saved", again.Draft().Name)
	assert.Equal(t, "Saved", h.Draft().Name)
}

func TestSameIDSet(t *testing.T) {
	assert.True(t, SameIDSet([]int64{}, nil))
	assert.True(t, SameIDSet([]string{"a", "b"}, []string{"b", "a"}))
	assert.False(t, SameIDSet([]int64{1, 1, 2}, []int64{1, 2, 2}))
	assert.False(t, SameIDSet([]int64{1}, []int64{1, 2}))
}

func TestJSONEqual(t *testing.T) {
	assert.True(t, JSONEqual(map[string]any{"a": 1, "b": []int{1}}, map[string]any{"b": []int{1}, "a": 1}))
	assert.False(t, JSONEqual([]int{1, 2}, []int{2, 1}))
}
