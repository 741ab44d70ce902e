package wizard

import (
	"context"
	"path/filepath"
	"testing"

	"inkbook/internal/client/api"
	"inkbook/internal/client/kv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlows_StepCounts(t *testing.T) {
	assert.Len(t, LoverFlow.Steps, 8)
	assert.Len(t, ArtistFlow.Steps, 13)
	assert.Len(t, StudioFlow.Steps, 8)

	for _, f := range []Flow{LoverFlow, ArtistFlow, StudioFlow} {
		seen := map[string]bool{}
		for _, s := range f.Steps {
			assert.False(t, seen[s.Key], "%s: duplicate step %s", f.Name, s.Key)
			seen[s.Key] = true
		}
	}
}

// UpdateStep replaces the slot: a caller that writes back a partial object
// loses the fields it left out. MergeStep is the field-by-field alternative.
func TestUpdateStep_ReplacesSlot(t *testing.T) {
	ctx := context.Background()
	w, err := Open(ctx, kv.NewMemory(), StudioFlow)
	require.NoError(t, err)

	require.NoError(t, w.UpdateStep(ctx, "location", Data{"address": "12 Soi 5", "city": "Bangkok"}))
	require.NoError(t, w.UpdateStep(ctx, "location", Data{"city": "Chiang Mai"}))
	assert.Equal(t, Data{"city": "Chiang Mai"}, w.Step("location"))
	assert.False(t, w.StepComplete("location"))
	assert.Equal(t, []string{"address"}, w.MissingFields("location"))

	require.NoError(t, w.UpdateStep(ctx, "location", Data{"address": "12 Soi 5", "city": "Bangkok"}))
	require.NoError(t, w.MergeStep(ctx, "location", Data{"city": "Chiang Mai"}))
	assert.Equal(t, Data{"address": "12 Soi 5", "city": "Chiang Mai"}, w.Step("location"))

	assert.ErrorIs(t, w.UpdateStep(ctx, "nope", Data{}), ErrUnknownStep)
}

func TestNext_GatedByCompleteness(t *testing.T) {
	ctx := context.Background()
	w, err := Open(ctx, kv.NewMemory(), LoverFlow)
	require.NoError(t, err)

	assert.ErrorIs(t, w.Next(ctx), ErrStepIncomplete)

	require.NoError(t, w.UpdateStep(ctx, "email", Data{"email": "not-an-email"}))
	assert.ErrorIs(t, w.Next(ctx), ErrStepIncomplete)

	require.NoError(t, w.UpdateStep(ctx, "email", Data{"email": "fan@ink.test"}))
	require.NoError(t, w.Next(ctx))
	assert.Equal(t, "password", w.Current().Key)

	require.NoError(t, w.Back(ctx))
	require.NoError(t, w.Back(ctx))
	assert.Equal(t, 0, w.CurrentIndex())

	assert.ErrorIs(t, w.GoTo(ctx, 3), ErrStepIncomplete)
	require.NoError(t, w.GoTo(ctx, 1))
	assert.ErrorIs(t, w.GoTo(ctx, 8), ErrStepOutOfRange)
}

func TestWizard_ResumesAfterRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "device.db")
	store, err := kv.Open(path)
	require.NoError(t, err)

	w, err := Open(ctx, store, ArtistFlow)
	require.NoError(t, err)
	steps := []Data{
		{"email": "needles@ink.test"},
		{"password": "long enough"},
		{"username": "needles"},
	}
	for i, d := range steps {
		require.NoError(t, w.UpdateStep(ctx, ArtistFlow.Steps[i].Key, d))
		require.NoError(t, w.Next(ctx))
	}
	require.NoError(t, store.Close())

	// app restart
	store, err = kv.Open(path)
	require.NoError(t, err)
	defer store.Close()
	resumed, err := Open(ctx, store, ArtistFlow)
	require.NoError(t, err)

	assert.Equal(t, 3, resumed.CurrentIndex())
	assert.Equal(t, "display_name", resumed.Current().Key)
	for i, d := range steps {
		assert.Equal(t, d, resumed.Step(ArtistFlow.Steps[i].Key))
		assert.True(t, resumed.StepComplete(ArtistFlow.Steps[i].Key))
	}
	assert.False(t, resumed.Complete())
}

func TestWizard_AssembleDecodeAndClear(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	w, err := Open(ctx, store, ArtistFlow)
	require.NoError(t, err)

	fill := map[string]Data{
		"email":            {"email": "needles@ink.test"},
		"password":         {"password": "long enough"},
		"username":         {"username": "needles"},
		"display_name":     {"display_name": "Nina"},
		"city":             {"city": "Bangkok"},
		"work_arrangement": {"work_arrangement": "guest"},
		"rates":            {"hourly_rate": 1500, "minimum_charge": 500, "currency": "THB"},
		"styles": {"styles": []any{
			map[string]any{"style_id": 1, "is_primary": true},
			map[string]any{"style_id": 4},
		}},
		"services":   {"service_ids": []any{2}},
		"body_parts": {"body_part_ids": []any{1, 3}},
	}
	for key, d := range fill {
		require.NoError(t, w.UpdateStep(ctx, key, d))
	}
	assert.True(t, w.Complete())

	// decode from the persisted form, as after a restart
	restored, err := Open(ctx, store, ArtistFlow)
	require.NoError(t, err)
	var reg api.ArtistRegistration
	require.NoError(t, restored.Decode(&reg))
	assert.Equal(t, "needles", reg.Username)
	assert.Equal(t, int64(1500), reg.HourlyRate)
	assert.Equal(t, []int64{1, 3}, reg.BodyPartIDs)
	require.Len(t, reg.Styles, 2)
	assert.True(t, reg.Styles[0].IsPrimary)
	assert.NoError(t, reg.Validate())

	require.NoError(t, restored.Clear(ctx))
	_, err = store.Get(ctx, restored.Key())
	assert.ErrorIs(t, err, kv.ErrNotFound)
	assert.Empty(t, restored.Assemble())
}
