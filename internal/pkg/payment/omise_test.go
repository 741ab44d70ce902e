package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChargeEvent_Successful(t *testing.T) {
	ev := &ChargeEvent{Key: "charge.complete", Status: "successful", Metadata: map[string]any{"subscription_id": "sub-1"}}
	assert.True(t, ev.Successful())
	assert.Equal(t, "sub-1", ev.MetadataString("subscription_id"))
	assert.Equal(t, "", ev.MetadataString("missing"))

	failed := &ChargeEvent{Key: "charge.complete", Status: "failed"}
	assert.False(t, failed.Successful())

	other := &ChargeEvent{Key: "charge.create", Status: "successful"}
	assert.False(t, other.Successful())
}

func TestCreateCheckout_RejectsNonPositiveAmount(t *testing.T) {
	o, err := NewOmiseCheckout("pkey_test_x", "skey_test_x", "promptpay", "inkbook://return", "thb")
	require.NoError(t, err)

	_, err = o.CreateCheckout(context.Background(), 0, nil)
	assert.ErrorIs(t, err, ErrInvalidParams)
}
