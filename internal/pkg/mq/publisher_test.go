package mq

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPublisher struct{}

func (failingPublisher) PublishJSON(ctx context.Context, key string, v any) error {
	return errors.New("broker down")
}

func TestPublish_WrapsInEnvelope(t *testing.T) {
	rec := &Recorder{}
	Publish(context.Background(), rec, "studio.invitation.created", map[string]any{"studio_id": 1})

	require.Len(t, rec.Events, 1)
	assert.Equal(t, "studio.invitation.created", rec.Events[0].Key)

	env, ok := rec.Events[0].Payload.(Envelope)
	require.True(t, ok)
	assert.Equal(t, "studio.invitation.created", env.Event)
	assert.Equal(t, 1, env.Version)
	assert.NotEmpty(t, env.OccurredAt)
}

func TestPublish_NilAndFailingPublishersDoNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		Publish(context.Background(), nil, "x", nil)
		Publish(context.Background(), failingPublisher{}, "x", nil)
		Publish(context.Background(), Nop{}, "x", nil)
	})
}
