package mq

import (
	"context"
	"sync"
)

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	Events []Recorded
}

type Recorded struct {
	Key     string
	Payload any
}

func (r *Recorder) PublishJSON(ctx context.Context, key string, v any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, Recorded{Key: key, Payload: v})
	return nil
}

// Keys returns the routing keys in publish order.
func (r *Recorder) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		keys = append(keys, e.Key)
	}
	return keys
}
