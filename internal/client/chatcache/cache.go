package chatcache

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"inkbook/internal/client/api"
)

var (
	ErrNotLoaded       = errors.New("conversation not loaded")
	ErrMessageNotFound = errors.New("message not in cache")
	ErrNotFailed       = errors.New("message is not in failed state")
)

const (
	defaultPageSize  = 30
	defaultReadDelay = 800 * time.Millisecond
)

// Accessor is the subset of the api client the cache reads and writes through.
type Accessor interface {
	ListMessages(ctx context.Context, conversationID string, before *api.Cursor, limit int) (*api.MessagesPage, error)
	SendMessage(ctx context.Context, conversationID string, m api.NewMessage) (*api.Message, error)
	MarkRead(ctx context.Context, conversationID string) (int, error)
}

// Realtime delivers messages pushed by the server for subscribed conversations.
type Realtime interface {
	Subscribe(conversationID string, onMessage func(api.Message)) error
	Unsubscribe(conversationID string) error
}

type State int

const (
	Sent State = iota
	Pending
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Failed:
		return "failed"
	default:
		return "sent"
	}
}

type Entry struct {
	api.Message
	State State
}

type thread struct {
	entries    []Entry
	hasMore    bool
	loaded     bool
	subscribed bool
	readTimer  *time.Timer
}

type Option func(*Cache)

func WithPageSize(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

func WithReadDelay(d time.Duration) Option {
	return func(c *Cache) { c.readDelay = d }
}

// Cache keeps one oldest-first message list per conversation. Page loads and
// realtime pushes are applied under the same lock.
type Cache struct {
	api       Accessor
	rt        Realtime
	userID    int64
	pageSize  int
	readDelay time.Duration
	now       func() time.Time

	mu      sync.Mutex
	threads map[string]*thread
}

func New(accessor Accessor, rt Realtime, userID int64, opts ...Option) *Cache {
	c := &Cache{
		api:       accessor,
		rt:        rt,
		userID:    userID,
		pageSize:  defaultPageSize,
		readDelay: defaultReadDelay,
		now:       time.Now,
		threads:   make(map[string]*thread),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) thread(conversationID string) *thread {
	th, ok := c.threads[conversationID]
	if !ok {
		th = &thread{}
		c.threads[conversationID] = th
	}
	return th
}

// LoadLatest replaces the cached page with the most recent messages. Local
// pending and failed sends survive the reload, and so do confirmed messages
// newer than the page, which realtime may apply while the fetch is in flight.
func (c *Cache) LoadLatest(ctx context.Context, conversationID string) error {
	page, err := c.api.ListMessages(ctx, conversationID, nil, c.pageSize)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	th := c.thread(conversationID)
	fresh := make([]Entry, 0, len(page.Messages))
	seen := make(map[string]bool, len(page.Messages))
	for _, m := range page.Messages {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		fresh = append(fresh, Entry{Message: m, State: Sent})
	}
	var newest *api.Message
	if n := len(page.Messages); n > 0 {
		newest = &page.Messages[n-1]
	}
	for _, e := range th.entries {
		if seen[e.ID] {
			continue
		}
		if e.State != Sent || newest == nil || after(e.Message, *newest) {
			fresh = append(fresh, e)
		}
	}
	th.entries = fresh
	th.hasMore = page.HasMore
	th.loaded = true
	sortEntries(th.entries)
	return nil
}

// LoadOlder prepends the page preceding the oldest confirmed message and
// reports how many entries were added.
func (c *Cache) LoadOlder(ctx context.Context, conversationID string) (int, error) {
	c.mu.Lock()
	th, ok := c.threads[conversationID]
	if !ok || !th.loaded {
		c.mu.Unlock()
		return 0, ErrNotLoaded
	}
	if !th.hasMore {
		c.mu.Unlock()
		return 0, nil
	}
	var cursor *api.Cursor
	for _, e := range th.entries {
		if e.State == Sent {
			cursor = &api.Cursor{CreatedAt: e.CreatedAt, ID: e.ID}
			break
		}
	}
	c.mu.Unlock()

	page, err := c.api.ListMessages(ctx, conversationID, cursor, c.pageSize)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	th = c.thread(conversationID)
	seen := make(map[string]bool, len(th.entries))
	for _, e := range th.entries {
		seen[e.ID] = true
	}
	older := make([]Entry, 0, len(page.Messages))
	for _, m := range page.Messages {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		older = append(older, Entry{Message: m, State: Sent})
	}
	th.entries = append(older, th.entries...)
	th.hasMore = page.HasMore
	sortEntries(th.entries)
	return len(older), nil
}

// Subscribe opens the realtime feed for a conversation whose first page has
// already been loaded.
func (c *Cache) Subscribe(conversationID string) error {
	c.mu.Lock()
	th, ok := c.threads[conversationID]
	if !ok || !th.loaded {
		c.mu.Unlock()
		return ErrNotLoaded
	}
	if th.subscribed {
		c.mu.Unlock()
		return nil
	}
	// claimed before the call so a concurrent Subscribe returns early
	th.subscribed = true
	c.mu.Unlock()

	if err := c.rt.Subscribe(conversationID, func(m api.Message) {
		c.apply(conversationID, m)
	}); err != nil {
		c.mu.Lock()
		th.subscribed = false
		c.mu.Unlock()
		return err
	}
	return nil
}

func (c *Cache) Unsubscribe(conversationID string) error {
	c.mu.Lock()
	th, ok := c.threads[conversationID]
	if !ok || !th.subscribed {
		c.mu.Unlock()
		return nil
	}
	th.subscribed = false
	c.mu.Unlock()

	return c.rt.Unsubscribe(conversationID)
}

func (c *Cache) apply(conversationID string, m api.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	th, ok := c.threads[conversationID]
	if !ok || !th.loaded {
		return
	}
	c.upsert(th, m)
}

// upsert must be called with c.mu held.
func (c *Cache) upsert(th *thread, m api.Message) {
	for i := range th.entries {
		if th.entries[i].ID == m.ID {
			th.entries[i] = Entry{Message: m, State: Sent}
			sortEntries(th.entries)
			return
		}
	}
	th.entries = append(th.entries, Entry{Message: m, State: Sent})
	sortEntries(th.entries)
}

// OptimisticSend appends a locally built message before the write is issued.
// The server row replaces it on success; on failure the entry stays in the
// list marked Failed so it can be retried or discarded.
func (c *Cache) OptimisticSend(ctx context.Context, conversationID, content, mediaURL string) (Entry, error) {
	local := api.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		SenderID:       c.userID,
		Content:        content,
		MediaURL:       mediaURL,
		CreatedAt:      c.now().UTC(),
	}

	c.mu.Lock()
	th := c.thread(conversationID)
	if !th.loaded {
		c.mu.Unlock()
		return Entry{}, ErrNotLoaded
	}
	th.entries = append(th.entries, Entry{Message: local, State: Pending})
	c.mu.Unlock()

	return c.send(ctx, conversationID, local)
}

// Retry resends a failed entry under its original id so a write that did
// reach the server is not duplicated.
func (c *Cache) Retry(ctx context.Context, conversationID, messageID string) (Entry, error) {
	c.mu.Lock()
	th, ok := c.threads[conversationID]
	if !ok {
		c.mu.Unlock()
		return Entry{}, ErrNotLoaded
	}
	i := th.index(messageID)
	if i < 0 {
		c.mu.Unlock()
		return Entry{}, ErrMessageNotFound
	}
	if th.entries[i].State != Failed {
		c.mu.Unlock()
		return Entry{}, ErrNotFailed
	}
	th.entries[i].State = Pending
	local := th.entries[i].Message
	c.mu.Unlock()

	return c.send(ctx, conversationID, local)
}

// Discard drops a failed entry from the list.
func (c *Cache) Discard(conversationID, messageID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	th, ok := c.threads[conversationID]
	if !ok {
		return ErrNotLoaded
	}
	i := th.index(messageID)
	if i < 0 {
		return ErrMessageNotFound
	}
	if th.entries[i].State != Failed {
		return ErrNotFailed
	}
	th.entries = append(th.entries[:i], th.entries[i+1:]...)
	return nil
}

func (c *Cache) send(ctx context.Context, conversationID string, local api.Message) (Entry, error) {
	saved, err := c.api.SendMessage(ctx, conversationID, api.NewMessage{
		ID:       local.ID,
		Content:  local.Content,
		MediaURL: local.MediaURL,
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	th := c.thread(conversationID)
	if err != nil {
		if i := th.index(local.ID); i >= 0 && th.entries[i].State == Pending {
			th.entries[i].State = Failed
			return th.entries[i], err
		}
		return Entry{Message: local, State: Failed}, err
	}
	c.upsert(th, *saved)
	return Entry{Message: *saved, State: Sent}, nil
}

// MarkRead schedules a read marker write after the read delay. Calls within
// the delay collapse into one write; failures are only logged.
func (c *Cache) MarkRead(conversationID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	th := c.thread(conversationID)
	if th.readTimer != nil {
		th.readTimer.Stop()
	}
	th.readTimer = time.AfterFunc(c.readDelay, func() {
		if _, err := c.api.MarkRead(context.Background(), conversationID); err != nil {
			log.Printf("chat_mark_read_failed conversation=%s err=%v", conversationID, err)
		}
	})
}

// Messages returns a copy of the cached list, oldest first.
func (c *Cache) Messages(conversationID string) []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	th, ok := c.threads[conversationID]
	if !ok {
		return nil
	}
	return append([]Entry(nil), th.entries...)
}

// Render returns the list newest first with duplicate ids removed, ready for
// an inverted list view.
func (c *Cache) Render(conversationID string) []Entry {
	entries := c.Messages(conversationID)
	out := make([]Entry, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		if seen[entries[i].ID] {
			continue
		}
		seen[entries[i].ID] = true
		out = append(out, entries[i])
	}
	return out
}

func (c *Cache) HasMore(conversationID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	th, ok := c.threads[conversationID]
	return ok && th.hasMore
}

func (c *Cache) Loaded(conversationID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	th, ok := c.threads[conversationID]
	return ok && th.loaded
}

// Close stops pending read timers and drops every realtime subscription.
func (c *Cache) Close() error {
	c.mu.Lock()
	var subscribed []string
	for id, th := range c.threads {
		if th.readTimer != nil {
			th.readTimer.Stop()
		}
		if th.subscribed {
			th.subscribed = false
			subscribed = append(subscribed, id)
		}
	}
	c.mu.Unlock()

	var errs []error
	for _, id := range subscribed {
		if err := c.rt.Unsubscribe(id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (th *thread) index(id string) int {
	for i := range th.entries {
		if th.entries[i].ID == id {
			return i
		}
	}
	return -1
}

// after orders by (created_at, id), the server's page order.
func after(a, b api.Message) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		}
		return entries[i].ID < entries[j].ID
	})
}
