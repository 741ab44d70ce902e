package chat

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"inkbook/internal/domain/user"
	"inkbook/internal/pkg/mq"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	loverID   int64 = 1
	artistID  int64 = 2
	artist2ID int64 = 3
)

type fakeUsers map[int64]string

func (f fakeUsers) GetRole(ctx context.Context, userID int64) (string, error) {
	r, ok := f[userID]
	if !ok {
		return "", user.ErrUserNotFound
	}
	return r, nil
}

type sentEvent struct {
	ConversationID string
	UserIDs        []int64
	Event          *Event
}

type fakeHub struct {
	mu     sync.Mutex
	events []sentEvent
}

func (f *fakeHub) Broadcast(conversationID string, userIDs []int64, ev *Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, sentEvent{conversationID, userIDs, ev})
}

func (f *fakeHub) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Event.Type)
	}
	return out
}

func setupTestService(t *testing.T) (*Service, *fakeHub, *mq.Recorder) {
	t.Helper()
	dsn := fmt.Sprintf("file:chat_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(Models()...))

	users := fakeUsers{
		loverID:   string(user.RoleTattooLover),
		artistID:  string(user.RoleArtist),
		artist2ID: string(user.RoleArtist),
	}
	hub := &fakeHub{}
	rec := &mq.Recorder{}
	svc := NewService(NewRepository(db), users, hub, rec)

	// strictly increasing clock so ordering is deterministic
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	tick := 0
	svc.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return svc, hub, rec
}

func TestStartConversation_RequestGating(t *testing.T) {
	svc, hub, rec := setupTestService(t)
	ctx := context.Background()

	conv, created, err := svc.StartConversation(ctx, loverID, artistID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, StatusRequested, conv.Status)
	assert.Equal(t, []string{"chat.conversation.requested"}, rec.Keys())

	// same pair from the other side resolves to the same row
	again, created, err := svc.StartConversation(ctx, artistID, loverID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, conv.ID, again.ID)

	_, err = svc.SendMessage(ctx, loverID, conv.ID, SendMessageRequest{Content: "hi, free next week?"})
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, artistID, conv.ID, SendMessageRequest{Content: "sure"})
	assert.ErrorIs(t, err, ErrAwaitingAcceptance)

	_, err = svc.Accept(ctx, loverID, conv.ID)
	assert.ErrorIs(t, err, ErrNotRecipient)

	accepted, err := svc.Accept(ctx, artistID, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, accepted.Status)

	_, err = svc.SendMessage(ctx, artistID, conv.ID, SendMessageRequest{Content: "sure"})
	require.NoError(t, err)

	_, err = svc.Decline(ctx, artistID, conv.ID)
	assert.ErrorIs(t, err, ErrNotRequested)

	assert.Equal(t, []string{EventNewMessage, EventStatus, EventNewMessage}, hub.types())
}

func TestDecline_BlocksEveryone(t *testing.T) {
	svc, _, rec := setupTestService(t)
	ctx := context.Background()

	conv, _, err := svc.StartConversation(ctx, loverID, artistID)
	require.NoError(t, err)
	_, err = svc.Decline(ctx, artistID, conv.ID)
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, loverID, conv.ID, SendMessageRequest{Content: "please?"})
	assert.ErrorIs(t, err, ErrConversationDeclined)
	_, err = svc.SendMessage(ctx, artistID, conv.ID, SendMessageRequest{Content: "no"})
	assert.ErrorIs(t, err, ErrConversationDeclined)
	assert.Contains(t, rec.Keys(), "chat.conversation.declined")
}

func TestStartConversation_ArtistToArtistIsActive(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()

	conv, _, err := svc.StartConversation(ctx, artistID, artist2ID)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, conv.Status)

	conv, _, err = svc.StartConversation(ctx, artistID, loverID)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, conv.Status)

	_, _, err = svc.StartConversation(ctx, artistID, artistID)
	assert.ErrorIs(t, err, ErrCannotChatSelf)
	_, _, err = svc.StartConversation(ctx, artistID, 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSendMessage_IdempotentOnClientID(t *testing.T) {
	svc, hub, _ := setupTestService(t)
	ctx := context.Background()
	conv, _, err := svc.StartConversation(ctx, artistID, artist2ID)
	require.NoError(t, err)

	id := uuid.New().String()
	first, err := svc.SendMessage(ctx, artistID, conv.ID, SendMessageRequest{ID: id, Content: "sketch attached"})
	require.NoError(t, err)
	second, err := svc.SendMessage(ctx, artistID, conv.ID, SendMessageRequest{ID: id, Content: "sketch attached"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))

	page, err := svc.ListMessages(ctx, artistID, conv.ID, nil, 0)
	require.NoError(t, err)
	assert.Len(t, page.Messages, 1)
	assert.False(t, page.HasMore)
	assert.Len(t, hub.types(), 1)

	_, err = svc.SendMessage(ctx, artist2ID, conv.ID, SendMessageRequest{ID: id, Content: "hijack"})
	assert.ErrorIs(t, err, ErrMessageIDConflict)

	_, err = svc.SendMessage(ctx, artistID, conv.ID, SendMessageRequest{ID: "not-a-uuid", Content: "x"})
	assert.ErrorIs(t, err, ErrInvalidMessageID)
	_, err = svc.SendMessage(ctx, artistID, conv.ID, SendMessageRequest{Content: "   "})
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestListMessages_CursorPagination(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()
	conv, _, err := svc.StartConversation(ctx, artistID, artist2ID)
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		_, err := svc.SendMessage(ctx, artistID, conv.ID, SendMessageRequest{Content: fmt.Sprintf("m%d", i)})
		require.NoError(t, err)
	}

	latest, err := svc.ListMessages(ctx, artist2ID, conv.ID, nil, 2)
	require.NoError(t, err)
	require.Len(t, latest.Messages, 2)
	assert.True(t, latest.HasMore)
	assert.Equal(t, "m4", latest.Messages[0].Content)
	assert.Equal(t, "m5", latest.Messages[1].Content)

	oldest := latest.Messages[0]
	older, err := svc.ListMessages(ctx, artist2ID, conv.ID, &Cursor{CreatedAt: oldest.CreatedAt, ID: oldest.ID}, 2)
	require.NoError(t, err)
	require.Len(t, older.Messages, 2)
	assert.True(t, older.HasMore)
	assert.Equal(t, "m2", older.Messages[0].Content)
	assert.Equal(t, "m3", older.Messages[1].Content)

	oldest = older.Messages[0]
	rest, err := svc.ListMessages(ctx, artist2ID, conv.ID, &Cursor{CreatedAt: oldest.CreatedAt, ID: oldest.ID}, 2)
	require.NoError(t, err)
	require.Len(t, rest.Messages, 1)
	assert.False(t, rest.HasMore)
	assert.Equal(t, "m1", rest.Messages[0].Content)

	_, err = svc.ListMessages(ctx, loverID, conv.ID, nil, 2)
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestMarkRead_AndUnreadCounts(t *testing.T) {
	svc, hub, _ := setupTestService(t)
	ctx := context.Background()
	conv, _, err := svc.StartConversation(ctx, artistID, artist2ID)
	require.NoError(t, err)

	for _, text := range []string{"hey", "you there?"} {
		_, err := svc.SendMessage(ctx, artistID, conv.ID, SendMessageRequest{Content: text})
		require.NoError(t, err)
	}
	_, err = svc.SendMessage(ctx, artist2ID, conv.ID, SendMessageRequest{Content: "yes"})
	require.NoError(t, err)

	n, err := svc.GetUnreadCount(ctx, artist2ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	inbox, err := svc.ListConversations(ctx, artist2ID)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, 2, inbox[0].UnreadCount)
	assert.Equal(t, artistID, inbox[0].OtherUserID)
	assert.Equal(t, "yes", inbox[0].LastMessage.Content)

	marked, err := svc.MarkRead(ctx, artist2ID, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, marked)

	n, err = svc.GetUnreadCount(ctx, artist2ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	// nothing left to mark: no second read event
	marked, err = svc.MarkRead(ctx, artist2ID, conv.ID)
	require.NoError(t, err)
	assert.Zero(t, marked)

	types := hub.types()
	assert.Equal(t, EventRead, types[len(types)-1])
	assert.Equal(t, 1, countOf(types, EventRead))
}

func countOf(items []string, want string) int {
	n := 0
	for _, it := range items {
		if it == want {
			n++
		}
	}
	return n
}

type fakeBlocks map[[2]int64]bool

func (f fakeBlocks) IsBlocked(_ context.Context, a, b int64) (bool, error) {
	return f[[2]int64{a, b}] || f[[2]int64{b, a}], nil
}

func TestBlockedUsersCannotChat(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()

	conv, _, err := svc.StartConversation(ctx, artistID, artist2ID)
	require.NoError(t, err)

	blocks := fakeBlocks{}
	svc.WithBlocks(blocks)
	blocks[[2]int64{artist2ID, artistID}] = true

	_, _, err = svc.StartConversation(ctx, loverID, artistID)
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, artistID, conv.ID, SendMessageRequest{Content: "still there?"})
	assert.ErrorIs(t, err, ErrBlocked)

	_, _, err = svc.StartConversation(ctx, artistID, artist2ID)
	assert.ErrorIs(t, err, ErrBlocked)
}
