package session

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkbook/internal/client/api"
	"inkbook/internal/client/kv"
)

type fakeAccepter struct {
	calls []string
	err   error
}

func (f *fakeAccepter) AcceptInvitation(_ context.Context, token string) (*api.Membership, error) {
	f.calls = append(f.calls, token)
	if f.err != nil {
		return nil, f.err
	}
	return &api.Membership{ID: 7, StudioID: 1, UserID: 2, Status: api.InvitationAccepted}, nil
}

func signedIn(t *testing.T, s *Session) {
	t.Helper()
	require.NoError(t, s.SetAuth(context.Background(), &api.Session{
		Token: "jwt",
		User:  api.User{ID: 2, Role: "artist"},
	}))
}

func TestSession_AuthLifecycle(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	s := New(store)

	assert.False(t, s.Authenticated())
	assert.ErrorIs(t, s.SetAuth(ctx, &api.Session{}), ErrNotAuthenticated)

	signedIn(t, s)
	assert.True(t, s.Authenticated())
	assert.Equal(t, "jwt", s.Token())
	assert.Equal(t, int64(2), s.UserID())
	assert.Equal(t, "artist", s.Role())

	restored := New(store)
	require.NoError(t, restored.Restore(ctx))
	assert.Equal(t, "jwt", restored.Token())

	require.NoError(t, s.Clear(ctx))
	assert.False(t, s.Authenticated())

	fresh := New(store)
	require.NoError(t, fresh.Restore(ctx))
	assert.False(t, fresh.Authenticated())
}

func TestResolvePendingInvitation_AcceptsOnceAfterSignIn(t *testing.T) {
	ctx := context.Background()
	db, err := kv.Open(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	defer db.Close()

	s := New(db)
	assert.ErrorIs(t, s.SetPendingInvitation(ctx, "  "), ErrEmptyInviteToken)
	require.NoError(t, s.SetPendingInvitation(ctx, "inv-token"))

	acc := &fakeAccepter{}
	_, err = s.ResolvePendingInvitation(ctx, acc)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Empty(t, acc.calls)

	signedIn(t, s)
	m, err := s.ResolvePendingInvitation(ctx, acc)
	require.NoError(t, err)
	assert.Equal(t, api.InvitationAccepted, m.Status)
	assert.Equal(t, []string{"inv-token"}, acc.calls)

	_, err = s.PendingInvitation(ctx)
	assert.ErrorIs(t, err, ErrNoPendingInvite)

	_, err = s.ResolvePendingInvitation(ctx, acc)
	assert.ErrorIs(t, err, ErrNoPendingInvite)
	assert.Len(t, acc.calls, 1)
}

func TestResolvePendingInvitation_KeepsTokenOnTransportError(t *testing.T) {
	ctx := context.Background()
	s := New(kv.NewMemory())
	signedIn(t, s)
	require.NoError(t, s.SetPendingInvitation(ctx, "inv-token"))

	acc := &fakeAccepter{err: errors.New("connection refused")}
	_, err := s.ResolvePendingInvitation(ctx, acc)
	require.Error(t, err)

	token, err := s.PendingInvitation(ctx)
	require.NoError(t, err)
	assert.Equal(t, "inv-token", token)
}

func TestResolvePendingInvitation_DropsTokenWhenRefused(t *testing.T) {
	ctx := context.Background()
	s := New(kv.NewMemory())
	signedIn(t, s)
	require.NoError(t, s.SetPendingInvitation(ctx, "inv-token"))

	acc := &fakeAccepter{err: &api.Error{
		Status: http.StatusConflict,
		Code:   "INVITATION_ALREADY_ACCEPTED",
	}}
	_, err := s.ResolvePendingInvitation(ctx, acc)
	require.Error(t, err)
	assert.True(t, api.HasCode(err, "INVITATION_ALREADY_ACCEPTED"))

	_, err = s.PendingInvitation(ctx)
	assert.ErrorIs(t, err, ErrNoPendingInvite)
}

func TestResolvePendingInvitation_KeepsTokenOnAuthAndRateLimit(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusTooManyRequests} {
		ctx := context.Background()
		s := New(kv.NewMemory())
		signedIn(t, s)
		require.NoError(t, s.SetPendingInvitation(ctx, "inv-token"))

		acc := &fakeAccepter{err: &api.Error{Status: status, Code: "RETRY_LATER"}}
		_, err := s.ResolvePendingInvitation(ctx, acc)
		require.Error(t, err)

		token, err := s.PendingInvitation(ctx)
		require.NoError(t, err, "status %d", status)
		assert.Equal(t, "inv-token", token)
	}
}

func TestResolvePendingInvitation_DropsTokenWhenGone(t *testing.T) {
	ctx := context.Background()
	s := New(kv.NewMemory())
	signedIn(t, s)
	require.NoError(t, s.SetPendingInvitation(ctx, "inv-token"))

	_, err := s.ResolvePendingInvitation(ctx, &fakeAccepter{err: &api.Error{Status: http.StatusGone}})
	require.Error(t, err)

	_, err = s.PendingInvitation(ctx)
	assert.ErrorIs(t, err, ErrNoPendingInvite)
}
