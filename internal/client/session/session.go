// Package session holds the signed-in identity for the client kit and carries
// a studio invitation token across sign-in.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"inkbook/internal/client/api"
	"inkbook/internal/client/kv"
)

const (
	authKey       = "session:auth"
	invitationKey = "session:pending_invitation"
)

var (
	ErrNotAuthenticated = errors.New("session: not authenticated")
	ErrNoPendingInvite  = errors.New("session: no pending invitation")
	ErrEmptyInviteToken = errors.New("session: empty invitation token")
)

// InvitationAccepter is implemented by *api.Client.
type InvitationAccepter interface {
	AcceptInvitation(ctx context.Context, token string) (*api.Membership, error)
}

type auth struct {
	Token  string `json:"token"`
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}

// Session is safe for concurrent use and satisfies api.TokenSource.
type Session struct {
	store kv.Store

	mu   sync.RWMutex
	auth auth
}

func New(store kv.Store) *Session {
	return &Session{store: store}
}

// Restore loads a previously persisted sign-in, if any.
func (s *Session) Restore(ctx context.Context) error {
	raw, err := s.store.Get(ctx, authKey)
	if errors.Is(err, kv.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	var a auth
	if err := json.Unmarshal(raw, &a); err != nil {
		return err
	}

	s.mu.Lock()
	s.auth = a
	s.mu.Unlock()
	return nil
}

// SetAuth records the result of a login or registration.
func (s *Session) SetAuth(ctx context.Context, issued *api.Session) error {
	if issued == nil || issued.Token == "" {
		return ErrNotAuthenticated
	}
	a := auth{Token: issued.Token, UserID: issued.User.ID, Role: issued.User.Role}

	raw, err := json.Marshal(a)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, authKey, raw); err != nil {
		return err
	}

	s.mu.Lock()
	s.auth = a
	s.mu.Unlock()
	return nil
}

// Clear signs out. A pending invitation is kept so it can be accepted by the
// next account that signs in.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.auth = auth{}
	s.mu.Unlock()

	return s.store.Delete(ctx, authKey)
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.auth.Token
}

func (s *Session) UserID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.auth.UserID
}

func (s *Session) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.auth.Role
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// SetPendingInvitation stores an invitation token opened from a deep link
// before the user has signed in.
func (s *Session) SetPendingInvitation(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyInviteToken
	}
	return s.store.Set(ctx, invitationKey, []byte(token))
}

func (s *Session) PendingInvitation(ctx context.Context) (string, error) {
	raw, err := s.store.Get(ctx, invitationKey)
	if errors.Is(err, kv.ErrNotFound) {
		return "", ErrNoPendingInvite
	}
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// ResolvePendingInvitation accepts the stored invitation for the signed-in
// user. The token is dropped once the backend has accepted it or refused the
// invitation itself (403, 404, 409, 410). Transport failures, 401 and 429
// keep it for a later attempt.
func (s *Session) ResolvePendingInvitation(ctx context.Context, accepter InvitationAccepter) (*api.Membership, error) {
	if !s.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	token, err := s.PendingInvitation(ctx)
	if err != nil {
		return nil, err
	}

	m, err := accepter.AcceptInvitation(ctx, token)
	if err != nil && !api.IsRefused(err) {
		return nil, err
	}
	if derr := s.store.Delete(ctx, invitationKey); derr != nil {
		return m, errors.Join(err, derr)
	}
	return m, err
}
