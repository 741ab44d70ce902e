package studio

import (
	"context"
	"log"
	"time"

	"inkbook/internal/domain/artist"
	"inkbook/internal/pkg/mq"
	"inkbook/internal/pkg/obs"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const defaultInvitationTTL = 14 * 24 * time.Hour

// ArtistProfiles is implemented by artist.Service.
type ArtistProfiles interface {
	HasProfile(ctx context.Context, userID int64) (bool, error)
}

type Service struct {
	repo          Repository
	artists       ArtistProfiles
	events        mq.EventPublisher
	invitationTTL time.Duration
	tracer        trace.Tracer
	now           func() time.Time
}

func NewService(repo Repository, artists ArtistProfiles, events mq.EventPublisher, invitationTTL time.Duration) *Service {
	if invitationTTL <= 0 {
		invitationTTL = defaultInvitationTTL
	}
	return &Service{
		repo:          repo,
		artists:       artists,
		events:        events,
		invitationTTL: invitationTTL,
		tracer:        obs.Tracer("studio"),
		now:           time.Now,
	}
}

// ---- Studio ----

func (s *Service) CreateStudio(ctx context.Context, ownerID int64, req CreateStudioRequest) (*Studio, error) {
	ok, err := s.artists.HasProfile(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrOwnerNotArtist
	}
	exists, err := s.repo.ExistsForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrStudioExists
	}
	if err := s.checkCatalog(ctx, req.StyleIDs, req.ServiceIDs); err != nil {
		return nil, err
	}

	now := s.now()
	st := &Studio{
		OwnerID:     ownerID,
		Name:        req.Name,
		LogoURL:     req.LogoURL,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		Socials:     req.Socials,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for i, id := range req.StyleIDs {
		st.Styles = append(st.Styles, StudioStyle{StyleID: id, Position: i})
	}
	for _, id := range req.ServiceIDs {
		st.Services = append(st.Services, StudioService{ServiceID: id})
	}
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, err
	}

	log.Printf("[studio] created studio_id=%d owner_id=%d", st.ID, ownerID)
	return s.repo.GetByID(ctx, st.ID)
}

func (s *Service) GetStudio(ctx context.Context, id int64) (*Studio, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetMyStudio(ctx context.Context, ownerID int64) (*Studio, error) {
	return s.repo.GetByOwnerID(ctx, ownerID)
}

func (s *Service) UpdateStudio(ctx context.Context, ownerID, studioID int64, req UpdateStudioRequest) (*Studio, error) {
	st, err := s.owned(ctx, ownerID, studioID)
	if err != nil {
		return nil, err
	}

	cols := []string{"updated_at"}
	if req.Name != nil {
		st.Name = *req.Name
		cols = append(cols, "name")
	}
	if req.LogoURL != nil {
		st.LogoURL = *req.LogoURL
		cols = append(cols, "logo_url")
	}
	if req.Description != nil {
		st.Description = *req.Description
		cols = append(cols, "description")
	}
	if req.Address != nil {
		st.Address = *req.Address
		cols = append(cols, "address")
	}
	if req.City != nil {
		st.City = *req.City
		cols = append(cols, "city")
	}
	if req.Socials != nil {
		st.Socials = *req.Socials
		cols = append(cols, "socials")
	}
	st.UpdatedAt = s.now()

	if err := s.repo.UpdateColumns(ctx, st, cols...); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, st.ID)
}

func (s *Service) SetStudioStyles(ctx context.Context, ownerID, studioID int64, styleIDs []int64) (*Studio, error) {
	if _, err := s.owned(ctx, ownerID, studioID); err != nil {
		return nil, err
	}
	if err := s.checkCatalog(ctx, styleIDs, nil); err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceStyles(ctx, studioID, styleIDs); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, studioID)
}

func (s *Service) SetStudioServices(ctx context.Context, ownerID, studioID int64, serviceIDs []int64) (*Studio, error) {
	if _, err := s.owned(ctx, ownerID, studioID); err != nil {
		return nil, err
	}
	if err := s.checkCatalog(ctx, nil, serviceIDs); err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceServices(ctx, studioID, serviceIDs); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, studioID)
}

// ListMembers returns the owner first, then accepted members by join time.
func (s *Service) ListMembers(ctx context.Context, studioID int64) ([]Member, error) {
	st, err := s.repo.GetByID(ctx, studioID)
	if err != nil {
		return nil, err
	}
	members, err := s.repo.ListMembers(ctx, studioID)
	if err != nil {
		return nil, err
	}
	owner, err := s.repo.UserCard(ctx, st.OwnerID)
	if err != nil {
		return nil, err
	}
	owner.IsOwner = true
	owner.JoinedAt = st.CreatedAt
	return append([]Member{*owner}, members...), nil
}

// ---- Invitations ----

func (s *Service) SearchInvitableArtists(ctx context.Context, ownerID, studioID int64, query string, limit int) ([]InvitableArtist, error) {
	st, err := s.owned(ctx, ownerID, studioID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.repo.SearchInvitable(ctx, st, query, limit, s.now())
}

func (s *Service) Invite(ctx context.Context, ownerID, studioID, artistUserID int64) (*Membership, error) {
	ctx, span := s.tracer.Start(ctx, "studio.Invite")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("studio_id", studioID),
		attribute.Int64("invitee_id", artistUserID),
	)

	st, err := s.owned(ctx, ownerID, studioID)
	if err != nil {
		return nil, err
	}
	if artistUserID == st.OwnerID {
		return nil, ErrCannotInviteSelf
	}
	ok, err := s.artists.HasProfile(ctx, artistUserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInviteeNotArtist
	}

	now := s.now()
	open, err := s.repo.FindOpenMembership(ctx, studioID, artistUserID, now)
	if err != nil {
		return nil, err
	}
	if open != nil {
		if open.Status == StatusAccepted {
			return nil, ErrAlreadyMember
		}
		return nil, ErrInvitationPending
	}

	m := &Membership{
		StudioID:  studioID,
		UserID:    artistUserID,
		InvitedBy: ownerID,
		Status:    StatusPending,
		Token:     uuid.New().String(),
		ExpiresAt: now.Add(s.invitationTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateMembership(ctx, m); err != nil {
		span.RecordError(err)
		return nil, err
	}

	log.Printf("[studio] invitation created membership_id=%d studio_id=%d invitee_id=%d", m.ID, studioID, artistUserID)
	mq.Publish(ctx, s.events, "studio.invitation.created", map[string]any{
		"membership_id": m.ID,
		"studio_id":     studioID,
		"user_id":       artistUserID,
		"token":         m.Token,
		"expires_at":    m.ExpiresAt,
	})
	return m, nil
}

// Accept resolves the invitation as ACCEPTED. Only the invitee may respond.
func (s *Service) Accept(ctx context.Context, token string, userID int64) (*Membership, error) {
	return s.respond(ctx, token, userID, StatusAccepted)
}

// Reject resolves the invitation as REJECTED. Only the invitee may respond.
func (s *Service) Reject(ctx context.Context, token string, userID int64) (*Membership, error) {
	return s.respond(ctx, token, userID, StatusRejected)
}

func (s *Service) respond(ctx context.Context, token string, userID int64, to MembershipStatus) (*Membership, error) {
	ctx, span := s.tracer.Start(ctx, "studio.RespondInvitation")
	defer span.End()
	span.SetAttributes(attribute.String("to_status", string(to)), attribute.Int64("user_id", userID))

	m, err := s.repo.GetMembershipByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if m.UserID != userID {
		return nil, ErrNotInvitee
	}
	if err := resolvedErr(m.Status); err != nil {
		return nil, err
	}
	now := s.now()
	if m.IsExpired(now) {
		return nil, ErrInvitationExpired
	}

	ok, err := s.repo.Transition(ctx, m.ID, to, now)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !ok {
		// lost a race with another response
		current, err := s.repo.GetMembership(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		if err := resolvedErr(current.Status); err != nil {
			return nil, err
		}
		return nil, ErrInvitationNotFound
	}

	m.Status = to
	m.RespondedAt = &now
	m.UpdatedAt = now

	key := "studio.invitation.accepted"
	if to == StatusRejected {
		key = "studio.invitation.rejected"
	}
	log.Printf("[studio] invitation %s membership_id=%d studio_id=%d user_id=%d", to, m.ID, m.StudioID, userID)
	mq.Publish(ctx, s.events, key, map[string]any{
		"membership_id": m.ID,
		"studio_id":     m.StudioID,
		"user_id":       userID,
		"invited_by":    m.InvitedBy,
	})
	return m, nil
}

func resolvedErr(status MembershipStatus) error {
	switch status {
	case StatusAccepted:
		return ErrInvitationAlreadyAccepted
	case StatusRejected:
		return ErrInvitationAlreadyRejected
	}
	return nil
}

// RemoveMember deletes an accepted membership or withdraws a pending
// invitation. Rejected rows stay as history.
func (s *Service) RemoveMember(ctx context.Context, ownerID, membershipID int64) error {
	m, err := s.repo.GetMembership(ctx, membershipID)
	if err != nil {
		return err
	}
	if _, err := s.owned(ctx, ownerID, m.StudioID); err != nil {
		return err
	}
	if m.Status == StatusRejected {
		return ErrCannotRemoveRejected
	}

	ok, err := s.repo.DeleteOpenMembership(ctx, membershipID)
	if err != nil {
		return err
	}
	if !ok {
		current, err := s.repo.GetMembership(ctx, membershipID)
		if err != nil {
			return err
		}
		if current.Status == StatusRejected {
			return ErrCannotRemoveRejected
		}
		return ErrMembershipNotFound
	}

	mq.Publish(ctx, s.events, "studio.invitation.removed", map[string]any{
		"membership_id": m.ID,
		"studio_id":     m.StudioID,
		"user_id":       m.UserID,
		"was_status":    string(m.Status),
	})
	return nil
}

func (s *Service) ListStudioInvitations(ctx context.Context, ownerID, studioID int64) ([]InvitationView, error) {
	if _, err := s.owned(ctx, ownerID, studioID); err != nil {
		return nil, err
	}
	views, err := s.repo.ListStudioInvitations(ctx, studioID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range views {
		views[i].Expired = views[i].Status == StatusPending && now.After(views[i].ExpiresAt)
	}
	return views, nil
}

// ListMyInvitations returns the live pending invitations addressed to userID.
func (s *Service) ListMyInvitations(ctx context.Context, userID int64) ([]InvitationView, error) {
	return s.repo.ListPendingForUser(ctx, userID, s.now())
}

// GetInvitationByToken backs the deep-link preview; the token is the only
// credential so no session is needed.
func (s *Service) GetInvitationByToken(ctx context.Context, token string) (*InvitationView, error) {
	v, err := s.repo.GetInvitationView(ctx, token)
	if err != nil {
		return nil, err
	}
	v.Expired = v.Status == StatusPending && s.now().After(v.ExpiresAt)
	return v, nil
}

// ExpireInvitations is called by the cmd/expire job.
func (s *Service) ExpireInvitations(ctx context.Context) (int, error) {
	return s.repo.DeleteExpiredPending(ctx, s.now())
}

// ---- helpers ----

func (s *Service) owned(ctx context.Context, ownerID, studioID int64) (*Studio, error) {
	st, err := s.repo.GetByID(ctx, studioID)
	if err != nil {
		return nil, err
	}
	if st.OwnerID != ownerID {
		return nil, ErrNotStudioOwner
	}
	return st, nil
}

func (s *Service) checkCatalog(ctx context.Context, styleIDs, serviceIDs []int64) error {
	checks := []struct {
		model any
		ids   []int64
	}{
		{&artist.Style{}, styleIDs},
		{&artist.TattooService{}, serviceIDs},
	}
	for _, c := range checks {
		if len(c.ids) == 0 {
			continue
		}
		seen := make(map[int64]struct{}, len(c.ids))
		for _, id := range c.ids {
			if _, dup := seen[id]; dup {
				return ErrDuplicateID
			}
			seen[id] = struct{}{}
		}
		n, err := s.repo.CountExisting(ctx, c.model, c.ids)
		if err != nil {
			return err
		}
		if n != int64(len(c.ids)) {
			return ErrUnknownCatalogID
		}
	}
	return nil
}
