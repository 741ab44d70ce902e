package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

func (c *Client) GetStudio(ctx context.Context, id int64) (*Studio, error) {
	var out Studio
	if err := c.get(ctx, idPath("/studios/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetMyStudio(ctx context.Context) (*Studio, error) {
	var out Studio
	if err := c.get(ctx, "/studios/mine", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetupStudio submits the studio-setup wizard: one create carrying styles and
// services, then one invitation per selected artist. Invitation failures are
// returned alongside the created studio.
func (c *Client) SetupStudio(ctx context.Context, s StudioSetup) (*Studio, []error, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}
	body := map[string]any{
		"name":        s.Name,
		"logo_url":    s.LogoURL,
		"description": s.Description,
		"address":     s.Address,
		"city":        s.City,
		"socials":     s.Socials,
		"style_ids":   s.StyleIDs,
		"service_ids": s.ServiceIDs,
	}
	var out Studio
	if err := c.do(ctx, http.MethodPost, "/studios", body, &out); err != nil {
		return nil, nil, err
	}

	var inviteErrs []error
	for _, uid := range s.InviteUserIDs {
		if _, err := c.Invite(ctx, out.ID, uid); err != nil {
			inviteErrs = append(inviteErrs, err)
		}
	}
	return &out, inviteErrs, nil
}

func (c *Client) UpdateStudio(ctx context.Context, id int64, u StudioUpdate) (*Studio, error) {
	var out Studio
	if err := c.do(ctx, http.MethodPatch, idPath("/studios/%d", id), u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SetStudioStyles(ctx context.Context, id int64, ids []int64) (*Studio, error) {
	var out Studio
	if err := c.do(ctx, http.MethodPut, idPath("/studios/%d/styles", id), map[string]any{"ids": ids}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SetStudioServices(ctx context.Context, id int64, ids []int64) (*Studio, error) {
	var out Studio
	if err := c.do(ctx, http.MethodPut, idPath("/studios/%d/services", id), map[string]any{"ids": ids}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListMembers(ctx context.Context, studioID int64) ([]Member, error) {
	var out []Member
	err := c.get(ctx, idPath("/studios/%d/members", studioID), nil, &out)
	return out, err
}

func (c *Client) SearchInvitable(ctx context.Context, studioID int64, query string, limit int) ([]InvitableArtist, error) {
	q := url.Values{"q": {query}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out []InvitableArtist
	err := c.get(ctx, idPath("/studios/%d/invitable", studioID), q, &out)
	return out, err
}

func (c *Client) Invite(ctx context.Context, studioID, userID int64) (*Invitation, error) {
	var out Invitation
	if err := c.do(ctx, http.MethodPost, idPath("/studios/%d/invitations", studioID), map[string]int64{"user_id": userID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListStudioInvitations(ctx context.Context, studioID int64) ([]Invitation, error) {
	var out []Invitation
	err := c.get(ctx, idPath("/studios/%d/invitations", studioID), nil, &out)
	return out, err
}

func (c *Client) RemoveMember(ctx context.Context, studioID, membershipID int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/studios/%d/members/%d", studioID, membershipID), nil, nil)
}

func (c *Client) ListMyInvitations(ctx context.Context) ([]Invitation, error) {
	var out []Invitation
	err := c.get(ctx, "/invitations", nil, &out)
	return out, err
}

// PreviewInvitation works without a session; deep links use it.
func (c *Client) PreviewInvitation(ctx context.Context, token string) (*Invitation, error) {
	var out Invitation
	if err := c.get(ctx, idPath("/invitations/%s", token), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AcceptInvitation(ctx context.Context, token string) (*Membership, error) {
	var out Membership
	if err := c.do(ctx, http.MethodPost, idPath("/invitations/%s/accept", token), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RejectInvitation(ctx context.Context, token string) (*Membership, error) {
	var out Membership
	if err := c.do(ctx, http.MethodPost, idPath("/invitations/%s/reject", token), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
