package api

import (
	"context"
	"net/http"
	"net/url"
)

// RegisterLover validates the payload once, then submits it as one write.
func (c *Client) RegisterLover(ctx context.Context, r LoverRegistration) (*Session, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	var out Session
	if err := c.do(ctx, http.MethodPost, "/auth/register/lover", r.wire(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RegisterArtist(ctx context.Context, r ArtistRegistration) (*Session, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	var out Session
	if err := c.do(ctx, http.MethodPost, "/auth/register/artist", r.wire(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var out Session
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	var out struct {
		Available bool `json:"available"`
	}
	if err := c.get(ctx, "/auth/username-available", url.Values{"username": {username}}, &out); err != nil {
		return false, err
	}
	return out.Available, nil
}
