package api

import (
	"context"
	"net/http"
)

func (c *Client) GetMe(ctx context.Context) (*User, error) {
	var out User
	if err := c.get(ctx, "/users/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetUser(ctx context.Context, username string) (*User, error) {
	var out User
	if err := c.get(ctx, idPath("/users/%s", username), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMe sends only the non-nil fields and returns the server echo.
func (c *Client) UpdateMe(ctx context.Context, u UserUpdate) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodPatch, "/users/me", u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SetVisibility(ctx context.Context, visible bool) error {
	return c.do(ctx, http.MethodPut, "/users/me/visibility", map[string]bool{"is_visible": visible}, nil)
}
