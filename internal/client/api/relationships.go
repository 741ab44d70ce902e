package api

import (
	"context"
	"net/http"
)

func (c *Client) BlockUser(ctx context.Context, userID int64) error {
	body := map[string]int64{"user_id": userID}
	return c.do(ctx, http.MethodPost, "/relationships/block", body, nil)
}

func (c *Client) UnblockUser(ctx context.Context, userID int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/relationships/block/%d", userID), nil, nil)
}

func (c *Client) BlockedUsers(ctx context.Context) ([]BlockedUser, error) {
	var out []BlockedUser
	if err := c.get(ctx, "/relationships/blocked", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
