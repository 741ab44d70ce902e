package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

func (c *Client) ListNotifications(ctx context.Context, unreadOnly bool, limit, offset int) (*Inbox, error) {
	q := url.Values{}
	if unreadOnly {
		q.Set("unread_only", "true")
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	var out Inbox
	if err := c.get(ctx, "/notifications", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UnreadNotifications(ctx context.Context) (int64, error) {
	var out struct {
		UnreadCount int64 `json:"unread_count"`
	}
	if err := c.get(ctx, "/notifications/unread-count", nil, &out); err != nil {
		return 0, err
	}
	return out.UnreadCount, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, idPath("/notifications/%d/read", id), nil, nil)
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/notifications/read-all", nil, nil)
}
