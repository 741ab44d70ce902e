package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// StartConversation gets or creates the conversation with otherUserID.
func (c *Client) StartConversation(ctx context.Context, otherUserID int64) (*Conversation, error) {
	var out Conversation
	if err := c.do(ctx, http.MethodPost, "/conversations", map[string]int64{"user_id": otherUserID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListConversations(ctx context.Context) ([]Conversation, error) {
	var out []Conversation
	err := c.get(ctx, "/conversations", nil, &out)
	return out, err
}

func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var out struct {
		UnreadCount int `json:"unread_count"`
	}
	err := c.get(ctx, "/conversations/unread", nil, &out)
	return out.UnreadCount, err
}

func (c *Client) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	var out Conversation
	if err := c.get(ctx, idPath("/conversations/%s", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AcceptConversation(ctx context.Context, id string) (*Conversation, error) {
	var out Conversation
	if err := c.do(ctx, http.MethodPost, idPath("/conversations/%s/accept", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeclineConversation(ctx context.Context, id string) (*Conversation, error) {
	var out Conversation
	if err := c.do(ctx, http.MethodPost, idPath("/conversations/%s/decline", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMessages returns one page oldest-first. A nil cursor fetches the
// newest page.
func (c *Client) ListMessages(ctx context.Context, conversationID string, before *Cursor, limit int) (*MessagesPage, error) {
	q := url.Values{}
	if before != nil {
		q.Set("before", before.CreatedAt.UTC().Format(time.RFC3339Nano))
		q.Set("before_id", before.ID)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out MessagesPage
	if err := c.get(ctx, idPath("/conversations/%s/messages", conversationID), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SendMessage(ctx context.Context, conversationID string, m NewMessage) (*Message, error) {
	var out Message
	if err := c.do(ctx, http.MethodPost, idPath("/conversations/%s/messages", conversationID), m, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MarkRead(ctx context.Context, conversationID string) (int, error) {
	var out struct {
		Marked int `json:"marked"`
	}
	err := c.do(ctx, http.MethodPost, idPath("/conversations/%s/read", conversationID), nil, &out)
	return out.Marked, err
}
