package chat

type StartConversationRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

// SendMessageRequest: ID is optional; clients set it to make retries safe.
type SendMessageRequest struct {
	ID       string `json:"id"`
	Content  string `json:"content" binding:"max=4000"`
	MediaURL string `json:"media_url" binding:"omitempty,url"`
}

type MessagesPage struct {
	Messages []*Message `json:"messages"`
	HasMore  bool       `json:"has_more"`
}
