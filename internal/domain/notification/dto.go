package notification

type ListQuery struct {
	UnreadOnly bool `form:"unread_only"`
	Limit      int  `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset     int  `form:"offset" binding:"omitempty,min=0"`
}

type ListResponse struct {
	Notifications []*Notification `json:"notifications"`
	UnreadCount   int64           `json:"unread_count"`
	Total         int64           `json:"total"`
}

type UnreadCountResponse struct {
	UnreadCount int64 `json:"unread_count"`
}
