package notification

import "time"

// Type represents notification type
type Type string

const (
	// Studio invitations
	TypeInvitationReceived Type = "invitation_received" // Artist: invited to a studio
	TypeInvitationAccepted Type = "invitation_accepted" // Owner: invitee joined
	TypeInvitationRejected Type = "invitation_rejected" // Owner: invitee declined

	// Chat
	TypeConversationRequested Type = "conversation_requested" // Artist: a lover wants to talk
	TypeConversationAccepted  Type = "conversation_accepted"  // Lover: artist accepted the request

	// Billing
	TypeSubscriptionActivated Type = "subscription_activated"
	TypePaymentFailed         Type = "payment_failed"
)

// Notification is one entry of a user's in-app inbox.
type Notification struct {
	ID        int64          `gorm:"column:id;primaryKey" json:"id"`
	UserID    int64          `gorm:"column:user_id;index:idx_notifications_user_read" json:"user_id"`
	Type      Type           `gorm:"column:type" json:"type"`
	Title     string         `gorm:"column:title" json:"title"`
	Body      string         `gorm:"column:body" json:"body,omitempty"`
	Data      map[string]any `gorm:"column:data;serializer:json" json:"data,omitempty"`
	IsRead    bool           `gorm:"column:is_read;index:idx_notifications_user_read" json:"is_read"`
	ReadAt    *time.Time     `gorm:"column:read_at" json:"read_at,omitempty"`
	CreatedAt time.Time      `gorm:"column:created_at;index" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

func Models() []any {
	return []any{&Notification{}}
}
