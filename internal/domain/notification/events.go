package notification

import (
	"context"
	"log"

	"inkbook/internal/pkg/mq"
)

// EventSink sits in front of the broker publisher: every domain event is
// forwarded unchanged, and the ones a user should see also land in the
// recipient's inbox.
type EventSink struct {
	service *Service
	next    mq.EventPublisher
}

func NewEventSink(service *Service, next mq.EventPublisher) *EventSink {
	return &EventSink{service: service, next: next}
}

func (s *EventSink) PublishJSON(ctx context.Context, key string, v any) error {
	if env, ok := v.(mq.Envelope); ok {
		if data, ok := env.Data.(map[string]any); ok {
			s.record(ctx, key, data)
		}
	}
	if s.next == nil {
		return nil
	}
	return s.next.PublishJSON(ctx, key, v)
}

func (s *EventSink) record(ctx context.Context, key string, data map[string]any) {
	n := fromEvent(key, data)
	if n == nil {
		return
	}
	if err := s.service.Notify(ctx, n); err != nil {
		log.Printf("[notification] %s user_id=%d error: %v", key, n.UserID, err)
	}
}

// fromEvent maps a domain event to the inbox entry of the user it concerns;
// nil for events nobody is notified about.
func fromEvent(key string, data map[string]any) *Notification {
	var (
		recipient string
		t         Type
		title     string
		body      string
		keep      []string
	)

	switch key {
	case "studio.invitation.created":
		recipient, t = "user_id", TypeInvitationReceived
		title, body = "Studio invitation", "You have been invited to join a studio."
		keep = []string{"studio_id", "membership_id", "token"}
	case "studio.invitation.accepted":
		recipient, t = "invited_by", TypeInvitationAccepted
		title, body = "Invitation accepted", "An artist joined your studio."
		keep = []string{"studio_id", "membership_id", "user_id"}
	case "studio.invitation.rejected":
		recipient, t = "invited_by", TypeInvitationRejected
		title, body = "Invitation declined", "An artist declined your studio invitation."
		keep = []string{"studio_id", "membership_id", "user_id"}
	case "chat.conversation.requested":
		recipient, t = "recipient_id", TypeConversationRequested
		title, body = "New message request", "Someone wants to start a conversation with you."
		keep = []string{"conversation_id", "initiator_id"}
	case "chat.conversation.accepted":
		recipient, t = "initiator_id", TypeConversationAccepted
		title, body = "Request accepted", "Your message request was accepted."
		keep = []string{"conversation_id", "recipient_id"}
	case "subscription.activated":
		recipient, t = "user_id", TypeSubscriptionActivated
		title, body = "Subscription active", "Your plan is now active."
		keep = []string{"subscription_id", "plan_id", "status"}
	case "subscription.payment_failed":
		recipient, t = "user_id", TypePaymentFailed
		title, body = "Payment failed", "We could not process your payment."
		keep = []string{"subscription_id"}
	default:
		return nil
	}

	userID, ok := toInt64(data[recipient])
	if !ok || userID == 0 {
		return nil
	}

	payload := make(map[string]any, len(keep))
	for _, k := range keep {
		if v, ok := data[k]; ok {
			payload[k] = v
		}
	}
	return &Notification{UserID: userID, Type: t, Title: title, Body: body, Data: payload}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
