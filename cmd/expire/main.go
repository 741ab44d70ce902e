package main

import (
	"context"
	"log"
	"time"

	"inkbook/internal/config"
	"inkbook/internal/database"
	"inkbook/internal/domain/notification"
	"inkbook/internal/domain/studio"
	"inkbook/internal/domain/subscription"
	"inkbook/internal/pkg/mq"
)

// expire is run from cron: it lapses subscriptions past their period end,
// drops pending studio invitations past their TTL and purges old read
// notifications.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	var events mq.EventPublisher = mq.Nop{}
	if cfg.RabbitURL != "" {
		pub, err := mq.NewPublisher(cfg.RabbitURL, cfg.EventsExchange)
		if err != nil {
			log.Fatalf("rabbitmq: %v", err)
		}
		defer pub.Close()
		events = pub
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	subs := subscription.NewService(subscription.NewRepository(db), nil, events)
	expiredSubs, err := subs.ExpireOld(ctx)
	if err != nil {
		log.Fatalf("expire subscriptions failed: %v", err)
	}

	studios := studio.NewService(studio.NewRepository(db), nil, events, cfg.InvitationTTL)
	expiredInvites, err := studios.ExpireInvitations(ctx)
	if err != nil {
		log.Fatalf("expire invitations failed: %v", err)
	}

	inbox := notification.NewService(notification.NewRepository(db))
	purged, err := inbox.Cleanup(ctx, cfg.NotificationRetention)
	if err != nil {
		log.Fatalf("notification cleanup failed: %v", err)
	}

	log.Printf("expire completed: subscriptions=%d invitations=%d notifications=%d", expiredSubs, expiredInvites, purged)
}
