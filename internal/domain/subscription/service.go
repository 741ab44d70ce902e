package subscription

import (
	"context"
	"database/sql"
	"log"
	"time"

	"inkbook/internal/pkg/mq"
	"inkbook/internal/pkg/obs"
	"inkbook/internal/pkg/payment"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	freeMaxProjects = 12
	pendingTTL      = 24 * time.Hour
)

// CheckoutProvider is the payment processor seen by this service.
type CheckoutProvider interface {
	CreateCheckout(ctx context.Context, amount int64, metadata map[string]any) (*payment.Checkout, error)
	RetrieveChargeEvent(ctx context.Context, eventID string) (*payment.ChargeEvent, error)
}

type Service struct {
	repo     Repository
	provider CheckoutProvider
	events   mq.EventPublisher
	tracer   trace.Tracer
}

// NewService accepts a nil provider; checkout then fails with ErrPaymentsDisabled.
func NewService(repo Repository, provider CheckoutProvider, events mq.EventPublisher) *Service {
	return &Service{
		repo:     repo,
		provider: provider,
		events:   events,
		tracer:   obs.Tracer("subscription"),
	}
}

// defaultFreePlan returns a fallback free plan when the catalog has none
func defaultFreePlan() *Plan {
	return &Plan{
		ID:          PlanFree,
		Name:        "Free",
		MaxProjects: freeMaxProjects,
		IsActive:    true,
	}
}

// GetPlans returns all active plans (public, no auth required)
func (s *Service) GetPlans(ctx context.Context) ([]*Plan, error) {
	return s.repo.ListPlans(ctx)
}

// GetCurrent returns the user's live subscription and plan.
// If none exists, returns a virtual free-tier subscription.
func (s *Service) GetCurrent(ctx context.Context, userID int64) (*Subscription, *Plan, error) {
	sub, err := s.repo.GetLiveByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	if sub == nil || sub.IsExpired() {
		freePlan, _ := s.repo.GetPlanByID(ctx, PlanFree)
		if freePlan == nil {
			freePlan = defaultFreePlan()
		}
		return &Subscription{
			UserID:       userID,
			PlanID:       PlanFree,
			Status:       StatusActive,
			BillingCycle: CycleMonthly,
		}, freePlan, nil
	}

	plan, err := s.repo.GetPlanByID(ctx, sub.PlanID)
	if err != nil || plan == nil {
		plan = defaultFreePlan()
	}
	return sub, plan, nil
}

// CreateCheckout records a pending subscription and asks the processor for a
// hosted checkout page. Completion arrives later through HandleProviderEvent.
func (s *Service) CreateCheckout(ctx context.Context, userID int64, req CheckoutRequest) (*CheckoutResponse, error) {
	ctx, span := s.tracer.Start(ctx, "subscription.CreateCheckout")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("user_id", userID),
		attribute.String("plan_id", req.PlanID),
		attribute.String("billing_cycle", req.BillingCycle),
	)

	if s.provider == nil {
		return nil, ErrPaymentsDisabled
	}

	planID := PlanID(req.PlanID)
	if planID == PlanFree {
		return nil, ErrCannotBuyFree
	}
	plan, err := s.repo.GetPlanByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	cycle := BillingCycle(req.BillingCycle)
	amount, err := plan.Price(cycle)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetLiveByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.PlanID == planID && !existing.IsExpired() {
		return nil, ErrAlreadySubscribed
	}

	now := time.Now()
	sub := &Subscription{
		ID:           uuid.New().String(),
		UserID:       userID,
		PlanID:       planID,
		Status:       StatusPending,
		BillingCycle: cycle,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}

	checkout, err := s.provider.CreateCheckout(ctx, amount, map[string]any{
		"subscription_id": sub.ID,
		"user_id":         userID,
		"plan_id":         string(planID),
		"billing_cycle":   string(cycle),
	})
	if err != nil {
		span.RecordError(err)
		_ = s.repo.MarkFailed(ctx, sub.ID, "checkout failed")
		return nil, err
	}
	if err := s.repo.SetCheckoutRef(ctx, sub.ID, checkout.ChargeID); err != nil {
		return nil, err
	}

	log.Printf("[subscription] checkout created subscription_id=%s user_id=%d plan=%s cycle=%s",
		sub.ID, userID, planID, cycle)
	return &CheckoutResponse{
		SubscriptionID: sub.ID,
		CheckoutURL:    checkout.URL,
		Status:         string(StatusPending),
	}, nil
}

// HandleProviderEvent verifies a webhook event with the processor and applies
// it. Replays of an already-applied event are no-ops.
func (s *Service) HandleProviderEvent(ctx context.Context, eventID string) error {
	ctx, span := s.tracer.Start(ctx, "subscription.HandleProviderEvent")
	defer span.End()
	span.SetAttributes(attribute.String("event_id", eventID))

	if s.provider == nil {
		return ErrPaymentsDisabled
	}
	ev, err := s.provider.RetrieveChargeEvent(ctx, eventID)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if ev.Key != "charge.complete" {
		log.Printf("[subscription] ignoring provider event key=%s", ev.Key)
		return nil
	}

	sub, err := s.findForEvent(ctx, ev)
	if err != nil {
		return err
	}
	if sub.Status != StatusPending {
		return nil
	}

	if !ev.Successful() {
		if err := s.repo.MarkFailed(ctx, sub.ID, "payment "+ev.Status); err != nil {
			return err
		}
		mq.Publish(ctx, s.events, "subscription.payment_failed", map[string]any{
			"subscription_id": sub.ID,
			"user_id":         sub.UserID,
			"charge_id":       ev.ChargeID,
		})
		return nil
	}

	plan, err := s.repo.GetPlanByID(ctx, sub.PlanID)
	if err != nil {
		return err
	}
	applyActivation(sub, plan, time.Now())

	activated, err := s.repo.Activate(ctx, sub)
	if err != nil {
		return err
	}
	if !activated {
		return nil
	}

	log.Printf("[subscription] activated subscription_id=%s user_id=%d status=%s", sub.ID, sub.UserID, sub.Status)
	mq.Publish(ctx, s.events, "subscription.activated", map[string]any{
		"subscription_id": sub.ID,
		"user_id":         sub.UserID,
		"plan_id":         string(sub.PlanID),
		"status":          string(sub.Status),
	})
	return nil
}

func (s *Service) findForEvent(ctx context.Context, ev *payment.ChargeEvent) (*Subscription, error) {
	if id := ev.MetadataString("subscription_id"); id != "" {
		return s.repo.GetByID(ctx, id)
	}
	if ev.ChargeID == "" {
		return nil, ErrSubscriptionNotFound
	}
	return s.repo.GetByCheckoutRef(ctx, ev.ChargeID)
}

// applyActivation sets the live status and period. A plan with trial days
// starts trialing; the paid period begins when the trial ends.
func applyActivation(sub *Subscription, plan *Plan, now time.Time) {
	periodStart := now
	sub.Status = StatusActive
	if plan.TrialDays > 0 {
		sub.Status = StatusTrialing
		periodStart = now.AddDate(0, 0, plan.TrialDays)
		sub.TrialEndsAt = sql.NullTime{Time: periodStart, Valid: true}
	}
	end := periodStart.AddDate(0, 1, 0)
	if sub.BillingCycle == CycleYearly {
		end = periodStart.AddDate(1, 0, 0)
	}
	sub.StartedAt = sql.NullTime{Time: now, Valid: true}
	sub.CurrentPeriodEnd = sql.NullTime{Time: end, Valid: true}
	sub.UpdatedAt = now
}

// Cancel cancels the user's live subscription.
func (s *Service) Cancel(ctx context.Context, userID int64, reason string) error {
	sub, err := s.repo.GetLiveByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if sub == nil {
		return ErrSubscriptionNotFound
	}
	if sub.PlanID == PlanFree {
		return ErrCannotCancelFree
	}
	if err := s.repo.Cancel(ctx, sub.ID, reason); err != nil {
		return err
	}
	mq.Publish(ctx, s.events, "subscription.cancelled", map[string]any{
		"subscription_id": sub.ID,
		"user_id":         userID,
		"reason":          reason,
	})
	return nil
}

// ExpireOld is called by the cmd/expire job.
func (s *Service) ExpireOld(ctx context.Context) (int, error) {
	now := time.Now()
	return s.repo.ExpireOld(ctx, now, now.Add(-pendingTTL))
}

// ---- Limit checkers (called by other services) ----

// CanAddProject returns a *LimitError when the portfolio cap is reached.
func (s *Service) CanAddProject(ctx context.Context, userID int64, current int) error {
	_, plan, err := s.GetCurrent(ctx, userID)
	if err != nil {
		return err
	}
	if plan.UnlimitedPortfolio || plan.MaxProjects < 0 {
		return nil
	}
	if current >= plan.MaxProjects {
		return &LimitError{
			Err:       ErrProjectLimitReached,
			Current:   current,
			Limit:     plan.MaxProjects,
			PlanName:  string(plan.ID),
			UpgradeTo: nextPlan(plan.ID),
		}
	}
	return nil
}

// HasFeature checks if the user's plan includes a boolean feature.
func (s *Service) HasFeature(ctx context.Context, userID int64, feature string) (bool, error) {
	_, plan, err := s.GetCurrent(ctx, userID)
	if err != nil {
		return false, err
	}
	switch feature {
	case "featured_listing":
		return plan.FeaturedListing, nil
	case "unlimited_portfolio":
		return plan.UnlimitedPortfolio, nil
	case "studio_tools":
		return plan.StudioTools, nil
	case "analytics":
		return plan.Analytics, nil
	}
	return false, nil
}

func nextPlan(current PlanID) string {
	switch current {
	case PlanFree:
		return string(PlanPro)
	case PlanPro:
		return string(PlanStudio)
	default:
		return ""
	}
}
