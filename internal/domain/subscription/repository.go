package subscription

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Repository handles persistence for subscription data
type Repository interface {
	// Plans
	ListPlans(ctx context.Context) ([]*Plan, error)
	GetPlanByID(ctx context.Context, id PlanID) (*Plan, error)

	// Subscriptions
	GetLiveByUserID(ctx context.Context, userID int64) (*Subscription, error)
	GetByID(ctx context.Context, id string) (*Subscription, error)
	GetByCheckoutRef(ctx context.Context, ref string) (*Subscription, error)
	Create(ctx context.Context, sub *Subscription) error
	SetCheckoutRef(ctx context.Context, id, ref string) error
	Activate(ctx context.Context, sub *Subscription) (bool, error)
	MarkFailed(ctx context.Context, id, reason string) error
	Cancel(ctx context.Context, id string, reason string) error
	ExpireOld(ctx context.Context, now time.Time, pendingCutoff time.Time) (int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListPlans(ctx context.Context) ([]*Plan, error) {
	var plans []*Plan
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("price_monthly ASC").Find(&plans).Error
	return plans, err
}

func (r *repository) GetPlanByID(ctx context.Context, id PlanID) (*Plan, error) {
	var plan Plan
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *repository) GetLiveByUserID(ctx context.Context, userID int64) (*Subscription, error) {
	var sub Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status IN ?", userID, []Status{StatusActive, StatusTrialing}).
		Order("created_at DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Subscription, error) {
	var sub Subscription
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *repository) GetByCheckoutRef(ctx context.Context, ref string) (*Subscription, error) {
	var sub Subscription
	err := r.db.WithContext(ctx).Where("checkout_ref = ?", ref).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *repository) Create(ctx context.Context, sub *Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *repository) SetCheckoutRef(ctx context.Context, id, ref string) error {
	return r.db.WithContext(ctx).
		Model(&Subscription{}).
		Where("id = ?", id).
		Updates(map[string]any{"checkout_ref": ref, "updated_at": time.Now()}).Error
}

// Activate moves a pending subscription live and cancels the user's previous
// live one. It reports false when the row was no longer pending.
func (r *repository) Activate(ctx context.Context, sub *Subscription) (bool, error) {
	activated := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Subscription{}).
			Where("id = ? AND status = ?", sub.ID, StatusPending).
			Updates(map[string]any{
				"status":             sub.Status,
				"started_at":         sub.StartedAt,
				"trial_ends_at":      sub.TrialEndsAt,
				"current_period_end": sub.CurrentPeriodEnd,
				"updated_at":         sub.UpdatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		activated = true

		return tx.Model(&Subscription{}).
			Where("user_id = ? AND id <> ? AND status IN ?", sub.UserID, sub.ID, []Status{StatusActive, StatusTrialing}).
			Updates(map[string]any{
				"status":        StatusCancelled,
				"cancel_reason": "replaced by " + string(sub.PlanID),
				"cancelled_at":  sub.UpdatedAt,
				"updated_at":    sub.UpdatedAt,
			}).Error
	})
	return activated, err
}

func (r *repository) MarkFailed(ctx context.Context, id, reason string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&Subscription{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]any{
			"status":        StatusCancelled,
			"cancel_reason": reason,
			"cancelled_at":  now,
			"updated_at":    now,
		}).Error
}

func (r *repository) Cancel(ctx context.Context, id string, reason string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&Subscription{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        StatusCancelled,
			"cancel_reason": reason,
			"cancelled_at":  now,
			"updated_at":    now,
		}).Error
}

// ExpireOld expires live subscriptions past their period end and pending
// checkouts created before pendingCutoff.
func (r *repository) ExpireOld(ctx context.Context, now time.Time, pendingCutoff time.Time) (int, error) {
	result := r.db.WithContext(ctx).
		Model(&Subscription{}).
		Where("(status IN ? AND current_period_end IS NOT NULL AND current_period_end < ?) OR (status = ? AND created_at < ?)",
			[]Status{StatusActive, StatusTrialing}, now, StatusPending, pendingCutoff).
		Updates(map[string]any{
			"status":     StatusExpired,
			"updated_at": now,
		})
	return int(result.RowsAffected), result.Error
}
