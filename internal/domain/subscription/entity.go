package subscription

import (
	"database/sql"
	"time"
)

// PlanID identifies a subscription tier
type PlanID string

const (
	PlanFree   PlanID = "free"
	PlanPro    PlanID = "pro"
	PlanStudio PlanID = "studio"
)

// Status of a subscription
type Status string

const (
	StatusPending   Status = "pending"
	StatusTrialing  Status = "trialing"
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// BillingCycle for subscription period
type BillingCycle string

const (
	CycleMonthly BillingCycle = "MONTHLY"
	CycleYearly  BillingCycle = "YEARLY"
)

// Plan is a catalog row. Prices are in minor units of Currency.
type Plan struct {
	ID          PlanID `gorm:"column:id;primaryKey" json:"id"`
	Name        string `gorm:"column:name" json:"name"`
	Description string `gorm:"column:description" json:"description"`

	PriceMonthly int64  `gorm:"column:price_monthly" json:"price_monthly"`
	PriceYearly  int64  `gorm:"column:price_yearly" json:"price_yearly"`
	Currency     string `gorm:"column:currency" json:"currency"`
	TrialDays    int    `gorm:"column:trial_days" json:"trial_days"`

	// Portfolio project cap; -1 = unlimited
	MaxProjects int `gorm:"column:max_projects" json:"max_projects"`

	FeaturedListing    bool `gorm:"column:featured_listing" json:"featured_listing"`
	UnlimitedPortfolio bool `gorm:"column:unlimited_portfolio" json:"unlimited_portfolio"`
	StudioTools        bool `gorm:"column:studio_tools" json:"studio_tools"`
	Analytics          bool `gorm:"column:analytics" json:"analytics"`

	IsActive  bool      `gorm:"column:is_active" json:"is_active"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Plan) TableName() string { return "subscription_plans" }

// Price returns the charge amount for a cycle.
func (p *Plan) Price(cycle BillingCycle) (int64, error) {
	switch cycle {
	case CycleMonthly:
		return p.PriceMonthly, nil
	case CycleYearly:
		return p.PriceYearly, nil
	}
	return 0, ErrInvalidBillingCycle
}

type Subscription struct {
	ID               string         `gorm:"column:id;primaryKey" json:"id"`
	UserID           int64          `gorm:"column:user_id;index" json:"user_id"`
	PlanID           PlanID         `gorm:"column:plan_id" json:"plan_id"`
	Status           Status         `gorm:"column:status;index" json:"status"`
	BillingCycle     BillingCycle   `gorm:"column:billing_cycle" json:"billing_cycle"`
	CheckoutRef      string         `gorm:"column:checkout_ref;index" json:"-"`
	StartedAt        sql.NullTime   `gorm:"column:started_at" json:"started_at"`
	TrialEndsAt      sql.NullTime   `gorm:"column:trial_ends_at" json:"trial_ends_at"`
	CurrentPeriodEnd sql.NullTime   `gorm:"column:current_period_end" json:"current_period_end"`
	CancelReason     sql.NullString `gorm:"column:cancel_reason" json:"cancel_reason"`
	CancelledAt      sql.NullTime   `gorm:"column:cancelled_at" json:"cancelled_at"`
	CreatedAt        time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"column:updated_at" json:"updated_at"`
}

func (Subscription) TableName() string { return "subscriptions" }

// IsExpired checks if the subscription has passed its period end
func (s *Subscription) IsExpired() bool {
	if !s.CurrentPeriodEnd.Valid {
		return false
	}
	return time.Now().After(s.CurrentPeriodEnd.Time)
}

// IsLive reports an active or trialing subscription inside its period.
func (s *Subscription) IsLive() bool {
	return (s.Status == StatusActive || s.Status == StatusTrialing) && !s.IsExpired()
}

// DaysRemaining returns days until period end (-1 = unlimited)
func (s *Subscription) DaysRemaining() int {
	if !s.CurrentPeriodEnd.Valid {
		return -1
	}
	remaining := time.Until(s.CurrentPeriodEnd.Time)
	if remaining < 0 {
		return 0
	}
	return int(remaining.Hours() / 24)
}

func Models() []any {
	return []any{&Plan{}, &Subscription{}}
}
