package subscription

import "time"

type CheckoutRequest struct {
	PlanID       string `json:"plan_id" binding:"required"`
	BillingCycle string `json:"billing_cycle" binding:"required,oneof=MONTHLY YEARLY"`
}

type CheckoutResponse struct {
	SubscriptionID string `json:"subscription_id"`
	CheckoutURL    string `json:"checkout_url"`
	Status         string `json:"status"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// WebhookEvent is the part of the processor's webhook body we trust: the id.
type WebhookEvent struct {
	ID  string `json:"id" binding:"required"`
	Key string `json:"key"`
}

type PlanFeatures struct {
	FeaturedListing    bool `json:"featured_listing"`
	UnlimitedPortfolio bool `json:"unlimited_portfolio"`
	StudioTools        bool `json:"studio_tools"`
	Analytics          bool `json:"analytics"`
}

type PlanResponse struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	PriceMonthly int64        `json:"price_monthly"`
	PriceYearly  int64        `json:"price_yearly"`
	Currency     string       `json:"currency"`
	TrialDays    int          `json:"trial_days"`
	MaxProjects  int          `json:"max_projects"`
	Features     PlanFeatures `json:"features"`
}

type SubscriptionResponse struct {
	ID               string       `json:"id,omitempty"`
	PlanID           string       `json:"plan_id"`
	PlanName         string       `json:"plan_name"`
	Status           string       `json:"status"`
	BillingCycle     string       `json:"billing_cycle"`
	TrialEndsAt      *time.Time   `json:"trial_ends_at,omitempty"`
	CurrentPeriodEnd *time.Time   `json:"current_period_end,omitempty"`
	DaysRemaining    int          `json:"days_remaining"`
	Features         PlanFeatures `json:"features"`
}

func featuresOf(p *Plan) PlanFeatures {
	return PlanFeatures{
		FeaturedListing:    p.FeaturedListing,
		UnlimitedPortfolio: p.UnlimitedPortfolio,
		StudioTools:        p.StudioTools,
		Analytics:          p.Analytics,
	}
}

func planToResponse(p *Plan) PlanResponse {
	return PlanResponse{
		ID:           string(p.ID),
		Name:         p.Name,
		Description:  p.Description,
		PriceMonthly: p.PriceMonthly,
		PriceYearly:  p.PriceYearly,
		Currency:     p.Currency,
		TrialDays:    p.TrialDays,
		MaxProjects:  p.MaxProjects,
		Features:     featuresOf(p),
	}
}

func buildSubscriptionResponse(sub *Subscription, plan *Plan) SubscriptionResponse {
	resp := SubscriptionResponse{
		ID:            sub.ID,
		PlanID:        string(sub.PlanID),
		PlanName:      plan.Name,
		Status:        string(sub.Status),
		BillingCycle:  string(sub.BillingCycle),
		DaysRemaining: sub.DaysRemaining(),
		Features:      featuresOf(plan),
	}
	if sub.TrialEndsAt.Valid {
		t := sub.TrialEndsAt.Time
		resp.TrialEndsAt = &t
	}
	if sub.CurrentPeriodEnd.Valid {
		t := sub.CurrentPeriodEnd.Time
		resp.CurrentPeriodEnd = &t
	}
	return resp
}
