package api

import (
	"context"
	"net/http"
)

func (c *Client) ListPlans(ctx context.Context) ([]Plan, error) {
	var out []Plan
	err := c.get(ctx, "/subscriptions/plans", nil, &out)
	return out, err
}

func (c *Client) GetMySubscription(ctx context.Context) (*Subscription, error) {
	var out Subscription
	if err := c.get(ctx, "/subscription", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Checkout returns the hosted checkout URL to open in the browser. The
// outcome is not reported here; read the subscription again afterwards.
func (c *Client) Checkout(ctx context.Context, planID, billingCycle string) (*Checkout, error) {
	var out Checkout
	body := map[string]string{"plan_id": planID, "billing_cycle": billingCycle}
	if err := c.do(ctx, http.MethodPost, "/subscription/checkout", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelSubscription(ctx context.Context, reason string) error {
	return c.do(ctx, http.MethodPost, "/subscription/cancel", map[string]string{"reason": reason}, nil)
}
