package subscription

import "errors"

var (
	ErrPlanNotFound         = errors.New("subscription plan not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrAlreadySubscribed    = errors.New("already subscribed to this plan")
	ErrCannotCancelFree     = errors.New("cannot cancel free plan")
	ErrCannotBuyFree        = errors.New("free plan needs no checkout")
	ErrInvalidBillingCycle  = errors.New("invalid billing cycle")
	ErrPaymentsDisabled     = errors.New("payments are not configured")

	// Limit errors returned when a user exceeds their plan
	ErrProjectLimitReached = errors.New("portfolio limit reached for your current plan")
	ErrFeatureNotAvailable = errors.New("this feature is not available on your current plan")
)

// LimitError carries rich context for UI display
type LimitError struct {
	Err       error
	Current   int
	Limit     int
	PlanName  string
	UpgradeTo string
}

func (e *LimitError) Error() string { return e.Err.Error() }
func (e *LimitError) Unwrap() error { return e.Err }
