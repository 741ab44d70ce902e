package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"inkbook/internal/pkg/mq"
	"inkbook/internal/pkg/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeProvider struct {
	nextCharge int
	events     map[string]*payment.ChargeEvent
	failCreate bool
	metadata   []map[string]any
}

func (f *fakeProvider) CreateCheckout(ctx context.Context, amount int64, metadata map[string]any) (*payment.Checkout, error) {
	if f.failCreate {
		return nil, errors.New("provider down")
	}
	f.nextCharge++
	f.metadata = append(f.metadata, metadata)
	id := fmt.Sprintf("chrg_test_%d", f.nextCharge)
	return &payment.Checkout{ChargeID: id, URL: "https://pay.example/" + id}, nil
}

func (f *fakeProvider) RetrieveChargeEvent(ctx context.Context, eventID string) (*payment.ChargeEvent, error) {
	ev, ok := f.events[eventID]
	if !ok {
		return nil, errors.New("event not found")
	}
	return ev, nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:subscription_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(Models()...))

	require.NoError(t, db.Create(&[]Plan{
		{ID: PlanFree, Name: "Free", MaxProjects: 3, IsActive: true},
		{ID: PlanPro, Name: "Pro", PriceMonthly: 99000, PriceYearly: 990000, Currency: "THB", TrialDays: 14, MaxProjects: 50, FeaturedListing: true, IsActive: true},
		{ID: PlanStudio, Name: "Studio", PriceMonthly: 249000, PriceYearly: 2490000, Currency: "THB", MaxProjects: -1, UnlimitedPortfolio: true, StudioTools: true, Analytics: true, IsActive: true},
	}).Error)
	return db
}

func setupTestService(t *testing.T) (*Service, *fakeProvider, *mq.Recorder, *gorm.DB) {
	db := setupTestDB(t)
	provider := &fakeProvider{events: map[string]*payment.ChargeEvent{}}
	rec := &mq.Recorder{}
	return NewService(NewRepository(db), provider, rec), provider, rec, db
}

func TestGetCurrent_DefaultsToFree(t *testing.T) {
	svc, _, _, _ := setupTestService(t)

	sub, plan, err := svc.GetCurrent(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, PlanFree, sub.PlanID)
	assert.Equal(t, 3, plan.MaxProjects)
}

func TestCreateCheckout_Validation(t *testing.T) {
	svc, _, _, _ := setupTestService(t)
	ctx := context.Background()

	_, err := svc.CreateCheckout(ctx, 1, CheckoutRequest{PlanID: "free", BillingCycle: "MONTHLY"})
	assert.ErrorIs(t, err, ErrCannotBuyFree)

	_, err = svc.CreateCheckout(ctx, 1, CheckoutRequest{PlanID: "gold", BillingCycle: "MONTHLY"})
	assert.ErrorIs(t, err, ErrPlanNotFound)

	_, err = svc.CreateCheckout(ctx, 1, CheckoutRequest{PlanID: "pro", BillingCycle: "WEEKLY"})
	assert.ErrorIs(t, err, ErrInvalidBillingCycle)

	disabled := NewService(svc.repo, nil, nil)
	_, err = disabled.CreateCheckout(ctx, 1, CheckoutRequest{PlanID: "pro", BillingCycle: "MONTHLY"})
	assert.ErrorIs(t, err, ErrPaymentsDisabled)
}

func TestCheckoutThenWebhook_Activates(t *testing.T) {
	svc, provider, rec, _ := setupTestService(t)
	ctx := context.Background()

	resp, err := svc.CreateCheckout(ctx, 1, CheckoutRequest{PlanID: "pro", BillingCycle: "MONTHLY"})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/chrg_test_1", resp.CheckoutURL)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, resp.SubscriptionID, provider.metadata[0]["subscription_id"])

	provider.events["evnt_1"] = &payment.ChargeEvent{
		EventID:  "evnt_1",
		Key:      "charge.complete",
		ChargeID: "chrg_test_1",
		Status:   "successful",
		Metadata: map[string]any{"subscription_id": resp.SubscriptionID},
	}
	require.NoError(t, svc.HandleProviderEvent(ctx, "evnt_1"))

	sub, plan, err := svc.GetCurrent(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, PlanPro, sub.PlanID)
	assert.Equal(t, StatusTrialing, sub.Status)
	assert.True(t, sub.TrialEndsAt.Valid)
	assert.True(t, sub.CurrentPeriodEnd.Time.After(sub.TrialEndsAt.Time))
	assert.Equal(t, "Pro", plan.Name)

	// replay is a no-op
	require.NoError(t, svc.HandleProviderEvent(ctx, "evnt_1"))
	assert.Equal(t, []string{"subscription.activated"}, rec.Keys())

	_, err = svc.CreateCheckout(ctx, 1, CheckoutRequest{PlanID: "pro", BillingCycle: "MONTHLY"})
	assert.ErrorIs(t, err, ErrAlreadySubscribed)
}

func TestWebhook_FallsBackToChargeID(t *testing.T) {
	svc, provider, _, _ := setupTestService(t)
	ctx := context.Background()

	_, err := svc.CreateCheckout(ctx, 2, CheckoutRequest{PlanID: "studio", BillingCycle: "YEARLY"})
	require.NoError(t, err)

	provider.events["evnt_2"] = &payment.ChargeEvent{Key: "charge.complete", ChargeID: "chrg_test_1", Status: "successful"}
	require.NoError(t, svc.HandleProviderEvent(ctx, "evnt_2"))

	sub, _, err := svc.GetCurrent(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, sub.Status)
	assert.WithinDuration(t, time.Now().AddDate(1, 0, 0), sub.CurrentPeriodEnd.Time, time.Minute)
}

func TestWebhook_FailedCharge(t *testing.T) {
	svc, provider, rec, _ := setupTestService(t)
	ctx := context.Background()

	resp, err := svc.CreateCheckout(ctx, 3, CheckoutRequest{PlanID: "pro", BillingCycle: "MONTHLY"})
	require.NoError(t, err)

	provider.events["evnt_3"] = &payment.ChargeEvent{
		Key:      "charge.complete",
		ChargeID: "chrg_test_1",
		Status:   "failed",
		Metadata: map[string]any{"subscription_id": resp.SubscriptionID},
	}
	require.NoError(t, svc.HandleProviderEvent(ctx, "evnt_3"))

	stored, err := svc.repo.GetByID(ctx, resp.SubscriptionID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, stored.Status)
	assert.Equal(t, []string{"subscription.payment_failed"}, rec.Keys())
}

func TestWebhook_IgnoresOtherKeys(t *testing.T) {
	svc, provider, rec, _ := setupTestService(t)
	provider.events["evnt_4"] = &payment.ChargeEvent{Key: "customer.create"}

	require.NoError(t, svc.HandleProviderEvent(context.Background(), "evnt_4"))
	assert.Empty(t, rec.Keys())
}

func TestCreateCheckout_ProviderFailureCancelsPending(t *testing.T) {
	svc, provider, _, db := setupTestService(t)
	provider.failCreate = true

	_, err := svc.CreateCheckout(context.Background(), 4, CheckoutRequest{PlanID: "pro", BillingCycle: "MONTHLY"})
	require.Error(t, err)

	var pending int64
	require.NoError(t, db.Model(&Subscription{}).Where("user_id = ? AND status = ?", 4, StatusPending).Count(&pending).Error)
	assert.Zero(t, pending)
}

func TestCancel(t *testing.T) {
	svc, _, rec, db := setupTestService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Cancel(ctx, 5, ""), ErrSubscriptionNotFound)

	now := time.Now()
	require.NoError(t, db.Create(&Subscription{
		ID: "sub-5", UserID: 5, PlanID: PlanPro, Status: StatusActive, BillingCycle: CycleMonthly,
		CurrentPeriodEnd: sql.NullTime{Time: now.Add(72 * time.Hour), Valid: true},
		CreatedAt:        now, UpdatedAt: now,
	}).Error)

	require.NoError(t, svc.Cancel(ctx, 5, "too pricey"))
	sub, _, err := svc.GetCurrent(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, PlanFree, sub.PlanID)
	assert.Equal(t, []string{"subscription.cancelled"}, rec.Keys())
}

func TestExpireOld(t *testing.T) {
	svc, _, _, db := setupTestService(t)
	now := time.Now()
	require.NoError(t, db.Create(&[]Subscription{
		{ID: "old", UserID: 1, PlanID: PlanPro, Status: StatusActive, BillingCycle: CycleMonthly,
			CurrentPeriodEnd: sql.NullTime{Time: now.Add(-time.Hour), Valid: true}, CreatedAt: now, UpdatedAt: now},
		{ID: "stale", UserID: 2, PlanID: PlanPro, Status: StatusPending, BillingCycle: CycleMonthly,
			CreatedAt: now.Add(-48 * time.Hour), UpdatedAt: now},
		{ID: "fresh", UserID: 3, PlanID: PlanPro, Status: StatusActive, BillingCycle: CycleMonthly,
			CurrentPeriodEnd: sql.NullTime{Time: now.Add(time.Hour), Valid: true}, CreatedAt: now, UpdatedAt: now},
	}).Error)

	n, err := svc.ExpireOld(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCanAddProject(t *testing.T) {
	svc, _, _, db := setupTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.CanAddProject(ctx, 8, 2))

	err := svc.CanAddProject(ctx, 8, 3)
	var limitErr *LimitError
	require.ErrorAs(t, err, &limitErr)
	assert.ErrorIs(t, err, ErrProjectLimitReached)
	assert.Equal(t, 3, limitErr.Limit)
	assert.Equal(t, "pro", limitErr.UpgradeTo)

	now := time.Now()
	require.NoError(t, db.Create(&Subscription{
		ID: "sub-8", UserID: 8, PlanID: PlanStudio, Status: StatusActive, BillingCycle: CycleYearly,
		CurrentPeriodEnd: sql.NullTime{Time: now.AddDate(1, 0, 0), Valid: true},
		CreatedAt:        now, UpdatedAt: now,
	}).Error)
	require.NoError(t, svc.CanAddProject(ctx, 8, 500))

	ok, err := svc.HasFeature(ctx, 8, "studio_tools")
	require.NoError(t, err)
	assert.True(t, ok)
}
