package services

import (
	"testing"
	"time"

	"sparklewash/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type generatorFixture struct {
	orders  *fakeOrderRepo
	subs    *fakeSubscriptionRepo
	catalog *fakeCatalogRepo
	svc     OrderGeneratorService
	now     time.Time
}

func newGeneratorFixture(t *testing.T) *generatorFixture {
	t.Helper()

	orders := newFakeOrderRepo()
	customers := newFakeCustomerRepo()
	catalog := newFakeCatalogRepo()
	subs := newFakeSubscriptionRepo()
	settings := newFakeSettings()
	pricing := NewPricingService(orders)
	availability := NewAvailabilityService(orders, settings)

	customers.customers[1] = &models.Customer{
		ID:    1,
		Name:  "Asha Rao",
		Phone: "9876543210",
		Area:  "Indiranagar",
	}
	catalog.packages[1] = &models.Package{
		ID:                  1,
		Name:                "Premium Wash",
		UnitPrice:           decimal.RequireFromString("300"),
		SubscriptionEnabled: true,
	}
	catalog.addons[2] = &models.Addon{
		ID:    2,
		Name:  "Interior Vacuum",
		Price: decimal.RequireFromString("100"),
	}

	now := time.Date(2024, 6, 5, 9, 0, 0, 0, time.UTC)

	creation := NewOrderCreationService(fakeTx{}, orders, customers, catalog,
		pricing, availability, settings, zap.NewNop())
	creation.(*orderCreationService).now = func() time.Time { return now }

	svc := NewOrderGeneratorService(fakeTx{}, subs, orders, creation, zap.NewNop())
	svc.(*orderGeneratorService).now = func() time.Time { return now }

	return &generatorFixture{orders: orders, subs: subs, catalog: catalog, svc: svc, now: now}
}

// seedSubscription creates a scheduled subscription with three slots on
// consecutive days and an addon limited to washes 1 and 3.
func (f *generatorFixture) seedSubscription(t *testing.T) *models.Subscription {
	t.Helper()

	sub := &models.Subscription{
		CustomerID:     1,
		VehicleType:    "sedan",
		Status:         models.SubscriptionScheduled,
		StartDate:      f.now,
		EndDate:        f.now.AddDate(0, 1, -1),
		MonthsDuration: 1,
		NumberOfOrders: 3,
		Area:           "Indiranagar",
		CreatedByID:    4,
	}
	require.NoError(t, f.subs.Create(sub))

	require.NoError(t, f.subs.CreatePackageLine(&models.SubscriptionPackage{
		SubscriptionID: sub.ID,
		PackageID:      1,
		Quantity:       1,
		UnitPrice:      decimal.RequireFromString("300"),
	}))
	require.NoError(t, f.subs.CreateAddonLine(&models.SubscriptionAddon{
		SubscriptionID:        sub.ID,
		AddonID:               2,
		Quantity:              1,
		UnitPrice:             decimal.RequireFromString("100"),
		ApplicableWashNumbers: datatypes.JSONSlice[int]{1, 3},
	}))

	for day := 1; day <= 3; day++ {
		require.NoError(t, f.subs.CreateSlot(&models.SubscriptionOrder{
			SubscriptionID: sub.ID,
			ScheduledDate:  f.now.AddDate(0, 0, day),
			TimeFrom:       "10:00",
			TimeTo:         "11:00",
			Status:         models.SlotPendingGeneration,
		}))
	}
	return sub
}

func TestGenerateUpcomingOrders(t *testing.T) {
	f := newGeneratorFixture(t)
	sub := f.seedSubscription(t)

	result, err := f.svc.GenerateUpcomingOrders(7)
	require.NoError(t, err)
	assert.Equal(t, 3, result.GeneratedCount)
	assert.Empty(t, result.Errors)

	slots, _ := f.subs.ListSlots(sub.ID)
	require.Len(t, slots, 3)
	for i, slot := range slots {
		assert.Equal(t, models.SlotGenerated, slot.Status, "slot %d", i)
		require.NotNil(t, slot.OrderID, "slot %d", i)
		require.NotNil(t, slot.GeneratedAt, "slot %d", i)

		order, err := f.orders.GetByID(*slot.OrderID)
		require.NoError(t, err)

		// tentative, zero-charged, tied back to the subscription
		assert.Equal(t, models.OrderTentative, order.Status)
		require.NotNil(t, order.SubscriptionID)
		assert.Equal(t, sub.ID, *order.SubscriptionID)
		assert.True(t, order.TotalAmount.IsZero(), "order total %s", order.TotalAmount)
		require.NotNil(t, order.BookingTimeFrom)
		assert.Equal(t, 10, order.BookingTimeFrom.Hour())

		// addon only on washes 1 and 3
		require.Len(t, order.Packages, 1)
		if i == 1 {
			assert.Empty(t, order.Addons)
		} else {
			assert.Len(t, order.Addons, 1)
		}
	}

	// each generated order carries a draft -> tentative log entry
	assert.Len(t, f.orders.statusLogs, 3)

	// first generation activates the subscription
	assert.Equal(t, models.SubscriptionActive, f.subs.subs[sub.ID].Status)
}

func TestGenerateUpcomingOrdersIdempotent(t *testing.T) {
	f := newGeneratorFixture(t)
	f.seedSubscription(t)

	first, err := f.svc.GenerateUpcomingOrders(7)
	require.NoError(t, err)
	require.Equal(t, 3, first.GeneratedCount)

	second, err := f.svc.GenerateUpcomingOrders(7)
	require.NoError(t, err)
	assert.Equal(t, 0, second.GeneratedCount)
	assert.Empty(t, second.Errors)
	assert.Len(t, f.orders.orders, 3)
}

func TestGenerateSkipsSlotsOutsideWindow(t *testing.T) {
	f := newGeneratorFixture(t)
	sub := f.seedSubscription(t)

	// push the last slot beyond the look-ahead
	slots, _ := f.subs.ListSlots(sub.ID)
	far := slots[2]
	far.ScheduledDate = f.now.AddDate(0, 0, 20)
	require.NoError(t, f.subs.SaveSlot(&far))

	result, err := f.svc.GenerateUpcomingOrders(7)
	require.NoError(t, err)
	assert.Equal(t, 2, result.GeneratedCount)

	got, _ := f.subs.GetSlot(far.ID)
	assert.Equal(t, models.SlotPendingGeneration, got.Status)
}

func TestGenerateSkipsInactiveSubscriptions(t *testing.T) {
	f := newGeneratorFixture(t)
	sub := f.seedSubscription(t)
	f.subs.subs[sub.ID].Status = models.SubscriptionCancelled

	result, err := f.svc.GenerateUpcomingOrders(7)
	require.NoError(t, err)
	assert.Equal(t, 0, result.GeneratedCount)
	assert.Empty(t, result.Errors)
	assert.Empty(t, f.orders.orders)
}

func TestGenerateCollectsPerSlotErrors(t *testing.T) {
	f := newGeneratorFixture(t)
	f.seedSubscription(t)

	// break the catalog so order creation fails for every slot
	delete(f.catalog.packages, 1)

	result, err := f.svc.GenerateUpcomingOrders(7)
	require.NoError(t, err)
	assert.Equal(t, 0, result.GeneratedCount)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0].Errors[0], "package with id 1 not found")
}
