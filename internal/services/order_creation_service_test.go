package services

import (
	"testing"
	"time"

	"sparklewash/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type creationFixture struct {
	orders    *fakeOrderRepo
	customers *fakeCustomerRepo
	catalog   *fakeCatalogRepo
	svc       OrderCreationService
	now       time.Time
}

func newCreationFixture(t *testing.T) *creationFixture {
	t.Helper()

	orders := newFakeOrderRepo()
	customers := newFakeCustomerRepo()
	catalog := newFakeCatalogRepo()
	settings := newFakeSettings()
	pricing := NewPricingService(orders)
	availability := NewAvailabilityService(orders, settings)

	customers.customers[1] = &models.Customer{
		ID:           1,
		Name:         "Asha Rao",
		Phone:        "9876543210",
		AddressLine1: "12 MG Road",
		Area:         "Indiranagar",
		City:         "Bengaluru",
	}
	catalog.packages[1] = &models.Package{
		ID:        1,
		Name:      "Premium Wash",
		UnitPrice: decimal.RequireFromString("300"),
	}
	catalog.addons[2] = &models.Addon{
		ID:    2,
		Name:  "Interior Vacuum",
		Price: decimal.RequireFromString("100"),
	}

	svc := NewOrderCreationService(fakeTx{}, orders, customers, catalog,
		pricing, availability, settings, zap.NewNop())

	now := time.Date(2024, 6, 5, 9, 0, 0, 0, time.UTC)
	svc.(*orderCreationService).now = func() time.Time { return now }

	return &creationFixture{
		orders:    orders,
		customers: customers,
		catalog:   catalog,
		svc:       svc,
		now:       now,
	}
}

func TestCreateOrder(t *testing.T) {
	f := newCreationFixture(t)

	date := f.now.AddDate(0, 0, 1)
	from := time.Date(2024, 6, 6, 10, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 6, 11, 0, 0, 0, time.UTC)
	in := CreateOrderInput{
		CustomerID:      1,
		BookingDate:     &date,
		BookingTimeFrom: &from,
		BookingTimeTo:   &to,
		Packages:        []LineItemInput{{ItemID: 1, Quantity: 2}},
		Addons: []LineItemInput{{
			ItemID:        2,
			DiscountType:  models.DiscountTypePercentage,
			DiscountValue: decimal.RequireFromString("10"),
		}},
	}
	actor := &models.User{ID: 5, Role: models.RoleSalesExecutive}

	order, err := f.svc.CreateOrder(in, actor)
	require.NoError(t, err)

	assert.Equal(t, "SP24060501", order.OrderNumber)
	assert.Equal(t, models.OrderDraft, order.Status)
	assert.Equal(t, uint(5), order.CreatedByID)

	// address snapshot copied from the customer
	assert.Equal(t, "9876543210", order.ContactPhone)
	assert.Equal(t, "Indiranagar", order.Area)

	// totals: 2x300 + (100 - 10%) = 690, +18% GST
	assert.True(t, order.Subtotal.Equal(decimal.RequireFromString("690")), "subtotal %s", order.Subtotal)
	assert.True(t, order.GSTAmount.Equal(decimal.RequireFromString("124.20")))
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("814.20")))

	require.Len(t, order.Packages, 1)
	assert.Equal(t, 2, order.Packages[0].Quantity)
	require.Len(t, order.Addons, 1)
	assert.True(t, order.Addons[0].TotalPrice.Equal(decimal.RequireFromString("90")))

	// customer bookkeeping
	assert.Equal(t, f.now, f.customers.lastBooked[1])
}

func TestCreateOrderSequencesWithinDay(t *testing.T) {
	f := newCreationFixture(t)
	actor := &models.User{ID: 5, Role: models.RoleAdmin}
	in := CreateOrderInput{
		CustomerID: 1,
		Packages:   []LineItemInput{{ItemID: 1}},
	}

	first, err := f.svc.CreateOrder(in, actor)
	require.NoError(t, err)
	second, err := f.svc.CreateOrder(in, actor)
	require.NoError(t, err)

	assert.Equal(t, "SP24060501", first.OrderNumber)
	assert.Equal(t, "SP24060502", second.OrderNumber)
}

func TestCreateOrderCollectsValidationErrors(t *testing.T) {
	f := newCreationFixture(t)

	// customer without phone or area, plus an unknown package
	f.customers.customers[2] = &models.Customer{ID: 2, Name: "No Address"}
	in := CreateOrderInput{
		CustomerID: 2,
		Packages:   []LineItemInput{{ItemID: 99}},
	}

	_, err := f.svc.CreateOrder(in, &models.User{ID: 5, Role: models.RoleAdmin})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "contact phone is required")
	assert.Contains(t, verrs, "area is required")
	assert.Contains(t, verrs, "package with id 99 not found")

	// nothing was written
	assert.Empty(t, f.orders.orders)
}

func TestCreateOrderUnknownCustomer(t *testing.T) {
	f := newCreationFixture(t)
	_, err := f.svc.CreateOrder(CreateOrderInput{CustomerID: 42}, &models.User{ID: 5})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "customer", nf.Resource)
}

func TestCreateOrderAgentConflict(t *testing.T) {
	f := newCreationFixture(t)
	actor := &models.User{ID: 5, Role: models.RoleAdmin}

	agentID := uint(7)
	date := f.now.AddDate(0, 0, 1)
	from := time.Date(2024, 6, 6, 10, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 6, 11, 0, 0, 0, time.UTC)
	in := CreateOrderInput{
		CustomerID:      1,
		AssignedToID:    &agentID,
		BookingDate:     &date,
		BookingTimeFrom: &from,
		BookingTimeTo:   &to,
		Packages:        []LineItemInput{{ItemID: 1}},
	}

	first, err := f.svc.CreateOrder(in, actor)
	require.NoError(t, err)

	// same agent, overlapping window
	_, err = f.svc.CreateOrder(in, actor)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, first.OrderNumber, conflict.OrderNumber)
}

func TestCreateOrderRetriesNumberCollision(t *testing.T) {
	f := newCreationFixture(t)
	f.orders.failCreates = 1

	order, err := f.svc.CreateOrder(CreateOrderInput{
		CustomerID: 1,
		Packages:   []LineItemInput{{ItemID: 1}},
	}, &models.User{ID: 5, Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, "SP24060501", order.OrderNumber)
}

func TestCreateOrderNumberExhaustion(t *testing.T) {
	f := newCreationFixture(t)
	f.orders.failCreates = 3

	_, err := f.svc.CreateOrder(CreateOrderInput{
		CustomerID: 1,
		Packages:   []LineItemInput{{ItemID: 1}},
	}, &models.User{ID: 5, Role: models.RoleAdmin})
	require.ErrorIs(t, err, ErrOrderNumberExhausted)
}
