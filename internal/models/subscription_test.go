package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestSubscriptionEndDate(t *testing.T) {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC), SubscriptionEndDate(start, 1))
	assert.Equal(t, time.Date(2024, 4, 14, 0, 0, 0, 0, time.UTC), SubscriptionEndDate(start, 3))
}

func TestAllOrdersCompleted(t *testing.T) {
	sub := &Subscription{NumberOfOrders: 4, CompletedNoOrders: 3}
	assert.False(t, sub.AllOrdersCompleted())

	sub.CompletedNoOrders = 4
	assert.True(t, sub.AllOrdersCompleted())
}

func TestSubscriptionValidate(t *testing.T) {
	valid := func() *Subscription {
		return &Subscription{
			CustomerID:     1,
			VehicleType:    "sedan",
			MonthsDuration: 1,
			StartDate:      time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			EndDate:        time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
			WashingSchedules: datatypes.JSONSlice[WashSchedule]{
				{Date: "2024-06-05", TimeFrom: "10:00", TimeTo: "11:00"},
				{Date: "2024-06-20", TimeFrom: "10:00", TimeTo: "11:00"},
			},
			SubscriptionAmount: decimal.RequireFromString("1000"),
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.Empty(t, valid().Validate())
	})

	t.Run("invalid vehicle type", func(t *testing.T) {
		sub := valid()
		sub.VehicleType = "tractor"
		assert.Contains(t, sub.Validate(), "tractor is not a valid vehicle type")
	})

	t.Run("schedule outside period", func(t *testing.T) {
		sub := valid()
		sub.WashingSchedules = append(sub.WashingSchedules,
			WashSchedule{Date: "2024-07-10", TimeFrom: "10:00", TimeTo: "11:00"})
		errs := sub.Validate()
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "must be within subscription period")
	})

	t.Run("malformed schedule", func(t *testing.T) {
		sub := valid()
		sub.WashingSchedules = datatypes.JSONSlice[WashSchedule]{{Date: "05-06-2024", TimeFrom: "10:00", TimeTo: "11:00"}}
		errs := sub.Validate()
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "invalid washing schedule at index 0")
	})

	t.Run("unparseable schedule time", func(t *testing.T) {
		sub := valid()
		sub.WashingSchedules = datatypes.JSONSlice[WashSchedule]{{Date: "2024-06-05", TimeFrom: "25:99", TimeTo: "11:00"}}
		errs := sub.Validate()
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "time_from and time_to must be in HH:MM format")
	})

	t.Run("no schedules", func(t *testing.T) {
		sub := valid()
		sub.WashingSchedules = nil
		assert.Contains(t, sub.Validate(), "washing schedules are required")
	})

	t.Run("completed cannot exceed total", func(t *testing.T) {
		sub := valid()
		sub.NumberOfOrders = 2
		sub.CompletedNoOrders = 3
		assert.Contains(t, sub.Validate(), "completed orders cannot exceed number of orders")
	})
}

func TestNormalizeVehicleType(t *testing.T) {
	assert.Equal(t, "suv", NormalizeVehicleType("  SUV "))
	assert.Equal(t, "sedan", NormalizeVehicleType("Sedan"))
}

func TestSubscriptionAddonAppliesToWash(t *testing.T) {
	addon := SubscriptionAddon{ApplicableWashNumbers: datatypes.JSONSlice[int]{1, 3}}
	assert.True(t, addon.AppliesToWash(1))
	assert.False(t, addon.AppliesToWash(2))
	assert.True(t, addon.AppliesToWash(3))

	// no numbers means never applied automatically
	empty := SubscriptionAddon{}
	assert.False(t, empty.AppliesToWash(1))
}
