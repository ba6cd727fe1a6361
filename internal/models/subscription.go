package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WashSchedule is one slot of a subscription's washing plan. Dates are
// "2006-01-02", times "15:04".
type WashSchedule struct {
	Date     string `json:"date"`
	TimeFrom string `json:"time_from"`
	TimeTo   string `json:"time_to"`
}

type Subscription struct {
	ID          uint               `json:"id" gorm:"primaryKey"`
	CustomerID  uint               `json:"customer_id" gorm:"not null;index"`
	VehicleType string             `json:"vehicle_type" gorm:"not null"`
	Status      SubscriptionStatus `json:"status" gorm:"not null;default:'scheduled';index"`

	StartDate      time.Time `json:"start_date" gorm:"type:date;not null"`
	EndDate        time.Time `json:"end_date" gorm:"type:date;not null"`
	MonthsDuration int       `json:"months_duration" gorm:"not null"`

	WashingSchedules datatypes.JSONSlice[WashSchedule] `json:"washing_schedules"`

	SubscriptionAmount decimal.Decimal `json:"subscription_amount" gorm:"type:decimal(10,2);not null"`
	PaymentAmount      decimal.Decimal `json:"payment_amount" gorm:"type:decimal(10,2);default:0"`
	PaymentStatus      PaymentStatus   `json:"payment_status" gorm:"default:'pending'"`
	PaymentMethod      string          `json:"payment_method"`
	PaymentDate        *time.Time      `json:"payment_date" gorm:"type:date"`

	NumberOfOrders    int `json:"number_of_orders" gorm:"not null;default:0"`
	CompletedNoOrders int `json:"completed_no_orders" gorm:"not null;default:0"`

	Area    string `json:"area"`
	MapURL  string `json:"map_url"`
	Notes   string `json:"notes" gorm:"type:text"`

	CreatedByID uint `json:"created_by_id" gorm:"not null"`

	Packages           []SubscriptionPackage `json:"packages" gorm:"constraint:OnDelete:CASCADE"`
	Addons             []SubscriptionAddon   `json:"addons" gorm:"constraint:OnDelete:CASCADE"`
	SubscriptionOrders []SubscriptionOrder   `json:"subscription_orders" gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

// SubscriptionEndDate derives the inclusive end of the subscription period.
func SubscriptionEndDate(start time.Time, months int) time.Time {
	return start.AddDate(0, months, -1)
}

// AllOrdersCompleted is the guard for the complete transition.
func (s *Subscription) AllOrdersCompleted() bool {
	return s.CompletedNoOrders >= s.NumberOfOrders
}

func (s *Subscription) Validate() []string {
	var errs []string

	if s.CustomerID == 0 {
		errs = append(errs, "customer is required")
	}
	if !validVehicleType(s.VehicleType) {
		errs = append(errs, fmt.Sprintf("%s is not a valid vehicle type", s.VehicleType))
	}
	if s.MonthsDuration <= 0 {
		errs = append(errs, "months duration must be greater than 0")
	}
	if s.SubscriptionAmount.IsNegative() {
		errs = append(errs, "subscription amount must be greater than or equal to 0")
	}
	if s.PaymentAmount.IsNegative() {
		errs = append(errs, "payment amount must be greater than or equal to 0")
	}
	if s.CompletedNoOrders > s.NumberOfOrders {
		errs = append(errs, "completed orders cannot exceed number of orders")
	}
	if !s.EndDate.After(s.StartDate) {
		errs = append(errs, "end date must be after start date")
	}

	if len(s.WashingSchedules) == 0 {
		errs = append(errs, "washing schedules are required")
	}
	for i, schedule := range s.WashingSchedules {
		date, err := time.Parse("2006-01-02", schedule.Date)
		if err != nil || schedule.TimeFrom == "" || schedule.TimeTo == "" {
			errs = append(errs, fmt.Sprintf("invalid washing schedule at index %d: each schedule must have date, time_from and time_to", i))
			continue
		}
		if !ValidClock(schedule.TimeFrom) || !ValidClock(schedule.TimeTo) {
			errs = append(errs, fmt.Sprintf("invalid washing schedule at index %d: time_from and time_to must be in HH:MM format", i))
			continue
		}
		if date.Before(DateOnly(s.StartDate)) || date.After(DateOnly(s.EndDate)) {
			errs = append(errs, fmt.Sprintf("washing schedule date %s must be within subscription period (%s to %s)",
				schedule.Date, s.StartDate.Format("2006-01-02"), s.EndDate.Format("2006-01-02")))
		}
	}

	return errs
}

func validVehicleType(vt string) bool {
	for _, t := range VehicleTypes {
		if t == vt {
			return true
		}
	}
	return false
}

// NormalizeVehicleType lower-cases a user-supplied vehicle type.
func NormalizeVehicleType(vt string) string {
	return strings.ToLower(strings.TrimSpace(vt))
}
