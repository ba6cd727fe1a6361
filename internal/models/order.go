package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var VehicleTypes = []string{"hatchback", "sedan", "suv", "luxury"}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentFailed    PaymentStatus = "failed"
	PaymentCancelled PaymentStatus = "payment_cancelled"
)

type Order struct {
	ID             uint        `json:"id" gorm:"primaryKey"`
	OrderNumber    string      `json:"order_number" gorm:"unique;not null"`
	CustomerID     uint        `json:"customer_id" gorm:"not null;index"`
	SubscriptionID *uint       `json:"subscription_id" gorm:"index"`
	Status         OrderStatus `json:"status" gorm:"not null;default:'draft';index"`

	// Address snapshot, copied from the customer at creation and independently
	// mutable afterwards.
	ContactPhone string   `json:"contact_phone"`
	AddressLine1 string   `json:"address_line1"`
	AddressLine2 string   `json:"address_line2"`
	Area         string   `json:"area"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	Latitude     *float64 `json:"latitude" gorm:"type:decimal(10,8)"`
	Longitude    *float64 `json:"longitude" gorm:"type:decimal(11,8)"`
	MapLink      string   `json:"map_link"`

	BookingDate     *time.Time `json:"booking_date" gorm:"type:date;index"`
	BookingTimeFrom *time.Time `json:"booking_time_from"`
	BookingTimeTo   *time.Time `json:"booking_time_to"`
	ActualStartTime *time.Time `json:"actual_start_time"`
	ActualEndTime   *time.Time `json:"actual_end_time"`

	AssignedToID *uint `json:"assigned_to_id" gorm:"index:idx_orders_agent_calendar"`

	Subtotal       decimal.Decimal `json:"subtotal" gorm:"type:decimal(10,2);default:0"`
	GSTPercentage  decimal.Decimal `json:"gst_percentage" gorm:"type:decimal(5,2);default:18.0"`
	GSTAmount      decimal.Decimal `json:"gst_amount" gorm:"type:decimal(10,2);default:0"`
	TotalAmount    decimal.Decimal `json:"total_amount" gorm:"type:decimal(10,2);default:0"`
	ReceivedAmount decimal.Decimal `json:"received_amount" gorm:"type:decimal(10,2);default:0"`
	Tip            decimal.Decimal `json:"tip" gorm:"type:decimal(10,2);default:0"`

	PaymentStatus PaymentStatus `json:"payment_status" gorm:"default:'pending'"`
	PaymentMethod string        `json:"payment_method" gorm:"default:'cod'"`

	Notes string `json:"notes" gorm:"type:text"`

	CancelledByID *uint      `json:"cancelled_by_id"`
	CancelledAt   *time.Time `json:"cancelled_at"`
	CancelReason  string     `json:"cancel_reason" gorm:"type:text"`

	Rating              *int       `json:"rating"`
	Comments            string     `json:"comments" gorm:"type:text"`
	FeedbackSubmittedAt *time.Time `json:"feedback_submitted_at"`

	CreatedByID uint `json:"created_by_id"`

	Packages []OrderPackage `json:"packages" gorm:"constraint:OnDelete:CASCADE"`
	Addons   []OrderAddon   `json:"addons" gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

// OrderNumberPrefix yields the day-scoped prefix, e.g. SP240101 for 2024-01-01.
func OrderNumberPrefix(t time.Time) string {
	return "SP" + t.Format("060102")
}

// NextOrderNumber computes the successor of the highest existing order number
// for a prefix. Sequences start at 01 and are zero-padded to two digits but
// keep growing past 99.
func NextOrderNumber(prefix, last string) string {
	sequence := 1
	if last != "" {
		if n, err := strconv.Atoi(strings.TrimPrefix(last, prefix)); err == nil {
			sequence = n + 1
		}
	}
	return fmt.Sprintf("%s%02d", prefix, sequence)
}

// Validate checks the aggregate's invariants and returns human-readable field
// errors. today is the calendar day the check runs on.
func (o *Order) Validate(today time.Time) []string {
	var errs []string

	if o.CustomerID == 0 {
		errs = append(errs, "customer is required")
	}
	if strings.TrimSpace(o.ContactPhone) == "" {
		errs = append(errs, "contact phone is required")
	}
	if strings.TrimSpace(o.Area) == "" {
		errs = append(errs, "area is required")
	}
	if o.Latitude != nil && (*o.Latitude < -90 || *o.Latitude > 90) {
		errs = append(errs, "latitude must be between -90 and 90")
	}
	if o.Longitude != nil && (*o.Longitude < -180 || *o.Longitude > 180) {
		errs = append(errs, "longitude must be between -180 and 180")
	}

	if o.BookingTimeFrom != nil && o.BookingTimeTo != nil && !o.BookingTimeFrom.Before(*o.BookingTimeTo) {
		errs = append(errs, "booking end time must be after booking start time")
	}
	if o.BookingDate != nil {
		day := DateOnly(*o.BookingDate)
		// Subscription-generated tentative orders may carry a past slot date.
		fromSubscription := o.SubscriptionID != nil && o.Status == OrderTentative
		if day.Before(DateOnly(today)) && !fromSubscription {
			errs = append(errs, "booking date cannot be in the past")
		}
	}

	if o.Status == OrderCancelled && strings.TrimSpace(o.CancelReason) == "" {
		errs = append(errs, "cancel reason is required when cancelling an order")
	}
	if o.Status != OrderCompleted && (o.Rating != nil || o.Comments != "" || o.FeedbackSubmittedAt != nil) {
		errs = append(errs, "feedback can only be added to completed orders")
	}
	if o.Rating != nil && (*o.Rating < 1 || *o.Rating > 5) {
		errs = append(errs, "rating must be between 1 and 5")
	}

	return errs
}

func (o *Order) FullAddress() string {
	parts := []string{o.AddressLine1, o.AddressLine2, o.Area, o.City, o.State}
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

func (o *Order) DurationInMinutes() int {
	if o.ActualStartTime == nil || o.ActualEndTime == nil {
		return 0
	}
	return int(o.ActualEndTime.Sub(*o.ActualStartTime).Minutes())
}

func (o *Order) CanAddFeedback() bool {
	return o.Status == OrderCompleted && o.FeedbackSubmittedAt == nil
}

// DateOnly truncates a timestamp to its calendar day in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
