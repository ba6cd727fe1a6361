package models

import "time"

type SubscriptionOrderStatus string

const (
	SlotPendingGeneration SubscriptionOrderStatus = "pending_generation"
	SlotGenerated         SubscriptionOrderStatus = "generated"
	SlotCancelled         SubscriptionOrderStatus = "cancelled"
)

// SubscriptionOrder is one row per washing-schedule slot, tracking whether a
// concrete order has been generated for it. At most one non-cancelled row may
// exist per (subscription_id, scheduled_date).
type SubscriptionOrder struct {
	ID             uint                    `json:"id" gorm:"primaryKey"`
	SubscriptionID uint                    `json:"subscription_id" gorm:"not null;uniqueIndex:idx_subscription_slot"`
	ScheduledDate  time.Time               `json:"scheduled_date" gorm:"type:date;not null;uniqueIndex:idx_subscription_slot"`
	TimeFrom       string                  `json:"time_from" gorm:"not null"`
	TimeTo         string                  `json:"time_to" gorm:"not null"`
	Status         SubscriptionOrderStatus `json:"status" gorm:"not null;default:'pending_generation';index"`
	OrderID        *uint                   `json:"order_id"`
	GeneratedAt    *time.Time              `json:"generated_at"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

type slotTransition struct {
	from []SubscriptionOrderStatus
	to   SubscriptionOrderStatus
}

var slotTransitions = map[string]slotTransition{
	"mark_generated": {from: []SubscriptionOrderStatus{SlotPendingGeneration}, to: SlotGenerated},
	"cancel":         {from: []SubscriptionOrderStatus{SlotPendingGeneration, SlotGenerated}, to: SlotCancelled},
}

func NextSlotStatus(current SubscriptionOrderStatus, event string) (SubscriptionOrderStatus, error) {
	t, ok := slotTransitions[event]
	if !ok {
		return "", &InvalidTransitionError{Current: string(current), Event: event}
	}
	for _, from := range t.from {
		if from == current {
			return t.to, nil
		}
	}
	return "", &InvalidTransitionError{Current: string(current), Event: event}
}

// SlotWindow resolves the slot's booking window on its scheduled date.
// Times are stored as "15:04" strings; malformed values fall back to midnight.
func (s *SubscriptionOrder) SlotWindow() (from, to time.Time) {
	return combineDateTime(s.ScheduledDate, s.TimeFrom), combineDateTime(s.ScheduledDate, s.TimeTo)
}

// ValidClock reports whether a schedule time string parses as a clock value
// in either of the stored formats.
func ValidClock(clock string) bool {
	if _, err := time.Parse("15:04", clock); err == nil {
		return true
	}
	_, err := time.Parse("15:04:05", clock)
	return err == nil
}

func combineDateTime(date time.Time, clock string) time.Time {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		if t, err = time.Parse("15:04:05", clock); err != nil {
			return DateOnly(date)
		}
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location())
}
