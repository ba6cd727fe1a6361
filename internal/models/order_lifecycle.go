package models

import "fmt"

type OrderStatus string

const (
	OrderDraft      OrderStatus = "draft"
	OrderTentative  OrderStatus = "tentative"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderInProgress OrderStatus = "in_progress"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

type OrderEvent string

const (
	EventMarkTentative   OrderEvent = "mark_tentative"
	EventConfirmBooking  OrderEvent = "confirm_booking"
	EventStartService    OrderEvent = "start_service"
	EventCompleteService OrderEvent = "complete_service"
	EventCancelOrder     OrderEvent = "cancel_order"
)

type orderTransition struct {
	from []OrderStatus
	to   OrderStatus
}

// complete_service is accepted from confirmed as well as in_progress: field
// agents occasionally close out a wash without ever tapping "start".
var orderTransitions = map[OrderEvent]orderTransition{
	EventMarkTentative:   {from: []OrderStatus{OrderDraft, OrderConfirmed}, to: OrderTentative},
	EventConfirmBooking:  {from: []OrderStatus{OrderDraft, OrderTentative}, to: OrderConfirmed},
	EventStartService:    {from: []OrderStatus{OrderConfirmed}, to: OrderInProgress},
	EventCompleteService: {from: []OrderStatus{OrderConfirmed, OrderInProgress}, to: OrderCompleted},
	EventCancelOrder:     {from: []OrderStatus{OrderDraft, OrderTentative, OrderConfirmed, OrderInProgress}, to: OrderCancelled},
}

// InvalidTransitionError reports a state-machine event that is not legal from
// the aggregate's current status. Nothing is modified when it is returned.
type InvalidTransitionError struct {
	Current string
	Event   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition: cannot %s from %s", e.Event, e.Current)
}

// NextOrderStatus resolves the target status for an event applied to the
// current status. It is a pure function; callers persist the result themselves.
func NextOrderStatus(current OrderStatus, event OrderEvent) (OrderStatus, error) {
	t, ok := orderTransitions[event]
	if !ok {
		return "", &InvalidTransitionError{Current: string(current), Event: string(event)}
	}
	for _, from := range t.from {
		if from == current {
			return t.to, nil
		}
	}
	return "", &InvalidTransitionError{Current: string(current), Event: string(event)}
}

// OrderEventForTarget maps a requested target status to the event that reaches
// it, mirroring how callers ask for "confirmed" rather than "confirm_booking".
func OrderEventForTarget(target OrderStatus) (OrderEvent, bool) {
	switch target {
	case OrderTentative:
		return EventMarkTentative, true
	case OrderConfirmed:
		return EventConfirmBooking, true
	case OrderInProgress:
		return EventStartService, true
	case OrderCompleted:
		return EventCompleteService, true
	case OrderCancelled:
		return EventCancelOrder, true
	}
	return "", false
}

func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}
