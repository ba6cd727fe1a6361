package models

type SubscriptionStatus string

const (
	SubscriptionScheduled SubscriptionStatus = "scheduled"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionPaused    SubscriptionStatus = "paused"
	SubscriptionCompleted SubscriptionStatus = "completed"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"
)

type SubscriptionEvent string

const (
	SubEventActivate SubscriptionEvent = "activate"
	SubEventPause    SubscriptionEvent = "pause"
	SubEventResume   SubscriptionEvent = "resume"
	SubEventComplete SubscriptionEvent = "complete"
	SubEventCancel   SubscriptionEvent = "cancel"
	SubEventExpire   SubscriptionEvent = "expire"
)

type subscriptionTransition struct {
	from []SubscriptionStatus
	to   SubscriptionStatus
}

var subscriptionTransitions = map[SubscriptionEvent]subscriptionTransition{
	SubEventActivate: {from: []SubscriptionStatus{SubscriptionScheduled}, to: SubscriptionActive},
	SubEventPause:    {from: []SubscriptionStatus{SubscriptionActive}, to: SubscriptionPaused},
	SubEventResume:   {from: []SubscriptionStatus{SubscriptionPaused}, to: SubscriptionActive},
	SubEventComplete: {from: []SubscriptionStatus{SubscriptionActive, SubscriptionPaused}, to: SubscriptionCompleted},
	SubEventCancel:   {from: []SubscriptionStatus{SubscriptionScheduled, SubscriptionActive, SubscriptionPaused}, to: SubscriptionCancelled},
	SubEventExpire:   {from: []SubscriptionStatus{SubscriptionScheduled, SubscriptionActive, SubscriptionPaused}, to: SubscriptionExpired},
}

// NextSubscriptionStatus resolves a subscription lifecycle event. The complete
// event's counter guard lives on the aggregate (AllOrdersCompleted) and is
// checked by the calling service.
func NextSubscriptionStatus(current SubscriptionStatus, event SubscriptionEvent) (SubscriptionStatus, error) {
	t, ok := subscriptionTransitions[event]
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

type PaymentEvent string

const (
	PayEventMarkPaid      PaymentEvent = "mark_paid"
	PayEventMarkCancelled PaymentEvent = "mark_cancelled"
	PayEventMarkFailed    PaymentEvent = "mark_failed"
)

type paymentTransition struct {
	from []PaymentStatus
	to   PaymentStatus
}

// Payment state is an independent column with its own machine.
var paymentTransitions = map[PaymentEvent]paymentTransition{
	PayEventMarkPaid:      {from: []PaymentStatus{PaymentPending, PaymentFailed}, to: PaymentPaid},
	PayEventMarkCancelled: {from: []PaymentStatus{PaymentPending, PaymentPaid, PaymentFailed}, to: PaymentCancelled},
	PayEventMarkFailed:    {from: []PaymentStatus{PaymentPending}, to: PaymentFailed},
}

func NextPaymentStatus(current PaymentStatus, event PaymentEvent) (PaymentStatus, error) {
	t, ok := paymentTransitions[event]
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
