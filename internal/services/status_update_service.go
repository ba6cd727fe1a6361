package services

import (
	"fmt"
	"strings"
	"time"

	"sparklewash/internal/models"
	"sparklewash/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StatusParams carries the side-effect inputs of a transition request.
type StatusParams struct {
	CancelReason    string
	ActualStartTime *time.Time
	ActualEndTime   *time.Time
}

// StatusUpdateService orchestrates role-gated transition requests through the
// order state machine. Field assignment, transition and log write are one
// atomic unit.
type StatusUpdateService interface {
	UpdateStatus(orderID uint, target models.OrderStatus, actor *models.User, params StatusParams) (*models.Order, error)

	// SubmitFeedback records rating and comments on a completed order, once.
	SubmitFeedback(orderID uint, rating int, comments string, actor *models.User) (*models.Order, error)
}

type statusUpdateService struct {
	tx               TxRunner
	orderRepo        repository.OrderRepository
	subscriptionRepo repository.SubscriptionRepository
	logger           *zap.Logger
	now              func() time.Time
}

func NewStatusUpdateService(
	tx TxRunner,
	orderRepo repository.OrderRepository,
	subscriptionRepo repository.SubscriptionRepository,
	logger *zap.Logger,
) StatusUpdateService {
	return &statusUpdateService{
		tx:               tx,
		orderRepo:        orderRepo,
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
		now:              time.Now,
	}
}

func (s *statusUpdateService) UpdateStatus(orderID uint, target models.OrderStatus, actor *models.User, params StatusParams) (*models.Order, error) {
	if !CanTransition(actor, target) {
		return nil, &AuthorizationError{
			Message: fmt.Sprintf("you don't have permission to change order status to %s", target),
		}
	}
	if target == models.OrderCancelled && strings.TrimSpace(params.CancelReason) == "" {
		return nil, ValidationErrors{"cancel reason is required when cancelling an order"}
	}

	event, ok := models.OrderEventForTarget(target)
	if !ok {
		return nil, ValidationErrors{fmt.Sprintf("%s is not a requestable order status", target)}
	}

	var order *models.Order
	err := s.tx.Transaction(func(tx *gorm.DB) error {
		orders := s.orderRepo.WithTx(tx)

		var err error
		order, err = orders.GetByID(orderID)
		if err != nil {
			return notFound(err, "order", orderID)
		}

		from := order.Status
		next, err := models.NextOrderStatus(from, event)
		if err != nil {
			return err
		}

		now := s.now()
		s.applySideEffects(order, event, actor, params, now)
		order.Status = next

		if errs := order.Validate(now); len(errs) > 0 {
			return ValidationErrors(errs)
		}
		if err := orders.Save(order); err != nil {
			return err
		}

		actorID := actorIDOrNil(actor)
		if err := orders.CreateStatusLog(&models.OrderStatusLog{
			OrderID:     order.ID,
			FromStatus:  from,
			ToStatus:    next,
			ChangedByID: actorID,
			ChangedAt:   now,
		}); err != nil {
			return err
		}

		if next == models.OrderCompleted && order.SubscriptionID != nil {
			if err := s.onSubscriptionOrderCompleted(tx, *order.SubscriptionID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order status updated",
		zap.String("order_number", order.OrderNumber),
		zap.String("status", string(order.Status)))
	return order, nil
}

func (s *statusUpdateService) applySideEffects(order *models.Order, event models.OrderEvent, actor *models.User, params StatusParams, now time.Time) {
	switch event {
	case models.EventStartService:
		if order.ActualStartTime == nil {
			if params.ActualStartTime != nil {
				order.ActualStartTime = params.ActualStartTime
			} else {
				order.ActualStartTime = &now
			}
		}
	case models.EventCompleteService:
		if order.ActualEndTime == nil {
			if params.ActualEndTime != nil {
				order.ActualEndTime = params.ActualEndTime
			} else {
				order.ActualEndTime = &now
			}
		}
		order.PaymentStatus = models.PaymentPaid
	case models.EventCancelOrder:
		order.CancelledByID = actorIDOrNil(actor)
		order.CancelReason = params.CancelReason
		order.CancelledAt = &now
	}
}

// onSubscriptionOrderCompleted bumps the subscription's completed counter and
// completes the subscription once every scheduled order is done.
func (s *statusUpdateService) onSubscriptionOrderCompleted(tx *gorm.DB, subscriptionID uint) error {
	subs := s.subscriptionRepo.WithTx(tx)

	if err := subs.IncrementCompleted(subscriptionID); err != nil {
		return err
	}
	sub, err := subs.GetByID(subscriptionID)
	if err != nil {
		return err
	}
	if !sub.AllOrdersCompleted() {
		return nil
	}
	next, err := models.NextSubscriptionStatus(sub.Status, models.SubEventComplete)
	if err != nil {
		// Not active or paused; nothing to complete.
		return nil
	}
	sub.Status = next
	return subs.Save(sub)
}

func (s *statusUpdateService) SubmitFeedback(orderID uint, rating int, comments string, actor *models.User) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, notFound(err, "order", orderID)
	}
	if !order.CanAddFeedback() {
		return nil, ValidationErrors{"feedback can only be added to completed orders"}
	}
	if rating < 1 || rating > 5 {
		return nil, ValidationErrors{"rating must be between 1 and 5"}
	}

	now := s.now()
	order.Rating = &rating
	order.Comments = comments
	order.FeedbackSubmittedAt = &now
	if err := s.orderRepo.Save(order); err != nil {
		return nil, err
	}
	return order, nil
}
