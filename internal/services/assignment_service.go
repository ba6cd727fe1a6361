package services

import (
	"time"

	"sparklewash/internal/models"
	"sparklewash/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AssignmentService validates and applies agent assignment, writing an
// AssignmentHistory entry atomically with the order save.
type AssignmentService interface {
	// AssignAgent assigns the order to the agent, or unassigns when agentID is
	// nil. notes is carried onto the history entry.
	AssignAgent(orderID uint, agentID *uint, actor *models.User, notes string) (*models.Order, error)
}

type assignmentService struct {
	tx           TxRunner
	orderRepo    repository.OrderRepository
	userRepo     repository.UserRepository
	availability AvailabilityService
	logger       *zap.Logger
	now          func() time.Time
}

func NewAssignmentService(
	tx TxRunner,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	availability AvailabilityService,
	logger *zap.Logger,
) AssignmentService {
	return &assignmentService{
		tx:           tx,
		orderRepo:    orderRepo,
		userRepo:     userRepo,
		availability: availability,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *assignmentService) AssignAgent(orderID uint, agentID *uint, actor *models.User, notes string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, notFound(err, "order", orderID)
	}

	if agentID == nil {
		return s.unassign(order)
	}

	if err := s.validateAgent(*agentID); err != nil {
		return nil, err
	}

	if order.BookingDate != nil && order.BookingTimeFrom != nil && order.BookingTimeTo != nil {
		conflict, err := s.availability.Check(*agentID, *order.BookingDate,
			*order.BookingTimeFrom, *order.BookingTimeTo, order.ID)
		if err != nil {
			return nil, err
		}
		if conflict != nil {
			return nil, &ConflictError{OrderNumber: conflict.OrderNumber}
		}
	}

	err = s.tx.Transaction(func(tx *gorm.DB) error {
		orders := s.orderRepo.WithTx(tx)

		// Re-validate against committed data inside the transaction; the
		// pre-check above can race with a concurrent assignment.
		if order.BookingDate != nil && order.BookingTimeFrom != nil && order.BookingTimeTo != nil {
			conflict, err := s.availability.CheckTx(tx, *agentID, *order.BookingDate,
				*order.BookingTimeFrom, *order.BookingTimeTo, order.ID)
			if err != nil {
				return err
			}
			if conflict != nil {
				return &ConflictError{OrderNumber: conflict.OrderNumber}
			}
		}

		order.AssignedToID = agentID
		if err := orders.Save(order); err != nil {
			return err
		}

		actorID := actorIDOrNil(actor)
		return orders.CreateAssignmentHistory(&models.AssignmentHistory{
			OrderID:      order.ID,
			AssignedToID: *agentID,
			AssignedByID: actorID,
			AssignedAt:   s.now(),
			Status:       order.Status,
			Notes:        notes,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("agent assigned",
		zap.String("order_number", order.OrderNumber),
		zap.Uint("agent_id", *agentID))
	return order, nil
}

func (s *assignmentService) unassign(order *models.Order) (*models.Order, error) {
	order.AssignedToID = nil
	if err := s.orderRepo.Save(order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *assignmentService) validateAgent(agentID uint) error {
	agent, err := s.userRepo.GetByIDIncludingDeleted(agentID)
	if err != nil {
		return &NotFoundError{Resource: "agent", ID: agentID}
	}
	if agent.DeletedAt.Valid {
		return ValidationErrors{"cannot assign to deleted/inactive agent"}
	}
	if !agent.IsAgent() {
		return ValidationErrors{"user must have agent role to be assigned orders"}
	}
	return nil
}

func actorIDOrNil(actor *models.User) *uint {
	if actor == nil {
		return nil
	}
	id := actor.ID
	return &id
}
