package services

import (
	"fmt"
	"sort"
	"time"

	"sparklewash/internal/models"
	"sparklewash/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const DefaultLookAheadDays = 7

// SlotError records a single slot's generation failure. Sibling slots keep
// processing.
type SlotError struct {
	SubscriptionID uint      `json:"subscription_id"`
	ScheduledDate  time.Time `json:"scheduled_date"`
	Errors         []string  `json:"errors"`
}

type GenerationResult struct {
	GeneratedCount int         `json:"generated_count"`
	Errors         []SlotError `json:"errors"`
}

// OrderGeneratorService projects due subscription schedule slots into concrete
// orders, exactly once per slot. It is triggered externally and is not a
// scheduler itself.
type OrderGeneratorService interface {
	GenerateUpcomingOrders(lookAheadDays int) (GenerationResult, error)
}

type orderGeneratorService struct {
	tx               TxRunner
	subscriptionRepo repository.SubscriptionRepository
	orderRepo        repository.OrderRepository
	creation         OrderCreationService
	logger           *zap.Logger
	now              func() time.Time
}

func NewOrderGeneratorService(
	tx TxRunner,
	subscriptionRepo repository.SubscriptionRepository,
	orderRepo repository.OrderRepository,
	creation OrderCreationService,
	logger *zap.Logger,
) OrderGeneratorService {
	return &orderGeneratorService{
		tx:               tx,
		subscriptionRepo: subscriptionRepo,
		orderRepo:        orderRepo,
		creation:         creation,
		logger:           logger,
		now:              time.Now,
	}
}

func (s *orderGeneratorService) GenerateUpcomingOrders(lookAheadDays int) (GenerationResult, error) {
	if lookAheadDays <= 0 {
		lookAheadDays = DefaultLookAheadDays
	}

	result := GenerationResult{}
	slots, err := s.subscriptionRepo.ListUpcomingSlots(lookAheadDays, s.now())
	if err != nil {
		return result, err
	}

	for i := range slots {
		slot := slots[i]
		generated, err := s.generateForSlot(&slot)
		if err != nil {
			result.Errors = append(result.Errors, SlotError{
				SubscriptionID: slot.SubscriptionID,
				ScheduledDate:  slot.ScheduledDate,
				Errors:         flattenError(err),
			})
			s.logger.Warn("subscription order generation failed",
				zap.Uint("subscription_id", slot.SubscriptionID),
				zap.Time("scheduled_date", slot.ScheduledDate),
				zap.Error(err))
			continue
		}
		if generated {
			result.GeneratedCount++
		}
	}

	s.logger.Info("subscription order generation finished",
		zap.Int("generated", result.GeneratedCount),
		zap.Int("errors", len(result.Errors)))
	return result, nil
}

// generateForSlot materializes one slot's order in its own transaction, so a
// failure or timeout here never aborts sibling slots. The bool reports whether
// an order was actually created; skipped slots return false with no error.
func (s *orderGeneratorService) generateForSlot(slot *models.SubscriptionOrder) (bool, error) {
	sub, err := s.subscriptionRepo.GetByID(slot.SubscriptionID)
	if err != nil {
		return false, notFound(err, "subscription", slot.SubscriptionID)
	}
	if sub.Status != models.SubscriptionScheduled && sub.Status != models.SubscriptionActive {
		return false, nil
	}

	washNumber := washSequenceIndex(sub.SubscriptionOrders, slot.ID)
	if washNumber == 0 {
		return false, fmt.Errorf("slot %d not found on subscription %d", slot.ID, sub.ID)
	}

	in := s.buildOrderInput(sub, slot, washNumber)
	actor := &models.User{ID: sub.CreatedByID}

	generated := false
	err = s.tx.Transaction(func(tx *gorm.DB) error {
		subs := s.subscriptionRepo.WithTx(tx)

		// Re-read inside the transaction: a concurrent run or a cascade
		// cancel may have claimed the slot since the selection query.
		current, err := subs.GetSlot(slot.ID)
		if err != nil {
			return err
		}
		if current.Status != models.SlotPendingGeneration {
			return nil
		}

		order, err := s.creation.CreateOrderTx(tx, in, actor)
		if err != nil {
			return err
		}

		// Generated orders surface as tentative until staff confirm them.
		next, err := models.NextOrderStatus(order.Status, models.EventMarkTentative)
		if err != nil {
			return err
		}
		orders := s.orderRepo.WithTx(tx)
		from := order.Status
		order.Status = next
		if err := orders.Save(order); err != nil {
			return err
		}
		creatorID := sub.CreatedByID
		if err := orders.CreateStatusLog(&models.OrderStatusLog{
			OrderID:     order.ID,
			FromStatus:  from,
			ToStatus:    next,
			ChangedByID: &creatorID,
			ChangedAt:   s.now(),
		}); err != nil {
			return err
		}

		generatedAt := s.now()
		slotNext, err := models.NextSlotStatus(current.Status, "mark_generated")
		if err != nil {
			return err
		}
		current.OrderID = &order.ID
		current.GeneratedAt = &generatedAt
		current.Status = slotNext
		if err := subs.SaveSlot(current); err != nil {
			return err
		}

		if sub.Status == models.SubscriptionScheduled {
			activated, err := models.NextSubscriptionStatus(sub.Status, models.SubEventActivate)
			if err != nil {
				return err
			}
			sub.Status = activated
			if err := subs.Save(sub); err != nil {
				return err
			}
		}
		generated = true
		return nil
	})
	return generated, err
}

func (s *orderGeneratorService) buildOrderInput(sub *models.Subscription, slot *models.SubscriptionOrder, washNumber int) CreateOrderInput {
	from, to := slot.SlotWindow()
	date := models.DateOnly(slot.ScheduledDate)
	subID := sub.ID

	zero := decimal.Zero
	packages := make([]LineItemInput, 0, len(sub.Packages))
	for _, line := range sub.Packages {
		// Zero charge: the subscription is already paid for.
		packages = append(packages, LineItemInput{
			ItemID:      line.PackageID,
			Quantity:    line.Quantity,
			UnitPrice:   &zero,
			VehicleType: line.VehicleType,
			Notes:       line.Notes,
		})
	}

	var addons []LineItemInput
	for _, line := range sub.Addons {
		if !line.AppliesToWash(washNumber) {
			continue
		}
		addons = append(addons, LineItemInput{
			ItemID:    line.AddonID,
			Quantity:  line.Quantity,
			UnitPrice: &zero,
		})
	}

	return CreateOrderInput{
		CustomerID:      sub.CustomerID,
		SubscriptionID:  &subID,
		BookingDate:     &date,
		BookingTimeFrom: &from,
		BookingTimeTo:   &to,
		Area:            sub.Area,
		MapLink:         sub.MapURL,
		Notes:           fmt.Sprintf("Auto-generated from subscription #%d (Wash #%d)", sub.ID, washNumber),
		Packages:        packages,
		Addons:          addons,
	}
}

// washSequenceIndex resolves a slot's 1-based position among the
// subscription's slots ordered by scheduled date. Returns 0 when the slot is
// not part of the subscription.
func washSequenceIndex(slots []models.SubscriptionOrder, slotID uint) int {
	ordered := make([]models.SubscriptionOrder, len(slots))
	copy(ordered, slots)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].ScheduledDate.Before(ordered[j].ScheduledDate)
	})
	for i, s := range ordered {
		if s.ID == slotID {
			return i + 1
		}
	}
	return 0
}

func flattenError(err error) []string {
	if verrs, ok := err.(ValidationErrors); ok {
		return verrs
	}
	return []string{err.Error()}
}
