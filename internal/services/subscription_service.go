package services

import (
	"fmt"
	"time"

	"sparklewash/internal/models"
	"sparklewash/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SubscriptionAddonInput is an addon line request with the wash occurrences it
// applies to.
type SubscriptionAddonInput struct {
	LineItemInput
	ApplicableWashNumbers []int
}

type CreateSubscriptionInput struct {
	CustomerID       uint
	VehicleType      string
	StartDate        time.Time
	MonthsDuration   int
	WashingSchedules []models.WashSchedule
	Packages         []LineItemInput
	Addons           []SubscriptionAddonInput
	PaymentAmount    decimal.Decimal
	PaymentDate      *time.Time
	PaymentMethod    string
	Area             string
	MapURL           string
	Notes            string
}

type SubscriptionService interface {
	CreateSubscription(in CreateSubscriptionInput, actor *models.User) (*models.Subscription, error)

	// ApplyEvent drives the subscription status machine. Cancelling cascades a
	// cancel onto every pending_generation slot.
	ApplyEvent(subscriptionID uint, event models.SubscriptionEvent, actor *models.User) (*models.Subscription, error)

	// RecordPayment adds to the cumulative payment amount and marks the
	// subscription paid once it covers the subscription amount.
	RecordPayment(subscriptionID uint, amount decimal.Decimal) (*models.Subscription, error)
}

type subscriptionService struct {
	tx               TxRunner
	subscriptionRepo repository.SubscriptionRepository
	customerRepo     repository.CustomerRepository
	catalogRepo      repository.CatalogRepository
	logger           *zap.Logger
	now              func() time.Time
}

func NewSubscriptionService(
	tx TxRunner,
	subscriptionRepo repository.SubscriptionRepository,
	customerRepo repository.CustomerRepository,
	catalogRepo repository.CatalogRepository,
	logger *zap.Logger,
) SubscriptionService {
	return &subscriptionService{
		tx:               tx,
		subscriptionRepo: subscriptionRepo,
		customerRepo:     customerRepo,
		catalogRepo:      catalogRepo,
		logger:           logger,
		now:              time.Now,
	}
}

func (s *subscriptionService) CreateSubscription(in CreateSubscriptionInput, actor *models.User) (*models.Subscription, error) {
	if _, err := s.customerRepo.GetByID(in.CustomerID); err != nil {
		return nil, notFound(err, "customer", in.CustomerID)
	}

	packageLines, addonLines, errs := s.resolveLines(in)
	if len(in.Packages) == 0 {
		errs = append(errs, "at least one package is required")
	}

	sub := s.buildSubscription(in, packageLines, addonLines, actor)
	errs = append(errs, sub.Validate()...)
	errs = append(errs, validateWashNumbers(addonLines, sub.NumberOfOrders)...)
	errs = append(errs, duplicateScheduleDates(in.WashingSchedules)...)
	if len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	err := s.tx.Transaction(func(tx *gorm.DB) error {
		subs := s.subscriptionRepo.WithTx(tx)

		if err := subs.Create(sub); err != nil {
			return err
		}
		for i := range packageLines {
			packageLines[i].SubscriptionID = sub.ID
			if err := subs.CreatePackageLine(&packageLines[i]); err != nil {
				return err
			}
		}
		for i := range addonLines {
			addonLines[i].SubscriptionID = sub.ID
			if err := subs.CreateAddonLine(&addonLines[i]); err != nil {
				return err
			}
		}
		for _, schedule := range in.WashingSchedules {
			date, _ := time.Parse("2006-01-02", schedule.Date)
			if err := subs.CreateSlot(&models.SubscriptionOrder{
				SubscriptionID: sub.ID,
				ScheduledDate:  date,
				TimeFrom:       schedule.TimeFrom,
				TimeTo:         schedule.TimeTo,
				Status:         models.SlotPendingGeneration,
			}); err != nil {
				return err
			}
		}

		if sub.PaymentAmount.GreaterThanOrEqual(sub.SubscriptionAmount) {
			next, err := models.NextPaymentStatus(sub.PaymentStatus, models.PayEventMarkPaid)
			if err != nil {
				return err
			}
			sub.PaymentStatus = next
			if err := subs.Save(sub); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sub.Packages = packageLines
	sub.Addons = addonLines
	s.logger.Info("subscription created",
		zap.Uint("subscription_id", sub.ID),
		zap.Int("number_of_orders", sub.NumberOfOrders))
	return sub, nil
}

func (s *subscriptionService) buildSubscription(in CreateSubscriptionInput, packages []models.SubscriptionPackage, addons []models.SubscriptionAddon, actor *models.User) *models.Subscription {
	perMonth := decimal.Zero
	for _, line := range packages {
		perMonth = perMonth.Add(line.TotalPrice)
	}
	for _, line := range addons {
		perMonth = perMonth.Add(line.TotalPrice)
	}
	amount := perMonth.Mul(decimal.NewFromInt(int64(in.MonthsDuration))).Round(2)

	sub := &models.Subscription{
		CustomerID:         in.CustomerID,
		VehicleType:        models.NormalizeVehicleType(in.VehicleType),
		Status:             models.SubscriptionScheduled,
		StartDate:          models.DateOnly(in.StartDate),
		EndDate:            models.SubscriptionEndDate(models.DateOnly(in.StartDate), in.MonthsDuration),
		MonthsDuration:     in.MonthsDuration,
		WashingSchedules:   in.WashingSchedules,
		SubscriptionAmount: amount,
		PaymentAmount:      in.PaymentAmount,
		PaymentStatus:      models.PaymentPending,
		PaymentMethod:      in.PaymentMethod,
		PaymentDate:        in.PaymentDate,
		NumberOfOrders:     len(in.WashingSchedules),
		CompletedNoOrders:  0,
		Area:               in.Area,
		MapURL:             in.MapURL,
		Notes:              in.Notes,
	}
	if actor != nil {
		sub.CreatedByID = actor.ID
	}
	return sub
}

func (s *subscriptionService) resolveLines(in CreateSubscriptionInput) ([]models.SubscriptionPackage, []models.SubscriptionAddon, []string) {
	var errs []string

	packageLines := make([]models.SubscriptionPackage, 0, len(in.Packages))
	for _, req := range in.Packages {
		pkg, err := s.catalogRepo.GetPackage(req.ItemID)
		if err != nil {
			errs = append(errs, notFound(err, "package", req.ItemID).Error())
			continue
		}
		if !pkg.SubscriptionEnabled {
			errs = append(errs, fmt.Sprintf("package '%s' is not available for subscription", pkg.Name))
			continue
		}
		line := models.SubscriptionPackage{
			PackageID:   pkg.ID,
			Quantity:    quantityOrOne(req.Quantity),
			UnitPrice:   priceOrDefault(req.UnitPrice, pkg.UnitPrice),
			VehicleType: models.NormalizeVehicleType(fallback(req.VehicleType, in.VehicleType)),
			Notes:       req.Notes,
		}
		line.Discount = ResolveDiscount(line.UnitPrice, req.DiscountType, req.DiscountValue)
		line.Recalculate()
		packageLines = append(packageLines, line)
	}

	addonLines := make([]models.SubscriptionAddon, 0, len(in.Addons))
	for _, req := range in.Addons {
		addon, err := s.catalogRepo.GetAddon(req.ItemID)
		if err != nil {
			errs = append(errs, notFound(err, "addon", req.ItemID).Error())
			continue
		}
		line := models.SubscriptionAddon{
			AddonID:               addon.ID,
			Quantity:              quantityOrOne(req.Quantity),
			UnitPrice:             priceOrDefault(req.UnitPrice, addon.Price),
			ApplicableWashNumbers: normalizeWashNumbers(req.ApplicableWashNumbers),
		}
		line.Discount = ResolveDiscount(line.UnitPrice, req.DiscountType, req.DiscountValue)
		line.Recalculate()
		addonLines = append(addonLines, line)
	}

	return packageLines, addonLines, errs
}

func (s *subscriptionService) ApplyEvent(subscriptionID uint, event models.SubscriptionEvent, actor *models.User) (*models.Subscription, error) {
	if actor == nil || !(actor.IsAdmin() || actor.IsSalesExecutive()) {
		return nil, &AuthorizationError{Message: "you don't have permission to change subscription status"}
	}

	var sub *models.Subscription
	err := s.tx.Transaction(func(tx *gorm.DB) error {
		subs := s.subscriptionRepo.WithTx(tx)

		var err error
		sub, err = subs.GetByID(subscriptionID)
		if err != nil {
			return notFound(err, "subscription", subscriptionID)
		}

		if event == models.SubEventComplete && !sub.AllOrdersCompleted() {
			return ValidationErrors{"subscription still has pending orders"}
		}

		next, err := models.NextSubscriptionStatus(sub.Status, event)
		if err != nil {
			return err
		}
		sub.Status = next
		if err := subs.Save(sub); err != nil {
			return err
		}

		if event == models.SubEventCancel {
			return cancelPendingSlots(subs, sub.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// cancelPendingSlots cascades a cancel transition onto every
// pending_generation slot of the subscription.
func cancelPendingSlots(subs repository.SubscriptionRepository, subscriptionID uint) error {
	slots, err := subs.ListPendingSlots(subscriptionID)
	if err != nil {
		return err
	}
	for i := range slots {
		next, err := models.NextSlotStatus(slots[i].Status, "cancel")
		if err != nil {
			return err
		}
		slots[i].Status = next
		if err := subs.SaveSlot(&slots[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *subscriptionService) RecordPayment(subscriptionID uint, amount decimal.Decimal) (*models.Subscription, error) {
	if amount.IsNegative() {
		return nil, ValidationErrors{"payment amount must be greater than or equal to 0"}
	}

	var sub *models.Subscription
	err := s.tx.Transaction(func(tx *gorm.DB) error {
		subs := s.subscriptionRepo.WithTx(tx)

		var err error
		sub, err = subs.GetByID(subscriptionID)
		if err != nil {
			return notFound(err, "subscription", subscriptionID)
		}

		sub.PaymentAmount = sub.PaymentAmount.Add(amount).Round(2)
		if sub.PaymentAmount.GreaterThanOrEqual(sub.SubscriptionAmount) && sub.PaymentStatus != models.PaymentPaid {
			next, err := models.NextPaymentStatus(sub.PaymentStatus, models.PayEventMarkPaid)
			if err != nil {
				return err
			}
			sub.PaymentStatus = next
			now := s.now()
			sub.PaymentDate = &now
		}
		return subs.Save(sub)
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func normalizeWashNumbers(numbers []int) []int {
	seen := map[int]bool{}
	var out []int
	for _, n := range numbers {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func validateWashNumbers(addons []models.SubscriptionAddon, totalWashes int) []string {
	var errs []string
	for _, addon := range addons {
		for _, n := range addon.ApplicableWashNumbers {
			if n < 1 || n > totalWashes {
				errs = append(errs, fmt.Sprintf("applicable wash number %d is out of range, valid range is 1 to %d", n, totalWashes))
			}
		}
	}
	return errs
}

func duplicateScheduleDates(schedules []models.WashSchedule) []string {
	seen := map[string]bool{}
	var errs []string
	for _, schedule := range schedules {
		if seen[schedule.Date] {
			errs = append(errs, fmt.Sprintf("duplicate washing schedule date %s", schedule.Date))
		}
		seen[schedule.Date] = true
	}
	return errs
}
