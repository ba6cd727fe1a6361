package services

import (
	"errors"
	"time"

	"sparklewash/internal/models"
	"sparklewash/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const orderNumberRetries = 3

// LineItemInput is a requested package or addon line. UnitPrice overrides the
// catalog default when set; the discount is resolved flat or as a percentage
// of the unit price.
type LineItemInput struct {
	ItemID        uint
	Quantity      int
	UnitPrice     *decimal.Decimal
	DiscountType  string
	DiscountValue decimal.Decimal
	VehicleType   string
	Notes         string
}

type CreateOrderInput struct {
	CustomerID     uint
	SubscriptionID *uint

	BookingDate     *time.Time
	BookingTimeFrom *time.Time
	BookingTimeTo   *time.Time
	AssignedToID    *uint

	// Address overrides; unset fields fall back to the customer's stored
	// address.
	ContactPhone string
	AddressLine1 string
	AddressLine2 string
	Area         string
	City         string
	State        string
	Latitude     *float64
	Longitude    *float64
	MapLink      string

	Notes         string
	PaymentMethod string

	Packages []LineItemInput
	Addons   []LineItemInput
}

// OrderCreationService builds a new order aggregate with customer-derived
// address, line items and computed totals, in one transaction.
type OrderCreationService interface {
	CreateOrder(in CreateOrderInput, actor *models.User) (*models.Order, error)

	// CreateOrderTx runs the creation inside an existing transaction. Used by
	// the subscription order generator so slot bookkeeping commits atomically
	// with the order.
	CreateOrderTx(tx *gorm.DB, in CreateOrderInput, actor *models.User) (*models.Order, error)
}

type orderCreationService struct {
	tx           TxRunner
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	catalogRepo  repository.CatalogRepository
	pricing      PricingService
	availability AvailabilityService
	settings     SettingsService
	logger       *zap.Logger
	now          func() time.Time
}

func NewOrderCreationService(
	tx TxRunner,
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	catalogRepo repository.CatalogRepository,
	pricing PricingService,
	availability AvailabilityService,
	settings SettingsService,
	logger *zap.Logger,
) OrderCreationService {
	return &orderCreationService{
		tx:           tx,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		catalogRepo:  catalogRepo,
		pricing:      pricing,
		availability: availability,
		settings:     settings,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *orderCreationService) CreateOrder(in CreateOrderInput, actor *models.User) (*models.Order, error) {
	var order *models.Order
	for attempt := 0; attempt < orderNumberRetries; attempt++ {
		err := s.tx.Transaction(func(tx *gorm.DB) error {
			created, txErr := s.CreateOrderTx(tx, in, actor)
			if txErr != nil {
				return txErr
			}
			order = created
			return nil
		})
		if err == nil {
			return order, nil
		}
		// A concurrent creation can win the same day sequence between our
		// locked read and the insert; the unique index catches it.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.logger.Warn("order number collision, retrying",
				zap.Int("attempt", attempt+1))
			time.Sleep(time.Duration(attempt+1) * 100 * time.Millisecond)
			continue
		}
		return nil, err
	}
	return nil, ErrOrderNumberExhausted
}

func (s *orderCreationService) CreateOrderTx(tx *gorm.DB, in CreateOrderInput, actor *models.User) (*models.Order, error) {
	orders := s.orderRepo.WithTx(tx)
	customers := s.customerRepo.WithTx(tx)

	customer, err := customers.GetByID(in.CustomerID)
	if err != nil {
		return nil, notFound(err, "customer", in.CustomerID)
	}

	now := s.now()
	order := s.buildOrder(in, customer, actor)

	packageLines, addonLines, lineErrs := s.resolveLines(in)

	errs := append(order.Validate(now), lineErrs...)
	if len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	if order.AssignedToID != nil && order.BookingDate != nil &&
		order.BookingTimeFrom != nil && order.BookingTimeTo != nil {
		conflict, err := s.availability.CheckTx(tx, *order.AssignedToID, *order.BookingDate,
			*order.BookingTimeFrom, *order.BookingTimeTo, 0)
		if err != nil {
			return nil, err
		}
		if conflict != nil {
			return nil, &ConflictError{OrderNumber: conflict.OrderNumber}
		}
	}

	prefix := models.OrderNumberPrefix(now)
	last, err := orders.LastOrderNumberForPrefix(prefix)
	if err != nil {
		return nil, err
	}
	order.OrderNumber = models.NextOrderNumber(prefix, last)

	if err := orders.Create(order); err != nil {
		return nil, err
	}

	for i := range packageLines {
		packageLines[i].OrderID = order.ID
		if err := orders.CreatePackageLine(&packageLines[i]); err != nil {
			return nil, err
		}
	}
	for i := range addonLines {
		addonLines[i].OrderID = order.ID
		if err := orders.CreateAddonLine(&addonLines[i]); err != nil {
			return nil, err
		}
	}
	order.Packages = packageLines
	order.Addons = addonLines

	s.pricing.Apply(order)
	if err := orders.UpdateTotals(order); err != nil {
		return nil, err
	}

	if err := customers.UpdateLastBookedAt(customer.ID, now); err != nil {
		return nil, err
	}

	return order, nil
}

// buildOrder assembles the draft aggregate. The initial status is the state
// machine's and is never taken from input.
func (s *orderCreationService) buildOrder(in CreateOrderInput, customer *models.Customer, actor *models.User) *models.Order {
	order := &models.Order{
		CustomerID:     in.CustomerID,
		SubscriptionID: in.SubscriptionID,
		Status:         models.OrderDraft,

		BookingDate:     in.BookingDate,
		BookingTimeFrom: in.BookingTimeFrom,
		BookingTimeTo:   in.BookingTimeTo,
		AssignedToID:    in.AssignedToID,

		ContactPhone: fallback(in.ContactPhone, customer.Phone),
		AddressLine1: fallback(in.AddressLine1, customer.AddressLine1),
		AddressLine2: fallback(in.AddressLine2, customer.AddressLine2),
		Area:         fallback(in.Area, customer.Area),
		City:         fallback(in.City, customer.City),
		State:        fallback(in.State, customer.State),
		MapLink:      fallback(in.MapLink, customer.MapLink),

		Notes:         in.Notes,
		GSTPercentage: s.settings.GSTPercentage(),
	}
	if in.PaymentMethod != "" {
		order.PaymentMethod = in.PaymentMethod
	} else {
		order.PaymentMethod = "cod"
	}
	order.Latitude = in.Latitude
	if order.Latitude == nil {
		order.Latitude = customer.Latitude
	}
	order.Longitude = in.Longitude
	if order.Longitude == nil {
		order.Longitude = customer.Longitude
	}
	if actor != nil {
		order.CreatedByID = actor.ID
	}
	return order
}

// resolveLines looks up catalog items and resolves prices and discounts for
// every requested line. Failures are collected, not short-circuited, so the
// caller gets a single error list.
func (s *orderCreationService) resolveLines(in CreateOrderInput) ([]models.OrderPackage, []models.OrderAddon, []string) {
	var errs []string

	packageLines := make([]models.OrderPackage, 0, len(in.Packages))
	for _, req := range in.Packages {
		pkg, err := s.catalogRepo.GetPackage(req.ItemID)
		if err != nil {
			errs = append(errs, notFound(err, "package", req.ItemID).Error())
			continue
		}
		line := models.OrderPackage{
			PackageID:   pkg.ID,
			Quantity:    quantityOrOne(req.Quantity),
			UnitPrice:   priceOrDefault(req.UnitPrice, pkg.UnitPrice),
			VehicleType: fallback(req.VehicleType, pkg.VehicleType),
			Notes:       req.Notes,
		}
		line.Discount = ResolveDiscount(line.UnitPrice, req.DiscountType, req.DiscountValue)
		line.Recalculate()
		errs = append(errs, line.Validate()...)
		packageLines = append(packageLines, line)
	}

	addonLines := make([]models.OrderAddon, 0, len(in.Addons))
	for _, req := range in.Addons {
		addon, err := s.catalogRepo.GetAddon(req.ItemID)
		if err != nil {
			errs = append(errs, notFound(err, "addon", req.ItemID).Error())
			continue
		}
		line := models.OrderAddon{
			AddonID:   addon.ID,
			Quantity:  quantityOrOne(req.Quantity),
			UnitPrice: priceOrDefault(req.UnitPrice, addon.Price),
		}
		line.Discount = ResolveDiscount(line.UnitPrice, req.DiscountType, req.DiscountValue)
		line.Recalculate()
		errs = append(errs, line.Validate()...)
		addonLines = append(addonLines, line)
	}

	return packageLines, addonLines, errs
}

func fallback(value, def string) string {
	if value != "" {
		return value
	}
	return def
}

func quantityOrOne(q int) int {
	if q == 0 {
		return 1
	}
	return q
}

func priceOrDefault(override *decimal.Decimal, def decimal.Decimal) decimal.Decimal {
	if override != nil {
		return *override
	}
	return def
}
