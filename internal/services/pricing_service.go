package services

import (
	"sparklewash/internal/models"
	"sparklewash/internal/repository"

	"github.com/shopspring/decimal"
)

// PricingService computes per-line discounted totals and the order-level
// subtotal, GST and total.
type PricingService interface {
	// Apply recomputes subtotal, gst_amount and total_amount from the order's
	// loaded line items onto the order in memory.
	Apply(order *models.Order)

	// RecalculateTotals reloads the order, recomputes and persists its totals.
	// Idempotent: a second call with unchanged line items yields identical
	// totals.
	RecalculateTotals(orderID uint) (*models.Order, error)
}

type pricingService struct {
	orderRepo repository.OrderRepository
}

func NewPricingService(orderRepo repository.OrderRepository) PricingService {
	return &pricingService{orderRepo: orderRepo}
}

func (s *pricingService) Apply(order *models.Order) {
	subtotal := decimal.Zero
	for _, line := range order.Packages {
		subtotal = subtotal.Add(line.TotalPrice)
	}
	for _, line := range order.Addons {
		subtotal = subtotal.Add(line.TotalPrice)
	}
	subtotal = subtotal.Round(2)

	gst := subtotal.Mul(order.GSTPercentage).Div(decimal.NewFromInt(100)).Round(2)

	order.Subtotal = subtotal
	order.GSTAmount = gst
	order.TotalAmount = subtotal.Add(gst).Round(2)
}

func (s *pricingService) RecalculateTotals(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, notFound(err, "order", orderID)
	}
	s.Apply(order)
	if err := s.orderRepo.UpdateTotals(order); err != nil {
		return nil, err
	}
	return order, nil
}

// ResolveDiscount turns a discount request into a flat amount: a percentage
// type is computed against the unit price and rounded to 2 decimal places,
// anything else is taken as a flat value. Missing values resolve to zero.
func ResolveDiscount(unitPrice decimal.Decimal, discountType string, discountValue decimal.Decimal) decimal.Decimal {
	if discountValue.IsZero() {
		return decimal.Zero
	}
	if discountType == models.DiscountTypePercentage {
		return unitPrice.Mul(discountValue).Div(decimal.NewFromInt(100)).Round(2)
	}
	return discountValue
}
