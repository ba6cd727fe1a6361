package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DiscountTypeFlat       = "flat"
	DiscountTypePercentage = "percentage"
)

// OrderPackage is a package line on an order. Owned exclusively by the order
// and destroyed with it.
type OrderPackage struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	OrderID     uint            `json:"order_id" gorm:"not null;index"`
	PackageID   uint            `json:"package_id" gorm:"not null"`
	Quantity    int             `json:"quantity" gorm:"not null;default:1"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	Discount    decimal.Decimal `json:"discount" gorm:"type:decimal(10,2);default:0"`
	TotalPrice  decimal.Decimal `json:"total_price" gorm:"type:decimal(10,2);not null"`
	VehicleType string          `json:"vehicle_type"`
	Notes       string          `json:"notes" gorm:"type:text"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// OrderAddon is an addon line on an order.
type OrderAddon struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	OrderID    uint            `json:"order_id" gorm:"not null;index"`
	AddonID    uint            `json:"addon_id" gorm:"not null"`
	Quantity   int             `json:"quantity" gorm:"not null;default:1"`
	UnitPrice  decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	Discount   decimal.Decimal `json:"discount" gorm:"type:decimal(10,2);default:0"`
	TotalPrice decimal.Decimal `json:"total_price" gorm:"type:decimal(10,2);not null"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// LineTotal computes quantity*unit_price - discount, rounded to 2 decimal
// places. Recomputed whenever price, quantity or discount change.
func LineTotal(quantity int, unitPrice, discount decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Sub(discount).Round(2)
}

func (p *OrderPackage) Recalculate() {
	p.TotalPrice = LineTotal(p.Quantity, p.UnitPrice, p.Discount)
}

func (a *OrderAddon) Recalculate() {
	a.TotalPrice = LineTotal(a.Quantity, a.UnitPrice, a.Discount)
}

func (p *OrderPackage) Validate() []string {
	return validateLine(p.Quantity, p.UnitPrice, p.Discount)
}

func (a *OrderAddon) Validate() []string {
	return validateLine(a.Quantity, a.UnitPrice, a.Discount)
}

func validateLine(quantity int, unitPrice, discount decimal.Decimal) []string {
	var errs []string
	if quantity <= 0 {
		errs = append(errs, "quantity must be greater than 0")
	}
	if unitPrice.IsNegative() {
		errs = append(errs, "unit price must be greater than or equal to 0")
	}
	if discount.IsNegative() {
		errs = append(errs, "discount must be greater than or equal to 0")
	}
	return errs
}
