package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// SubscriptionPackage is a package line on a subscription, copied at zero
// price onto every generated order.
type SubscriptionPackage struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	SubscriptionID uint            `json:"subscription_id" gorm:"not null;index"`
	PackageID      uint            `json:"package_id" gorm:"not null"`
	Quantity       int             `json:"quantity" gorm:"not null;default:1"`
	UnitPrice      decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	Discount       decimal.Decimal `json:"discount" gorm:"type:decimal(10,2);default:0"`
	TotalPrice     decimal.Decimal `json:"total_price" gorm:"type:decimal(10,2);not null"`
	VehicleType    string          `json:"vehicle_type"`
	Notes          string          `json:"notes" gorm:"type:text"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// SubscriptionAddon is an addon line on a subscription. ApplicableWashNumbers
// holds the 1-based wash-sequence indices this addon is included on.
type SubscriptionAddon struct {
	ID                    uint                     `json:"id" gorm:"primaryKey"`
	SubscriptionID        uint                     `json:"subscription_id" gorm:"not null;index"`
	AddonID               uint                     `json:"addon_id" gorm:"not null"`
	Quantity              int                      `json:"quantity" gorm:"not null;default:1"`
	UnitPrice             decimal.Decimal          `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	Discount              decimal.Decimal          `json:"discount" gorm:"type:decimal(10,2);default:0"`
	TotalPrice            decimal.Decimal          `json:"total_price" gorm:"type:decimal(10,2);not null"`
	ApplicableWashNumbers datatypes.JSONSlice[int] `json:"applicable_wash_numbers"`
	CreatedAt             time.Time                `json:"created_at"`
	UpdatedAt             time.Time                `json:"updated_at"`
}

func (p *SubscriptionPackage) Recalculate() {
	p.TotalPrice = LineTotal(p.Quantity, p.UnitPrice, p.Discount)
}

func (a *SubscriptionAddon) Recalculate() {
	a.TotalPrice = LineTotal(a.Quantity, a.UnitPrice, a.Discount)
}

// AppliesToWash reports whether this addon is included on the given 1-based
// wash-sequence index.
func (a *SubscriptionAddon) AppliesToWash(washNumber int) bool {
	for _, n := range a.ApplicableWashNumbers {
		if n == washNumber {
			return true
		}
	}
	return false
}
