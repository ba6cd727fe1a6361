package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Package is a catalog wash package.
type Package struct {
	ID                  uint            `json:"id" gorm:"primaryKey"`
	Name                string          `json:"name" gorm:"not null"`
	Description         string          `json:"description" gorm:"type:text"`
	UnitPrice           decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	VehicleType         string          `json:"vehicle_type"`
	MaxWashesPerMonth   int             `json:"max_washes_per_month" gorm:"default:0"`
	SubscriptionEnabled bool            `json:"subscription_enabled" gorm:"default:false"`
	Active              bool            `json:"active" gorm:"default:true"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	DeletedAt           gorm.DeletedAt  `json:"deleted_at" gorm:"index"`
}

// Addon is a catalog add-on service.
type Addon struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"not null"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Active      bool            `json:"active" gorm:"default:true"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `json:"deleted_at" gorm:"index"`
}
