package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TripToCustomer = "to_customer"
	TripToHome     = "to_home"

	// An order gets at most one journey per trip type.
	MaxJourneysPerOrder = 2
)

// Journey records point-to-point agent travel for cost reimbursement.
type Journey struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	OrderID       uint            `json:"order_id" gorm:"not null;uniqueIndex:idx_journeys_order_trip"`
	UserID        uint            `json:"user_id" gorm:"not null"`
	FromLatitude  float64         `json:"from_latitude" gorm:"type:decimal(10,7);not null"`
	FromLongitude float64         `json:"from_longitude" gorm:"type:decimal(10,7);not null"`
	ToLatitude    float64         `json:"to_latitude" gorm:"type:decimal(10,7);not null"`
	ToLongitude   float64         `json:"to_longitude" gorm:"type:decimal(10,7);not null"`
	DistanceKm    decimal.Decimal `json:"distance_km" gorm:"type:decimal(10,2);not null"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(10,2)"`
	TripType      string          `json:"trip_type" gorm:"not null;default:'to_customer';uniqueIndex:idx_journeys_order_trip"`
	TraveledAt    time.Time       `json:"traveled_at" gorm:"not null"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func ValidTripType(t string) bool {
	return t == TripToCustomer || t == TripToHome
}
