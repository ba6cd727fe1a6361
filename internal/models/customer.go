package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type Customer struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Name         string         `json:"name" gorm:"not null"`
	Phone        string         `json:"phone" gorm:"index"`
	Email        string         `json:"email" gorm:"index"`
	AddressLine1 string         `json:"address_line1"`
	AddressLine2 string         `json:"address_line2"`
	Area         string         `json:"area"`
	City         string         `json:"city" gorm:"index"`
	District     string         `json:"district"`
	State        string         `json:"state"`
	Latitude     *float64       `json:"latitude" gorm:"type:decimal(10,8)"`
	Longitude    *float64       `json:"longitude" gorm:"type:decimal(11,8)"`
	MapLink      string         `json:"map_link"`
	LastBookedAt *time.Time     `json:"last_booked_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

func (c *Customer) FullAddress() string {
	parts := []string{c.AddressLine1, c.AddressLine2, c.Area, c.City, c.District, c.State}
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
