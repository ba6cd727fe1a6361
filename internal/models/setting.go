package models

import (
	"strconv"
	"time"
)

const (
	SettingGSTPercentage        = "gst_percentage"
	SettingBookingBufferMinutes = "booking_buffer_minutes"
)

// Setting is a typed key/value row. Values are stored as strings and parsed by
// ValueType.
type Setting struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Key         string    `json:"key" gorm:"unique;not null"`
	Value       string    `json:"value"`
	ValueType   string    `json:"value_type" gorm:"not null;default:'string'"` // string, integer, decimal, boolean
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *Setting) IntValue(fallback int) int {
	if n, err := strconv.Atoi(s.Value); err == nil {
		return n
	}
	return fallback
}

func (s *Setting) FloatValue(fallback float64) float64 {
	if f, err := strconv.ParseFloat(s.Value, 64); err == nil {
		return f
	}
	return fallback
}
