package models

import "time"

// OrderStatusLog is an append-only record of a state transition. Never mutated
// or deleted.
type OrderStatusLog struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	OrderID     uint        `json:"order_id" gorm:"not null;index"`
	FromStatus  OrderStatus `json:"from_status" gorm:"not null"`
	ToStatus    OrderStatus `json:"to_status" gorm:"not null"`
	ChangedByID *uint       `json:"changed_by_id"`
	ChangedAt   time.Time   `json:"changed_at" gorm:"not null"`
	CreatedAt   time.Time   `json:"created_at"`
}

// AssignmentHistory is an append-only record of an assignment or reassignment.
type AssignmentHistory struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	OrderID      uint        `json:"order_id" gorm:"not null;index"`
	AssignedToID uint        `json:"assigned_to_id" gorm:"not null"`
	AssignedByID *uint       `json:"assigned_by_id"`
	AssignedAt   time.Time   `json:"assigned_at" gorm:"not null"`
	Status       OrderStatus `json:"status"`
	Notes        string      `json:"notes" gorm:"type:text"`
	CreatedAt    time.Time   `json:"created_at"`
}
