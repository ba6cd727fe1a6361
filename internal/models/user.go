package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin          UserRole = "admin"
	RoleAgent          UserRole = "agent"
	RoleSalesExecutive UserRole = "sales_executive"
	RoleAccountant     UserRole = "accountant"
)

type User struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	Name           string         `json:"name" gorm:"not null"`
	Email          string         `json:"email" gorm:"unique;not null"`
	PasswordDigest string         `json:"-" gorm:"not null"`
	Role           UserRole       `json:"role" gorm:"not null;default:'agent'"`
	Phone          string         `json:"phone"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

func (u *User) IsAdmin() bool          { return u.Role == RoleAdmin }
func (u *User) IsAgent() bool          { return u.Role == RoleAgent }
func (u *User) IsSalesExecutive() bool { return u.Role == RoleSalesExecutive }
func (u *User) IsAccountant() bool     { return u.Role == RoleAccountant }
