package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ValidationErrors is a structured list of field-level, human-readable
// messages. Operations returning it have written nothing.
type ValidationErrors []string

func (e ValidationErrors) Error() string {
	return strings.Join(e, "; ")
}

// AuthorizationError means the actor lacks the role for the requested action.
// It is raised before any mutation attempt.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

// ConflictError reports an agent double-booking, carrying the conflicting
// order's number for operator diagnosis.
type ConflictError struct {
	OrderNumber string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("agent is not available during this time, conflicts with order #%s", e.OrderNumber)
}

// NotFoundError means a referenced record does not exist or is soft-deleted.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Resource, e.ID)
}

// ErrOrderNumberExhausted is returned when repeated attempts to claim a
// unique order number all collide.
var ErrOrderNumberExhausted = errors.New("unable to generate a unique order number, please try again")

func notFound(err error, resource string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Resource: resource, ID: id}
	}
	return err
}

// TxRunner abstracts gorm's Transaction so services can be exercised without a
// live database. *gorm.DB satisfies it directly.
type TxRunner interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}
