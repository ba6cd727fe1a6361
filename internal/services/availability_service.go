package services

import (
	"time"

	"sparklewash/internal/models"
	"sparklewash/internal/repository"

	"gorm.io/gorm"
)

// AvailabilityService detects agent schedule conflicts for a candidate time
// window. It is the single code path for overlap detection: order validation
// and agent assignment both go through Check.
type AvailabilityService interface {
	// Check returns the conflicting order, if any, for the candidate window.
	// excludeOrderID skips the order being updated. Pure read.
	Check(agentID uint, date time.Time, from, to time.Time, excludeOrderID uint) (*models.Order, error)

	// CheckTx runs the same check against a transaction, for the re-validation
	// immediately before an assignment commit.
	CheckTx(tx *gorm.DB, agentID uint, date time.Time, from, to time.Time, excludeOrderID uint) (*models.Order, error)
}

type availabilityService struct {
	orderRepo repository.OrderRepository
	settings  SettingsService
}

func NewAvailabilityService(orderRepo repository.OrderRepository, settings SettingsService) AvailabilityService {
	return &availabilityService{orderRepo: orderRepo, settings: settings}
}

func (s *availabilityService) Check(agentID uint, date time.Time, from, to time.Time, excludeOrderID uint) (*models.Order, error) {
	return s.check(s.orderRepo, agentID, date, from, to, excludeOrderID)
}

func (s *availabilityService) CheckTx(tx *gorm.DB, agentID uint, date time.Time, from, to time.Time, excludeOrderID uint) (*models.Order, error) {
	return s.check(s.orderRepo.WithTx(tx), agentID, date, from, to, excludeOrderID)
}

func (s *availabilityService) check(repo repository.OrderRepository, agentID uint, date time.Time, from, to time.Time, excludeOrderID uint) (*models.Order, error) {
	buffer := time.Duration(s.settings.BookingBufferMinutes()) * time.Minute

	orders, err := repo.ListAgentOpenOrders(agentID, date, excludeOrderID)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		other := &orders[i]
		if other.BookingTimeFrom == nil || other.BookingTimeTo == nil {
			continue
		}
		if WindowsOverlap(*other.BookingTimeFrom, *other.BookingTimeTo, from, to, buffer) {
			return other, nil
		}
	}
	return nil, nil
}

// WindowsOverlap reports whether two same-day booking windows conflict once
// the buffer is added symmetrically: [aFrom,aTo] and [bFrom,bTo] conflict iff
// aFrom < bTo+buffer && aTo > bFrom-buffer.
//
// Only the clock components are compared. Booking times arrive anchored on
// different calendar dates depending on how they were built (a bare "15:04"
// parse versus a slot window on its scheduled date), and the repository query
// already restricts candidates to the same booking date.
func WindowsOverlap(aFrom, aTo, bFrom, bTo time.Time, buffer time.Duration) bool {
	af, at := minutesIntoDay(aFrom), minutesIntoDay(aTo)
	bf, bt := minutesIntoDay(bFrom), minutesIntoDay(bTo)
	buf := int(buffer.Minutes())
	return af < bt+buf && at > bf-buf
}

func minutesIntoDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
