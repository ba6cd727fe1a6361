package repository

import (
	"sparklewash/internal/models"

	"gorm.io/gorm"
)

type JourneyRepository interface {
	Create(journey *models.Journey) error
	GetByOrderAndType(orderID uint, tripType string) (*models.Journey, error)
	CountByOrder(orderID uint) (int64, error)
	ListByOrder(orderID uint) ([]models.Journey, error)
}

type journeyRepository struct {
	db *gorm.DB
}

func NewJourneyRepository(db *gorm.DB) JourneyRepository {
	return &journeyRepository{db: db}
}

func (r *journeyRepository) Create(journey *models.Journey) error {
	return r.db.Create(journey).Error
}

func (r *journeyRepository) GetByOrderAndType(orderID uint, tripType string) (*models.Journey, error) {
	var journey models.Journey
	err := r.db.Where("order_id = ? AND trip_type = ?", orderID, tripType).First(&journey).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &journey, nil
}

func (r *journeyRepository) CountByOrder(orderID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Journey{}).Where("order_id = ?", orderID).Count(&count).Error
	return count, err
}

func (r *journeyRepository) ListByOrder(orderID uint) ([]models.Journey, error) {
	var journeys []models.Journey
	err := r.db.Where("order_id = ?", orderID).Order("traveled_at DESC").Find(&journeys).Error
	return journeys, err
}
