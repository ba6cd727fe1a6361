package repository

import (
	"time"

	"sparklewash/internal/models"

	"gorm.io/gorm"
)

type SubscriptionRepository interface {
	WithTx(tx *gorm.DB) SubscriptionRepository

	Create(sub *models.Subscription) error
	Save(sub *models.Subscription) error
	GetByID(id uint) (*models.Subscription, error)

	CreatePackageLine(line *models.SubscriptionPackage) error
	CreateAddonLine(line *models.SubscriptionAddon) error
	CreateSlot(slot *models.SubscriptionOrder) error
	SaveSlot(slot *models.SubscriptionOrder) error
	GetSlot(id uint) (*models.SubscriptionOrder, error)

	// ListUpcomingSlots returns pending_generation slots whose scheduled date
	// falls within [today, today+days].
	ListUpcomingSlots(days int, today time.Time) ([]models.SubscriptionOrder, error)

	// ListSlots returns all slots of a subscription ordered by scheduled date.
	ListSlots(subscriptionID uint) ([]models.SubscriptionOrder, error)

	// ListPendingSlots returns the subscription's pending_generation slots.
	ListPendingSlots(subscriptionID uint) ([]models.SubscriptionOrder, error)

	// IncrementCompleted bumps completed_no_orders by one.
	IncrementCompleted(subscriptionID uint) error
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) WithTx(tx *gorm.DB) SubscriptionRepository {
	if tx == nil {
		return r
	}
	return &subscriptionRepository{db: tx}
}

func (r *subscriptionRepository) Create(sub *models.Subscription) error {
	return r.db.Omit("Packages", "Addons", "SubscriptionOrders").Create(sub).Error
}

func (r *subscriptionRepository) Save(sub *models.Subscription) error {
	return r.db.Omit("Packages", "Addons", "SubscriptionOrders").Save(sub).Error
}

func (r *subscriptionRepository) GetByID(id uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.
		Preload("Packages").
		Preload("Addons").
		Preload("SubscriptionOrders").
		First(&sub, id).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) CreatePackageLine(line *models.SubscriptionPackage) error {
	return r.db.Create(line).Error
}

func (r *subscriptionRepository) CreateAddonLine(line *models.SubscriptionAddon) error {
	return r.db.Create(line).Error
}

func (r *subscriptionRepository) CreateSlot(slot *models.SubscriptionOrder) error {
	return r.db.Create(slot).Error
}

func (r *subscriptionRepository) SaveSlot(slot *models.SubscriptionOrder) error {
	return r.db.Save(slot).Error
}

func (r *subscriptionRepository) GetSlot(id uint) (*models.SubscriptionOrder, error) {
	var slot models.SubscriptionOrder
	err := r.db.First(&slot, id).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *subscriptionRepository) ListUpcomingSlots(days int, today time.Time) ([]models.SubscriptionOrder, error) {
	from := models.DateOnly(today)
	to := from.AddDate(0, 0, days)
	var slots []models.SubscriptionOrder
	err := r.db.
		Where("status = ?", models.SlotPendingGeneration).
		Where("scheduled_date >= ? AND scheduled_date <= ?", from, to).
		Order("scheduled_date ASC").
		Find(&slots).Error
	return slots, err
}

func (r *subscriptionRepository) ListSlots(subscriptionID uint) ([]models.SubscriptionOrder, error) {
	var slots []models.SubscriptionOrder
	err := r.db.
		Where("subscription_id = ?", subscriptionID).
		Order("scheduled_date ASC").
		Find(&slots).Error
	return slots, err
}

func (r *subscriptionRepository) ListPendingSlots(subscriptionID uint) ([]models.SubscriptionOrder, error) {
	var slots []models.SubscriptionOrder
	err := r.db.
		Where("subscription_id = ? AND status = ?", subscriptionID, models.SlotPendingGeneration).
		Order("scheduled_date ASC").
		Find(&slots).Error
	return slots, err
}

func (r *subscriptionRepository) IncrementCompleted(subscriptionID uint) error {
	return r.db.Model(&models.Subscription{}).
		Where("id = ?", subscriptionID).
		UpdateColumn("completed_no_orders", gorm.Expr("completed_no_orders + 1")).Error
}
