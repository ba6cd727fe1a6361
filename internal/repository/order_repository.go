package repository

import (
	"time"

	"sparklewash/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	// WithTx returns a copy of the repository bound to the given transaction.
	WithTx(tx *gorm.DB) OrderRepository

	Create(order *models.Order) error
	Save(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	Delete(id uint) error

	// LastOrderNumberForPrefix reads the highest order number for a day prefix
	// under a row lock, serializing sequence assignment within the transaction.
	LastOrderNumberForPrefix(prefix string) (string, error)

	// ListAgentOpenOrders returns the agent's non-cancelled, non-completed
	// orders on a calendar day, excluding the given order id.
	ListAgentOpenOrders(agentID uint, date time.Time, excludeOrderID uint) ([]models.Order, error)

	CreatePackageLine(line *models.OrderPackage) error
	CreateAddonLine(line *models.OrderAddon) error
	UpdateTotals(order *models.Order) error

	CreateStatusLog(log *models.OrderStatusLog) error
	CreateAssignmentHistory(history *models.AssignmentHistory) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &orderRepository{db: tx}
}

func (r *orderRepository) Create(order *models.Order) error {
	return r.db.Omit("Packages", "Addons").Create(order).Error
}

func (r *orderRepository) Save(order *models.Order) error {
	return r.db.Omit("Packages", "Addons").Save(order).Error
}

func (r *orderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Packages").Preload("Addons").First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) Delete(id uint) error {
	return r.db.Delete(&models.Order{}, id).Error
}

func (r *orderRepository) LastOrderNumberForPrefix(prefix string) (string, error) {
	var order models.Order
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("order_number LIKE ?", prefix+"%").
		Order("order_number DESC").
		First(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", err
	}
	return order.OrderNumber, nil
}

func (r *orderRepository) ListAgentOpenOrders(agentID uint, date time.Time, excludeOrderID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.
		Where("assigned_to_id = ? AND booking_date = ?", agentID, models.DateOnly(date)).
		Where("id <> ?", excludeOrderID).
		Where("status NOT IN ?", []models.OrderStatus{models.OrderCancelled, models.OrderCompleted}).
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) CreatePackageLine(line *models.OrderPackage) error {
	return r.db.Create(line).Error
}

func (r *orderRepository) CreateAddonLine(line *models.OrderAddon) error {
	return r.db.Create(line).Error
}

func (r *orderRepository) UpdateTotals(order *models.Order) error {
	return r.db.Model(order).Select("subtotal", "gst_amount", "total_amount").Updates(map[string]interface{}{
		"subtotal":     order.Subtotal,
		"gst_amount":   order.GSTAmount,
		"total_amount": order.TotalAmount,
	}).Error
}

func (r *orderRepository) CreateStatusLog(log *models.OrderStatusLog) error {
	return r.db.Create(log).Error
}

func (r *orderRepository) CreateAssignmentHistory(history *models.AssignmentHistory) error {
	return r.db.Create(history).Error
}
