package services

import (
	"database/sql"
	"sort"
	"strings"
	"time"

	"sparklewash/internal/models"
	"sparklewash/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// fakeTx runs the callback without a database; repositories receive a nil tx
// and keep operating on their in-memory state.
type fakeTx struct{}

func (fakeTx) Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
	return fc(nil)
}

type fakeOrderRepo struct {
	orders      map[uint]*models.Order
	packages    []models.OrderPackage
	addons      []models.OrderAddon
	statusLogs  []models.OrderStatusLog
	assignments []models.AssignmentHistory
	nextID      uint

	// failCreates makes the next N Create calls fail with a duplicate key.
	failCreates int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[uint]*models.Order{}}
}

func (r *fakeOrderRepo) WithTx(tx *gorm.DB) repository.OrderRepository { return r }

func (r *fakeOrderRepo) Create(order *models.Order) error {
	if r.failCreates > 0 {
		r.failCreates--
		return gorm.ErrDuplicatedKey
	}
	r.nextID++
	order.ID = r.nextID
	stored := *order
	r.orders[order.ID] = &stored
	return nil
}

func (r *fakeOrderRepo) Save(order *models.Order) error {
	stored := *order
	r.orders[order.ID] = &stored
	return nil
}

func (r *fakeOrderRepo) GetByID(id uint) (*models.Order, error) {
	stored, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	order := *stored
	order.Packages = nil
	order.Addons = nil
	for _, line := range r.packages {
		if line.OrderID == id {
			order.Packages = append(order.Packages, line)
		}
	}
	for _, line := range r.addons {
		if line.OrderID == id {
			order.Addons = append(order.Addons, line)
		}
	}
	return &order, nil
}

func (r *fakeOrderRepo) Delete(id uint) error {
	delete(r.orders, id)
	return nil
}

func (r *fakeOrderRepo) LastOrderNumberForPrefix(prefix string) (string, error) {
	last := ""
	for _, order := range r.orders {
		if strings.HasPrefix(order.OrderNumber, prefix) && order.OrderNumber > last {
			last = order.OrderNumber
		}
	}
	return last, nil
}

func (r *fakeOrderRepo) ListAgentOpenOrders(agentID uint, date time.Time, excludeOrderID uint) ([]models.Order, error) {
	var out []models.Order
	day := models.DateOnly(date)
	for _, order := range r.orders {
		if order.ID == excludeOrderID || order.AssignedToID == nil || *order.AssignedToID != agentID {
			continue
		}
		if order.Status == models.OrderCancelled || order.Status == models.OrderCompleted {
			continue
		}
		if order.BookingDate == nil || !models.DateOnly(*order.BookingDate).Equal(day) {
			continue
		}
		out = append(out, *order)
	}
	return out, nil
}

func (r *fakeOrderRepo) CreatePackageLine(line *models.OrderPackage) error {
	line.ID = uint(len(r.packages) + 1)
	r.packages = append(r.packages, *line)
	return nil
}

func (r *fakeOrderRepo) CreateAddonLine(line *models.OrderAddon) error {
	line.ID = uint(len(r.addons) + 1)
	r.addons = append(r.addons, *line)
	return nil
}

func (r *fakeOrderRepo) UpdateTotals(order *models.Order) error {
	stored, ok := r.orders[order.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Subtotal = order.Subtotal
	stored.GSTAmount = order.GSTAmount
	stored.TotalAmount = order.TotalAmount
	return nil
}

func (r *fakeOrderRepo) CreateStatusLog(log *models.OrderStatusLog) error {
	r.statusLogs = append(r.statusLogs, *log)
	return nil
}

func (r *fakeOrderRepo) CreateAssignmentHistory(history *models.AssignmentHistory) error {
	r.assignments = append(r.assignments, *history)
	return nil
}

type fakeCustomerRepo struct {
	customers  map[uint]*models.Customer
	lastBooked map[uint]time.Time
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{
		customers:  map[uint]*models.Customer{},
		lastBooked: map[uint]time.Time{},
	}
}

func (r *fakeCustomerRepo) WithTx(tx *gorm.DB) repository.CustomerRepository { return r }

func (r *fakeCustomerRepo) Create(customer *models.Customer) error {
	r.customers[customer.ID] = customer
	return nil
}

func (r *fakeCustomerRepo) GetByID(id uint) (*models.Customer, error) {
	customer, ok := r.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return customer, nil
}

func (r *fakeCustomerRepo) Update(customer *models.Customer) error {
	r.customers[customer.ID] = customer
	return nil
}

func (r *fakeCustomerRepo) Delete(id uint) error {
	delete(r.customers, id)
	return nil
}

func (r *fakeCustomerRepo) UpdateLastBookedAt(id uint, at time.Time) error {
	r.lastBooked[id] = at
	return nil
}

type fakeCatalogRepo struct {
	packages map[uint]*models.Package
	addons   map[uint]*models.Addon
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		packages: map[uint]*models.Package{},
		addons:   map[uint]*models.Addon{},
	}
}

func (r *fakeCatalogRepo) GetPackage(id uint) (*models.Package, error) {
	pkg, ok := r.packages[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return pkg, nil
}

func (r *fakeCatalogRepo) GetAddon(id uint) (*models.Addon, error) {
	addon, ok := r.addons[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return addon, nil
}

func (r *fakeCatalogRepo) ListActivePackages() ([]models.Package, error) { return nil, nil }
func (r *fakeCatalogRepo) ListActiveAddons() ([]models.Addon, error)    { return nil, nil }

type fakeSubscriptionRepo struct {
	subs         map[uint]*models.Subscription
	slots        map[uint]*models.SubscriptionOrder
	packageLines []models.SubscriptionPackage
	addonLines   []models.SubscriptionAddon
	nextSubID    uint
	nextSlotID   uint
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{
		subs:  map[uint]*models.Subscription{},
		slots: map[uint]*models.SubscriptionOrder{},
	}
}

func (r *fakeSubscriptionRepo) WithTx(tx *gorm.DB) repository.SubscriptionRepository { return r }

func (r *fakeSubscriptionRepo) Create(sub *models.Subscription) error {
	r.nextSubID++
	sub.ID = r.nextSubID
	stored := *sub
	r.subs[sub.ID] = &stored
	return nil
}

func (r *fakeSubscriptionRepo) Save(sub *models.Subscription) error {
	stored := *sub
	r.subs[sub.ID] = &stored
	return nil
}

func (r *fakeSubscriptionRepo) GetByID(id uint) (*models.Subscription, error) {
	stored, ok := r.subs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	sub := *stored
	sub.Packages = nil
	sub.Addons = nil
	sub.SubscriptionOrders = nil
	for _, line := range r.packageLines {
		if line.SubscriptionID == id {
			sub.Packages = append(sub.Packages, line)
		}
	}
	for _, line := range r.addonLines {
		if line.SubscriptionID == id {
			sub.Addons = append(sub.Addons, line)
		}
	}
	for _, slot := range r.slots {
		if slot.SubscriptionID == id {
			sub.SubscriptionOrders = append(sub.SubscriptionOrders, *slot)
		}
	}
	return &sub, nil
}

func (r *fakeSubscriptionRepo) CreatePackageLine(line *models.SubscriptionPackage) error {
	line.ID = uint(len(r.packageLines) + 1)
	r.packageLines = append(r.packageLines, *line)
	return nil
}

func (r *fakeSubscriptionRepo) CreateAddonLine(line *models.SubscriptionAddon) error {
	line.ID = uint(len(r.addonLines) + 1)
	r.addonLines = append(r.addonLines, *line)
	return nil
}

func (r *fakeSubscriptionRepo) CreateSlot(slot *models.SubscriptionOrder) error {
	r.nextSlotID++
	slot.ID = r.nextSlotID
	stored := *slot
	r.slots[slot.ID] = &stored
	return nil
}

func (r *fakeSubscriptionRepo) SaveSlot(slot *models.SubscriptionOrder) error {
	stored := *slot
	r.slots[slot.ID] = &stored
	return nil
}

func (r *fakeSubscriptionRepo) GetSlot(id uint) (*models.SubscriptionOrder, error) {
	stored, ok := r.slots[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	slot := *stored
	return &slot, nil
}

func (r *fakeSubscriptionRepo) ListUpcomingSlots(days int, today time.Time) ([]models.SubscriptionOrder, error) {
	from := models.DateOnly(today)
	to := from.AddDate(0, 0, days)
	var out []models.SubscriptionOrder
	for _, slot := range r.slots {
		if slot.Status != models.SlotPendingGeneration {
			continue
		}
		day := models.DateOnly(slot.ScheduledDate)
		if day.Before(from) || day.After(to) {
			continue
		}
		out = append(out, *slot)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledDate.Before(out[j].ScheduledDate)
	})
	return out, nil
}

func (r *fakeSubscriptionRepo) ListSlots(subscriptionID uint) ([]models.SubscriptionOrder, error) {
	var out []models.SubscriptionOrder
	for _, slot := range r.slots {
		if slot.SubscriptionID == subscriptionID {
			out = append(out, *slot)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledDate.Before(out[j].ScheduledDate)
	})
	return out, nil
}

func (r *fakeSubscriptionRepo) ListPendingSlots(subscriptionID uint) ([]models.SubscriptionOrder, error) {
	slots, _ := r.ListSlots(subscriptionID)
	var out []models.SubscriptionOrder
	for _, slot := range slots {
		if slot.Status == models.SlotPendingGeneration {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) IncrementCompleted(subscriptionID uint) error {
	sub, ok := r.subs[subscriptionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	sub.CompletedNoOrders++
	return nil
}

type fakeUserRepo struct {
	users map[uint]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*models.User{}}
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok || user.DeletedAt.Valid {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByIDIncludingDeleted(id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email && !user.DeletedAt.Valid {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetAll() ([]models.User, error) { return nil, nil }

func (r *fakeUserRepo) Update(user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(id uint) error {
	delete(r.users, id)
	return nil
}

type fakeJourneyRepo struct {
	journeys []models.Journey
}

func (r *fakeJourneyRepo) Create(journey *models.Journey) error {
	journey.ID = uint(len(r.journeys) + 1)
	r.journeys = append(r.journeys, *journey)
	return nil
}

func (r *fakeJourneyRepo) GetByOrderAndType(orderID uint, tripType string) (*models.Journey, error) {
	for i := range r.journeys {
		if r.journeys[i].OrderID == orderID && r.journeys[i].TripType == tripType {
			journey := r.journeys[i]
			return &journey, nil
		}
	}
	return nil, nil
}

func (r *fakeJourneyRepo) CountByOrder(orderID uint) (int64, error) {
	var count int64
	for i := range r.journeys {
		if r.journeys[i].OrderID == orderID {
			count++
		}
	}
	return count, nil
}

func (r *fakeJourneyRepo) ListByOrder(orderID uint) ([]models.Journey, error) {
	var out []models.Journey
	for i := range r.journeys {
		if r.journeys[i].OrderID == orderID {
			out = append(out, r.journeys[i])
		}
	}
	return out, nil
}

// fakeSettings returns fixed values without touching redis or the settings
// table.
type fakeSettings struct {
	gst    decimal.Decimal
	buffer int
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{gst: decimal.NewFromFloat(18.0), buffer: 30}
}

func (s *fakeSettings) GSTPercentage() decimal.Decimal { return s.gst }
func (s *fakeSettings) BookingBufferMinutes() int      { return s.buffer }
func (s *fakeSettings) Set(key, value, valueType, description string) error {
	return nil
}
