package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"sparklewash/internal/models"
	"sparklewash/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	creation   services.OrderCreationService
	assignment services.AssignmentService
	status     services.StatusUpdateService
	pricing    services.PricingService
	journeys   services.JourneyService
}

func NewOrderHandler(
	creation services.OrderCreationService,
	assignment services.AssignmentService,
	status services.StatusUpdateService,
	pricing services.PricingService,
	journeys services.JourneyService,
) *OrderHandler {
	return &OrderHandler{
		creation:   creation,
		assignment: assignment,
		status:     status,
		pricing:    pricing,
		journeys:   journeys,
	}
}

type lineItemRequest struct {
	ItemID        uint             `json:"item_id" binding:"required"`
	Quantity      int              `json:"quantity"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	DiscountType  string           `json:"discount_type"`
	DiscountValue decimal.Decimal  `json:"discount_value"`
	VehicleType   string           `json:"vehicle_type"`
	Notes         string           `json:"notes"`
}

func (r lineItemRequest) toInput() services.LineItemInput {
	return services.LineItemInput{
		ItemID:        r.ItemID,
		Quantity:      r.Quantity,
		UnitPrice:     r.UnitPrice,
		DiscountType:  r.DiscountType,
		DiscountValue: r.DiscountValue,
		VehicleType:   r.VehicleType,
		Notes:         r.Notes,
	}
}

type createOrderRequest struct {
	CustomerID      uint   `json:"customer_id" binding:"required"`
	BookingDate     string `json:"booking_date"`
	BookingTimeFrom string `json:"booking_time_from"`
	BookingTimeTo   string `json:"booking_time_to"`
	AssignedToID    *uint  `json:"assigned_to_id"`

	ContactPhone string   `json:"contact_phone"`
	AddressLine1 string   `json:"address_line1"`
	AddressLine2 string   `json:"address_line2"`
	Area         string   `json:"area"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	MapLink      string   `json:"map_link"`

	Notes         string `json:"notes"`
	PaymentMethod string `json:"payment_method"`

	Packages []lineItemRequest `json:"packages"`
	Addons   []lineItemRequest `json:"addons"`
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	in := services.CreateOrderInput{
		CustomerID:    req.CustomerID,
		AssignedToID:  req.AssignedToID,
		ContactPhone:  req.ContactPhone,
		AddressLine1:  req.AddressLine1,
		AddressLine2:  req.AddressLine2,
		Area:          req.Area,
		City:          req.City,
		State:         req.State,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		MapLink:       req.MapLink,
		Notes:         req.Notes,
		PaymentMethod: req.PaymentMethod,
	}
	for _, line := range req.Packages {
		in.Packages = append(in.Packages, line.toInput())
	}
	for _, line := range req.Addons {
		in.Addons = append(in.Addons, line.toInput())
	}

	var parseErrs []string
	in.BookingDate = parseDate(req.BookingDate, "booking_date", &parseErrs)
	in.BookingTimeFrom = parseClock(req.BookingTimeFrom, "booking_time_from", &parseErrs)
	in.BookingTimeTo = parseClock(req.BookingTimeTo, "booking_time_to", &parseErrs)
	if len(parseErrs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": parseErrs})
		return
	}

	order, err := h.creation.CreateOrder(in, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

type assignAgentRequest struct {
	AgentID *uint  `json:"agent_id"`
	Notes   string `json:"notes"`
}

func (h *OrderHandler) AssignAgent(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}

	var req assignAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	order, err := h.assignment.AssignAgent(orderID, req.AgentID, currentUser(c), req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type updateStatusRequest struct {
	Status          string     `json:"status" binding:"required"`
	CancelReason    string     `json:"cancel_reason"`
	ActualStartTime *time.Time `json:"actual_start_time"`
	ActualEndTime   *time.Time `json:"actual_end_time"`
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	order, err := h.status.UpdateStatus(orderID, models.OrderStatus(req.Status), currentUser(c), services.StatusParams{
		CancelReason:    req.CancelReason,
		ActualStartTime: req.ActualStartTime,
		ActualEndTime:   req.ActualEndTime,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) RecalculateTotals(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}

	order, err := h.pricing.RecalculateTotals(orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type feedbackRequest struct {
	Rating   int    `json:"rating" binding:"required"`
	Comments string `json:"comments"`
}

func (h *OrderHandler) SubmitFeedback(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}

	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	order, err := h.status.SubmitFeedback(orderID, req.Rating, req.Comments, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type trackTravelRequest struct {
	TripType      string     `json:"trip_type" binding:"required"`
	FromLatitude  float64    `json:"from_latitude"`
	FromLongitude float64    `json:"from_longitude"`
	ToLatitude    float64    `json:"to_latitude"`
	ToLongitude   float64    `json:"to_longitude"`
	TraveledAt    *time.Time `json:"traveled_at"`
}

func (h *OrderHandler) TrackTravel(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}

	var req trackTravelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	journey, err := h.journeys.TrackJourney(c.Request.Context(), services.TrackJourneyInput{
		OrderID:       orderID,
		TripType:      req.TripType,
		FromLatitude:  req.FromLatitude,
		FromLongitude: req.FromLongitude,
		ToLatitude:    req.ToLatitude,
		ToLongitude:   req.ToLongitude,
		TraveledAt:    req.TraveledAt,
	}, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, journey)
}

func (h *OrderHandler) ListJourneys(c *gin.Context) {
	orderID, ok := pathID(c)
	if !ok {
		return
	}

	journeys, err := h.journeys.ListJourneys(orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"journeys": journeys})
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func parseDate(raw, field string, errs *[]string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s must be in YYYY-MM-DD format", field))
		return nil
	}
	return &t
}

func parseClock(raw, field string, errs *[]string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse("15:04", raw)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s must be in HH:MM format", field))
		return nil
	}
	return &t
}
