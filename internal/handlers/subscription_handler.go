package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"sparklewash/internal/models"
	"sparklewash/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type SubscriptionHandler struct {
	subscriptions services.SubscriptionService
	generator     services.OrderGeneratorService
}

func NewSubscriptionHandler(
	subscriptions services.SubscriptionService,
	generator services.OrderGeneratorService,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptions: subscriptions,
		generator:     generator,
	}
}

type subscriptionAddonRequest struct {
	lineItemRequest
	ApplicableWashNumbers []int `json:"applicable_wash_numbers"`
}

type createSubscriptionRequest struct {
	CustomerID       uint                       `json:"customer_id" binding:"required"`
	VehicleType      string                     `json:"vehicle_type"`
	StartDate        string                     `json:"start_date" binding:"required"`
	MonthsDuration   int                        `json:"months_duration" binding:"required"`
	WashingSchedules []models.WashSchedule      `json:"washing_schedules"`
	Packages         []lineItemRequest          `json:"packages"`
	Addons           []subscriptionAddonRequest `json:"addons"`
	PaymentAmount    decimal.Decimal            `json:"payment_amount"`
	PaymentDate      *time.Time                 `json:"payment_date"`
	PaymentMethod    string                     `json:"payment_method"`
	Area             string                     `json:"area"`
	MapURL           string                     `json:"map_url"`
	Notes            string                     `json:"notes"`
}

func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	var req createSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": []string{"start_date must be in YYYY-MM-DD format"}})
		return
	}

	in := services.CreateSubscriptionInput{
		CustomerID:       req.CustomerID,
		VehicleType:      req.VehicleType,
		StartDate:        startDate,
		MonthsDuration:   req.MonthsDuration,
		WashingSchedules: req.WashingSchedules,
		PaymentAmount:    req.PaymentAmount,
		PaymentDate:      req.PaymentDate,
		PaymentMethod:    req.PaymentMethod,
		Area:             req.Area,
		MapURL:           req.MapURL,
		Notes:            req.Notes,
	}
	for _, line := range req.Packages {
		in.Packages = append(in.Packages, line.toInput())
	}
	for _, line := range req.Addons {
		in.Addons = append(in.Addons, services.SubscriptionAddonInput{
			LineItemInput:         line.toInput(),
			ApplicableWashNumbers: line.ApplicableWashNumbers,
		})
	}

	sub, err := h.subscriptions.CreateSubscription(in, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

type subscriptionEventRequest struct {
	Event string `json:"event" binding:"required"`
}

func (h *SubscriptionHandler) ApplyEvent(c *gin.Context) {
	subscriptionID, ok := pathID(c)
	if !ok {
		return
	}

	var req subscriptionEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	sub, err := h.subscriptions.ApplyEvent(subscriptionID, models.SubscriptionEvent(req.Event), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

type recordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

func (h *SubscriptionHandler) RecordPayment(c *gin.Context) {
	subscriptionID, ok := pathID(c)
	if !ok {
		return
	}

	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	sub, err := h.subscriptions.RecordPayment(subscriptionID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

type generateOrdersRequest struct {
	DaysAhead int `json:"days_ahead"`
}

// GenerateOrders triggers one generation run. The body is optional; an empty
// days_ahead falls back to the service default.
func (h *SubscriptionHandler) GenerateOrders(c *gin.Context) {
	var req generateOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	result, err := h.generator.GenerateUpcomingOrders(req.DaysAhead)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
