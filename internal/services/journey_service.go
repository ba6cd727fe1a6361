package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"sparklewash/internal/models"
	"sparklewash/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const earthRadiusKm = 6371.0

// RouteResolver resolves road distance in kilometers between two coordinates.
// Implemented by pkg/maps; the journey service falls back to straight-line
// distance when the resolver is unavailable or errors.
type RouteResolver interface {
	RouteDistanceKm(ctx context.Context, fromLat, fromLng, toLat, toLng float64) (float64, error)
}

type TrackJourneyInput struct {
	OrderID       uint
	TripType      string
	FromLatitude  float64
	FromLongitude float64
	ToLatitude    float64
	ToLongitude   float64
	TraveledAt    *time.Time
}

// JourneyService records agent travel legs against orders and computes the
// reimbursement amount from distance and the configured per-km rate.
type JourneyService interface {
	// TrackJourney records one travel leg. Re-submitting the same trip type for
	// an order returns the existing journey unchanged.
	TrackJourney(ctx context.Context, in TrackJourneyInput, actor *models.User) (*models.Journey, error)

	ListJourneys(orderID uint) ([]models.Journey, error)
}

type journeyService struct {
	journeyRepo     repository.JourneyRepository
	orderRepo       repository.OrderRepository
	routes          RouteResolver
	travelRatePerKm decimal.Decimal
	logger          *zap.Logger
	now             func() time.Time
}

func NewJourneyService(
	journeyRepo repository.JourneyRepository,
	orderRepo repository.OrderRepository,
	routes RouteResolver,
	travelRatePerKm decimal.Decimal,
	logger *zap.Logger,
) JourneyService {
	return &journeyService{
		journeyRepo:     journeyRepo,
		orderRepo:       orderRepo,
		routes:          routes,
		travelRatePerKm: travelRatePerKm,
		logger:          logger,
		now:             time.Now,
	}
}

func (s *journeyService) TrackJourney(ctx context.Context, in TrackJourneyInput, actor *models.User) (*models.Journey, error) {
	if actor == nil {
		return nil, &AuthorizationError{Message: "authentication required to track journeys"}
	}
	if !models.ValidTripType(in.TripType) {
		return nil, ValidationErrors{fmt.Sprintf("invalid trip type %q, must be %s or %s",
			in.TripType, models.TripToCustomer, models.TripToHome)}
	}
	if errs := validateCoordinates(in); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	order, err := s.orderRepo.GetByID(in.OrderID)
	if err != nil {
		return nil, notFound(err, "order", in.OrderID)
	}

	existing, err := s.journeyRepo.GetByOrderAndType(order.ID, in.TripType)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	count, err := s.journeyRepo.CountByOrder(order.ID)
	if err != nil {
		return nil, err
	}
	if count >= models.MaxJourneysPerOrder {
		return nil, ValidationErrors{fmt.Sprintf("order already has %d journeys", models.MaxJourneysPerOrder)}
	}

	distanceKm := s.resolveDistance(ctx, in)
	distance := decimal.NewFromFloat(distanceKm).Round(2)
	amount := distance.Mul(s.travelRatePerKm).Round(2)

	traveledAt := s.now()
	if in.TraveledAt != nil {
		traveledAt = *in.TraveledAt
	}

	journey := &models.Journey{
		OrderID:       order.ID,
		UserID:        actor.ID,
		FromLatitude:  in.FromLatitude,
		FromLongitude: in.FromLongitude,
		ToLatitude:    in.ToLatitude,
		ToLongitude:   in.ToLongitude,
		DistanceKm:    distance,
		Amount:        amount,
		TripType:      in.TripType,
		TraveledAt:    traveledAt,
	}
	if err := s.journeyRepo.Create(journey); err != nil {
		return nil, err
	}

	s.logger.Info("journey tracked",
		zap.String("order_number", order.OrderNumber),
		zap.String("trip_type", in.TripType),
		zap.String("distance_km", distance.String()))
	return journey, nil
}

func (s *journeyService) ListJourneys(orderID uint) ([]models.Journey, error) {
	if _, err := s.orderRepo.GetByID(orderID); err != nil {
		return nil, notFound(err, "order", orderID)
	}
	return s.journeyRepo.ListByOrder(orderID)
}

func (s *journeyService) resolveDistance(ctx context.Context, in TrackJourneyInput) float64 {
	if s.routes != nil {
		km, err := s.routes.RouteDistanceKm(ctx, in.FromLatitude, in.FromLongitude, in.ToLatitude, in.ToLongitude)
		if err == nil && km > 0 {
			return km
		}
		if err != nil {
			s.logger.Warn("route lookup failed, falling back to straight-line distance",
				zap.Uint("order_id", in.OrderID),
				zap.Error(err))
		}
	}
	return Haversine(in.FromLatitude, in.FromLongitude, in.ToLatitude, in.ToLongitude)
}

func validateCoordinates(in TrackJourneyInput) []string {
	var errs []string
	check := func(name string, lat, lng float64) {
		if lat < -90 || lat > 90 {
			errs = append(errs, fmt.Sprintf("%s latitude must be between -90 and 90", name))
		}
		if lng < -180 || lng > 180 {
			errs = append(errs, fmt.Sprintf("%s longitude must be between -180 and 180", name))
		}
	}
	check("from", in.FromLatitude, in.FromLongitude)
	check("to", in.ToLatitude, in.ToLongitude)
	return errs
}

// Haversine returns the great-circle distance in kilometers between two
// coordinates.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}
