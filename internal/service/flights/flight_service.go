package flights

import (
	"context"
	"fmt"

	"github.com/Domenick1991/aircargo/internal/domain"
	"github.com/Domenick1991/aircargo/internal/repository"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, flightID string) (*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
}

type FlightService struct {
	repo repository.FlightRepository
}

func NewFlightService(repo repository.FlightRepository) *FlightService {
	return &FlightService{repo: repo}
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	return s.repo.List(ctx)
}

func (s *FlightService) GetByID(ctx context.Context, flightID string) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, flightID)
}

func (s *FlightService) Create(ctx context.Context, flight *domain.Flight) error {
	if flight.FlightID == "" || flight.FlightNumber == "" {
		return fmt.Errorf("%w: flight id and number are required", domain.ErrValidation)
	}
	if flight.Origin == "" || flight.Destination == "" || flight.Origin == flight.Destination {
		return fmt.Errorf("%w: origin and destination must be set and differ", domain.ErrValidation)
	}
	if !flight.ArrivalDatetime.After(flight.DepartureDatetime) {
		return fmt.Errorf("%w: arrival must be after departure", domain.ErrValidation)
	}
	flight.DepartureDatetime = flight.DepartureDatetime.UTC()
	flight.ArrivalDatetime = flight.ArrivalDatetime.UTC()
	return s.repo.Create(ctx, flight)
}

var _ FlightUseCase = (*FlightService)(nil)
