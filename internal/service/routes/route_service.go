package routes

import (
	"context"
	"log"
	"time"

	"github.com/Domenick1991/aircargo/internal/domain"
	"github.com/Domenick1991/aircargo/internal/repository"
)

type RouteUseCase interface {
	FindRoutes(ctx context.Context, origin, destination string, date time.Time) (*domain.RouteResult, error)
}

type Cache interface {
	GetRoutes(ctx context.Context, origin, destination, date string) (*domain.RouteResult, error)
	SetRoutes(ctx context.Context, origin, destination, date string, result *domain.RouteResult) error
}

type RouteService struct {
	flights repository.FlightRepository
	cache   Cache
	limit   int
	now     func() time.Time
}

func NewRouteService(flights repository.FlightRepository, cache Cache, limit int) *RouteService {
	if limit < 1 {
		limit = 50
	}
	return &RouteService{flights: flights, cache: cache, limit: limit, now: time.Now}
}

// FindRoutes returns direct and one-stop options for the queried calendar
// day. Both subsets are computed together and cached as one object.
func (s *RouteService) FindRoutes(ctx context.Context, origin, destination string, date time.Time) (*domain.RouteResult, error) {
	dateKey := date.UTC().Format("2006-01-02")

	if s.cache != nil {
		if cached, err := s.cache.GetRoutes(ctx, origin, destination, dateKey); err == nil && cached != nil {
			return cached, nil
		}
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)
	notBefore := s.now().UTC()

	direct, err := s.flights.FindDirect(ctx, origin, destination, dayStart, dayEnd, notBefore)
	if err != nil {
		return nil, err
	}

	transit, err := s.flights.FindTransit(ctx, origin, destination, dayStart, dayEnd, notBefore, s.limit)
	if err != nil {
		return nil, err
	}

	result := &domain.RouteResult{Direct: direct, Transit: transit}
	if s.cache != nil {
		if err := s.cache.SetRoutes(ctx, origin, destination, dateKey, result); err != nil {
			log.Printf("WARNING: failed to cache routes %s-%s: %v", origin, destination, err)
		}
	}
	return result, nil
}

var _ RouteUseCase = (*RouteService)(nil)
