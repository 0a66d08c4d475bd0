package flights

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/aircargo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, flightID string) (*domain.Flight, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightRepository) FindDirect(ctx context.Context, origin, destination string, dayStart, dayEnd, notBefore time.Time) ([]domain.Flight, error) {
	args := m.Called(ctx, origin, destination, dayStart, dayEnd, notBefore)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) FindTransit(ctx context.Context, origin, destination string, dayStart, dayEnd, notBefore time.Time, limit int) ([]domain.TransitRoute, error) {
	args := m.Called(ctx, origin, destination, dayStart, dayEnd, notBefore, limit)
	return args.Get(0).([]domain.TransitRoute), args.Error(1)
}

func TestFlightService_Create_Validation(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo)
	ctx := context.Background()

	departure := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	arrival := departure.Add(2 * time.Hour)

	testCases := []struct {
		name   string
		flight domain.Flight
	}{
		{
			name:   "Missing flight id",
			flight: domain.Flight{FlightNumber: "6E101", Origin: "DEL", Destination: "BLR", DepartureDatetime: departure, ArrivalDatetime: arrival},
		},
		{
			name:   "Same origin and destination",
			flight: domain.Flight{FlightID: "6E101-2026-09-01", FlightNumber: "6E101", Origin: "DEL", Destination: "DEL", DepartureDatetime: departure, ArrivalDatetime: arrival},
		},
		{
			name:   "Arrival before departure",
			flight: domain.Flight{FlightID: "6E101-2026-09-01", FlightNumber: "6E101", Origin: "DEL", Destination: "BLR", DepartureDatetime: arrival, ArrivalDatetime: departure},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := service.Create(ctx, &tc.flight)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
	mockRepo.AssertNotCalled(t, "Create")
}

func TestFlightService_Create_NormalizesToUTC(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo)
	ctx := context.Background()

	ist := time.FixedZone("IST", 5*3600+1800)
	flight := domain.Flight{
		FlightID:          "6E101-2026-09-01",
		FlightNumber:      "6E101",
		AirlineName:       "IndiGo",
		Origin:            "DEL",
		Destination:       "BLR",
		DepartureDatetime: time.Date(2026, 9, 1, 14, 30, 0, 0, ist),
		ArrivalDatetime:   time.Date(2026, 9, 1, 17, 15, 0, 0, ist),
	}

	mockRepo.On("Create", ctx, &flight).Return(nil).Once()

	err := service.Create(ctx, &flight)

	assert.NoError(t, err)
	assert.Equal(t, time.UTC, flight.DepartureDatetime.Location())
	assert.Equal(t, time.UTC, flight.ArrivalDatetime.Location())
	mockRepo.AssertExpectations(t)
}
