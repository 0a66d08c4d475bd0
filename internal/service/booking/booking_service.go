package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Domenick1991/aircargo/internal/domain"
	"github.com/Domenick1991/aircargo/internal/kafka"
	"github.com/Domenick1991/aircargo/internal/repository"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.BookingAggregate, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*domain.BookingAggregate, error)
	GetBookingHistory(ctx context.Context, refID string) (*domain.BookingAggregate, error)
	BulkUpdateStatus(ctx context.Context, input BulkUpdateInput) ([]BulkOutcome, error)
	StatusCounts(ctx context.Context) (map[domain.BookingStatus]int, error)
}

type Cache interface {
	GetBooking(ctx context.Context, refID string) (*domain.BookingAggregate, error)
	SetBooking(ctx context.Context, agg *domain.BookingAggregate) error
	InvalidateBooking(ctx context.Context, refID string) error
}

// Locker grants single-attempt TTL leases per booking reference. An empty
// token from Acquire means the lock is already held.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (string, error)
	Release(ctx context.Context, key, token string) (bool, error)
}

type Producer interface {
	PublishWithRetry(ctx context.Context, topic, key string, value interface{}, maxRetries int) error
}

// publishRetries bounds how many delivery attempts a business event gets
// before the failure is logged and dropped.
const publishRetries = 3

type BookingService struct {
	bookings           repository.BookingRepository
	cache              Cache
	locks              Locker
	producer           Producer
	eventsTopic        string
	notificationsTopic string
	lockTTL            time.Duration
	bulkBatchSize      int
}

type CreateBookingInput struct {
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	Pieces      int      `json:"pieces"`
	WeightKG    float64  `json:"weight_kg"`
	UserID      int64    `json:"user_id"`
	FlightIDs   []string `json:"flight_ids"`
}

type UpdateStatusInput struct {
	RefID       string
	Status      domain.BookingStatus
	Location    string
	FlightID    string
	Description string
}

type BulkUpdateInput struct {
	RefIDs   []string
	Status   domain.BookingStatus
	Location string
}

type BulkOutcome struct {
	RefID   string `json:"ref_id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithBulkBatchSize(size int) BookingServiceOption {
	return func(s *BookingService) {
		s.bulkBatchSize = size
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	cache Cache,
	locks Locker,
	producer Producer,
	eventsTopic string,
	lockTTL time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:      bookings,
		cache:         cache,
		locks:         locks,
		producer:      producer,
		eventsTopic:   eventsTopic,
		lockTTL:       lockTTL,
		bulkBatchSize: 10,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking generates a reference code and persists the booking, its
// ordered legs and the initial BOOKED timeline event in one transaction.
// A reference collision is retried once with a fresh code; the unique
// constraint in the store stays the real guarantee.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.BookingAggregate, error) {
	if input.Pieces < 1 {
		return nil, fmt.Errorf("%w: pieces must be at least 1", domain.ErrValidation)
	}
	if input.WeightKG <= 0 {
		return nil, fmt.Errorf("%w: weight must be positive", domain.ErrValidation)
	}
	if input.Origin == "" || input.Destination == "" {
		return nil, fmt.Errorf("%w: origin and destination are required", domain.ErrValidation)
	}
	seen := make(map[string]bool, len(input.FlightIDs))
	for _, flightID := range input.FlightIDs {
		if seen[flightID] {
			return nil, fmt.Errorf("%w: duplicate flight %s", domain.ErrValidation, flightID)
		}
		seen[flightID] = true
	}

	b := &domain.Booking{
		RefID:       domain.NewRefCode(),
		Origin:      input.Origin,
		Destination: input.Destination,
		Pieces:      input.Pieces,
		WeightKG:    input.WeightKG,
		UserID:      input.UserID,
	}

	err := s.bookings.Create(ctx, b, input.FlightIDs)
	if errors.Is(err, domain.ErrDuplicateReference) {
		b.RefID = domain.NewRefCode()
		err = s.bookings.Create(ctx, b, input.FlightIDs)
	}
	if err != nil {
		return nil, err
	}

	agg, err := s.bookings.GetAggregate(ctx, b.RefID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetBooking(ctx, agg); err != nil {
			log.Printf("WARNING: failed to cache booking %s: %v", agg.RefID, err)
		}
	}

	s.publish(ctx, "booking_created", agg.Booking, "", "")
	return agg, nil
}

// UpdateStatus is the guarded transition protocol: lock, version-gated
// update with timeline append in one transaction, invalidate cache, release
// lock. The lock serializes writers so retries are not wasted; the version
// check inside the transaction is the correctness guarantee and holds even
// if the lock expired mid-operation.
func (s *BookingService) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*domain.BookingAggregate, error) {
	if !input.Status.Valid() || input.Status == domain.BookingStatusBooked {
		return nil, fmt.Errorf("%w: invalid status %q", domain.ErrValidation, input.Status)
	}

	token, err := s.locks.Acquire(ctx, input.RefID, s.lockTTL)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, fmt.Errorf("%w: booking %s", domain.ErrResourceLocked, input.RefID)
	}
	defer func() {
		if _, err := s.locks.Release(ctx, input.RefID, token); err != nil {
			log.Printf("WARNING: failed to release lock for booking %s: %v", input.RefID, err)
		}
	}()

	description := input.Description
	if description == "" {
		description = fmt.Sprintf("Status updated to %s", input.Status)
	}
	event := domain.TimelineEvent{
		EventType:   input.Status,
		Location:    input.Location,
		FlightID:    input.FlightID,
		Description: description,
	}

	if err := s.bookings.UpdateStatus(ctx, input.RefID, input.Status, event); err != nil {
		return nil, err
	}

	s.publish(ctx, "booking_status_changed", domain.Booking{RefID: input.RefID, Status: input.Status}, input.Location, input.FlightID)

	// Invalidate, never update in place: a write-through here could cache a
	// value stale relative to a concurrently committed write.
	if s.cache != nil {
		if err := s.cache.InvalidateBooking(ctx, input.RefID); err != nil {
			log.Printf("WARNING: failed to invalidate cache for booking %s: %v", input.RefID, err)
		}
	}

	return s.GetBookingHistory(ctx, input.RefID)
}

// GetBookingHistory is the cache-first read path. It returns (nil, nil) when
// the booking does not exist; callers translate that to a not-found
// response. Cache failures degrade to direct store reads.
func (s *BookingService) GetBookingHistory(ctx context.Context, refID string) (*domain.BookingAggregate, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetBooking(ctx, refID); err == nil && cached != nil {
			return cached, nil
		}
	}

	agg, err := s.bookings.GetAggregate(ctx, refID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetBooking(ctx, agg); err != nil {
			log.Printf("WARNING: failed to cache booking %s: %v", refID, err)
		}
	}
	return agg, nil
}

// BulkUpdateStatus applies UpdateStatus per reference in fixed-size batches
// and collects per-reference outcomes. Not atomic across references.
func (s *BookingService) BulkUpdateStatus(ctx context.Context, input BulkUpdateInput) ([]BulkOutcome, error) {
	outcomes := make([]BulkOutcome, 0, len(input.RefIDs))
	batchSize := s.bulkBatchSize
	if batchSize < 1 {
		batchSize = 10
	}

	for start := 0; start < len(input.RefIDs); start += batchSize {
		end := start + batchSize
		if end > len(input.RefIDs) {
			end = len(input.RefIDs)
		}
		for _, refID := range input.RefIDs[start:end] {
			_, err := s.UpdateStatus(ctx, UpdateStatusInput{
				RefID:    refID,
				Status:   input.Status,
				Location: input.Location,
			})
			outcome := BulkOutcome{RefID: refID, Success: err == nil}
			if err != nil {
				outcome.Error = err.Error()
			}
			outcomes = append(outcomes, outcome)
		}
	}
	return outcomes, nil
}

func (s *BookingService) StatusCounts(ctx context.Context) (map[domain.BookingStatus]int, error) {
	return s.bookings.CountByStatus(ctx)
}

// publish emits the business event fire-and-forget: a failed publish is
// logged and never fails the primary operation.
func (s *BookingService) publish(ctx context.Context, eventType string, b domain.Booking, location, flightID string) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:        eventType,
		RefID:       b.RefID,
		Status:      string(b.Status),
		Origin:      b.Origin,
		Destination: b.Destination,
		Location:    location,
		FlightID:    flightID,
		OccurredAt:  time.Now().UTC(),
	}
	if err := s.producer.PublishWithRetry(ctx, s.eventsTopic, b.RefID, event, publishRetries); err != nil {
		log.Printf("WARNING: failed to publish %s event for booking %s: %v", eventType, b.RefID, err)
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.PublishWithRetry(ctx, s.notificationsTopic, b.RefID, event, publishRetries); err != nil {
			log.Printf("WARNING: failed to publish notification for booking %s: %v", b.RefID, err)
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
