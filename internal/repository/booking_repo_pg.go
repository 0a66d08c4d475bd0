package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/aircargo/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking, flightIDs []string) error
	GetAggregate(ctx context.Context, refID string) (*domain.BookingAggregate, error)
	UpdateStatus(ctx context.Context, refID string, status domain.BookingStatus, event domain.TimelineEvent) error
	CountByStatus(ctx context.Context) (map[domain.BookingStatus]int, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const pgUniqueViolation = "23505"

// Create inserts the booking row, its ordered flight legs and the initial
// BOOKED timeline event in a single transaction.
func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking, flightIDs []string) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	booking.Status = domain.BookingStatusBooked
	booking.Version = 1
	if err := tx.QueryRow(ctx, `INSERT INTO bookings (ref_id, origin, destination, pieces, weight_kg, status, version, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		booking.RefID, booking.Origin, booking.Destination, booking.Pieces, booking.WeightKG, booking.Status, booking.Version, booking.UserID).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateReference, booking.RefID)
		}
		return err
	}

	for i, flightID := range flightIDs {
		if _, err := tx.Exec(ctx, `INSERT INTO booking_flights (booking_id, flight_id, sequence_order) VALUES ($1, $2, $3)`,
			booking.ID, flightID, i+1); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				switch pgErr.Code {
				case "23503":
					return fmt.Errorf("%w: flight %s", domain.ErrNotFound, flightID)
				case pgUniqueViolation:
					return fmt.Errorf("%w: duplicate flight %s", domain.ErrValidation, flightID)
				}
			}
			return err
		}
	}

	firstLeg := ""
	if len(flightIDs) > 0 {
		firstLeg = flightIDs[0]
	}
	if _, err := tx.Exec(ctx, `INSERT INTO timeline_events (booking_id, event_type, location, flight_id, description)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5)`,
		booking.ID, domain.BookingStatusBooked, booking.Origin, firstLeg, "Booking created"); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// UpdateStatus performs the version-gated status update and the timeline
// append as one transaction. The version read here is the optimistic
// concurrency token; a zero-row update means another writer got in between
// the read and the write.
func (r *PGBookingRepository) UpdateStatus(ctx context.Context, refID string, status domain.BookingStatus, event domain.TimelineEvent) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var (
		bookingID int64
		current   domain.BookingStatus
		version   int
	)
	if err := tx.QueryRow(ctx, `SELECT id, status, version FROM bookings WHERE ref_id=$1`, refID).
		Scan(&bookingID, &current, &version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: booking %s", domain.ErrNotFound, refID)
		}
		return err
	}

	if err := domain.ValidateTransition(current, status); err != nil {
		return err
	}

	cmd, err := tx.Exec(ctx, `UPDATE bookings SET status=$1, version=version+1, updated_at=now() WHERE id=$2 AND version=$3`,
		status, bookingID, version)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: booking %s version %d", domain.ErrConcurrentModification, refID, version)
	}

	if _, err := tx.Exec(ctx, `INSERT INTO timeline_events (booking_id, event_type, location, flight_id, description)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5)`,
		bookingID, event.EventType, event.Location, event.FlightID, event.Description); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetAggregate reads the booking, its legs and its timeline as three
// queries composed into one aggregate.
func (r *PGBookingRepository) GetAggregate(ctx context.Context, refID string) (*domain.BookingAggregate, error) {
	var agg domain.BookingAggregate
	row := r.db.QueryRow(ctx, `SELECT id, ref_id, origin, destination, pieces, weight_kg, status, version, user_id, created_at, updated_at FROM bookings WHERE ref_id=$1`, refID)
	if err := row.Scan(&agg.ID, &agg.RefID, &agg.Origin, &agg.Destination, &agg.Pieces, &agg.WeightKG, &agg.Status, &agg.Version, &agg.UserID, &agg.CreatedAt, &agg.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: booking %s", domain.ErrNotFound, refID)
		}
		return nil, err
	}

	flights, err := r.bookingFlights(ctx, agg.ID)
	if err != nil {
		return nil, err
	}
	agg.Flights = flights

	timeline, err := r.bookingTimeline(ctx, agg.ID)
	if err != nil {
		return nil, err
	}
	agg.Timeline = timeline

	return &agg, nil
}

func (r *PGBookingRepository) bookingFlights(ctx context.Context, bookingID int64) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT f.flight_id, f.flight_number, f.airline_name, f.departure_datetime, f.arrival_datetime, f.origin, f.destination
		FROM booking_flights bf
		JOIN flights f ON f.flight_id = bf.flight_id
		WHERE bf.booking_id=$1
		ORDER BY bf.sequence_order`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := rows.Scan(&f.FlightID, &f.FlightNumber, &f.AirlineName, &f.DepartureDatetime, &f.ArrivalDatetime, &f.Origin, &f.Destination); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func (r *PGBookingRepository) bookingTimeline(ctx context.Context, bookingID int64) ([]domain.TimelineEvent, error) {
	rows, err := r.db.Query(ctx, `SELECT id, booking_id, event_type, COALESCE(location, ''), COALESCE(flight_id, ''), description, created_at
		FROM timeline_events
		WHERE booking_id=$1
		ORDER BY created_at, id`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]domain.TimelineEvent, 0)
	for rows.Next() {
		var e domain.TimelineEvent
		if err := rows.Scan(&e.ID, &e.BookingID, &e.EventType, &e.Location, &e.FlightID, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *PGBookingRepository) CountByStatus(ctx context.Context) (map[domain.BookingStatus]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, count(*) FROM bookings GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.BookingStatus]int)
	for rows.Next() {
		var status domain.BookingStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
