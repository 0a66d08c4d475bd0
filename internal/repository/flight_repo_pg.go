package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/aircargo/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, flightID string) (*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
	FindDirect(ctx context.Context, origin, destination string, dayStart, dayEnd, notBefore time.Time) ([]domain.Flight, error)
	FindTransit(ctx context.Context, origin, destination string, dayStart, dayEnd, notBefore time.Time, limit int) ([]domain.TransitRoute, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `flight_id, flight_number, airline_name, departure_datetime, arrival_datetime, origin, destination`

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY departure_datetime`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFlights(rows)
}

func (r *PGFlightRepository) GetByID(ctx context.Context, flightID string) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE flight_id=$1`, flightID)
	var f domain.Flight
	if err := row.Scan(&f.FlightID, &f.FlightNumber, &f.AirlineName, &f.DepartureDatetime, &f.ArrivalDatetime, &f.Origin, &f.Destination); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: flight %s", domain.ErrNotFound, flightID)
		}
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	_, err := r.db.Exec(ctx, `INSERT INTO flights (flight_id, flight_number, airline_name, departure_datetime, arrival_datetime, origin, destination)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		flight.FlightID, flight.FlightNumber, flight.AirlineName, flight.DepartureDatetime, flight.ArrivalDatetime, flight.Origin, flight.Destination)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: flight %s", domain.ErrDuplicateReference, flight.FlightID)
		}
		return err
	}
	return nil
}

// FindDirect returns flights from origin to destination departing within
// [dayStart, dayEnd) and no earlier than notBefore, ordered by departure.
func (r *PGFlightRepository) FindDirect(ctx context.Context, origin, destination string, dayStart, dayEnd, notBefore time.Time) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights
		WHERE origin=$1 AND destination=$2
		AND departure_datetime >= $3 AND departure_datetime < $4
		AND departure_datetime >= $5
		ORDER BY departure_datetime`,
		origin, destination, dayStart, dayEnd, notBefore)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFlights(rows)
}

// FindTransit finds one-stop pairs through a shared hub. The second leg must
// depart strictly after the first arrives, within 24 hours of the first
// departure, with a layover between 60 and 1440 minutes inclusive. Pairs
// come back ordered by total duration, then first departure, capped at limit.
func (r *PGFlightRepository) FindTransit(ctx context.Context, origin, destination string, dayStart, dayEnd, notBefore time.Time, limit int) ([]domain.TransitRoute, error) {
	rows, err := r.db.Query(ctx, `SELECT
			f1.flight_id, f1.flight_number, f1.airline_name, f1.departure_datetime, f1.arrival_datetime, f1.origin, f1.destination,
			f2.flight_id, f2.flight_number, f2.airline_name, f2.departure_datetime, f2.arrival_datetime, f2.origin, f2.destination
		FROM flights f1
		JOIN flights f2 ON f2.origin = f1.destination
		WHERE f1.origin=$1 AND f2.destination=$2
		AND f1.departure_datetime >= $3 AND f1.departure_datetime < $4
		AND f1.departure_datetime >= $5
		AND f2.departure_datetime > f1.arrival_datetime
		AND f2.departure_datetime <= f1.departure_datetime + interval '24 hours'
		AND f2.departure_datetime - f1.arrival_datetime >= interval '60 minutes'
		AND f2.departure_datetime - f1.arrival_datetime <= interval '1440 minutes'
		ORDER BY f2.arrival_datetime - f1.departure_datetime, f1.departure_datetime
		LIMIT $6`,
		origin, destination, dayStart, dayEnd, notBefore, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routes := make([]domain.TransitRoute, 0)
	for rows.Next() {
		var first, second domain.Flight
		if err := rows.Scan(
			&first.FlightID, &first.FlightNumber, &first.AirlineName, &first.DepartureDatetime, &first.ArrivalDatetime, &first.Origin, &first.Destination,
			&second.FlightID, &second.FlightNumber, &second.AirlineName, &second.DepartureDatetime, &second.ArrivalDatetime, &second.Origin, &second.Destination,
		); err != nil {
			return nil, err
		}
		routes = append(routes, domain.TransitRoute{
			Legs: []domain.RouteLeg{
				{Flight: first, SequenceOrder: 1},
				{Flight: second, SequenceOrder: 2},
			},
			Hub:                  first.Destination,
			TotalDurationMinutes: int(second.ArrivalDatetime.Sub(first.DepartureDatetime).Minutes()),
			LayoverMinutes:       int(second.DepartureDatetime.Sub(first.ArrivalDatetime).Minutes()),
		})
	}
	return routes, rows.Err()
}

func scanFlights(rows pgx.Rows) ([]domain.Flight, error) {
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

var _ FlightRepository = (*PGFlightRepository)(nil)
