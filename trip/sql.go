package trip

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("trip not found")

type Repository struct {
	db sqlx.ExtContext
}

func NewRepository(db sqlx.ExtContext) *Repository {
	return &Repository{
		db: db,
	}
}

const columns = `id, user_id, bike_id, start_station_id, end_station_id, start_time, end_time, distance_km, fare, status`

func (r *Repository) Create(ctx context.Context, t Trip) error {
	_, err := r.db.ExecContext(ctx, createQuery, t.ID, t.UserID, t.BikeID, t.StartStationID, t.StartTime, t.Status)
	return err
}

const createQuery = `
INSERT INTO trips (id, user_id, bike_id, start_station_id, start_time, status)
VALUES ($1, $2, $3, $4, $5, $6)
`

// OngoingForUser returns the user's ongoing trip, or nil when not riding.
func (r *Repository) OngoingForUser(ctx context.Context, userID uuid.UUID) (*Trip, error) {
	var t Trip
	err := sqlx.GetContext(ctx, r.db, &t, ongoingForUserQuery, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

const ongoingForUserQuery = `SELECT ` + columns + ` FROM trips WHERE user_id = $1 AND status = 'ongoing' LIMIT 1`

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Trip, error) {
	var t Trip
	err := sqlx.GetContext(ctx, r.db, &t, getByIDQuery, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Trip{}, ErrNotFound
	}
	return t, err
}

const getByIDQuery = `SELECT ` + columns + ` FROM trips WHERE id = $1`

// GetForUser locks a trip owned by userID.
func (r *Repository) GetForUser(ctx context.Context, id, userID uuid.UUID) (Trip, error) {
	var t Trip
	err := sqlx.GetContext(ctx, r.db, &t, getForUserQuery, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return Trip{}, ErrNotFound
	}
	return t, err
}

const getForUserQuery = `SELECT ` + columns + ` FROM trips WHERE id = $1 AND user_id = $2 FOR UPDATE`

func (r *Repository) Complete(ctx context.Context, t Trip) error {
	_, err := r.db.ExecContext(ctx, completeQuery, t.ID, t.EndStationID, t.EndTime, t.DistanceKm, t.Fare)
	return err
}

const completeQuery = `
UPDATE trips
SET end_station_id = $2, end_time = $3, distance_km = $4, fare = $5, status = 'completed'
WHERE id = $1 AND status = 'ongoing'
`

// HistoryForUser lists completed trips, most recently finished first.
func (r *Repository) HistoryForUser(ctx context.Context, userID uuid.UUID) ([]Trip, error) {
	trips := []Trip{}
	err := sqlx.SelectContext(ctx, r.db, &trips, historyForUserQuery, userID)
	return trips, err
}

const historyForUserQuery = `SELECT ` + columns + ` FROM trips WHERE user_id = $1 AND status = 'completed' ORDER BY end_time DESC`

func (r *Repository) All(ctx context.Context) ([]Trip, error) {
	trips := []Trip{}
	err := sqlx.SelectContext(ctx, r.db, &trips, allQuery)
	return trips, err
}

const allQuery = `SELECT ` + columns + ` FROM trips ORDER BY start_time DESC`

func (r *Repository) CountOngoing(ctx context.Context) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.db, &n, countOngoingQuery)
	return n, err
}

const countOngoingQuery = `SELECT count(*) FROM trips WHERE status = 'ongoing'`

// Revenue sums the fares of completed trips.
func (r *Repository) Revenue(ctx context.Context) (int64, error) {
	var total int64
	err := sqlx.GetContext(ctx, r.db, &total, revenueQuery)
	return total, err
}

const revenueQuery = `SELECT COALESCE(sum(fare), 0)::bigint FROM trips WHERE status = 'completed'`

func (r *Repository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM trips`)
	return err
}
