package reservation

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("reservation not found")

type Repository struct {
	db sqlx.ExtContext
}

func NewRepository(db sqlx.ExtContext) *Repository {
	return &Repository{db: db}
}

const columns = `id, user_id, bike_id, station_id, created_at, expires_at`

func (r *Repository) Create(ctx context.Context, res Reservation) error {
	_, err := r.db.ExecContext(ctx, createQuery,
		res.ID, res.UserID, res.BikeID, res.StationID, res.CreatedAt, res.ExpiresAt)
	return err
}

const createQuery = `
INSERT INTO reservations (id, user_id, bike_id, station_id, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5, $6)
`

// ActiveForUser fetches the user's reservation that has not expired by now.
// A hold is still live at the instant it expires.
// Returns nil if there is none.
func (r *Repository) ActiveForUser(ctx context.Context, userID uuid.UUID, now time.Time) (*Reservation, error) {
	return r.find(ctx, activeForUserQuery, userID, now)
}

const activeForUserQuery = `SELECT ` + columns + ` FROM reservations WHERE user_id = $1 AND expires_at >= $2 LIMIT 1`

// ActiveForBike fetches the live hold on a bike, if any.
func (r *Repository) ActiveForBike(ctx context.Context, bikeID uuid.UUID, now time.Time) (*Reservation, error) {
	return r.find(ctx, activeForBikeQuery, bikeID, now)
}

const activeForBikeQuery = `SELECT ` + columns + ` FROM reservations WHERE bike_id = $1 AND expires_at >= $2 LIMIT 1`

func (r *Repository) find(ctx context.Context, query string, id uuid.UUID, now time.Time) (*Reservation, error) {
	var res Reservation
	err := sqlx.GetContext(ctx, r.db, &res, query, id, now)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// GetForUser locks a reservation owned by userID.
func (r *Repository) GetForUser(ctx context.Context, id, userID uuid.UUID) (Reservation, error) {
	var res Reservation
	err := sqlx.GetContext(ctx, r.db, &res, getForUserQuery, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return Reservation{}, ErrNotFound
	}
	return res, err
}

const getForUserQuery = `SELECT ` + columns + ` FROM reservations WHERE id = $1 AND user_id = $2 FOR UPDATE`

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, deleteQuery, id)
	return err
}

const deleteQuery = `DELETE FROM reservations WHERE id = $1`

// DeleteExpiredForBike drops lapsed holds on a bike.
func (r *Repository) DeleteExpiredForBike(ctx context.Context, bikeID uuid.UUID, now time.Time) error {
	_, err := r.db.ExecContext(ctx, deleteExpiredForBikeQuery, bikeID, now)
	return err
}

const deleteExpiredForBikeQuery = `DELETE FROM reservations WHERE bike_id = $1 AND expires_at < $2`

// DeleteExpired removes every lapsed reservation and returns what was removed.
func (r *Repository) DeleteExpired(ctx context.Context, now time.Time) ([]Reservation, error) {
	var expired []Reservation
	err := sqlx.SelectContext(ctx, r.db, &expired, deleteExpiredQuery, now)
	return expired, err
}

const deleteExpiredQuery = `DELETE FROM reservations WHERE expires_at < $1 RETURNING ` + columns

func (r *Repository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM reservations`)
	return err
}
