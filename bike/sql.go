package bike

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

var (
	ErrNotFound     = errors.New("bike not found")
	ErrNotAvailable = errors.New("bike not available")
	ErrInUse        = errors.New("bike is reserved or rented")
	ErrNumberTaken  = errors.New("bike number already exists")
)

type Repository struct {
	db sqlx.ExtContext
}

func NewRepository(db sqlx.ExtContext) *Repository {
	return &Repository{db: db}
}

const columns = `id, bike_number, battery_level, status, station_id, created_at`

func (r *Repository) GetBikes(ctx context.Context) ([]Bike, error) {
	var bikes []Bike
	err := sqlx.SelectContext(ctx, r.db, &bikes, getBikes)
	return bikes, err
}

const getBikes = `SELECT ` + columns + ` FROM bikes ORDER BY bike_number ASC`

func (r *Repository) GetBike(ctx context.Context, id uuid.UUID) (Bike, error) {
	return r.get(ctx, getBike, id)
}

const getBike = `SELECT ` + columns + ` FROM bikes WHERE id = $1`

func (r *Repository) GetForUpdate(ctx context.Context, id uuid.UUID) (Bike, error) {
	return r.get(ctx, getBikeForUpdate, id)
}

const getBikeForUpdate = `SELECT ` + columns + ` FROM bikes WHERE id = $1 FOR UPDATE`

func (r *Repository) get(ctx context.Context, query string, id uuid.UUID) (Bike, error) {
	var bike Bike
	err := sqlx.GetContext(ctx, r.db, &bike, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return bike, ErrNotFound
	}
	return bike, err
}

// GetByStation lists bikes whose current station is stationID and whose
// status is one of statuses, ordered by bike number.
func (r *Repository) GetByStation(ctx context.Context, stationID uuid.UUID, statuses ...Status) ([]Bike, error) {
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, string(s))
	}

	bikes := []Bike{}
	err := sqlx.SelectContext(ctx, r.db, &bikes, getByStation, stationID, names)
	if err != nil {
		return nil, err
	}
	return bikes, nil
}

const getByStation = `SELECT ` + columns + ` FROM bikes WHERE station_id = $1 AND status = ANY($2) ORDER BY bike_number ASC`

func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status Status) error {
	_, err := r.db.ExecContext(ctx, setStatus, id, status)
	return err
}

const setStatus = `UPDATE bikes SET status = $2 WHERE id = $1`

// Park makes a returned bike available at its new station with the given battery level.
func (r *Repository) Park(ctx context.Context, id, stationID uuid.UUID, battery int) error {
	_, err := r.db.ExecContext(ctx, park, id, stationID, battery)
	return err
}

const park = `UPDATE bikes SET status = 'available', station_id = $2, battery_level = $3 WHERE id = $1`

// ReleaseReserved returns a bike to available if it is still reserved.
func (r *Repository) ReleaseReserved(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx, releaseReserved, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

const releaseReserved = `UPDATE bikes SET status = 'available' WHERE id = $1 AND status = 'reserved'`

func (r *Repository) Create(ctx context.Context, b *Bike) error {
	err := sqlx.GetContext(ctx, r.db, b, createBike, b.ID, b.BikeNumber, b.BatteryLevel, b.Status, b.StationID)
	return numberTaken(err)
}

const createBike = `
INSERT INTO bikes (id, bike_number, battery_level, status, station_id, created_at)
VALUES ($1, $2, $3, $4, $5, now())
RETURNING ` + columns

func (r *Repository) Update(ctx context.Context, id uuid.UUID, u Update) (Bike, error) {
	var bike Bike
	err := sqlx.GetContext(ctx, r.db, &bike, updateBike, id, u.BikeNumber, u.BatteryLevel, u.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return Bike{}, ErrNotFound
	}
	return bike, numberTaken(err)
}

const updateBike = `
UPDATE bikes
SET bike_number = COALESCE($2::text, bike_number),
    battery_level = COALESCE($3::integer, battery_level),
    status = COALESCE($4::text, status)
WHERE id = $1
RETURNING ` + columns

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, deleteBike, id)
	return err
}

const deleteBike = `DELETE FROM bikes WHERE id = $1`

func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.db, &n, countBikes)
	return n, err
}

const countBikes = `SELECT count(*) FROM bikes`

func (r *Repository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM bikes`)
	return err
}

func numberTaken(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrNumberTaken
	}
	return err
}
