package station

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrNotFound = errors.New("station not found")
	ErrFull     = errors.New("station has no free dock")
	ErrNotEmpty = errors.New("station still has docked bikes")
)

type Repository struct {
	db sqlx.ExtContext
}

func NewRepository(db sqlx.ExtContext) *Repository {
	return &Repository{
		db: db,
	}
}

const columns = `id, name, location, total_docks, available_bikes, created_at`

func (r *Repository) GetStations(ctx context.Context) ([]Station, error) {
	var stations []Station
	err := sqlx.SelectContext(ctx, r.db, &stations, getStations)
	if err != nil {
		return nil, err
	}

	var docks []Dock
	err = sqlx.SelectContext(ctx, r.db, &docks, getAllDocks)
	if err != nil {
		return nil, err
	}

	byStation := make(map[uuid.UUID][]Dock, len(stations))
	for _, d := range docks {
		byStation[d.StationID] = append(byStation[d.StationID], d)
	}
	for i := range stations {
		stations[i].Docks = byStation[stations[i].ID]
	}
	return stations, nil
}

const getStations = `SELECT ` + columns + ` FROM stations ORDER BY name ASC`

const getAllDocks = `SELECT station_id, position, dock_id, bike_id FROM docks ORDER BY station_id, position`

func (r *Repository) GetStation(ctx context.Context, id uuid.UUID) (Station, error) {
	return r.getWithDocks(ctx, getStation, id)
}

const getStation = `SELECT ` + columns + ` FROM stations WHERE id = $1`

// GetForUpdate locks the station row so dock assignment is serialised per station.
func (r *Repository) GetForUpdate(ctx context.Context, id uuid.UUID) (Station, error) {
	return r.getWithDocks(ctx, getStationForUpdate, id)
}

const getStationForUpdate = `SELECT ` + columns + ` FROM stations WHERE id = $1 FOR UPDATE`

func (r *Repository) getWithDocks(ctx context.Context, query string, id uuid.UUID) (Station, error) {
	var s Station
	err := sqlx.GetContext(ctx, r.db, &s, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Station{}, ErrNotFound
	}
	if err != nil {
		return Station{}, err
	}

	err = sqlx.SelectContext(ctx, r.db, &s.Docks, getDocks, id)
	return s, err
}

const getDocks = `SELECT station_id, position, dock_id, bike_id FROM docks WHERE station_id = $1 ORDER BY position`

// Create inserts the station and its docks. Callers wanting atomicity pass a transaction.
func (r *Repository) Create(ctx context.Context, s *Station) error {
	err := sqlx.GetContext(ctx, r.db, s, createStation,
		s.ID, s.Name, s.Location, s.TotalDocks, s.AvailableBikes)
	if err != nil {
		return err
	}

	for _, d := range s.Docks {
		_, err = r.db.ExecContext(ctx, createDock, s.ID, d.Position, d.DockID, d.BikeID)
		if err != nil {
			return err
		}
	}
	return nil
}

const createStation = `
INSERT INTO stations (id, name, location, total_docks, available_bikes, created_at)
VALUES ($1, $2, $3, $4, $5, now())
RETURNING ` + columns

const createDock = `INSERT INTO docks (station_id, position, dock_id, bike_id) VALUES ($1, $2, $3, $4)`

func (r *Repository) Update(ctx context.Context, id uuid.UUID, u Update) (Station, error) {
	var name any
	if u.Name != nil {
		name = *u.Name
	}
	var location any
	if u.Location != nil {
		location = NewLocation(u.Location.Lat, u.Location.Lng)
	}

	var s Station
	err := sqlx.GetContext(ctx, r.db, &s, updateStation, id, name, location)
	if errors.Is(err, sql.ErrNoRows) {
		return Station{}, ErrNotFound
	}
	return s, err
}

const updateStation = `
UPDATE stations
SET name = COALESCE($2::text, name),
    location = COALESCE($3::point, location)
WHERE id = $1
RETURNING ` + columns

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, deleteStation, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

const deleteStation = `DELETE FROM stations WHERE id = $1`

func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.db, &n, countStations)
	return n, err
}

const countStations = `SELECT count(*) FROM stations`

// DockBike puts the bike in the station's lowest free dock and bumps the
// available counter. The station row should be locked by the caller.
func (r *Repository) DockBike(ctx context.Context, stationID, bikeID uuid.UUID) (Dock, error) {
	var d Dock
	err := sqlx.GetContext(ctx, r.db, &d, dockBike, stationID, bikeID)
	if errors.Is(err, sql.ErrNoRows) {
		return Dock{}, ErrFull
	}
	if err != nil {
		return Dock{}, err
	}

	_, err = r.db.ExecContext(ctx, incrementAvailable, stationID)
	return d, err
}

const dockBike = `
UPDATE docks SET bike_id = $2
WHERE station_id = $1
  AND bike_id IS NULL
  AND position = (SELECT min(position) FROM docks WHERE station_id = $1 AND bike_id IS NULL)
RETURNING station_id, position, dock_id, bike_id
`

const incrementAvailable = `UPDATE stations SET available_bikes = available_bikes + 1 WHERE id = $1`

// ReleaseBike empties whichever dock holds the bike and returns that dock's
// station, or nil when the bike was not docked.
func (r *Repository) ReleaseBike(ctx context.Context, bikeID uuid.UUID) (*uuid.UUID, error) {
	var stationID uuid.UUID
	err := sqlx.GetContext(ctx, r.db, &stationID, releaseBike, bikeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	_, err = r.db.ExecContext(ctx, decrementAvailable, stationID)
	if err != nil {
		return nil, err
	}
	return &stationID, nil
}

const releaseBike = `UPDATE docks SET bike_id = NULL WHERE bike_id = $1 RETURNING station_id`

const decrementAvailable = `UPDATE stations SET available_bikes = GREATEST(available_bikes - 1, 0) WHERE id = $1`

func (r *Repository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM stations`)
	return err
}
