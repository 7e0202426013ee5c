package station

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

var ErrInvalid = errors.New("invalid station")

// Station is a docking point. AvailableBikes mirrors the number of occupied
// docks and is maintained on every dock mutation.
type Station struct {
	ID             uuid.UUID    `db:"id"`
	Name           string       `db:"name"`
	Location       pgtype.Point `db:"location"`
	TotalDocks     int          `db:"total_docks"`
	AvailableBikes int          `db:"available_bikes"`
	CreatedAt      time.Time    `db:"created_at"`

	Docks []Dock `db:"-"`
}

// Dock is a numbered slot holding at most one bike.
type Dock struct {
	StationID uuid.UUID  `db:"station_id"`
	Position  int        `db:"position"`
	DockID    string     `db:"dock_id"`
	BikeID    *uuid.UUID `db:"bike_id"`
}

func (d Dock) Empty() bool {
	return d.BikeID == nil
}

// NewLocation stores latitude in X and longitude in Y.
func NewLocation(lat, lng float64) pgtype.Point {
	return pgtype.Point{P: pgtype.Vec2{X: lat, Y: lng}, Valid: true}
}

func (s Station) Lat() float64 {
	return s.Location.P.X
}

func (s Station) Lng() float64 {
	return s.Location.P.Y
}

// New builds a station with totalDocks empty docks.
func New(name string, lat, lng float64, totalDocks int) (Station, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Station{}, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if totalDocks < 1 {
		return Station{}, fmt.Errorf("%w: at least one dock is required", ErrInvalid)
	}

	s := Station{
		ID:         uuid.New(),
		Name:       name,
		Location:   NewLocation(lat, lng),
		TotalDocks: totalDocks,
		Docks:      make([]Dock, 0, totalDocks),
	}
	for i := 1; i <= totalDocks; i++ {
		s.Docks = append(s.Docks, Dock{
			StationID: s.ID,
			Position:  i,
			DockID:    DockID(name, i),
		})
	}
	return s, nil
}

// DockID names a dock after its station, e.g. "Main-Library-D3".
func DockID(stationName string, position int) string {
	return fmt.Sprintf("%s-D%d", strings.Join(strings.Fields(stationName), "-"), position)
}

// Location is the lat/lng pair accepted by the admin API.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Update lists the station fields an admin may change.
type Update struct {
	Name     *string   `json:"name"`
	Location *Location `json:"location"`
}

func (u Update) Validate() error {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalid)
	}
	return nil
}
