// Package bike holds the e-bike fleet inventory.
package bike

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusAvailable   Status = "available"
	StatusReserved    Status = "reserved"
	StatusRented      Status = "rented"
	StatusMaintenance Status = "maintenance"
)

// MinBatteryAfterRide is the floor applied when a ride drains the battery.
const MinBatteryAfterRide = 20

// Bike represents an e-bike that can be reserved from a station.
type Bike struct {
	// ID is an internal identifier for a bike
	ID uuid.UUID `db:"id"`
	// BikeNumber is the label painted on the frame (e.g. "EC001").
	BikeNumber string `db:"bike_number"`
	// BatteryLevel is a percentage, 0-100.
	BatteryLevel int `db:"battery_level"`

	Status Status `db:"status"`

	// StationID is the station the bike was last docked at.
	StationID *uuid.UUID `db:"station_id"`

	CreatedAt time.Time `db:"created_at"`
}

func (b Bike) DockedAt(stationID uuid.UUID) bool {
	return b.StationID != nil && *b.StationID == stationID
}

// InUse reports whether the bike is held by a reservation or a trip.
func (b Bike) InUse() bool {
	return b.Status == StatusReserved || b.Status == StatusRented
}

// DrainBattery returns the battery level after a ride of the given length:
// one percent per two minutes, never below MinBatteryAfterRide.
func DrainBattery(level, rideMinutes int) int {
	return max(MinBatteryAfterRide, level-rideMinutes/2)
}

var ErrInvalid = errors.New("invalid bike")

// New builds an available bike, optionally docked at stationID.
func New(number string, battery int, stationID *uuid.UUID) (Bike, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return Bike{}, errors.Join(ErrInvalid, errors.New("bike number is required"))
	}
	if battery < 0 || battery > 100 {
		return Bike{}, errors.Join(ErrInvalid, errors.New("battery level must be between 0 and 100"))
	}
	return Bike{
		ID:           uuid.New(),
		BikeNumber:   number,
		BatteryLevel: battery,
		Status:       StatusAvailable,
		StationID:    stationID,
	}, nil
}

// Update lists the bike fields an admin may change. Status may only be
// toggled between available and maintenance.
type Update struct {
	BikeNumber   *string `json:"bikeNumber"`
	BatteryLevel *int    `json:"batteryLevel"`
	Status       *Status `json:"status"`
}

func (u Update) Validate() error {
	if u.BikeNumber != nil && strings.TrimSpace(*u.BikeNumber) == "" {
		return errors.Join(ErrInvalid, errors.New("bike number cannot be empty"))
	}
	if u.BatteryLevel != nil && (*u.BatteryLevel < 0 || *u.BatteryLevel > 100) {
		return errors.Join(ErrInvalid, errors.New("battery level must be between 0 and 100"))
	}
	if u.Status != nil && *u.Status != StatusAvailable && *u.Status != StatusMaintenance {
		return errors.Join(ErrInvalid, errors.New("status can only be set to available or maintenance"))
	}
	return nil
}
