package trip

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
)

type Trip struct {
	ID             uuid.UUID    `db:"id"`
	UserID         uuid.UUID    `db:"user_id"`
	BikeID         uuid.UUID    `db:"bike_id"`
	StartStationID uuid.UUID    `db:"start_station_id"`
	EndStationID   *uuid.UUID   `db:"end_station_id"`
	StartTime      time.Time    `db:"start_time"`
	EndTime        sql.NullTime `db:"end_time"`
	DistanceKm     float64      `db:"distance_km"`
	Fare           int64        `db:"fare"`
	Status         Status       `db:"status"`
}

func Start(userID, bikeID, stationID uuid.UUID, now time.Time) Trip {
	return Trip{
		ID:             uuid.New(),
		UserID:         userID,
		BikeID:         bikeID,
		StartStationID: stationID,
		StartTime:      now,
		Status:         StatusOngoing,
	}
}

func (t Trip) Ongoing() bool {
	return t.Status == StatusOngoing
}

// Complete closes the trip. Completed trips are never mutated again.
func (t *Trip) Complete(endStationID uuid.UUID, end time.Time, distanceKm float64, fare int64) {
	t.EndStationID = &endStationID
	t.EndTime = sql.NullTime{Time: end, Valid: true}
	t.DistanceKm = distanceKm
	t.Fare = fare
	t.Status = StatusCompleted
}
