package reservation

import (
	"time"

	"github.com/google/uuid"
)

// HoldDuration is how long a reservation keeps a bike before it lapses.
const HoldDuration = 10 * time.Minute

type Reservation struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	BikeID    uuid.UUID `db:"bike_id"`
	StationID uuid.UUID `db:"station_id"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

func New(userID, bikeID, stationID uuid.UUID, now time.Time) Reservation {
	return Reservation{
		ID:        uuid.New(),
		UserID:    userID,
		BikeID:    bikeID,
		StationID: stationID,
		CreatedAt: now,
		ExpiresAt: now.Add(HoldDuration),
	}
}

// ExpiredAt reports whether the hold has lapsed. A reservation is still
// usable at the exact instant of expiry.
func (r Reservation) ExpiredAt(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
