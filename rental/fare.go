package rental

import (
	"math"
	"time"
)

const (
	BaseFare  int64 = 5
	PerMinute int64 = 1
)

// Fare is the outcome of pricing a ride.
type Fare struct {
	DurationMinutes int
	DistanceKm      float64
	Amount          int64
}

// ComputeFare prices a ride from start to end. Partial minutes are billed as
// whole minutes and distance is estimated at 12 km/h, rounded to 0.1 km.
func ComputeFare(start, end time.Time) Fare {
	minutes := int(math.Ceil(end.Sub(start).Minutes()))
	if minutes < 0 {
		minutes = 0
	}

	return Fare{
		DurationMinutes: minutes,
		DistanceKm:      math.Round(float64(minutes)/5*10) / 10,
		Amount:          BaseFare + PerMinute*int64(minutes),
	}
}
