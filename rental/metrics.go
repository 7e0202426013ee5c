package rental

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	reservations   prometheus.Counter
	tripsStarted   prometheus.Counter
	tripsCompleted prometheus.Counter
	fareCollected  prometheus.Counter
	holdsReleased  prometheus.Counter
}

// NewMetrics builds the rental counters and registers them with reg when it is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		reservations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rental_reservations_total",
			Help: "Total number of reservations created",
		}),
		tripsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rental_trips_started_total",
			Help: "Total number of trips started by unlocking a bike",
		}),
		tripsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rental_trips_completed_total",
			Help: "Total number of trips completed by returning a bike",
		}),
		fareCollected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rental_fare_collected_total",
			Help: "Sum of fares debited from wallets",
		}),
		holdsReleased: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rental_expired_holds_released_total",
			Help: "Bikes returned to available after their reservation lapsed",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.reservations, m.tripsStarted, m.tripsCompleted, m.fareCollected, m.holdsReleased)
	}
	return m
}
