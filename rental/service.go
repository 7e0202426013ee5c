// Package rental runs the reservation, unlock and return lifecycle. Every
// multi-row change happens inside one database transaction.
package rental

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/semanticallynull/ecycle-backend/bike"
	"github.com/semanticallynull/ecycle-backend/internal/events"
	"github.com/semanticallynull/ecycle-backend/internal/lock"
	"github.com/semanticallynull/ecycle-backend/reservation"
	"github.com/semanticallynull/ecycle-backend/station"
	"github.com/semanticallynull/ecycle-backend/trip"
	"github.com/semanticallynull/ecycle-backend/user"
)

type Service struct {
	db       *sqlx.DB
	verifier lock.Verifier
	events   events.Publisher
	metrics  *Metrics
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithEvents(p events.Publisher) Option {
	return func(s *Service) { s.events = p }
}

func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(db *sqlx.DB, verifier lock.Verifier, opts ...Option) *Service {
	s := &Service{
		db:       db,
		verifier: verifier,
		events:   events.Discard{},
		metrics:  NewMetrics(nil),
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// store groups the repositories bound to one transaction.
type store struct {
	users        *user.Repository
	stations     *station.Repository
	bikes        *bike.Repository
	reservations *reservation.Repository
	trips        *trip.Repository
}

func newStore(db sqlx.ExtContext) store {
	return store{
		users:        user.NewRepository(db),
		stations:     station.NewRepository(db),
		bikes:        bike.NewRepository(db),
		reservations: reservation.NewRepository(db),
		trips:        trip.NewRepository(db),
	}
}

func (s *Service) inTx(ctx context.Context, fn func(st store) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(newStore(tx)); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer("rental").Start(ctx, name, trace.WithAttributes(attrs...))
}

// publish emits an event once its change is committed. Failures are logged only.
func (s *Service) publish(ctx context.Context, e events.Event) {
	e.OccurredAt = s.now()
	if err := s.events.Publish(context.WithoutCancel(ctx), e); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event", "type", e.Type, "error", err)
	}
}

// Reserve places a hold on a docked, available bike for HoldDuration.
func (s *Service) Reserve(ctx context.Context, userID, bikeID, stationID uuid.UUID) (reservation.Reservation, error) {
	ctx, span := s.startSpan(ctx, "rental.Reserve",
		attribute.String("user.id", userID.String()),
		attribute.String("bike.id", bikeID.String()))
	defer span.End()

	now := s.now()
	var res reservation.Reservation
	err := s.inTx(ctx, func(st store) error {
		if _, err := st.users.GetForUpdate(ctx, userID); err != nil {
			return err
		}

		active, err := st.reservations.ActiveForUser(ctx, userID, now)
		if err != nil {
			return err
		}
		if active != nil {
			return ErrAlreadyReserved
		}

		ongoing, err := st.trips.OngoingForUser(ctx, userID)
		if err != nil {
			return err
		}
		if ongoing != nil {
			return ErrAlreadyRiding
		}

		b, err := st.bikes.GetForUpdate(ctx, bikeID)
		if errors.Is(err, bike.ErrNotFound) {
			return bike.ErrNotAvailable
		}
		if err != nil {
			return err
		}

		if b.Status == bike.StatusReserved {
			b, err = reclaim(ctx, st, b, now)
			if err != nil {
				return err
			}
		}
		if b.Status != bike.StatusAvailable {
			return bike.ErrNotAvailable
		}
		if !b.DockedAt(stationID) {
			return ErrBikeNotAtStation
		}

		res = reservation.New(userID, bikeID, stationID, now)
		if err := st.reservations.Create(ctx, res); err != nil {
			return err
		}
		return st.bikes.SetStatus(ctx, bikeID, bike.StatusReserved)
	})
	if err != nil {
		span.RecordError(err)
		return reservation.Reservation{}, err
	}

	s.metrics.reservations.Inc()
	s.publish(ctx, events.Event{
		Type:   events.ReservationCreated,
		UserID: userID,
		Data: map[string]any{
			"reservationId": res.ID,
			"bikeId":        bikeID,
			"stationId":     stationID,
			"expiresAt":     res.ExpiresAt,
		},
	})
	return res, nil
}

// reclaim frees a reserved bike whose hold has lapsed but was not swept yet.
// A bike with a live hold is returned unchanged.
func reclaim(ctx context.Context, st store, b bike.Bike, now time.Time) (bike.Bike, error) {
	live, err := st.reservations.ActiveForBike(ctx, b.ID, now)
	if err != nil {
		return b, err
	}
	if live != nil {
		return b, nil
	}

	if err := st.reservations.DeleteExpiredForBike(ctx, b.ID, now); err != nil {
		return b, err
	}
	if err := st.bikes.SetStatus(ctx, b.ID, bike.StatusAvailable); err != nil {
		return b, err
	}
	b.Status = bike.StatusAvailable
	return b, nil
}

// Unlock turns the caller's reservation into an ongoing trip once the QR code
// on the bike is accepted.
func (s *Service) Unlock(ctx context.Context, userID, reservationID uuid.UUID, qrCode string) (trip.Trip, error) {
	ctx, span := s.startSpan(ctx, "rental.Unlock",
		attribute.String("user.id", userID.String()),
		attribute.String("reservation.id", reservationID.String()))
	defer span.End()

	now := s.now()
	var t trip.Trip
	err := s.inTx(ctx, func(st store) error {
		res, err := st.reservations.GetForUser(ctx, reservationID, userID)
		if err != nil {
			return err
		}
		if res.ExpiredAt(now) {
			return ErrReservationExpired
		}
		if err := s.verifier.Verify(ctx, res.BikeID, qrCode); err != nil {
			return err
		}

		t = trip.Start(userID, res.BikeID, res.StationID, now)
		if err := st.trips.Create(ctx, t); err != nil {
			return err
		}
		if err := st.bikes.SetStatus(ctx, res.BikeID, bike.StatusRented); err != nil {
			return err
		}
		if err := st.users.SetActiveTrip(ctx, userID, &t.ID); err != nil {
			return err
		}
		return st.reservations.Delete(ctx, res.ID)
	})
	if err != nil {
		span.RecordError(err)
		return trip.Trip{}, err
	}

	s.metrics.tripsStarted.Inc()
	s.publish(ctx, events.Event{
		Type:   events.TripStarted,
		UserID: userID,
		Data: map[string]any{
			"tripId":    t.ID,
			"bikeId":    t.BikeID,
			"stationId": t.StartStationID,
		},
	})
	return t, nil
}

// Settlement is the result of returning a bike.
type Settlement struct {
	Trip             trip.Trip
	RemainingBalance int64
}

// Return ends an ongoing trip at endStationID, debits the fare and docks the
// bike at the destination.
func (s *Service) Return(ctx context.Context, userID, tripID, endStationID uuid.UUID) (Settlement, error) {
	ctx, span := s.startSpan(ctx, "rental.Return",
		attribute.String("user.id", userID.String()),
		attribute.String("trip.id", tripID.String()))
	defer span.End()

	end := s.now()
	var out Settlement
	var fare Fare
	err := s.inTx(ctx, func(st store) error {
		t, err := st.trips.GetForUser(ctx, tripID, userID)
		if err != nil {
			return err
		}
		if !t.Ongoing() {
			return ErrTripNotOngoing
		}

		if _, err := st.stations.GetForUpdate(ctx, endStationID); err != nil {
			return err
		}

		u, err := st.users.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		fare = ComputeFare(t.StartTime, end)
		if u.Wallet < fare.Amount {
			return ErrInsufficientFunds
		}

		t.Complete(endStationID, end, fare.DistanceKm, fare.Amount)
		if err := st.trips.Complete(ctx, t); err != nil {
			return err
		}
		balance, err := st.users.Settle(ctx, userID, fare.Amount)
		if err != nil {
			return err
		}

		b, err := st.bikes.GetForUpdate(ctx, t.BikeID)
		if err != nil {
			return err
		}
		battery := bike.DrainBattery(b.BatteryLevel, fare.DurationMinutes)
		if err := st.bikes.Park(ctx, b.ID, endStationID, battery); err != nil {
			return err
		}

		if _, err := st.stations.ReleaseBike(ctx, b.ID); err != nil {
			return err
		}
		if _, err := st.stations.DockBike(ctx, endStationID, b.ID); err != nil {
			return err
		}

		out = Settlement{Trip: t, RemainingBalance: balance}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return Settlement{}, err
	}

	s.metrics.tripsCompleted.Inc()
	s.metrics.fareCollected.Add(float64(fare.Amount))
	s.publish(ctx, events.Event{
		Type:   events.TripCompleted,
		UserID: userID,
		Data: map[string]any{
			"tripId":          out.Trip.ID,
			"endStationId":    endStationID,
			"durationMinutes": fare.DurationMinutes,
			"distanceKm":      fare.DistanceKm,
			"fare":            fare.Amount,
		},
	})
	return out, nil
}

// Recharge credits the wallet and returns the new balance.
func (s *Service) Recharge(ctx context.Context, userID uuid.UUID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	wallet, err := user.NewRepository(s.db).Recharge(ctx, userID, amount)
	if err != nil {
		return 0, err
	}

	s.publish(ctx, events.Event{
		Type:   events.WalletRecharged,
		UserID: userID,
		Data:   map[string]any{"amount": amount, "wallet": wallet},
	})
	return wallet, nil
}
