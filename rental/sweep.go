package rental

import (
	"context"
	"time"
)

// ReleaseExpired deletes lapsed reservations and puts their bikes back to
// available. It returns the number of bikes released.
func (s *Service) ReleaseExpired(ctx context.Context) (int, error) {
	ctx, span := s.startSpan(ctx, "rental.ReleaseExpired")
	defer span.End()

	now := s.now()
	released := 0
	err := s.inTx(ctx, func(st store) error {
		expired, err := st.reservations.DeleteExpired(ctx, now)
		if err != nil {
			return err
		}
		for _, r := range expired {
			ok, err := st.bikes.ReleaseReserved(ctx, r.BikeID)
			if err != nil {
				return err
			}
			if ok {
				released++
			}
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return 0, err
	}

	s.metrics.holdsReleased.Add(float64(released))
	return released, nil
}

// Sweep calls ReleaseExpired every interval until ctx is cancelled.
func (s *Service) Sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.ReleaseExpired(ctx)
			if err != nil {
				s.logger.ErrorContext(ctx, "failed to release expired reservations", "error", err)
				continue
			}
			if n > 0 {
				s.logger.InfoContext(ctx, "released expired reservations", "count", n)
			}
		}
	}
}
