package rental

import (
	"context"

	"github.com/google/uuid"

	"github.com/semanticallynull/ecycle-backend/bike"
	"github.com/semanticallynull/ecycle-backend/station"
)

// CreateStation inserts a station together with its empty docks.
func (s *Service) CreateStation(ctx context.Context, name string, loc station.Location, totalDocks int) (station.Station, error) {
	st, err := station.New(name, loc.Lat, loc.Lng, totalDocks)
	if err != nil {
		return station.Station{}, err
	}

	err = s.inTx(ctx, func(tx store) error {
		return tx.stations.Create(ctx, &st)
	})
	if err != nil {
		return station.Station{}, err
	}
	return st, nil
}

// DeleteStation removes a station that has no docked bikes.
func (s *Service) DeleteStation(ctx context.Context, id uuid.UUID) error {
	return s.inTx(ctx, func(tx store) error {
		st, err := tx.stations.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		for _, d := range st.Docks {
			if !d.Empty() {
				return station.ErrNotEmpty
			}
		}
		return tx.stations.Delete(ctx, id)
	})
}

// CreateBike adds a bike to the fleet. When stationID is set the bike goes
// into that station's lowest free dock.
func (s *Service) CreateBike(ctx context.Context, number string, battery int, stationID *uuid.UUID) (bike.Bike, error) {
	b, err := bike.New(number, battery, stationID)
	if err != nil {
		return bike.Bike{}, err
	}

	err = s.inTx(ctx, func(tx store) error {
		if stationID != nil {
			if _, err := tx.stations.GetForUpdate(ctx, *stationID); err != nil {
				return err
			}
		}
		if err := tx.bikes.Create(ctx, &b); err != nil {
			return err
		}
		if stationID != nil {
			_, err := tx.stations.DockBike(ctx, *stationID, b.ID)
			return err
		}
		return nil
	})
	if err != nil {
		return bike.Bike{}, err
	}
	return b, nil
}

// UpdateBike applies an admin edit. A bike held by a reservation or trip
// cannot have its status changed.
func (s *Service) UpdateBike(ctx context.Context, id uuid.UUID, u bike.Update) (bike.Bike, error) {
	if err := u.Validate(); err != nil {
		return bike.Bike{}, err
	}

	var updated bike.Bike
	err := s.inTx(ctx, func(tx store) error {
		b, err := tx.bikes.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if u.Status != nil && b.InUse() {
			return bike.ErrInUse
		}
		updated, err = tx.bikes.Update(ctx, id, u)
		return err
	})
	return updated, err
}

// DeleteBike removes an idle bike and frees the dock it occupied.
func (s *Service) DeleteBike(ctx context.Context, id uuid.UUID) error {
	return s.inTx(ctx, func(tx store) error {
		b, err := tx.bikes.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if b.InUse() {
			return bike.ErrInUse
		}
		if _, err := tx.stations.ReleaseBike(ctx, id); err != nil {
			return err
		}
		return tx.bikes.Delete(ctx, id)
	})
}
