package rental

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/semanticallynull/ecycle-backend/bike"
	"github.com/semanticallynull/ecycle-backend/internal/lock"
	"github.com/semanticallynull/ecycle-backend/station"
)

func TestCreateBike_FullStationRollsBack(t *testing.T) {
	svc, mock := newTestService(t, lock.NewStubVerifier())
	stationID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(q("FROM stations WHERE id = $1 FOR UPDATE")).WithArgs(stationID).
		WillReturnRows(stationRows(stationID, 8))
	mock.ExpectQuery(q("FROM docks WHERE station_id = $1")).WillReturnRows(dockRows(stationID))
	mock.ExpectQuery(q("INSERT INTO bikes")).
		WillReturnRows(bikeRows(uuid.New(), bike.StatusAvailable, 90, stationID))
	mock.ExpectQuery(q("UPDATE docks SET bike_id = $2")).
		WillReturnRows(sqlmock.NewRows([]string{"station_id", "position", "dock_id", "bike_id"}))
	mock.ExpectRollback()

	_, err := svc.CreateBike(context.Background(), "EC011", 90, &stationID)
	if !errors.Is(err, station.ErrFull) {
		t.Fatalf("expected station.ErrFull, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestCreateBike_DocksAtStation(t *testing.T) {
	svc, mock := newTestService(t, lock.NewStubVerifier())
	stationID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(q("FROM stations WHERE id = $1 FOR UPDATE")).WillReturnRows(stationRows(stationID, 0))
	mock.ExpectQuery(q("FROM docks WHERE station_id = $1")).WillReturnRows(dockRows(stationID))
	mock.ExpectQuery(q("INSERT INTO bikes")).
		WillReturnRows(bikeRows(uuid.New(), bike.StatusAvailable, 90, stationID))
	mock.ExpectQuery(q("UPDATE docks SET bike_id = $2")).
		WillReturnRows(sqlmock.NewRows([]string{"station_id", "position", "dock_id", "bike_id"}).
			AddRow(stationID.String(), 1, "Engineering-Block-D1", uuid.New().String()))
	mock.ExpectExec(q("available_bikes + 1")).WithArgs(stationID).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	b, err := svc.CreateBike(context.Background(), "EC011", 90, &stationID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !b.DockedAt(stationID) {
		t.Errorf("expected bike at %s, got %v", stationID, b.StationID)
	}
	expectationsMet(t, mock)
}

func TestDeleteBike_RejectsBikeInUse(t *testing.T) {
	for _, status := range []bike.Status{bike.StatusReserved, bike.StatusRented} {
		t.Run(string(status), func(t *testing.T) {
			svc, mock := newTestService(t, lock.NewStubVerifier())
			bikeID := uuid.New()

			mock.ExpectBegin()
			mock.ExpectQuery(q("FROM bikes WHERE id = $1 FOR UPDATE")).WithArgs(bikeID).
				WillReturnRows(bikeRows(bikeID, status, 80, uuid.New()))
			mock.ExpectRollback()

			if err := svc.DeleteBike(context.Background(), bikeID); !errors.Is(err, bike.ErrInUse) {
				t.Fatalf("expected bike.ErrInUse, got %v", err)
			}
			expectationsMet(t, mock)
		})
	}
}

func TestDeleteBike_FreesDock(t *testing.T) {
	svc, mock := newTestService(t, lock.NewStubVerifier())
	bikeID, stationID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(q("FROM bikes WHERE id = $1 FOR UPDATE")).
		WillReturnRows(bikeRows(bikeID, bike.StatusMaintenance, 40, stationID))
	mock.ExpectQuery(q("UPDATE docks SET bike_id = NULL WHERE bike_id = $1")).WithArgs(bikeID).
		WillReturnRows(sqlmock.NewRows([]string{"station_id"}).AddRow(stationID.String()))
	mock.ExpectExec(q("GREATEST(available_bikes - 1, 0)")).WithArgs(stationID).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("DELETE FROM bikes WHERE id = $1")).WithArgs(bikeID).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := svc.DeleteBike(context.Background(), bikeID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectationsMet(t, mock)
}

func TestDeleteStation_RejectsDockedBikes(t *testing.T) {
	svc, mock := newTestService(t, lock.NewStubVerifier())
	stationID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(q("FROM stations WHERE id = $1 FOR UPDATE")).WithArgs(stationID).
		WillReturnRows(stationRows(stationID, 1))
	mock.ExpectQuery(q("FROM docks WHERE station_id = $1")).
		WillReturnRows(sqlmock.NewRows([]string{"station_id", "position", "dock_id", "bike_id"}).
			AddRow(stationID.String(), 1, "Engineering-Block-D1", nil).
			AddRow(stationID.String(), 2, "Engineering-Block-D2", uuid.New().String()))
	mock.ExpectRollback()

	if err := svc.DeleteStation(context.Background(), stationID); !errors.Is(err, station.ErrNotEmpty) {
		t.Fatalf("expected station.ErrNotEmpty, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestDeleteStation_RemovesEmptyStation(t *testing.T) {
	svc, mock := newTestService(t, lock.NewStubVerifier())
	stationID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(q("FROM stations WHERE id = $1 FOR UPDATE")).WillReturnRows(stationRows(stationID, 0))
	mock.ExpectQuery(q("FROM docks WHERE station_id = $1")).WillReturnRows(dockRows(stationID))
	mock.ExpectExec(q("DELETE FROM stations WHERE id = $1")).WithArgs(stationID).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := svc.DeleteStation(context.Background(), stationID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectationsMet(t, mock)
}
