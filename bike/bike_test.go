package bike

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNew(t *testing.T) {
	stationID := uuid.New()
	b, err := New(" EC011 ", 85, &stationID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.BikeNumber != "EC011" || b.Status != StatusAvailable || !b.DockedAt(stationID) {
		t.Errorf("unexpected bike: %+v", b)
	}

	if _, err := New("", 50, nil); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid for blank number, got %v", err)
	}
	if _, err := New("EC012", 101, nil); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid for battery over 100, got %v", err)
	}
}

func TestDrainBattery(t *testing.T) {
	cases := []struct {
		level, minutes, want int
	}{
		{100, 12, 94},
		{100, 1, 100},
		{30, 40, MinBatteryAfterRide},
		{15, 0, MinBatteryAfterRide},
	}
	for _, tc := range cases {
		if got := DrainBattery(tc.level, tc.minutes); got != tc.want {
			t.Errorf("DrainBattery(%d, %d) = %d, want %d", tc.level, tc.minutes, got, tc.want)
		}
	}
}

func TestUpdateValidate(t *testing.T) {
	rented := StatusRented
	maintenance := StatusMaintenance
	low := -1

	if err := (Update{Status: &rented}).Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid for rented, got %v", err)
	}
	if err := (Update{BatteryLevel: &low}).Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid for negative battery, got %v", err)
	}
	if err := (Update{Status: &maintenance}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestInUse(t *testing.T) {
	for status, want := range map[Status]bool{
		StatusAvailable:   false,
		StatusReserved:    true,
		StatusRented:      true,
		StatusMaintenance: false,
	} {
		if got := (Bike{Status: status}).InUse(); got != want {
			t.Errorf("%s: InUse() = %v, want %v", status, got, want)
		}
	}
}
