package station

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	s, err := New("  Main Library ", 12.97, 77.59, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Name != "Main Library" {
		t.Errorf("expected trimmed name, got %q", s.Name)
	}
	if s.Lat() != 12.97 || s.Lng() != 77.59 {
		t.Errorf("expected location (12.97, 77.59), got (%v, %v)", s.Lat(), s.Lng())
	}
	if len(s.Docks) != 3 {
		t.Fatalf("expected 3 docks, got %d", len(s.Docks))
	}
	for i, d := range s.Docks {
		if !d.Empty() {
			t.Errorf("dock %d should start empty", i)
		}
		if d.StationID != s.ID {
			t.Errorf("dock %d belongs to %s, expected %s", i, d.StationID, s.ID)
		}
	}
	if s.Docks[2].DockID != "Main-Library-D3" {
		t.Errorf("expected Main-Library-D3, got %s", s.Docks[2].DockID)
	}
}

func TestNewRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name  string
		title string
		docks int
	}{
		{"blank name", "   ", 4},
		{"no docks", "Cafeteria", 0},
		{"negative docks", "Cafeteria", -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.title, 0, 0, tc.docks); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestUpdateValidate(t *testing.T) {
	blank := " "
	if err := (Update{Name: &blank}).Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
	if err := (Update{Location: &Location{Lat: 1, Lng: 2}}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
