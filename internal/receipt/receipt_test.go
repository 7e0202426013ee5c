package receipt

import (
	"bytes"
	"testing"
	"time"
)

func TestRender_ProducesPDF(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	err := Render(&buf, Receipt{
		TripID:       "5f8b7a52-4c1e-4d0a-9a55-3f3f0b1f2a11",
		RiderName:    "John Doe",
		RiderEmail:   "john@student.com",
		BikeNumber:   "EC001",
		StartStation: "Main Library",
		EndStation:   "Engineering Block",
		StartTime:    start,
		EndTime:      start.Add(12 * time.Minute),
		Minutes:      12,
		DistanceKm:   2.4,
		BaseFare:     5,
		PerMinute:    1,
		Fare:         17,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Errorf("expected PDF header, got %q", buf.Bytes()[:min(8, buf.Len())])
	}
}
