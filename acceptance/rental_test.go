package acceptance

import (
	"net/http"
	"testing"
)

type station struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	AvailableBikes int    `json:"availableBikes"`
	Docks          []struct {
		DockID string  `json:"dockId"`
		BikeID *string `json:"bikeId"`
	} `json:"docks"`
}

type bike struct {
	ID             string `json:"id"`
	BikeNumber     string `json:"bikeNumber"`
	BatteryLevel   int    `json:"batteryLevel"`
	Status         string `json:"status"`
	CurrentStation string `json:"currentStation"`
}

func stationsByName(t *testing.T, ts *TestServer) map[string]station {
	t.Helper()
	w := ts.GET("/stations", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	var stations []station
	decode(t, w, &stations)

	out := make(map[string]station, len(stations))
	for _, s := range stations {
		out[s.Name] = s
	}
	return out
}

func TestRentalLifecycle(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	tok := ts.Login(t, "john@student.com", "password123")
	stations := stationsByName(t, ts)
	library, engineering := stations["Main Library"], stations["Engineering Block"]
	if library.AvailableBikes != 6 || engineering.AvailableBikes != 4 {
		t.Fatalf("unexpected seeded counts: library=%d engineering=%d", library.AvailableBikes, engineering.AvailableBikes)
	}

	w := ts.GET("/stations/"+library.ID, "")
	var detail struct {
		Bikes []bike `json:"bikes"`
	}
	decode(t, w, &detail)
	if len(detail.Bikes) == 0 {
		t.Fatalf("expected bikes at Main Library")
	}
	b := detail.Bikes[0]

	w = ts.POST("/reservations", map[string]string{"bikeId": b.ID, "stationId": library.ID}, tok)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	var res struct {
		ID string `json:"id"`
	}
	decode(t, w, &res)

	// A second hold is rejected while the first is live.
	w = ts.POST("/reservations", map[string]string{"bikeId": detail.Bikes[1].ID, "stationId": library.ID}, tok)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d: %s", http.StatusBadRequest, w.Code, w.Body.String())
	}

	w = ts.POST("/unlock", map[string]string{"reservationId": res.ID, "qrCode": "QR-" + b.BikeNumber}, tok)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	var tr struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decode(t, w, &tr)
	if tr.Status != "ongoing" {
		t.Errorf("expected ongoing trip, got %s", tr.Status)
	}

	w = ts.POST("/return", map[string]string{"tripId": tr.ID, "endStationId": engineering.ID}, tok)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	var settled struct {
		Trip struct {
			Fare   int64  `json:"fare"`
			Status string `json:"status"`
		} `json:"trip"`
		RemainingBalance int64 `json:"remainingBalance"`
	}
	decode(t, w, &settled)
	if settled.Trip.Status != "completed" {
		t.Errorf("expected completed trip, got %s", settled.Trip.Status)
	}
	if settled.RemainingBalance != 100-settled.Trip.Fare {
		t.Errorf("expected balance %d, got %d", 100-settled.Trip.Fare, settled.RemainingBalance)
	}

	after := stationsByName(t, ts)
	if after["Main Library"].AvailableBikes != 5 {
		t.Errorf("expected 5 bikes at Main Library, got %d", after["Main Library"].AvailableBikes)
	}
	if after["Engineering Block"].AvailableBikes != 5 {
		t.Errorf("expected 5 bikes at Engineering Block, got %d", after["Engineering Block"].AvailableBikes)
	}

	w = ts.GET("/bikes/"+b.ID, "")
	var moved bike
	decode(t, w, &moved)
	if moved.Status != "available" || moved.CurrentStation != engineering.ID {
		t.Errorf("expected bike available at Engineering Block, got %+v", moved)
	}

	w = ts.GET("/trips/history", tok)
	var history []struct {
		ID string `json:"id"`
	}
	decode(t, w, &history)
	if len(history) != 1 || history[0].ID != tr.ID {
		t.Errorf("expected history to contain trip %s, got %+v", tr.ID, history)
	}

	w = ts.GET("/trips/"+tr.ID+"/receipt", tok)
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "application/pdf" {
		t.Errorf("expected PDF receipt, got %d %s", w.Code, w.Header().Get("Content-Type"))
	}
}

func TestAdminStats(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	tok := ts.Login(t, "admin@campus.com", "admin123")
	w := ts.GET("/admin/stats", tok)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var stats struct {
		TotalBikes    int `json:"totalBikes"`
		TotalStations int `json:"totalStations"`
		TotalUsers    int `json:"totalUsers"`
	}
	decode(t, w, &stats)
	if stats.TotalBikes != 10 || stats.TotalStations != 4 || stats.TotalUsers != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	rider := ts.Login(t, "jane@student.com", "password123")
	if w := ts.GET("/admin/stats", rider); w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d for rider, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestStationDeleteRejectedWithDockedBikes(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	tok := ts.Login(t, "admin@campus.com", "admin123")
	library := stationsByName(t, ts)["Main Library"]

	req := ts.GET("/stations/"+library.ID, "")
	if req.Code != http.StatusOK {
		t.Fatalf("expected station to exist, got %d", req.Code)
	}

	w := ts.delete("/stations/"+library.ID, tok)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d: %s", http.StatusBadRequest, w.Code, w.Body.String())
	}
}
