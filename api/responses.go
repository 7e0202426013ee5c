package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/semanticallynull/ecycle-backend/bike"
	"github.com/semanticallynull/ecycle-backend/reservation"
	"github.com/semanticallynull/ecycle-backend/station"
	"github.com/semanticallynull/ecycle-backend/trip"
	"github.com/semanticallynull/ecycle-backend/user"
)

type userResponse struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         user.Role  `json:"role"`
	Wallet       int64      `json:"wallet"`
	IDCardNumber *string    `json:"idCardNumber"`
	ActiveTrip   *uuid.UUID `json:"activeTrip"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func toUserResponse(u user.User) userResponse {
	return userResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		Wallet:       u.Wallet,
		IDCardNumber: u.IDCardNumber,
		ActiveTrip:   u.ActiveTripID,
		CreatedAt:    u.CreatedAt,
	}
}

type dockResponse struct {
	DockID string     `json:"dockId"`
	BikeID *uuid.UUID `json:"bikeId"`
}

type stationResponse struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	Location       station.Location `json:"location"`
	TotalDocks     int              `json:"totalDocks"`
	AvailableBikes int              `json:"availableBikes"`
	Docks          []dockResponse   `json:"docks"`
	CreatedAt      time.Time        `json:"createdAt"`
}

func toStationResponse(s station.Station) stationResponse {
	docks := make([]dockResponse, 0, len(s.Docks))
	for _, d := range s.Docks {
		docks = append(docks, dockResponse{DockID: d.DockID, BikeID: d.BikeID})
	}
	return stationResponse{
		ID:             s.ID,
		Name:           s.Name,
		Location:       station.Location{Lat: s.Lat(), Lng: s.Lng()},
		TotalDocks:     s.TotalDocks,
		AvailableBikes: s.AvailableBikes,
		Docks:          docks,
		CreatedAt:      s.CreatedAt,
	}
}

type bikeResponse struct {
	ID             uuid.UUID   `json:"id"`
	BikeNumber     string      `json:"bikeNumber"`
	BatteryLevel   int         `json:"batteryLevel"`
	Status         bike.Status `json:"status"`
	CurrentStation *uuid.UUID  `json:"currentStation"`
	CreatedAt      time.Time   `json:"createdAt"`
}

func toBikeResponse(b bike.Bike) bikeResponse {
	return bikeResponse{
		ID:             b.ID,
		BikeNumber:     b.BikeNumber,
		BatteryLevel:   b.BatteryLevel,
		Status:         b.Status,
		CurrentStation: b.StationID,
		CreatedAt:      b.CreatedAt,
	}
}

func toBikeResponses(bikes []bike.Bike) []bikeResponse {
	out := make([]bikeResponse, 0, len(bikes))
	for _, b := range bikes {
		out = append(out, toBikeResponse(b))
	}
	return out
}

type reservationResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	BikeID    uuid.UUID `json:"bikeId"`
	StationID uuid.UUID `json:"stationId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func toReservationResponse(r reservation.Reservation) reservationResponse {
	return reservationResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		BikeID:    r.BikeID,
		StationID: r.StationID,
		CreatedAt: r.CreatedAt,
		ExpiresAt: r.ExpiresAt,
	}
}

type tripResponse struct {
	ID           uuid.UUID   `json:"id"`
	UserID       uuid.UUID   `json:"userId"`
	BikeID       uuid.UUID   `json:"bikeId"`
	StartStation uuid.UUID   `json:"startStation"`
	EndStation   *uuid.UUID  `json:"endStation"`
	StartTime    time.Time   `json:"startTime"`
	EndTime      *time.Time  `json:"endTime"`
	Distance     float64     `json:"distance"`
	Fare         int64       `json:"fare"`
	Status       trip.Status `json:"status"`
}

func toTripResponse(t trip.Trip) tripResponse {
	tr := tripResponse{
		ID:           t.ID,
		UserID:       t.UserID,
		BikeID:       t.BikeID,
		StartStation: t.StartStationID,
		EndStation:   t.EndStationID,
		StartTime:    t.StartTime,
		Distance:     t.DistanceKm,
		Fare:         t.Fare,
		Status:       t.Status,
	}
	if t.EndTime.Valid {
		tr.EndTime = &t.EndTime.Time
	}
	return tr
}

func toTripResponses(trips []trip.Trip) []tripResponse {
	out := make([]tripResponse, 0, len(trips))
	for _, t := range trips {
		out = append(out, toTripResponse(t))
	}
	return out
}
