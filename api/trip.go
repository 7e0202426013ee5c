package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/semanticallynull/ecycle-backend/internal/receipt"
	"github.com/semanticallynull/ecycle-backend/rental"
	"github.com/semanticallynull/ecycle-backend/station"
	"github.com/semanticallynull/ecycle-backend/trip"
)

type unlockRequest struct {
	ReservationID string `json:"reservationId" binding:"required"`
	QRCode        string `json:"qrCode"`
}

func (a *API) unlockHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req unlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}
	reservationID, err := uuid.Parse(req.ReservationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reservationId"})
		return
	}

	t, err := a.rental.Unlock(c.Request.Context(), userID, reservationID, req.QRCode)
	if err != nil {
		fail(c, "failed to unlock bike", err)
		return
	}
	c.JSON(http.StatusOK, toTripResponse(t))
}

type returnRequest struct {
	TripID       string `json:"tripId" binding:"required"`
	EndStationID string `json:"endStationId" binding:"required"`
}

type returnResponse struct {
	Trip             tripResponse `json:"trip"`
	RemainingBalance int64        `json:"remainingBalance"`
}

func (a *API) returnHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req returnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}
	tripID, err := uuid.Parse(req.TripID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tripId"})
		return
	}
	endStationID, err := uuid.Parse(req.EndStationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid endStationId"})
		return
	}

	out, err := a.rental.Return(c.Request.Context(), userID, tripID, endStationID)
	if err != nil {
		fail(c, "failed to return bike", err)
		return
	}
	c.JSON(http.StatusOK, returnResponse{
		Trip:             toTripResponse(out.Trip),
		RemainingBalance: out.RemainingBalance,
	})
}

type activeTripResponse struct {
	Trip         *tripResponse    `json:"trip"`
	Bike         *bikeResponse    `json:"bike,omitempty"`
	StartStation *stationResponse `json:"startStation,omitempty"`
}

func (a *API) activeTripHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	t, err := a.tr.OngoingForUser(ctx, userID)
	if err != nil {
		fail(c, "failed to get active trip", err)
		return
	}
	if t == nil {
		c.JSON(http.StatusOK, activeTripResponse{})
		return
	}

	b, err := a.br.GetBike(ctx, t.BikeID)
	if err != nil {
		fail(c, "failed to get trip bike", err)
		return
	}
	s, err := a.sr.GetStation(ctx, t.StartStationID)
	if err != nil {
		fail(c, "failed to get trip start station", err)
		return
	}

	tr := toTripResponse(*t)
	br := toBikeResponse(b)
	sr := toStationResponse(s)
	c.JSON(http.StatusOK, activeTripResponse{Trip: &tr, Bike: &br, StartStation: &sr})
}

func (a *API) tripHistoryHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	trips, err := a.tr.HistoryForUser(c.Request.Context(), userID)
	if err != nil {
		fail(c, "failed to get trip history", err)
		return
	}
	c.JSON(http.StatusOK, toTripResponses(trips))
}

func (a *API) allTripsHandler(c *gin.Context) {
	trips, err := a.tr.All(c.Request.Context())
	if err != nil {
		fail(c, "failed to list trips", err)
		return
	}
	c.JSON(http.StatusOK, toTripResponses(trips))
}

func (a *API) receiptHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	t, err := a.tr.GetByID(ctx, id)
	if err == nil && t.UserID != userID {
		err = trip.ErrNotFound
	}
	if err != nil {
		fail(c, "failed to get trip", err)
		return
	}
	if t.Ongoing() || t.EndStationID == nil {
		fail(c, "trip still ongoing", receipt.ErrTripNotCompleted)
		return
	}

	u, err := a.ur.GetByID(ctx, userID)
	if err != nil {
		fail(c, "failed to get rider", err)
		return
	}
	b, err := a.br.GetBike(ctx, t.BikeID)
	if err != nil {
		fail(c, "failed to get trip bike", err)
		return
	}
	from, err := a.stationName(c, t.StartStationID)
	if err != nil {
		fail(c, "failed to get start station", err)
		return
	}
	to, err := a.stationName(c, *t.EndStationID)
	if err != nil {
		fail(c, "failed to get end station", err)
		return
	}

	fare := rental.ComputeFare(t.StartTime, t.EndTime.Time)
	var buf bytes.Buffer
	err = receipt.Render(&buf, receipt.Receipt{
		TripID:       t.ID.String(),
		RiderName:    u.Name,
		RiderEmail:   u.Email,
		BikeNumber:   b.BikeNumber,
		StartStation: from,
		EndStation:   to,
		StartTime:    t.StartTime,
		EndTime:      t.EndTime.Time,
		Minutes:      fare.DurationMinutes,
		DistanceKm:   t.DistanceKm,
		BaseFare:     rental.BaseFare,
		PerMinute:    rental.PerMinute,
		Fare:         t.Fare,
	})
	if err != nil {
		fail(c, "failed to render receipt", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="receipt-%s.pdf"`, t.ID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// stationName tolerates stations removed after the trip ended.
func (a *API) stationName(c *gin.Context, id uuid.UUID) (string, error) {
	s, err := a.sr.GetStation(c.Request.Context(), id)
	if errors.Is(err, station.ErrNotFound) {
		return "(removed station)", nil
	}
	if err != nil {
		return "", err
	}
	return s.Name, nil
}
