package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type reserveRequest struct {
	BikeID    string `json:"bikeId" binding:"required"`
	StationID string `json:"stationId" binding:"required"`
}

func (a *API) reserveHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req reserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}
	bikeID, err := uuid.Parse(req.BikeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bikeId"})
		return
	}
	stationID, err := uuid.Parse(req.StationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stationId"})
		return
	}

	res, err := a.rental.Reserve(c.Request.Context(), userID, bikeID, stationID)
	if err != nil {
		fail(c, "failed to reserve bike", err)
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(res))
}

type activeReservationResponse struct {
	Reservation *reservationResponse `json:"reservation"`
	Bike        *bikeResponse        `json:"bike,omitempty"`
	Station     *stationResponse     `json:"station,omitempty"`
}

func (a *API) activeReservationHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	res, err := a.rr.ActiveForUser(ctx, userID, a.now())
	if err != nil {
		fail(c, "failed to get active reservation", err)
		return
	}
	if res == nil {
		c.JSON(http.StatusOK, activeReservationResponse{})
		return
	}

	b, err := a.br.GetBike(ctx, res.BikeID)
	if err != nil {
		fail(c, "failed to get reserved bike", err)
		return
	}
	s, err := a.sr.GetStation(ctx, res.StationID)
	if err != nil {
		fail(c, "failed to get reservation station", err)
		return
	}

	rr := toReservationResponse(*res)
	br := toBikeResponse(b)
	sr := toStationResponse(s)
	c.JSON(http.StatusOK, activeReservationResponse{Reservation: &rr, Bike: &br, Station: &sr})
}
