package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/semanticallynull/ecycle-backend/bike"
)

func (a *API) bikesHandler(c *gin.Context) {
	bikes, err := a.br.GetBikes(c.Request.Context())
	if err != nil {
		fail(c, "failed to list bikes", err)
		return
	}
	c.JSON(http.StatusOK, toBikeResponses(bikes))
}

func (a *API) bikeHandler(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	b, err := a.br.GetBike(c.Request.Context(), id)
	if err != nil {
		fail(c, "failed to get bike", err)
		return
	}
	c.JSON(http.StatusOK, toBikeResponse(b))
}

type createBikeRequest struct {
	BikeNumber     string `json:"bikeNumber" binding:"required"`
	BatteryLevel   *int   `json:"batteryLevel"`
	CurrentStation string `json:"currentStation"`
}

func (a *API) createBikeHandler(c *gin.Context) {
	var req createBikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}

	battery := 100
	if req.BatteryLevel != nil {
		battery = *req.BatteryLevel
	}

	var stationID *uuid.UUID
	if req.CurrentStation != "" {
		id, err := uuid.Parse(req.CurrentStation)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid currentStation"})
			return
		}
		stationID = &id
	}

	b, err := a.rental.CreateBike(c.Request.Context(), req.BikeNumber, battery, stationID)
	if err != nil {
		fail(c, "failed to create bike", err)
		return
	}
	c.JSON(http.StatusCreated, toBikeResponse(b))
}

func (a *API) updateBikeHandler(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req bike.Update
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}

	b, err := a.rental.UpdateBike(c.Request.Context(), id, req)
	if err != nil {
		fail(c, "failed to update bike", err)
		return
	}
	c.JSON(http.StatusOK, toBikeResponse(b))
}

func (a *API) deleteBikeHandler(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := a.rental.DeleteBike(c.Request.Context(), id); err != nil {
		fail(c, "failed to delete bike", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bike deleted"})
}
