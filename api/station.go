package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/semanticallynull/ecycle-backend/bike"
	"github.com/semanticallynull/ecycle-backend/station"
)

func (a *API) stationsHandler(c *gin.Context) {
	stations, err := a.sr.GetStations(c.Request.Context())
	if err != nil {
		fail(c, "failed to list stations", err)
		return
	}

	resp := make([]stationResponse, 0, len(stations))
	for _, s := range stations {
		resp = append(resp, toStationResponse(s))
	}
	c.JSON(http.StatusOK, resp)
}

type stationDetailResponse struct {
	Station stationResponse `json:"station"`
	Bikes   []bikeResponse  `json:"bikes"`
}

func (a *API) stationHandler(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	s, err := a.sr.GetStation(c.Request.Context(), id)
	if err != nil {
		fail(c, "failed to get station", err)
		return
	}

	bikes, err := a.br.GetByStation(c.Request.Context(), id, bike.StatusAvailable, bike.StatusReserved)
	if err != nil {
		fail(c, "failed to list station bikes", err)
		return
	}

	c.JSON(http.StatusOK, stationDetailResponse{
		Station: toStationResponse(s),
		Bikes:   toBikeResponses(bikes),
	})
}

type createStationRequest struct {
	Name       string            `json:"name" binding:"required"`
	Location   *station.Location `json:"location" binding:"required"`
	TotalDocks int               `json:"totalDocks" binding:"required,gt=0"`
}

func (a *API) createStationHandler(c *gin.Context) {
	var req createStationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}

	s, err := a.rental.CreateStation(c.Request.Context(), req.Name, *req.Location, req.TotalDocks)
	if err != nil {
		fail(c, "failed to create station", err)
		return
	}
	c.JSON(http.StatusCreated, toStationResponse(s))
}

func (a *API) updateStationHandler(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req station.Update
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		badInput(c, err)
		return
	}

	if _, err := a.sr.Update(c.Request.Context(), id, req); err != nil {
		fail(c, "failed to update station", err)
		return
	}

	s, err := a.sr.GetStation(c.Request.Context(), id)
	if err != nil {
		fail(c, "failed to get station", err)
		return
	}
	c.JSON(http.StatusOK, toStationResponse(s))
}

func (a *API) deleteStationHandler(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := a.rental.DeleteStation(c.Request.Context(), id); err != nil {
		fail(c, "failed to delete station", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Station deleted"})
}
