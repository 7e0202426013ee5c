package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/semanticallynull/ecycle-backend/user"
)

func (a *API) usersHandler(c *gin.Context) {
	users, err := a.ur.List(c.Request.Context())
	if err != nil {
		fail(c, "failed to list users", err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResponse(u))
	}
	c.JSON(http.StatusOK, resp)
}

type statsResponse struct {
	TotalBikes    int   `json:"totalBikes"`
	TotalStations int   `json:"totalStations"`
	TotalUsers    int   `json:"totalUsers"`
	ActiveTrips   int   `json:"activeTrips"`
	TotalRevenue  int64 `json:"totalRevenue"`
}

func (a *API) statsHandler(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		s   statsResponse
		err error
	)

	if s.TotalBikes, err = a.br.Count(ctx); err != nil {
		fail(c, "failed to count bikes", err)
		return
	}
	if s.TotalStations, err = a.sr.Count(ctx); err != nil {
		fail(c, "failed to count stations", err)
		return
	}
	if s.TotalUsers, err = a.ur.CountByRole(ctx, user.RoleUser); err != nil {
		fail(c, "failed to count users", err)
		return
	}
	if s.ActiveTrips, err = a.tr.CountOngoing(ctx); err != nil {
		fail(c, "failed to count active trips", err)
		return
	}
	if s.TotalRevenue, err = a.tr.Revenue(ctx); err != nil {
		fail(c, "failed to sum revenue", err)
		return
	}

	c.JSON(http.StatusOK, s)
}
