package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/semanticallynull/ecycle-backend/bike"
	"github.com/semanticallynull/ecycle-backend/internal/lock"
	"github.com/semanticallynull/ecycle-backend/internal/middleware"
	"github.com/semanticallynull/ecycle-backend/internal/receipt"
	"github.com/semanticallynull/ecycle-backend/rental"
	"github.com/semanticallynull/ecycle-backend/reservation"
	"github.com/semanticallynull/ecycle-backend/station"
	"github.com/semanticallynull/ecycle-backend/trip"
	"github.com/semanticallynull/ecycle-backend/user"
)

var notFound = []error{
	user.ErrNotFound,
	station.ErrNotFound,
	bike.ErrNotFound,
	reservation.ErrNotFound,
	trip.ErrNotFound,
}

var badRequest = []error{
	rental.ErrAlreadyReserved,
	rental.ErrAlreadyRiding,
	rental.ErrBikeNotAtStation,
	rental.ErrReservationExpired,
	rental.ErrInsufficientFunds,
	rental.ErrTripNotOngoing,
	rental.ErrInvalidAmount,
	bike.ErrNotAvailable,
	bike.ErrInUse,
	bike.ErrNumberTaken,
	bike.ErrInvalid,
	station.ErrFull,
	station.ErrNotEmpty,
	station.ErrInvalid,
	lock.ErrInvalidCode,
	user.ErrEmailTaken,
	receipt.ErrTripNotCompleted,
}

func statusFor(err error) int {
	if errors.Is(err, user.ErrInvalidCredentials) {
		return http.StatusUnauthorized
	}
	for _, target := range notFound {
		if errors.Is(err, target) {
			return http.StatusNotFound
		}
	}
	for _, target := range badRequest {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// fail writes err as an {"error": ...} body with the status it maps to.
func fail(c *gin.Context, msg string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		middleware.GetLogger(c).ErrorContext(c.Request.Context(), msg, "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badInput(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func paramID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

// currentUser returns the authenticated caller's id. Authenticate guarantees it on authed routes.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return id, ok
}
