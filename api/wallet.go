package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// IdempotencyHeader lets clients retry a recharge without double-crediting.
const IdempotencyHeader = "Idempotency-Key"

type rechargeRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

func (a *API) rechargeHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req rechargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}

	if key := c.GetHeader(IdempotencyHeader); key != "" && a.idem != nil {
		first, err := a.idem.Claim(c.Request.Context(), userID.String()+":"+key, a.cfg.IdempotencyTTL)
		if err != nil {
			fail(c, "failed to claim idempotency key", err)
			return
		}
		if !first {
			c.JSON(http.StatusConflict, gin.H{"error": "duplicate recharge request"})
			return
		}
	}

	wallet, err := a.rental.Recharge(c.Request.Context(), userID, req.Amount)
	if err != nil {
		fail(c, "failed to recharge wallet", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wallet": wallet})
}
