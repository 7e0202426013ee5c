package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/semanticallynull/ecycle-backend/user"
)

type registerRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required"`
	IDCardNumber string `json:"idCardNumber"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (a *API) registerHandler(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}

	hash, err := user.HashPassword(req.Password)
	if err != nil {
		fail(c, "failed to hash password", err)
		return
	}

	u := user.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Role:         user.RoleUser,
		Wallet:       user.StartingWallet,
	}
	if card := strings.TrimSpace(req.IDCardNumber); card != "" {
		u.IDCardNumber = &card
	}

	if err := a.ur.Create(c.Request.Context(), &u); err != nil {
		fail(c, "failed to create user", err)
		return
	}

	a.respondWithToken(c, u)
}

func (a *API) loginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}

	u, err := a.ur.GetByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, user.ErrNotFound) || (err == nil && !u.CheckPassword(req.Password)) {
		fail(c, "login rejected", user.ErrInvalidCredentials)
		return
	}
	if err != nil {
		fail(c, "failed to look up user", err)
		return
	}

	a.respondWithToken(c, u)
}

func (a *API) respondWithToken(c *gin.Context, u user.User) {
	tok, err := a.tokens.Issue(u)
	if err != nil {
		fail(c, "failed to issue token", err)
		return
	}
	c.JSON(http.StatusOK, authResponse{Token: tok, User: toUserResponse(u)})
}

func (a *API) meHandler(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	u, err := a.ur.GetByID(c.Request.Context(), userID)
	if err != nil {
		fail(c, "failed to get user", err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(u))
}
