package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	adapter "github.com/gwatts/gin-adapter"

	"github.com/semanticallynull/ecycle-backend/internal/token"
	"github.com/semanticallynull/ecycle-backend/user"
)

// Authenticate rejects requests without a valid bearer token with 401.
func Authenticate(v *validator.Validator) gin.HandlerFunc {
	mw := jwtmiddleware.New(v.ValidateToken,
		jwtmiddleware.WithErrorHandler(authError),
	)
	return adapter.Wrap(mw.CheckJWT)
}

func authError(w http.ResponseWriter, r *http.Request, err error) {
	slog.DebugContext(r.Context(), "rejected token", "error", err)

	msg := "Invalid token"
	if errors.Is(err, jwtmiddleware.ErrJWTMissing) {
		msg = "Unauthorized"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func claims(c *gin.Context) (*validator.ValidatedClaims, bool) {
	// The JWT middleware stores the validated token in the request context
	vc, ok := c.Request.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
	return vc, ok
}

// GetUserID extracts the user ID (sub claim) from the JWT token in the Gin context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	vc, ok := claims(c)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(vc.RegisteredClaims.Subject)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func GetRole(c *gin.Context) (user.Role, bool) {
	vc, ok := claims(c)
	if !ok {
		return "", false
	}
	cc, ok := vc.CustomClaims.(*token.CustomClaims)
	if !ok {
		return "", false
	}
	return cc.Role, true
}

// RequireRole must run after Authenticate.
func RequireRole(role user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		got, ok := GetRole(c)
		if !ok || got != role {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
