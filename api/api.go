package api

import (
	"net/http"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/semanticallynull/ecycle-backend/bike"
	"github.com/semanticallynull/ecycle-backend/internal/idempotency"
	"github.com/semanticallynull/ecycle-backend/internal/middleware"
	"github.com/semanticallynull/ecycle-backend/internal/o11y"
	"github.com/semanticallynull/ecycle-backend/internal/token"
	"github.com/semanticallynull/ecycle-backend/rental"
	"github.com/semanticallynull/ecycle-backend/reservation"
	"github.com/semanticallynull/ecycle-backend/station"
	"github.com/semanticallynull/ecycle-backend/trip"
	"github.com/semanticallynull/ecycle-backend/user"
)

type Config struct {
	MetricsUsername string
	MetricsPassword string
	// IdempotencyTTL is how long a recharge Idempotency-Key is remembered.
	IdempotencyTTL time.Duration
}

type API struct {
	r      *gin.Engine
	ur     *user.Repository
	sr     *station.Repository
	br     *bike.Repository
	rr     *reservation.Repository
	tr     *trip.Repository
	rental *rental.Service
	tokens *token.Issuer
	idem   idempotency.Store
	cfg    Config
	now    func() time.Time
}

// New wires every route. idem may be nil, in which case Idempotency-Key
// headers are ignored.
func New(
	db *sqlx.DB,
	svc *rental.Service,
	tokens *token.Issuer,
	v *validator.Validator,
	idem idempotency.Store,
	obs *o11y.Observability,
	cfg Config,
) *API {
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = 24 * time.Hour
	}

	a := &API{
		r:      gin.New(),
		ur:     user.NewRepository(db),
		sr:     station.NewRepository(db),
		br:     bike.NewRepository(db),
		rr:     reservation.NewRepository(db),
		tr:     trip.NewRepository(db),
		rental: svc,
		tokens: tokens,
		idem:   idem,
		cfg:    cfg,
		now:    time.Now,
	}

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key"}
	corsCfg.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}

	a.r.Use(
		gin.Recovery(),
		cors.New(corsCfg),
		middleware.Tracing("ecycle-api"),
		middleware.Logging(obs.Logger),
		middleware.Metrics(obs.Registry),
	)

	a.r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	metrics := gin.WrapH(promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{}))
	if cfg.MetricsUsername != "" {
		a.r.GET("/metrics", gin.BasicAuth(gin.Accounts{cfg.MetricsUsername: cfg.MetricsPassword}), metrics)
	} else {
		a.r.GET("/metrics", metrics)
	}

	a.r.POST("/auth/register", a.registerHandler)
	a.r.POST("/auth/login", a.loginHandler)
	a.r.GET("/stations", a.stationsHandler)
	a.r.GET("/stations/:id", a.stationHandler)
	a.r.GET("/bikes", a.bikesHandler)
	a.r.GET("/bikes/:id", a.bikeHandler)

	authed := a.r.Group("/", middleware.Authenticate(v))
	authed.GET("/auth/me", a.meHandler)
	authed.POST("/reservations", a.reserveHandler)
	authed.GET("/reservations/active", a.activeReservationHandler)
	authed.POST("/unlock", a.unlockHandler)
	authed.POST("/return", a.returnHandler)
	authed.POST("/wallet/recharge", a.rechargeHandler)
	authed.GET("/trips/active", a.activeTripHandler)
	authed.GET("/trips/history", a.tripHistoryHandler)
	authed.GET("/trips/:id/receipt", a.receiptHandler)

	admin := authed.Group("/", middleware.RequireRole(user.RoleAdmin))
	admin.GET("/trips", a.allTripsHandler)
	admin.GET("/users", a.usersHandler)
	admin.GET("/admin/stats", a.statsHandler)
	admin.POST("/stations", a.createStationHandler)
	admin.PATCH("/stations/:id", a.updateStationHandler)
	admin.DELETE("/stations/:id", a.deleteStationHandler)
	admin.POST("/bikes", a.createBikeHandler)
	admin.PATCH("/bikes/:id", a.updateBikeHandler)
	admin.DELETE("/bikes/:id", a.deleteBikeHandler)

	return a
}

func (a *API) Router() *gin.Engine {
	return a.r
}
