// Package seed resets the database to a small demo campus.
package seed

import (
	"context"
	"math/rand"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/semanticallynull/ecycle-backend/bike"
	"github.com/semanticallynull/ecycle-backend/reservation"
	"github.com/semanticallynull/ecycle-backend/station"
	"github.com/semanticallynull/ecycle-backend/trip"
	"github.com/semanticallynull/ecycle-backend/user"
)

type Account struct {
	Name         string
	Email        string
	Password     string
	Role         user.Role
	Wallet       int64
	IDCardNumber string
}

type Site struct {
	Name       string
	Lat, Lng   float64
	TotalDocks int
}

var Accounts = []Account{
	{Name: "Admin User", Email: "admin@campus.com", Password: "admin123", Role: user.RoleAdmin, Wallet: 1000},
	{Name: "John Doe", Email: "john@student.com", Password: "password123", Role: user.RoleUser, Wallet: 100, IDCardNumber: "STU001"},
	{Name: "Jane Smith", Email: "jane@student.com", Password: "password123", Role: user.RoleUser, Wallet: 150, IDCardNumber: "STU002"},
}

var Sites = []Site{
	{Name: "Main Library", Lat: 28.5449, Lng: 77.1926, TotalDocks: 10},
	{Name: "Engineering Block", Lat: 28.5460, Lng: 77.1936, TotalDocks: 8},
	{Name: "Student Center", Lat: 28.5440, Lng: 77.1916, TotalDocks: 12},
	{Name: "Sports Complex", Lat: 28.5470, Lng: 77.1946, TotalDocks: 6},
}

var BikeNumbers = []string{"EC001", "EC002", "EC003", "EC004", "EC005", "EC006", "EC007", "EC008", "EC009", "EC010"}

// Placement fills each site to 60% of its docks, in order, until bikes run out.
func Placement(sites []Site, bikes int) []int {
	out := make([]int, len(sites))
	for i, s := range sites {
		n := min(s.TotalDocks*6/10, bikes)
		out[i] = n
		bikes -= n
	}
	return out
}

type Summary struct {
	Users    int
	Stations int
	Bikes    int
}

// Run wipes every table and inserts the demo data in one transaction.
func Run(ctx context.Context, db *sqlx.DB) (Summary, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return Summary{}, err
	}
	defer tx.Rollback()

	users := user.NewRepository(tx)
	stations := station.NewRepository(tx)
	bikes := bike.NewRepository(tx)

	wipe := []func(context.Context) error{
		reservation.NewRepository(tx).DeleteAll,
		trip.NewRepository(tx).DeleteAll,
		bikes.DeleteAll,
		stations.DeleteAll,
		users.DeleteAll,
	}
	for _, del := range wipe {
		if err := del(ctx); err != nil {
			return Summary{}, err
		}
	}

	var sum Summary
	for _, a := range Accounts {
		hash, err := user.HashPassword(a.Password)
		if err != nil {
			return Summary{}, err
		}
		u := user.User{
			ID:           uuid.New(),
			Name:         a.Name,
			Email:        a.Email,
			PasswordHash: hash,
			Role:         a.Role,
			Wallet:       a.Wallet,
		}
		if a.IDCardNumber != "" {
			u.IDCardNumber = &a.IDCardNumber
		}
		if err := users.Create(ctx, &u); err != nil {
			return Summary{}, err
		}
		sum.Users++
	}

	next := 0
	for i, n := range Placement(Sites, len(BikeNumbers)) {
		site := Sites[i]
		st, err := station.New(site.Name, site.Lat, site.Lng, site.TotalDocks)
		if err != nil {
			return Summary{}, err
		}
		if err := stations.Create(ctx, &st); err != nil {
			return Summary{}, err
		}
		sum.Stations++

		for k := 0; k < n; k++ {
			b, err := bike.New(BikeNumbers[next], rand.Intn(30)+70, &st.ID)
			if err != nil {
				return Summary{}, err
			}
			if err := bikes.Create(ctx, &b); err != nil {
				return Summary{}, err
			}
			if _, err := stations.DockBike(ctx, st.ID, b.ID); err != nil {
				return Summary{}, err
			}
			next++
			sum.Bikes++
		}
	}

	return sum, tx.Commit()
}
