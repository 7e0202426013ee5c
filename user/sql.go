package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Repository struct {
	db sqlx.ExtContext
}

// NewRepository accepts either a *sqlx.DB or a *sqlx.Tx.
func NewRepository(db sqlx.ExtContext) *Repository {
	return &Repository{
		db: db,
	}
}

const columns = `id, name, email, password_hash, role, wallet, id_card_number, active_trip_id, created_at`

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	return r.get(ctx, getByIDQuery, id)
}

const getByIDQuery = `SELECT ` + columns + ` FROM users WHERE id = $1`

// GetForUpdate locks the user row until the surrounding transaction ends.
func (r *Repository) GetForUpdate(ctx context.Context, id uuid.UUID) (User, error) {
	return r.get(ctx, getForUpdateQuery, id)
}

const getForUpdateQuery = `SELECT ` + columns + ` FROM users WHERE id = $1 FOR UPDATE`

func (r *Repository) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.get(ctx, getByEmailQuery, email)
}

const getByEmailQuery = `SELECT ` + columns + ` FROM users WHERE email = $1`

func (r *Repository) get(ctx context.Context, query string, arg any) (User, error) {
	var u User
	err := sqlx.GetContext(ctx, r.db, &u, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *Repository) Create(ctx context.Context, u *User) error {
	err := sqlx.GetContext(ctx, r.db, u, createQuery,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.Wallet, u.IDCardNumber)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrEmailTaken
	}
	return err
}

const createQuery = `
INSERT INTO users (id, name, email, password_hash, role, wallet, id_card_number, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now())
RETURNING ` + columns

func (r *Repository) List(ctx context.Context) ([]User, error) {
	var users []User
	err := sqlx.SelectContext(ctx, r.db, &users, listQuery)
	return users, err
}

const listQuery = `SELECT ` + columns + ` FROM users ORDER BY created_at ASC`

func (r *Repository) CountByRole(ctx context.Context, role Role) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.db, &n, countByRoleQuery, role)
	return n, err
}

const countByRoleQuery = `SELECT count(*) FROM users WHERE role = $1`

func (r *Repository) SetActiveTrip(ctx context.Context, id uuid.UUID, tripID *uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, setActiveTripQuery, id, tripID)
	return err
}

const setActiveTripQuery = `UPDATE users SET active_trip_id = $2 WHERE id = $1`

// Settle debits a trip fare and clears the active trip, returning the new balance.
func (r *Repository) Settle(ctx context.Context, id uuid.UUID, fare int64) (int64, error) {
	var wallet int64
	err := sqlx.GetContext(ctx, r.db, &wallet, settleQuery, id, fare)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return wallet, err
}

const settleQuery = `UPDATE users SET wallet = wallet - $2, active_trip_id = NULL WHERE id = $1 RETURNING wallet`

func (r *Repository) Recharge(ctx context.Context, id uuid.UUID, amount int64) (int64, error) {
	var wallet int64
	err := sqlx.GetContext(ctx, r.db, &wallet, rechargeQuery, id, amount)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return wallet, err
}

const rechargeQuery = `UPDATE users SET wallet = wallet + $2 WHERE id = $1 RETURNING wallet`

func (r *Repository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users`)
	return err
}
