package acceptance

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/semanticallynull/ecycle-backend/api"
	"github.com/semanticallynull/ecycle-backend/internal/idempotency"
	"github.com/semanticallynull/ecycle-backend/internal/lock"
	"github.com/semanticallynull/ecycle-backend/internal/o11y"
	"github.com/semanticallynull/ecycle-backend/internal/seed"
	"github.com/semanticallynull/ecycle-backend/internal/token"
	"github.com/semanticallynull/ecycle-backend/rental"
)

type TestServer struct {
	DB     *sqlx.DB
	Router *gin.Engine
}

// NewTestServer migrates and seeds the database at DATABASE_URL and serves
// the real router over it. Tests are skipped when DATABASE_URL is unset.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	gin.SetMode(gin.TestMode)

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := sqlx.Connect("pgx", dbURL)
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("failed to set goose dialect: %v", err)
	}
	if err := goose.Up(db.DB, "../migrations"); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if _, err := seed.Run(context.Background(), db); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	cfg := token.Config{Secret: "acceptance-secret", Issuer: "ecycle", Audience: "ecycle-api"}
	issuer, err := token.NewIssuer(cfg)
	if err != nil {
		t.Fatalf("failed to build issuer: %v", err)
	}
	v, err := token.NewValidator(cfg)
	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}

	obs := &o11y.Observability{
		Logger:   slog.New(slog.NewJSONHandler(io.Discard, nil)),
		Registry: prometheus.NewRegistry(),
	}
	svc := rental.NewService(db, lock.NewStubVerifier())
	a := api.New(db, svc, issuer, v, idempotency.NewMemory(), obs, api.Config{})

	return &TestServer{DB: db, Router: a.Router()}
}

func (ts *TestServer) Close() {
	ts.DB.Close()
}

func (ts *TestServer) GET(path, tok string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func (ts *TestServer) POST(path string, body interface{}, tok string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

// Login returns a bearer token for one of the seeded accounts.
func (ts *TestServer) Login(t *testing.T, email, password string) string {
	t.Helper()
	w := ts.POST("/auth/login", map[string]string{"email": email, "password": password}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login as %s failed with %d: %s", email, w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	return resp.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode %s: %v", w.Body.String(), err)
	}
}

func (ts *TestServer) delete(path, tok string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodDelete, path, nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}
