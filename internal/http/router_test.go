package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	intconfig "busbooking/internal/config"
	"busbooking/internal/domain/models"
	"busbooking/internal/services"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

func testEnv() intconfig.Env {
	return intconfig.Env{
		AppAddr:         ":0",
		JWTSecret:       "test-secret",
		SessionTTL:      time.Hour,
		FederatedSecret: "gateway-secret",
		FederatedIssuer: "auth-gateway",
	}
}

func TestUnauthenticatedBookingTouchesNoLedger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	r := NewRouter(testEnv())

	body := `{"bus":"Redline Express","route":"Delhi → Mumbai","price":1500,"seats":["A1"],"passengers":[{"name":"Asha","age":30}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "/login") {
		t.Fatalf("expected redirect hint, got %s", w.Body.String())
	}
	// The ledger must not have been touched.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected DB activity: %v", err)
	}
}

func TestStalePrincipalTreatedAsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	env := testEnv()
	r := NewRouter(env)

	// Valid token, but the backing user row is gone.
	sessions := services.SessionService{Secret: []byte(env.JWTSecret), TTL: env.SessionTTL}
	token, err := sessions.Mint(models.User{ID: 99, Username: "deleted@example.com", Role: "user"})
	if err != nil {
		t.Fatalf("mint error: %v", err)
	}

	mock.ExpectQuery("SELECT id, username").WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "role", "created_at"}))

	req := httptest.NewRequest(http.MethodGet, "/api/seats?bus=Redline+Express&route=Delhi+%E2%86%92+Mumbai", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for stale principal, got %d: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDBCheckPingsBeforeQuerying(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	r := NewRouter(testEnv())

	mock.ExpectPing()
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	req := httptest.NewRequest(http.MethodGet, "/api/db-check", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "users_in_db") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}

	// A dead connection is reported before any query runs.
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	req = httptest.NewRequest(http.MethodGet, "/api/db-check", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 on dead connection, got %d: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSeatLookupWithFreshPrincipal(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intconfig.DB = db

	env := testEnv()
	r := NewRouter(env)

	sessions := services.SessionService{Secret: []byte(env.JWTSecret), TTL: env.SessionTTL}
	token, err := sessions.Mint(models.User{ID: 3, Username: "u1@example.com", Role: "user"})
	if err != nil {
		t.Fatalf("mint error: %v", err)
	}

	mock.ExpectQuery("SELECT id, username").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "role", "created_at"}).
			AddRow(3, "u1@example.com", "hash", "user", time.Now()))
	mock.ExpectQuery("SELECT seat_code").
		WillReturnRows(sqlmock.NewRows([]string{"seat_code"}).AddRow("A1").AddRow("A2"))

	req := httptest.NewRequest(http.MethodGet, "/api/seats?bus=Redline+Express&route=Delhi+%E2%86%92+Mumbai", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"A1"`) || !strings.Contains(w.Body.String(), `"A2"`) {
		t.Fatalf("reserved seats missing from response: %s", w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
