package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lucasmonteiro/agendei/internal/appointments"
	"github.com/lucasmonteiro/agendei/internal/booking"
	"github.com/lucasmonteiro/agendei/internal/http/handlers"
	httpmiddleware "github.com/lucasmonteiro/agendei/internal/http/middleware"
	"github.com/lucasmonteiro/agendei/internal/session"
	"github.com/lucasmonteiro/agendei/internal/slots"
	"github.com/lucasmonteiro/agendei/pkg/logging"
)

type stubBackend struct{}

func (stubBackend) Create(_ context.Context, req appointments.CreateRequest) (*appointments.Appointment, error) {
	return &appointments.Appointment{ID: "a1", Date: req.Date, Time: req.Time, Client: req.Client}, nil
}

func (stubBackend) ByDate(context.Context, string) (*appointments.Grouped, error) {
	return &appointments.Grouped{}, nil
}

func (stubBackend) AvailableSlots(context.Context, string) (*slots.Grouped, error) {
	g := slots.DefaultSlots()
	return &g, nil
}

func (stubBackend) Delete(context.Context, string) error { return nil }

func (stubBackend) Health(context.Context) error { return nil }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := logging.Default()
	backend := stubBackend{}
	deps := booking.Deps{
		API:    backend,
		Logger: logger,
		Now: func() time.Time {
			return time.Date(2025, time.June, 15, 8, 0, 0, 0, time.Local)
		},
	}
	sessions := session.NewManager(session.NewMemoryStore(time.Hour), deps, logger)

	page, err := handlers.NewPageHandler(sessions, logger)
	if err != nil {
		t.Fatalf("failed to build page handler: %v", err)
	}

	cfg := &Config{
		Logger:            logger,
		Page:              page,
		Booking:           handlers.NewBookingHandler(sessions, logger),
		Agenda:            handlers.NewAgendaHandler(sessions, logger),
		Health:            handlers.NewHealthHandler(backend, logger),
		SessionMiddleware: httpmiddleware.Session(time.Hour),
	}

	return New(cfg)
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", resp["status"])
	}

	if len(rr.Result().Cookies()) != 0 {
		t.Errorf("health checks must not mint session cookies")
	}
}

func TestRouterPageSetsSessionCookie(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != httpmiddleware.SessionCookieName {
		t.Fatalf("expected a session cookie, got %v", cookies)
	}
}

func TestRouterBookingEndpoints(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/booking/", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var view booking.FormView
	if err := json.NewDecoder(rr.Body).Decode(&view); err != nil {
		t.Fatalf("failed to decode form view: %v", err)
	}
	if view.SelectedDate != "2025-06-15" {
		t.Errorf("expected today as selected date, got %s", view.SelectedDate)
	}

	body, _ := json.Marshal(map[string]int{"day": 20})
	req = httptest.NewRequest(http.MethodPost, "/api/booking/pick-day", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
}

func TestRouterAgendaDeleteRoute(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/agenda/appointments/a1", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
}

func TestRouterUnknownRouteIs404(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}
