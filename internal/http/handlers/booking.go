package handlers

import (
	"net/http"

	"github.com/lucasmonteiro/agendei/internal/booking"
	"github.com/lucasmonteiro/agendei/internal/calendar"
	"github.com/lucasmonteiro/agendei/internal/http/middleware"
	"github.com/lucasmonteiro/agendei/internal/session"
	"github.com/lucasmonteiro/agendei/pkg/logging"
)

// BookingHandler exposes the booking form over HTTP. Every mutation
// returns the full form view so the page swaps state wholesale and never
// diverges from the server.
type BookingHandler struct {
	sessions *session.Manager
	logger   *logging.Logger
}

// NewBookingHandler creates a new booking handler.
func NewBookingHandler(sessions *session.Manager, logger *logging.Logger) *BookingHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingHandler{sessions: sessions, logger: logger}
}

func (h *BookingHandler) form(r *http.Request) (*booking.Session, string) {
	id := middleware.SessionID(r.Context())
	return h.sessions.Acquire(r.Context(), id).Form, id
}

// State handles GET /api/booking
func (h *BookingHandler) State(w http.ResponseWriter, r *http.Request) {
	form, id := h.form(r)
	form.EnsureSlots(r.Context())
	h.sessions.Persist(r.Context(), id)
	writeJSON(w, http.StatusOK, form.View())
}

// Refresh handles POST /api/booking/refresh
func (h *BookingHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	form, id := h.form(r)
	form.Refresh(r.Context())
	h.sessions.Persist(r.Context(), id)
	writeJSON(w, http.StatusOK, form.View())
}

// PickDay handles POST /api/booking/pick-day
func (h *BookingHandler) PickDay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Day int `json:"day"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	form, id := h.form(r)
	if err := form.PickDay(r.Context(), req.Day); err != nil {
		writeError(w, statusFor(err), errorMessage(err))
		return
	}
	h.sessions.Persist(r.Context(), id)
	writeJSON(w, http.StatusOK, form.View())
}

// Navigate handles POST /api/booking/navigate
func (h *BookingHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Direction string `json:"direction"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	dir := calendar.Direction(req.Direction)
	if dir != calendar.DirectionPrev && dir != calendar.DirectionNext {
		http.Error(w, "invalid direction", http.StatusBadRequest)
		return
	}

	form, id := h.form(r)
	form.Navigate(dir)
	h.sessions.Persist(r.Context(), id)
	writeJSON(w, http.StatusOK, form.View())
}

// OpenPicker handles POST /api/booking/picker/open
func (h *BookingHandler) OpenPicker(w http.ResponseWriter, r *http.Request) {
	form, id := h.form(r)
	form.OpenPicker()
	h.sessions.Persist(r.Context(), id)
	writeJSON(w, http.StatusOK, form.View())
}

// ClosePicker handles POST /api/booking/picker/close
func (h *BookingHandler) ClosePicker(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Trigger string `json:"trigger"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	form, id := h.form(r)
	form.ClosePicker(booking.CloseTrigger(req.Trigger))
	h.sessions.Persist(r.Context(), id)
	writeJSON(w, http.StatusOK, form.View())
}

// SelectTime handles POST /api/booking/select-time. Clicking a slot that
// is not available is a quiet no-op, same as a disabled button; the view
// tells the page what actually happened.
func (h *BookingHandler) SelectTime(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Time string `json:"time"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	form, id := h.form(r)
	if !form.SelectTime(req.Time) {
		h.logger.Debug("slot not selectable", "time", req.Time)
	}
	h.sessions.Persist(r.Context(), id)
	writeJSON(w, http.StatusOK, form.View())
}

// SetClientName handles POST /api/booking/client
func (h *BookingHandler) SetClientName(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	form, id := h.form(r)
	form.SetClientName(req.Name)
	h.sessions.Persist(r.Context(), id)
	writeJSON(w, http.StatusOK, form.View())
}

// Submit handles POST /api/booking/submit
func (h *BookingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	form, id := h.form(r)
	appt, err := form.Submit(r.Context())
	h.sessions.Persist(r.Context(), id)
	if err != nil {
		writeJSON(w, statusFor(err), map[string]any{
			"error": errorMessage(err),
			"view":  form.View(),
		})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"appointment": appt,
		"view":        form.View(),
	})
}
