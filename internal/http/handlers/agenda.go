package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lucasmonteiro/agendei/internal/booking"
	"github.com/lucasmonteiro/agendei/internal/calendar"
	"github.com/lucasmonteiro/agendei/internal/http/middleware"
	"github.com/lucasmonteiro/agendei/internal/session"
	"github.com/lucasmonteiro/agendei/pkg/logging"
)

// AgendaHandler exposes the appointment list over HTTP.
type AgendaHandler struct {
	sessions *session.Manager
	logger   *logging.Logger
}

// NewAgendaHandler creates a new agenda handler.
func NewAgendaHandler(sessions *session.Manager, logger *logging.Logger) *AgendaHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AgendaHandler{sessions: sessions, logger: logger}
}

func (h *AgendaHandler) agenda(r *http.Request) (*booking.Agenda, string) {
	id := middleware.SessionID(r.Context())
	return h.sessions.Acquire(r.Context(), id).Agenda, id
}

// State handles GET /api/agenda
func (h *AgendaHandler) State(w http.ResponseWriter, r *http.Request) {
	agenda, id := h.agenda(r)
	agenda.EnsureLoaded(r.Context())
	h.sessions.Persist(r.Context(), id)
	writeJSON(w, http.StatusOK, agenda.View())
}

// Refresh handles POST /api/agenda/refresh. The page calls this when a
// change notification arrives over the events socket.
func (h *AgendaHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	agenda, id := h.agenda(r)
	agenda.Load(r.Context())
	h.sessions.Persist(r.Context(), id)
	writeJSON(w, http.StatusOK, agenda.View())
}

// PrevDay handles POST /api/agenda/prev-day
func (h *AgendaHandler) PrevDay(w http.ResponseWriter, r *http.Request) {
	agenda, id := h.agenda(r)
	agenda.PrevDay(r.Context())
	h.sessions.Persist(r.Context(), id)
	writeJSON(w, http.StatusOK, agenda.View())
}

// NextDay handles POST /api/agenda/next-day
func (h *AgendaHandler) NextDay(w http.ResponseWriter, r *http.Request) {
	agenda, id := h.agenda(r)
	agenda.NextDay(r.Context())
	h.sessions.Persist(r.Context(), id)
	writeJSON(w, http.StatusOK, agenda.View())
}

// Today handles POST /api/agenda/today
func (h *AgendaHandler) Today(w http.ResponseWriter, r *http.Request) {
	agenda, id := h.agenda(r)
	agenda.Today(r.Context())
	h.sessions.Persist(r.Context(), id)
	writeJSON(w, http.StatusOK, agenda.View())
}

// PickDay handles POST /api/agenda/pick-day
func (h *AgendaHandler) PickDay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Day int `json:"day"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	agenda, id := h.agenda(r)
	if err := agenda.PickDay(r.Context(), req.Day); err != nil {
		writeError(w, statusFor(err), errorMessage(err))
		return
	}
	h.sessions.Persist(r.Context(), id)
	writeJSON(w, http.StatusOK, agenda.View())
}

// Navigate handles POST /api/agenda/navigate
func (h *AgendaHandler) Navigate(w http.ResponseWriter, r *http.Request) {
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

	agenda, id := h.agenda(r)
	agenda.Navigate(dir)
	h.sessions.Persist(r.Context(), id)
	writeJSON(w, http.StatusOK, agenda.View())
}

// OpenPicker handles POST /api/agenda/picker/open
func (h *AgendaHandler) OpenPicker(w http.ResponseWriter, r *http.Request) {
	agenda, id := h.agenda(r)
	agenda.OpenPicker()
	h.sessions.Persist(r.Context(), id)
	writeJSON(w, http.StatusOK, agenda.View())
}

// ClosePicker handles POST /api/agenda/picker/close
func (h *AgendaHandler) ClosePicker(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Trigger string `json:"trigger"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	agenda, id := h.agenda(r)
	agenda.ClosePicker(booking.CloseTrigger(req.Trigger))
	h.sessions.Persist(r.Context(), id)
	writeJSON(w, http.StatusOK, agenda.View())
}

// Delete handles DELETE /api/agenda/appointments/{id}
func (h *AgendaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	apptID := chi.URLParam(r, "id")
	if apptID == "" {
		http.Error(w, "missing appointment id", http.StatusBadRequest)
		return
	}

	agenda, id := h.agenda(r)
	if err := agenda.Delete(r.Context(), apptID); err != nil {
		writeJSON(w, statusFor(err), map[string]any{
			"error": errorMessage(err),
			"view":  agenda.View(),
		})
		return
	}
	h.sessions.Persist(r.Context(), id)
	writeJSON(w, http.StatusOK, agenda.View())
}
