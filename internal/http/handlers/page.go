package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/lucasmonteiro/agendei/internal/booking"
	"github.com/lucasmonteiro/agendei/internal/calendar"
	"github.com/lucasmonteiro/agendei/internal/http/middleware"
	"github.com/lucasmonteiro/agendei/internal/session"
	"github.com/lucasmonteiro/agendei/pkg/logging"
)

//go:embed templates/index.html
var templateFS embed.FS

// PageHandler serves the scheduling page itself. The page is rendered
// server-side from the session's views; controls are plain form posts to
// Action, and a small inline script reloads the page when the events
// socket announces a change.
type PageHandler struct {
	sessions *session.Manager
	logger   *logging.Logger
	tmpl     *template.Template
}

// NewPageHandler parses the embedded template and creates the handler.
func NewPageHandler(sessions *session.Manager, logger *logging.Logger) (*PageHandler, error) {
	if logger == nil {
		logger = logging.Default()
	}
	funcs := template.FuncMap{
		"calargs": func(view booking.CalendarView, prefix string) calendarArgs {
			return calendarArgs{View: view, Prefix: prefix}
		},
	}
	tmpl, err := template.New("index.html").Funcs(funcs).ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("handlers: failed to parse page template: %w", err)
	}
	return &PageHandler{sessions: sessions, logger: logger, tmpl: tmpl}, nil
}

type pageData struct {
	Form   booking.FormView
	Agenda booking.AgendaView
}

// calendarArgs parameterizes the shared calendar template; the prefix
// routes its posts to the form ("") or the agenda ("agenda-") actions.
type calendarArgs struct {
	View   booking.CalendarView
	Prefix string
}

// Show handles GET /
func (h *PageHandler) Show(w http.ResponseWriter, r *http.Request) {
	id := middleware.SessionID(r.Context())
	handle := h.sessions.Acquire(r.Context(), id)
	handle.Form.EnsureSlots(r.Context())
	handle.Agenda.EnsureLoaded(r.Context())
	h.sessions.Persist(r.Context(), id)

	data := pageData{Form: handle.Form.View(), Agenda: handle.Agenda.View()}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.Execute(w, data); err != nil {
		h.logger.Error("page render failed", "error", err)
	}
}

// Action handles POST /ui/action, the single endpoint behind every form
// on the page. Controller errors land in the session's own error state
// and show up on the next render, so the response is always a redirect
// back to the page.
func (h *PageHandler) Action(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	id := middleware.SessionID(r.Context())
	handle := h.sessions.Acquire(r.Context(), id)
	ctx := r.Context()

	action := r.PostFormValue("action")
	switch action {
	case "open-picker":
		handle.Form.OpenPicker()
	case "close-picker":
		handle.Form.ClosePicker(booking.CloseTrigger(r.PostFormValue("trigger")))
	case "navigate":
		handle.Form.Navigate(calendar.Direction(r.PostFormValue("direction")))
	case "pick-day":
		if day, err := strconv.Atoi(r.PostFormValue("day")); err == nil {
			if err := handle.Form.PickDay(ctx, day); err != nil {
				h.logger.Debug("pick rejected", "error", err)
			}
		}
	case "select-time":
		handle.Form.SelectTime(r.PostFormValue("time"))
	case "client-name":
		handle.Form.SetClientName(r.PostFormValue("name"))
	case "submit":
		// The name input travels in the submit form itself.
		handle.Form.SetClientName(r.PostFormValue("name"))
		if _, err := handle.Form.Submit(ctx); err != nil {
			h.logger.Debug("submit rejected", "error", err)
		}
	case "refresh":
		handle.Form.Refresh(ctx)
	case "agenda-open-picker":
		handle.Agenda.OpenPicker()
	case "agenda-close-picker":
		handle.Agenda.ClosePicker(booking.CloseTrigger(r.PostFormValue("trigger")))
	case "agenda-navigate":
		handle.Agenda.Navigate(calendar.Direction(r.PostFormValue("direction")))
	case "agenda-pick-day":
		if day, err := strconv.Atoi(r.PostFormValue("day")); err == nil {
			if err := handle.Agenda.PickDay(ctx, day); err != nil {
				h.logger.Debug("agenda pick rejected", "error", err)
			}
		}
	case "agenda-prev":
		handle.Agenda.PrevDay(ctx)
	case "agenda-next":
		handle.Agenda.NextDay(ctx)
	case "agenda-today":
		handle.Agenda.Today(ctx)
	case "agenda-delete":
		if apptID := r.PostFormValue("id"); apptID != "" {
			if err := handle.Agenda.Delete(ctx, apptID); err != nil {
				h.logger.Debug("delete rejected", "error", err)
			}
		}
	case "agenda-refresh":
		handle.Agenda.Load(ctx)
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}

	h.sessions.Persist(ctx, id)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
