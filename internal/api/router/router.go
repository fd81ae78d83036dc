// Package router assembles the HTTP surface: the rendered page, the JSON
// state API behind it, the events socket and the operational endpoints.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lucasmonteiro/agendei/internal/http/handlers"
	httpmiddleware "github.com/lucasmonteiro/agendei/internal/http/middleware"
	"github.com/lucasmonteiro/agendei/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	Page           *handlers.PageHandler
	Booking        *handlers.BookingHandler
	Agenda         *handlers.AgendaHandler
	Health         *handlers.HealthHandler
	EventsHandler  http.Handler
	MetricsHandler http.Handler

	SessionMiddleware  func(http.Handler) http.Handler
	CORSAllowedOrigins []string

	// Requests per second and burst for the mutating endpoints. Zero
	// disables rate limiting.
	MutationRate  float64
	MutationBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Operational endpoints stay outside the session so probes do not
	// mint cookies.
	r.Group(func(public chi.Router) {
		if cfg.Health != nil {
			public.Get("/health", cfg.Health.Live)
			public.Get("/health/backend", cfg.Health.Backend)
		}
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.EventsHandler != nil {
			public.Handle("/ws/events", cfg.EventsHandler)
		}
	})

	// Everything a browser touches runs inside a session.
	r.Group(func(ui chi.Router) {
		if cfg.SessionMiddleware != nil {
			ui.Use(cfg.SessionMiddleware)
		}
		if cfg.MutationRate > 0 {
			ui.Use(httpmiddleware.RateLimit(cfg.MutationRate, cfg.MutationBurst))
		}

		if cfg.Page != nil {
			ui.Get("/", cfg.Page.Show)
			ui.Post("/ui/action", cfg.Page.Action)
		}

		if cfg.Booking != nil {
			ui.Route("/api/booking", func(r chi.Router) {
				r.Get("/", cfg.Booking.State)
				r.Post("/refresh", cfg.Booking.Refresh)
				r.Post("/pick-day", cfg.Booking.PickDay)
				r.Post("/navigate", cfg.Booking.Navigate)
				r.Post("/picker/open", cfg.Booking.OpenPicker)
				r.Post("/picker/close", cfg.Booking.ClosePicker)
				r.Post("/select-time", cfg.Booking.SelectTime)
				r.Post("/client", cfg.Booking.SetClientName)
				r.Post("/submit", cfg.Booking.Submit)
			})
		}

		if cfg.Agenda != nil {
			ui.Route("/api/agenda", func(r chi.Router) {
				r.Get("/", cfg.Agenda.State)
				r.Post("/refresh", cfg.Agenda.Refresh)
				r.Post("/prev-day", cfg.Agenda.PrevDay)
				r.Post("/next-day", cfg.Agenda.NextDay)
				r.Post("/today", cfg.Agenda.Today)
				r.Post("/pick-day", cfg.Agenda.PickDay)
				r.Post("/navigate", cfg.Agenda.Navigate)
				r.Post("/picker/open", cfg.Agenda.OpenPicker)
				r.Post("/picker/close", cfg.Agenda.ClosePicker)
				r.Delete("/appointments/{id}", cfg.Agenda.Delete)
			})
		}
	})

	return r
}
