// Package booking hosts the UI state machines behind the scheduling page:
// the booking form (date picker + slot grid + client name) and the agenda
// list view. Each session owns its state exclusively; the pure engines in
// internal/calendar and internal/slots derive everything shown from it.
package booking

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/lucasmonteiro/agendei/internal/appointments"
	"github.com/lucasmonteiro/agendei/internal/calendar"
	"github.com/lucasmonteiro/agendei/internal/observability/metrics"
	"github.com/lucasmonteiro/agendei/internal/slots"
	"github.com/lucasmonteiro/agendei/pkg/logging"
)

// API is the slice of the appointments client the controllers consume.
type API interface {
	Create(ctx context.Context, req appointments.CreateRequest) (*appointments.Appointment, error)
	ByDate(ctx context.Context, date string) (*appointments.Grouped, error)
	AvailableSlots(ctx context.Context, date string) (*slots.Grouped, error)
	Delete(ctx context.Context, id string) error
}

// Notifier announces appointment changes so other views can refresh.
type Notifier interface {
	AppointmentsChanged()
}

// Validation and flow-control errors surfaced to the HTTP layer.
var (
	// ErrIncomplete blocks submission until a time is selected and a
	// client name entered. It never reaches the network.
	ErrIncomplete = errors.New("booking: select a time and enter the client name")
	// ErrBusy rejects a submission while another request is in flight.
	ErrBusy = errors.New("booking: a request is already in flight")
)

// CloseTrigger names the event that closed the date picker.
type CloseTrigger string

const (
	CloseButton       CloseTrigger = "button"
	CloseOutsideClick CloseTrigger = "outside_click"
	CloseEscape       CloseTrigger = "escape"
)

// Deps carries the collaborators shared by all sessions.
type Deps struct {
	API      API
	Notifier Notifier
	Metrics  *metrics.SchedulingMetrics
	Logger   *logging.Logger
	Now      func() time.Time // injectable for tests
}

func (d Deps) normalized() Deps {
	if d.Logger == nil {
		d.Logger = logging.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// Session is the booking form state machine. selectedDate, cursor,
// selectedTime and clientName are the only genuine state; the calendar
// grid and slot views are recomputed from them on every View call.
type Session struct {
	deps Deps

	mu           sync.Mutex
	selectedDate time.Time // local midnight
	cursor       calendar.MonthCursor
	selectedTime string
	clientName   string
	pickerOpen   bool
	slots        slots.Grouped
	slotsLoaded  bool // false while still showing the seeded templates
	generation   uint64
	loading      bool
	submitting   bool
	lastError    string
}

// NewSession starts a form on today with the seeded slot templates. Call
// Refresh to pull real availability.
func NewSession(deps Deps) *Session {
	deps = deps.normalized()
	today := calendar.Midnight(deps.Now())
	return &Session{
		deps:         deps,
		selectedDate: today,
		cursor:       calendar.CursorFor(today),
		slots:        slots.DefaultSlots(),
	}
}

// Refresh reloads slot availability for the selected date.
func (s *Session) Refresh(ctx context.Context) {
	s.loadSlots(ctx)
}

// EnsureSlots loads availability once, replacing the seeded templates. A
// session that already heard from the backend is left alone.
func (s *Session) EnsureSlots(ctx context.Context) {
	s.mu.Lock()
	loaded := s.slotsLoaded
	s.mu.Unlock()
	if !loaded {
		s.loadSlots(ctx)
	}
}

// PickDay commits a day of the cursor's month as the selected date. Past
// days are rejected with calendar.ErrPastDay and nothing changes. A
// successful pick closes the picker, clears the selected time (a time
// valid on one date may be past or occupied on another) and reloads
// availability.
func (s *Session) PickDay(ctx context.Context, day int) error {
	s.mu.Lock()
	picked, err := calendar.PickDay(s.cursor, day, s.deps.Now())
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.selectedDate = picked
	s.selectedTime = ""
	s.pickerOpen = false
	s.mu.Unlock()

	s.deps.Logger.Info("date picked", "date", appointments.FormatDate(picked))
	s.loadSlots(ctx)
	return nil
}

// Navigate moves the picker one month; prev stops at the current month.
func (s *Session) Navigate(dir calendar.Direction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = calendar.Navigate(s.cursor, dir, s.deps.Now())
}

// OpenPicker shows the date picker on the selected date's month.
func (s *Session) OpenPicker() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pickerOpen = true
	s.cursor = calendar.CursorFor(s.selectedDate)
}

// ClosePicker hides the date picker. All three triggers (close button or
// overlay, outside click, escape key) land here; the trigger is only
// logged.
func (s *Session) ClosePicker(trigger CloseTrigger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pickerOpen {
		s.deps.Logger.Debug("picker closed", "trigger", string(trigger))
	}
	s.pickerOpen = false
}

// SelectTime selects a slot. Only a slot currently classified available
// accepts the click; everything else is a no-op and returns false.
// Selecting always overwrites; there is no toggle.
func (s *Session) SelectTime(t string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots.Find(t)
	if !ok {
		return false
	}
	state := slots.Classify(slot, s.selectedTime, s.selectedDate, s.deps.Now())
	if !state.Clickable() {
		return false
	}
	s.selectedTime = t
	return true
}

// SetClientName stores the client name typed so far.
func (s *Session) SetClientName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientName = name
}

// Submit books the selected slot. Validation failures (ErrIncomplete) are
// local and never reach the network. On success the time and client are
// cleared, availability reloads and other views are notified; on backend
// failure the form keeps its state and the error message is shown.
func (s *Session) Submit(ctx context.Context) (*appointments.Appointment, error) {
	s.mu.Lock()
	if s.loading || s.submitting {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	name := strings.TrimSpace(s.clientName)
	if s.selectedTime == "" || name == "" {
		s.mu.Unlock()
		return nil, ErrIncomplete
	}
	req := appointments.CreateRequest{
		Date:   appointments.FormatDate(s.selectedDate),
		Time:   s.selectedTime,
		Client: name,
	}
	s.submitting = true
	s.mu.Unlock()

	start := s.deps.Now()
	appt, err := s.deps.API.Create(ctx, req)
	s.deps.Metrics.ObserveBackendLatency("create", s.deps.Now().Sub(start).Seconds())

	s.mu.Lock()
	s.submitting = false
	if err != nil {
		s.lastError = appointments.UserMessage(err)
		s.mu.Unlock()
		s.deps.Metrics.ObserveBooking("error")
		s.deps.Logger.Error("booking failed", "date", req.Date, "time", req.Time, "error", err)
		return nil, err
	}
	s.selectedTime = ""
	s.clientName = ""
	s.lastError = ""
	s.mu.Unlock()

	s.deps.Metrics.ObserveBooking("created")
	s.deps.Logger.Info("booking created", "id", appt.ID, "date", appt.Date, "time", appt.Time)

	s.loadSlots(ctx)
	if s.deps.Notifier != nil {
		s.deps.Notifier.AppointmentsChanged()
	}
	return appt, nil
}

// loadSlots fetches availability for the selected date. Each load takes a
// generation ticket; a response that comes back after a newer load started
// is dropped, so the last-issued request always wins no matter the order
// responses land in. On failure the previous slots stay on screen.
func (s *Session) loadSlots(ctx context.Context) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	date := appointments.FormatDate(s.selectedDate)
	s.loading = true
	s.mu.Unlock()

	start := s.deps.Now()
	grouped, err := s.deps.API.AvailableSlots(ctx, date)
	s.deps.Metrics.ObserveBackendLatency("available_slots", s.deps.Now().Sub(start).Seconds())

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.deps.Metrics.ObserveStaleDrop()
		s.deps.Logger.Warn("dropping stale slot response", "date", date)
		return
	}
	s.loading = false
	if err != nil {
		s.lastError = appointments.UserMessage(err)
		s.deps.Metrics.ObserveSlotLoad("error")
		s.deps.Logger.Error("slot load failed", "date", date, "error", err)
		return
	}
	s.slots = *grouped
	s.slotsLoaded = true
	s.lastError = ""
	s.deps.Metrics.ObserveSlotLoad("ok")
}
