package booking

import (
	"context"
	"sync"
	"time"

	"github.com/lucasmonteiro/agendei/internal/appointments"
	"github.com/lucasmonteiro/agendei/internal/calendar"
)

// Agenda is the appointment list state machine. Its view date is fully
// independent of the booking form's selected date, and the prev/next day
// arrows may walk into the past; only the embedded date picker enforces
// the today floor.
type Agenda struct {
	deps Deps

	mu           sync.Mutex
	viewDate     time.Time // local midnight
	cursor       calendar.MonthCursor
	pickerOpen   bool
	appointments appointments.Grouped
	loaded       bool
	generation   uint64
	loading      bool
	lastError    string
}

// NewAgenda starts an agenda on today. Call Load to pull appointments.
func NewAgenda(deps Deps) *Agenda {
	deps = deps.normalized()
	today := calendar.Midnight(deps.Now())
	return &Agenda{
		deps:     deps,
		viewDate: today,
		cursor:   calendar.CursorFor(today),
	}
}

// Load reloads the appointments for the view date.
func (a *Agenda) Load(ctx context.Context) {
	a.loadAppointments(ctx)
}

// EnsureLoaded loads the list once. Failed loads stay unloaded so the
// next request retries.
func (a *Agenda) EnsureLoaded(ctx context.Context) {
	a.mu.Lock()
	loaded := a.loaded
	a.mu.Unlock()
	if !loaded {
		a.loadAppointments(ctx)
	}
}

// PrevDay steps the view one day back. Past days are allowed here so
// earlier appointments stay reviewable.
func (a *Agenda) PrevDay(ctx context.Context) {
	a.shiftDay(ctx, -1)
}

// NextDay steps the view one day forward.
func (a *Agenda) NextDay(ctx context.Context) {
	a.shiftDay(ctx, 1)
}

// Today jumps the view back to the current day.
func (a *Agenda) Today(ctx context.Context) {
	a.mu.Lock()
	a.viewDate = calendar.Midnight(a.deps.Now())
	a.cursor = calendar.CursorFor(a.viewDate)
	a.mu.Unlock()
	a.loadAppointments(ctx)
}

func (a *Agenda) shiftDay(ctx context.Context, days int) {
	a.mu.Lock()
	a.viewDate = a.viewDate.AddDate(0, 0, days)
	a.cursor = calendar.CursorFor(a.viewDate)
	a.mu.Unlock()
	a.loadAppointments(ctx)
}

// Navigate moves the embedded picker one month.
func (a *Agenda) Navigate(dir calendar.Direction) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cursor = calendar.Navigate(a.cursor, dir, a.deps.Now())
}

// OpenPicker shows the picker on the view date's month.
func (a *Agenda) OpenPicker() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pickerOpen = true
	a.cursor = calendar.CursorFor(a.viewDate)
}

// ClosePicker hides the picker.
func (a *Agenda) ClosePicker(trigger CloseTrigger) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pickerOpen {
		a.deps.Logger.Debug("agenda picker closed", "trigger", string(trigger))
	}
	a.pickerOpen = false
}

// PickDay jumps the view to a day picked from the calendar. The picker
// keeps the today floor, so past days return calendar.ErrPastDay.
func (a *Agenda) PickDay(ctx context.Context, day int) error {
	a.mu.Lock()
	picked, err := calendar.PickDay(a.cursor, day, a.deps.Now())
	if err != nil {
		a.mu.Unlock()
		return err
	}
	a.viewDate = picked
	a.pickerOpen = false
	a.mu.Unlock()
	a.loadAppointments(ctx)
	return nil
}

// Delete removes an appointment, reloads the list and notifies other
// views. On failure the list keeps its state and the message is shown.
func (a *Agenda) Delete(ctx context.Context, id string) error {
	start := a.deps.Now()
	err := a.deps.API.Delete(ctx, id)
	a.deps.Metrics.ObserveBackendLatency("delete", a.deps.Now().Sub(start).Seconds())
	if err != nil {
		a.mu.Lock()
		a.lastError = appointments.UserMessage(err)
		a.mu.Unlock()
		a.deps.Metrics.ObserveDeletion("error")
		a.deps.Logger.Error("appointment delete failed", "id", id, "error", err)
		return err
	}

	a.deps.Metrics.ObserveDeletion("deleted")
	a.deps.Logger.Info("appointment deleted", "id", id)

	a.loadAppointments(ctx)
	if a.deps.Notifier != nil {
		a.deps.Notifier.AppointmentsChanged()
	}
	return nil
}

// loadAppointments follows the same generation discipline as the form's
// slot loads: the last-issued request wins, stale responses are dropped
// and errors keep the previous list on screen.
func (a *Agenda) loadAppointments(ctx context.Context) {
	a.mu.Lock()
	a.generation++
	gen := a.generation
	date := appointments.FormatDate(a.viewDate)
	a.loading = true
	a.mu.Unlock()

	start := a.deps.Now()
	grouped, err := a.deps.API.ByDate(ctx, date)
	a.deps.Metrics.ObserveBackendLatency("by_date", a.deps.Now().Sub(start).Seconds())

	a.mu.Lock()
	defer a.mu.Unlock()

	if gen != a.generation {
		a.deps.Metrics.ObserveStaleDrop()
		a.deps.Logger.Warn("dropping stale agenda response", "date", date)
		return
	}
	a.loading = false
	if err != nil {
		a.lastError = appointments.UserMessage(err)
		a.deps.Logger.Error("agenda load failed", "date", date, "error", err)
		return
	}
	a.appointments = *grouped
	a.loaded = true
	a.lastError = ""
}
