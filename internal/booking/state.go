package booking

import (
	"time"

	"github.com/lucasmonteiro/agendei/internal/appointments"
	"github.com/lucasmonteiro/agendei/internal/calendar"
	"github.com/lucasmonteiro/agendei/internal/slots"
)

// State is the durable part of a session, serialized into the session
// store between requests. Transient flags (loading, submitting, the
// generation counter) are rebuilt fresh on restore.
type State struct {
	SelectedDate string        `json:"selected_date"`
	CursorYear   int           `json:"cursor_year"`
	CursorMonth  int           `json:"cursor_month"`
	SelectedTime string        `json:"selected_time,omitempty"`
	ClientName   string        `json:"client_name,omitempty"`
	PickerOpen   bool          `json:"picker_open,omitempty"`
	Slots        slots.Grouped `json:"slots"`
	SlotsLoaded  bool          `json:"slots_loaded,omitempty"`

	AgendaDate        string `json:"agenda_date"`
	AgendaCursorYear  int    `json:"agenda_cursor_year"`
	AgendaCursorMonth int    `json:"agenda_cursor_month"`
	AgendaPickerOpen  bool   `json:"agenda_picker_open,omitempty"`
}

// Snapshot captures the form's durable state.
func (s *Session) Snapshot(st *State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st.SelectedDate = appointments.FormatDate(s.selectedDate)
	st.CursorYear = s.cursor.Year
	st.CursorMonth = int(s.cursor.Month)
	st.SelectedTime = s.selectedTime
	st.ClientName = s.clientName
	st.PickerOpen = s.pickerOpen
	st.Slots = s.slots
	st.SlotsLoaded = s.slotsLoaded
}

// Restore rebuilds the form from a stored state. A selected date that has
// slipped into the past since the snapshot (a session left open overnight)
// resets to today and the stale time selection goes with it.
func (s *Session) Restore(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := calendar.Midnight(s.deps.Now())
	date, err := time.ParseInLocation(appointments.DateFormat, st.SelectedDate, time.Local)
	if err != nil || date.Before(today) {
		date = today
		st.SelectedTime = ""
	}
	s.selectedDate = date
	s.cursor = restoreCursor(st.CursorYear, st.CursorMonth, today)
	s.selectedTime = st.SelectedTime
	s.clientName = st.ClientName
	s.pickerOpen = st.PickerOpen
	if st.SlotsLoaded {
		s.slots = st.Slots
		s.slotsLoaded = true
	} else {
		s.slots = slots.DefaultSlots()
		s.slotsLoaded = false
	}
}

// Snapshot captures the agenda's durable state. Appointments are not
// persisted; the list reloads on the next request.
func (a *Agenda) Snapshot(st *State) {
	a.mu.Lock()
	defer a.mu.Unlock()
	st.AgendaDate = appointments.FormatDate(a.viewDate)
	st.AgendaCursorYear = a.cursor.Year
	st.AgendaCursorMonth = int(a.cursor.Month)
	st.AgendaPickerOpen = a.pickerOpen
}

// Restore rebuilds the agenda from a stored state. Past view dates stay
// valid here, matching the prev-day arrow.
func (a *Agenda) Restore(st State) {
	a.mu.Lock()
	defer a.mu.Unlock()

	today := calendar.Midnight(a.deps.Now())
	date, err := time.ParseInLocation(appointments.DateFormat, st.AgendaDate, time.Local)
	if err != nil {
		date = today
	}
	a.viewDate = date
	a.cursor = restoreCursor(st.AgendaCursorYear, st.AgendaCursorMonth, today)
	a.pickerOpen = st.AgendaPickerOpen
}

// restoreCursor validates a stored cursor, falling back to the current
// month and clamping cursors that fell behind the navigation floor.
func restoreCursor(year, month int, today time.Time) calendar.MonthCursor {
	floor := calendar.CursorFor(today)
	if month < 1 || month > 12 || year < 1 {
		return floor
	}
	cursor := calendar.MonthCursor{Year: year, Month: time.Month(month)}
	if cursor.Index() < floor.Index() {
		return floor
	}
	return cursor
}
