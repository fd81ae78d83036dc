package booking

import (
	"strings"
	"time"

	"github.com/lucasmonteiro/agendei/internal/appointments"
	"github.com/lucasmonteiro/agendei/internal/calendar"
	"github.com/lucasmonteiro/agendei/internal/slots"
)

// displayDateFormat is how dates render in headers, day/month/year.
const displayDateFormat = "02/01/2006"

// CalendarView is one render of the date picker grid.
type CalendarView struct {
	Year    int            `json:"year"`
	Month   int            `json:"month"`
	Label   string         `json:"label"`
	CanPrev bool           `json:"canPrev"`
	Days    []calendar.Day `json:"days"`
}

// FormView is one render of the booking form.
type FormView struct {
	SelectedDate      string             `json:"selectedDate"`
	SelectedDateLabel string             `json:"selectedDateLabel"`
	SelectedTime      string             `json:"selectedTime"`
	ClientName        string             `json:"clientName"`
	PickerOpen        bool               `json:"pickerOpen"`
	Loading           bool               `json:"loading"`
	Submitting        bool               `json:"submitting"`
	CanSubmit         bool               `json:"canSubmit"`
	Error             string             `json:"error,omitempty"`
	Calendar          CalendarView       `json:"calendar"`
	Slots             slots.GroupedViews `json:"slots"`
}

// AgendaView is one render of the appointment list.
type AgendaView struct {
	ViewDate      string               `json:"viewDate"`
	ViewDateLabel string               `json:"viewDateLabel"`
	PickerOpen    bool                 `json:"pickerOpen"`
	Loading       bool                 `json:"loading"`
	Error         string               `json:"error,omitempty"`
	Calendar      CalendarView         `json:"calendar"`
	Appointments  appointments.Grouped `json:"appointments"`
	Total         int                  `json:"total"`
}

func projectCalendar(cursor calendar.MonthCursor, selected time.Time, now time.Time) CalendarView {
	return CalendarView{
		Year:    cursor.Year,
		Month:   int(cursor.Month),
		Label:   cursor.Label(),
		CanPrev: calendar.CanNavigatePrev(cursor, now),
		Days:    calendar.BuildMonthGrid(cursor, now, selected),
	}
}

// View projects the current form state for rendering. The projection is a
// pure read; nothing here mutates the session.
func (s *Session) View() FormView {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.deps.Now()
	return FormView{
		SelectedDate:      appointments.FormatDate(s.selectedDate),
		SelectedDateLabel: s.selectedDate.Format(displayDateFormat),
		SelectedTime:      s.selectedTime,
		ClientName:        s.clientName,
		PickerOpen:        s.pickerOpen,
		Loading:           s.loading,
		Submitting:        s.submitting,
		CanSubmit:         s.selectedTime != "" && strings.TrimSpace(s.clientName) != "" && !s.loading && !s.submitting,
		Error:             s.lastError,
		Calendar:          projectCalendar(s.cursor, s.selectedDate, now),
		Slots:             s.slots.Project(s.selectedTime, s.selectedDate, now),
	}
}

// View projects the current agenda state for rendering.
func (a *Agenda) View() AgendaView {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.deps.Now()
	return AgendaView{
		ViewDate:      appointments.FormatDate(a.viewDate),
		ViewDateLabel: a.viewDate.Format(displayDateFormat),
		PickerOpen:    a.pickerOpen,
		Loading:       a.loading,
		Error:         a.lastError,
		Calendar:      projectCalendar(a.cursor, a.viewDate, now),
		Appointments:  a.appointments,
		Total:         a.appointments.Total(),
	}
}
