// Package slots derives the display state of bookable time slots.
// The backend owns availability; this package only projects it, together
// with the user's selection and the clock, into per-slot render states.
package slots

import (
	"fmt"
	"time"
)

// TimeSlot is a bookable time-of-day unit as supplied by the backend.
// It is never mutated here; projections build SlotViews instead.
type TimeSlot struct {
	Time      string `json:"time"` // "HH:MM"
	Available bool   `json:"available"`
}

// State is the render state of a slot button.
type State string

const (
	StateSelected    State = "selected"
	StateOccupied    State = "occupied"
	StateDeactivated State = "deactivated"
	StateAvailable   State = "available"
)

// Clickable reports whether a slot in this state accepts a selection.
// Only available slots do; clicking anything else is a no-op.
func (s State) Clickable() bool {
	return s == StateAvailable
}

// SlotView is the derived projection of a TimeSlot for one render. It is
// recomputed every time and never stored.
type SlotView struct {
	Time  string `json:"time"`
	State State  `json:"state"`
}

// Classify resolves the state of a single slot. Precedence is fixed and
// first-match-wins: selected beats occupied beats deactivated. A slot can
// be both occupied and past at once; the ordering decides what shows, not
// which facts hold.
func Classify(slot TimeSlot, selectedTime string, selectedDate time.Time, now time.Time) State {
	switch {
	case slot.Time == selectedTime:
		return StateSelected
	case !slot.Available:
		return StateOccupied
	case pastOn(selectedDate, slot.Time, now):
		return StateDeactivated
	default:
		return StateAvailable
	}
}

// Project classifies a whole slot list. With a scalar selectedTime at most
// one view comes out selected; a selectedTime matching no slot (stale after
// a date change) simply selects nothing.
func Project(list []TimeSlot, selectedTime string, selectedDate time.Time, now time.Time) []SlotView {
	views := make([]SlotView, len(list))
	for i, slot := range list {
		views[i] = SlotView{
			Time:  slot.Time,
			State: Classify(slot, selectedTime, selectedDate, now),
		}
	}
	return views
}

// ParseClock parses an "HH:MM" wall-clock string.
func ParseClock(s string) (hour, minute int, err error) {
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, 0, fmt.Errorf("slots: invalid time %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("slots: invalid time %q", s)
	}
	return hour, minute, nil
}

// pastOn reports whether the slot's wall-clock time on the given day has
// already elapsed. Malformed times are a programming error upstream and
// classify as not past.
func pastOn(day time.Time, hhmm string, now time.Time) bool {
	hour, minute, err := ParseClock(hhmm)
	if err != nil {
		return false
	}
	at := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location())
	return at.Before(now)
}
