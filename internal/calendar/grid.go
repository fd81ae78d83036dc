// Package calendar computes the month grid behind the date picker.
// Everything here is pure: "today" is always threaded in as a parameter so
// callers (and tests) control the clock.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// GridCells is the fixed size of the picker grid: 6 weeks of 7 days.
// Padding with adjacent-month days keeps the grid visually stable no
// matter how the month falls.
const GridCells = 42

// ErrPastDay is returned by PickDay for days strictly before today.
var ErrPastDay = errors.New("calendar: day is in the past")

// Direction is a month navigation direction.
type Direction string

const (
	DirectionPrev Direction = "prev"
	DirectionNext Direction = "next"
)

// MonthCursor identifies the month currently shown by the picker. It is
// independent from the selected date until the user commits a day.
type MonthCursor struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// CursorFor returns the cursor of the month containing t.
func CursorFor(t time.Time) MonthCursor {
	return MonthCursor{Year: t.Year(), Month: t.Month()}
}

// Add returns the cursor moved by n months, normalizing across year
// boundaries.
func (c MonthCursor) Add(n int) MonthCursor {
	t := time.Date(c.Year, c.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return MonthCursor{Year: t.Year(), Month: t.Month()}
}

// Index linearizes the cursor as year*12+month for ordering comparisons.
func (c MonthCursor) Index() int {
	return c.Year*12 + int(c.Month) - 1
}

// Label renders the cursor as "January 2006".
func (c MonthCursor) Label() string {
	return fmt.Sprintf("%s %d", c.Month, c.Year)
}

// Day is one cell of the picker grid. Cells from the previous or next
// month carry a non-zero MonthOffset and never get Today/Past/Selected
// flags; they are disabled by definition.
type Day struct {
	Number      int  `json:"number"`
	MonthOffset int  `json:"monthOffset"` // -1 previous month, 0 shown month, +1 next month
	Today       bool `json:"today"`
	Past        bool `json:"past"`
	Selected    bool `json:"selected"`
}

// BuildMonthGrid lays out the 42-cell, Sunday-first grid for the cursor's
// month. Leading cells count backward from the previous month's last day,
// trailing cells count forward from 1. Date comparisons truncate to local
// midnight; time-of-day on today/selected is ignored.
func BuildMonthGrid(cursor MonthCursor, today, selected time.Time) []Day {
	loc := today.Location()
	first := time.Date(cursor.Year, cursor.Month, 1, 0, 0, 0, 0, loc)
	leading := int(first.Weekday())
	inMonth := DaysInMonth(cursor.Year, cursor.Month)
	prev := cursor.Add(-1)
	inPrev := DaysInMonth(prev.Year, prev.Month)

	todayMidnight := Midnight(today)
	selYear, selMonth, selDay := selected.Date()

	grid := make([]Day, 0, GridCells)
	for i := 0; i < leading; i++ {
		grid = append(grid, Day{Number: inPrev - leading + i + 1, MonthOffset: -1})
	}
	for d := 1; d <= inMonth; d++ {
		cell := time.Date(cursor.Year, cursor.Month, d, 0, 0, 0, 0, loc)
		grid = append(grid, Day{
			Number:   d,
			Today:    cell.Equal(todayMidnight),
			Past:     cell.Before(todayMidnight),
			Selected: cursor.Year == selYear && cursor.Month == selMonth && d == selDay,
		})
	}
	for d := 1; len(grid) < GridCells; d++ {
		grid = append(grid, Day{Number: d, MonthOffset: 1})
	}
	return grid
}

// Navigate moves the cursor one month. Next always advances. Prev is a
// no-op when the result would land before the month containing today, so
// the picker can never show a month earlier than the current one.
func Navigate(cursor MonthCursor, dir Direction, today time.Time) MonthCursor {
	switch dir {
	case DirectionNext:
		return cursor.Add(1)
	case DirectionPrev:
		prev := cursor.Add(-1)
		if prev.Index() < CursorFor(today).Index() {
			return cursor
		}
		return prev
	}
	return cursor
}

// CanNavigatePrev reports whether a prev navigation would move the cursor.
// The UI uses it to disable the back arrow at the floor.
func CanNavigatePrev(cursor MonthCursor, today time.Time) bool {
	return cursor.Add(-1).Index() >= CursorFor(today).Index()
}

// PickDay resolves a day number in the cursor's month to a concrete date.
// Days strictly before today are rejected with ErrPastDay; today itself is
// accepted. The returned date is at local midnight.
func PickDay(cursor MonthCursor, day int, today time.Time) (time.Time, error) {
	picked := time.Date(cursor.Year, cursor.Month, day, 0, 0, 0, 0, today.Location())
	if picked.Before(Midnight(today)) {
		return time.Time{}, ErrPastDay
	}
	return picked, nil
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Midnight truncates t to the start of its calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
