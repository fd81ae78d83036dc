package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasmonteiro/agendei/internal/calendar"
)

func TestSessionSnapshotRoundTrip(t *testing.T) {
	api := &fakeAPI{}
	deps := testDeps(api, nil)

	sess := NewSession(deps)
	sess.Refresh(context.Background())
	sess.OpenPicker()
	require.NoError(t, sess.PickDay(context.Background(), 20))
	require.True(t, sess.SelectTime("10:00"))
	sess.SetClientName("Maria")

	var st State
	sess.Snapshot(&st)

	restored := NewSession(deps)
	restored.Restore(st)

	view := restored.View()
	assert.Equal(t, "2025-06-20", view.SelectedDate)
	assert.Equal(t, "10:00", view.SelectedTime)
	assert.Equal(t, "Maria", view.ClientName)
	assert.Len(t, view.Slots.Morning, 4, "loaded slots survive the round trip")
}

func TestRestoreResetsPastSelectedDate(t *testing.T) {
	st := State{
		SelectedDate: "2025-06-10",
		CursorYear:   2025,
		CursorMonth:  6,
		SelectedTime: "10:00",
	}

	sess := NewSession(testDeps(&fakeAPI{}, nil))
	sess.Restore(st)

	view := sess.View()
	assert.Equal(t, "2025-06-15", view.SelectedDate, "a date that slipped into the past resets to today")
	assert.Empty(t, view.SelectedTime, "the stale time selection goes with it")
}

func TestRestoreHandlesGarbageState(t *testing.T) {
	st := State{
		SelectedDate: "not-a-date",
		CursorYear:   2025,
		CursorMonth:  13,
		AgendaDate:   "also-bad",
	}

	sess := NewSession(testDeps(&fakeAPI{}, nil))
	sess.Restore(st)
	view := sess.View()
	assert.Equal(t, "2025-06-15", view.SelectedDate)
	assert.Equal(t, 6, view.Calendar.Month)
	assert.Len(t, view.Slots.Afternoon, 6, "no stored slots means the seeded templates")

	agenda := NewAgenda(testDeps(&fakeAPI{}, nil))
	agenda.Restore(st)
	assert.Equal(t, "2025-06-15", agenda.View().ViewDate)
}

func TestRestoreClampsCursorBehindFloor(t *testing.T) {
	st := State{
		SelectedDate: "2025-06-20",
		CursorYear:   2025,
		CursorMonth:  3,
	}

	sess := NewSession(testDeps(&fakeAPI{}, nil))
	sess.Restore(st)
	assert.Equal(t, 6, sess.View().Calendar.Month, "a cursor behind the floor snaps to the current month")
}

func TestAgendaSnapshotKeepsPastViewDate(t *testing.T) {
	deps := testDeps(&fakeAPI{}, nil)

	agenda := NewAgenda(deps)
	agenda.PrevDay(context.Background())

	var st State
	agenda.Snapshot(&st)
	assert.Equal(t, "2025-06-14", st.AgendaDate)

	restored := NewAgenda(deps)
	restored.Restore(st)
	assert.Equal(t, "2025-06-14", restored.View().ViewDate,
		"unlike the form, the agenda may come back on a past day")
}

func TestRestoreCursorFallsBackForZeroState(t *testing.T) {
	today := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.Local)
	got := restoreCursor(0, 0, today)
	assert.Equal(t, calendar.MonthCursor{Year: 2025, Month: time.June}, got)
}
