package appointments

import (
	"time"

	"github.com/lucasmonteiro/agendei/internal/slots"
)

// DateFormat is the local-calendar date layout used on the wire. It is
// deliberately not UTC ISO so the day never shifts across timezones.
const DateFormat = "2006-01-02"

// FormatDate renders t as a wire date.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// Appointment is a backend-owned record. Timestamps stay as strings; the
// UI never computes on them.
type Appointment struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Client    string `json:"client"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Grouped is a day's appointments bucketed server-side.
type Grouped struct {
	Morning   []Appointment `json:"morning"`
	Afternoon []Appointment `json:"afternoon"`
	Evening   []Appointment `json:"evening"`
}

// Total returns the number of appointments across all buckets.
func (g Grouped) Total() int {
	return len(g.Morning) + len(g.Afternoon) + len(g.Evening)
}

// Group buckets a flat appointment list by the hour of its time field.
// The backend groups day queries itself; this covers unbucketed lists
// such as the All result. Appointments with an unparseable or
// out-of-range time land in the evening bucket rather than vanish.
func Group(list []Appointment) Grouped {
	var g Grouped
	for _, appt := range list {
		hour, _, err := slots.ParseClock(appt.Time)
		if err != nil {
			g.Evening = append(g.Evening, appt)
			continue
		}
		switch bucket, _ := slots.BucketFor(hour); bucket {
		case slots.BucketMorning:
			g.Morning = append(g.Morning, appt)
		case slots.BucketAfternoon:
			g.Afternoon = append(g.Afternoon, appt)
		default:
			g.Evening = append(g.Evening, appt)
		}
	}
	return g
}

// CreateRequest is the payload for booking a new appointment.
type CreateRequest struct {
	Date   string `json:"date"`
	Time   string `json:"time"`
	Client string `json:"client"`
}
