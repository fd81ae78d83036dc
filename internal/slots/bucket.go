package slots

import "time"

// Bucket groups slots and appointments by time of day. The hour ranges
// mirror the fixed slot templates: morning 09-12, afternoon 13-18,
// evening 19-21.
type Bucket string

const (
	BucketMorning   Bucket = "morning"
	BucketAfternoon Bucket = "afternoon"
	BucketEvening   Bucket = "evening"
)

// BucketFor places an hour into its bucket. Hours outside the bookable
// day return ok=false.
func BucketFor(hour int) (Bucket, bool) {
	switch {
	case hour >= 9 && hour < 13:
		return BucketMorning, true
	case hour >= 13 && hour < 19:
		return BucketAfternoon, true
	case hour >= 19 && hour < 22:
		return BucketEvening, true
	}
	return "", false
}

// Grouped is a slot list split into the three day buckets, matching the
// shape the backend returns from the available-slots query.
type Grouped struct {
	Morning   []TimeSlot `json:"morning"`
	Afternoon []TimeSlot `json:"afternoon"`
	Evening   []TimeSlot `json:"evening"`
}

// GroupedViews carries the per-bucket projections for one render.
type GroupedViews struct {
	Morning   []SlotView `json:"morning"`
	Afternoon []SlotView `json:"afternoon"`
	Evening   []SlotView `json:"evening"`
}

// Project projects every bucket. See Project.
func (g Grouped) Project(selectedTime string, selectedDate, now time.Time) GroupedViews {
	return GroupedViews{
		Morning:   Project(g.Morning, selectedTime, selectedDate, now),
		Afternoon: Project(g.Afternoon, selectedTime, selectedDate, now),
		Evening:   Project(g.Evening, selectedTime, selectedDate, now),
	}
}

// Find returns the slot with the given time string, searching all buckets.
func (g Grouped) Find(timeStr string) (TimeSlot, bool) {
	for _, bucket := range [][]TimeSlot{g.Morning, g.Afternoon, g.Evening} {
		for _, slot := range bucket {
			if slot.Time == timeStr {
				return slot, true
			}
		}
	}
	return TimeSlot{}, false
}

// Regroup buckets a flat slot list by hour, dropping entries outside the
// bookable day. Used only for locally seeded templates; the backend is the
// source of truth for grouping once it answers.
func Regroup(flat []TimeSlot) Grouped {
	var g Grouped
	for _, slot := range flat {
		hour, _, err := ParseClock(slot.Time)
		if err != nil {
			continue
		}
		switch bucket, ok := BucketFor(hour); {
		case !ok:
		case bucket == BucketMorning:
			g.Morning = append(g.Morning, slot)
		case bucket == BucketAfternoon:
			g.Afternoon = append(g.Afternoon, slot)
		case bucket == BucketEvening:
			g.Evening = append(g.Evening, slot)
		}
	}
	return g
}

// defaultTimes are the seeded slot templates shown before the first
// backend response arrives.
var defaultTimes = []string{
	"09:00", "10:00", "11:00", "12:00",
	"13:00", "14:00", "15:00", "16:00", "17:00", "18:00",
	"19:00", "20:00", "21:00",
}

// DefaultSlots returns the fallback slot grid, everything available.
func DefaultSlots() Grouped {
	flat := make([]TimeSlot, len(defaultTimes))
	for i, ts := range defaultTimes {
		flat[i] = TimeSlot{Time: ts, Available: true}
	}
	return Regroup(flat)
}
