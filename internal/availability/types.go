package availability

import "time"

// TimeSlot is one bookable interval, immutable once produced. IDs are stable
// within a single fetch only; slots are recomputed on every availability
// request and never persisted.
type TimeSlot struct {
	ID          string    `json:"id"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	DisplayTime string    `json:"displayTime"`
}

// DaySlots is a calendar day with its ordered bookable slots. A DaySlots
// exists only when it has at least one slot.
type DaySlots struct {
	Date  string     `json:"date"`
	Slots []TimeSlot `json:"slots"`
}
