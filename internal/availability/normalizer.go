package availability

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/summitsurfaces/showroom-api/internal/crm"
)

// DefaultSlotDuration is used when the CRM omits a slot's end time.
const DefaultSlotDuration = 60 * time.Minute

var dateKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Normalize converts the CRM's raw day-keyed slot payload into ordered
// DaySlots. Keys that are not strict YYYY-MM-DD dates are dropped (the CRM
// mixes metadata into the same object), days that end up with no usable
// slots are omitted, and output is sorted ascending by date. Deterministic
// for deterministic input; no side effects.
func Normalize(raw crm.FreeSlots, loc *time.Location, slotDuration time.Duration) []DaySlots {
	if loc == nil {
		loc = time.UTC
	}
	if slotDuration <= 0 {
		slotDuration = DefaultSlotDuration
	}

	days := make([]DaySlots, 0, len(raw))
	for key, value := range raw {
		if !dateKeyPattern.MatchString(key) {
			continue
		}

		var day crm.RawDay
		if err := json.Unmarshal(value, &day); err != nil {
			continue
		}

		slots := make([]TimeSlot, 0, len(day.Slots))
		for i, rawSlot := range day.Slots {
			start, err := time.Parse(time.RFC3339, rawSlot.StartTime)
			if err != nil {
				continue
			}
			end := start.Add(slotDuration)
			if rawSlot.EndTime != "" {
				if parsed, err := time.Parse(time.RFC3339, rawSlot.EndTime); err == nil {
					end = parsed
				}
			}
			slots = append(slots, TimeSlot{
				ID:          fmt.Sprintf("%s-%d", key, i),
				StartTime:   start,
				EndTime:     end,
				DisplayTime: start.In(loc).Format("3:04 PM"),
			})
		}
		if len(slots) == 0 {
			continue
		}
		days = append(days, DaySlots{Date: key, Slots: slots})
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}
