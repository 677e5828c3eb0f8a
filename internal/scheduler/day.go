package scheduler

import (
	"fmt"
)

// Day identifies a day of the week. Values are ordered Monday first so that
// comparing two days yields schedule order.
type Day int

const (
	Monday Day = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayNames = [...]string{
	Monday:    "MONDAY",
	Tuesday:   "TUESDAY",
	Wednesday: "WEDNESDAY",
	Thursday:  "THURSDAY",
	Friday:    "FRIDAY",
	Saturday:  "SATURDAY",
	Sunday:    "SUNDAY",
}

// ParseDay resolves a day name case-insensitively.
func ParseDay(value string) (Day, error) {
	upper := normalize(value)
	for day := Monday; day <= Sunday; day++ {
		if dayNames[day] == upper {
			return day, nil
		}
	}
	return 0, fmt.Errorf("unknown day %q", value)
}

// String returns the upper-case day name used on the wire.
func (d Day) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return dayNames[d]
}

// Bookable reports whether sessions may be scheduled on the day.
func (d Day) Bookable() bool {
	return d >= Monday && d <= Friday
}

// BookableDays lists Monday through Friday in order.
func BookableDays() []Day {
	return []Day{Monday, Tuesday, Wednesday, Thursday, Friday}
}
