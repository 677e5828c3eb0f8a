package scheduler

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Session descriptions accepted by the scheduler.
const (
	DescriptionLecture  = "LECTURE"
	DescriptionTutorial = "TUTORIAL"
	DescriptionLab      = "LAB"
)

const (
	sessionFields = 6
	slotFields    = 4
)

// Slot is the physical reservation: a room on a day for a half-open
// [Start, End) interval, independent of the class occupying it.
type Slot struct {
	Day   Day       `validate:"bookable_day"`
	Start TimeOfDay `validate:"opening_hours"`
	End   TimeOfDay `validate:"opening_hours,gtfield=Start"`
	Room  string    `validate:"required"`
}

// Session is one booking of a slot by a class.
type Session struct {
	Slot
	ClassName   string `validate:"required"`
	Description string `validate:"oneof=LECTURE TUTORIAL LAB"`
}

// Parse reads the canonical "DAY START END ROOM CLASS DESC" layout.
func Parse(value string) (Session, error) {
	fields := strings.Fields(value)
	if len(fields) != sessionFields {
		return Session{}, malformed(fmt.Sprintf("expected %d fields, got %d", sessionFields, len(fields)))
	}
	slot, err := buildSlot(fields[:slotFields])
	if err != nil {
		return Session{}, err
	}
	session := Session{
		Slot:        slot,
		ClassName:   normalize(fields[4]),
		Description: normalize(fields[5]),
	}
	if err := validateStruct(session); err != nil {
		return Session{}, err
	}
	return session, nil
}

// ParseSlot reads the "DAY START END ROOM" layout used to free a slot.
func ParseSlot(value string) (Slot, error) {
	fields := strings.Fields(value)
	if len(fields) != slotFields {
		return Slot{}, malformed(fmt.Sprintf("expected %d fields, got %d", slotFields, len(fields)))
	}
	slot, err := buildSlot(fields)
	if err != nil {
		return Slot{}, err
	}
	if err := validateStruct(slot); err != nil {
		return Slot{}, err
	}
	return slot, nil
}

func buildSlot(fields []string) (Slot, error) {
	day, err := ParseDay(fields[0])
	if err != nil {
		return Slot{}, malformed(err.Error())
	}
	start, err := ParseTimeOfDay(fields[1])
	if err != nil {
		return Slot{}, malformed(err.Error())
	}
	end, err := ParseTimeOfDay(fields[2])
	if err != nil {
		return Slot{}, malformed(err.Error())
	}
	return Slot{Day: day, Start: start, End: end, Room: normalize(fields[3])}, nil
}

// String formats the slot as "DAY START END ROOM".
func (s Slot) String() string {
	return fmt.Sprintf("%s %s %s %s", s.Day, s.Start, s.End, s.Room)
}

// Duration is the length of the slot.
func (s Slot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Overlaps reports whether the half-open intervals share any minute on the
// same day. Touching endpoints do not overlap.
func (s Slot) Overlaps(other Slot) bool {
	return s.Day == other.Day && s.Start < other.End && other.Start < s.End
}

// Format renders the session in the canonical six-field layout.
func (s Session) Format() string {
	return fmt.Sprintf("%s %s %s", s.Slot, s.ClassName, s.Description)
}

// String implements fmt.Stringer.
func (s Session) String() string {
	return s.Format()
}

// SlotString is the "DAY START END ROOM" part of the session.
func (s Session) SlotString() string {
	return s.Slot.String()
}

// Equal reports whether both sessions are the same booking. The
// description does not take part in identity.
func (s Session) Equal(other Session) bool {
	return s.Slot == other.Slot && s.ClassName == other.ClassName
}

// SameSlot reports whether both sessions occupy the same physical slot,
// whatever class holds it.
func (s Session) SameSlot(slot Slot) bool {
	return s.Slot == slot
}

// WithTimes returns a copy of the session moved to [start, end).
func (s Session) WithTimes(start, end TimeOfDay) Session {
	s.Start = start
	s.End = end
	return s
}

func normalize(value string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(value))
}
