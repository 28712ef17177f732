package attendance

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Status is the attendance state of one attendee for one event.
// It is stored as its integer value in the roster document.
type Status int

const (
	StatusUnknown Status = iota
	StatusPresent
	StatusLate
	StatusExcused
	StatusLeft
)

// ErrInvalidStatus is returned when a status name is not recognised.
var ErrInvalidStatus = errors.New("invalid attendance status")

var statusNames = [...]string{"Unknown", "Present", "Late", "Excused", "Left"}

// String returns the symbolic name, or the number for a status outside the
// defined set.
func (s Status) String() string {
	if !s.Valid() {
		return strconv.Itoa(int(s))
	}
	return statusNames[s]
}

// Valid reports whether s is one of the defined statuses.
func (s Status) Valid() bool {
	return s >= StatusUnknown && s <= StatusLeft
}

// ParseStatus converts a symbolic name such as "present" to a Status.
func ParseStatus(name string) (Status, error) {
	name = strings.TrimSpace(name)
	for i, n := range statusNames {
		if strings.EqualFold(n, name) {
			return Status(i), nil
		}
	}
	return StatusUnknown, ErrInvalidStatus
}

// Attendee is a person on an event roster. Email and Name are matching keys;
// ID is the identity.
type Attendee struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email *string `json:"email"`
}

// Record is the attendance state of an attendee for one event.
type Record struct {
	EventID    int64      `json:"eventId"`
	AttendeeID string     `json:"attendeeId"`
	Status     Status     `json:"status"`
	CheckInAt  *time.Time `json:"checkInAt"`
	CheckOutAt *time.Time `json:"checkOutAt"`
	Notes      *string    `json:"notes"`
}

// Entry pairs an attendee with its record. A roster is an ordered []Entry.
type Entry struct {
	Attendee Attendee `json:"attendee"`
	Record   Record   `json:"record"`
}

// Stats is a derived snapshot of a roster. It is never persisted.
type Stats struct {
	Total          int     `json:"total"`
	Present        int     `json:"present"`
	Late           int     `json:"late"`
	Excused        int     `json:"excused"`
	Left           int     `json:"left"`
	Unknown        int     `json:"unknown"`
	Absent         int     `json:"absent"`
	PercentPresent float64 `json:"percentPresent"`
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
