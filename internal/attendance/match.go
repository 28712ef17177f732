package attendance

import (
	"context"
	"errors"
	"strings"
)

// ErrNameRequired is returned when an attendee is added without a name.
var ErrNameRequired = errors.New("attendee name is required")

// FindMatch returns the index of the roster entry that refers to the same
// person as the candidate, or -1. A non-blank email is compared
// case-insensitively against entries that have an email. Only a candidate
// without an email falls back to exact trimmed-name equality.
func FindMatch(entries []Entry, email, name string) int {
	email = strings.TrimSpace(email)
	if email != "" {
		for i, e := range entries {
			existing := strings.TrimSpace(deref(e.Attendee.Email))
			if existing != "" && strings.EqualFold(existing, email) {
				return i
			}
		}
		return -1
	}
	name = strings.TrimSpace(name)
	for i, e := range entries {
		if strings.TrimSpace(e.Attendee.Name) == name {
			return i
		}
	}
	return -1
}

// AddAttendee adds a person to an event roster. If the roster already holds a
// matching entry it is returned unchanged and nothing is written.
func (s *Service) AddAttendee(ctx context.Context, eventID int64, name, email string) (Entry, error) {
	entry, _, err := s.EnsureAttendee(ctx, eventID, name, email)
	return entry, err
}

// EnsureAttendee behaves like AddAttendee and also reports whether a new
// entry was created.
func (s *Service) EnsureAttendee(ctx context.Context, eventID int64, name, email string) (Entry, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Entry{}, false, ErrNameRequired
	}
	entries, err := s.load(ctx, eventID)
	if err != nil {
		return Entry{}, false, err
	}
	if i := FindMatch(entries, email, name); i >= 0 {
		return entries[i], false, nil
	}

	attendee := Attendee{ID: s.newID(), Name: name, Email: optionalString(email)}
	entry := Entry{
		Attendee: attendee,
		Record: Record{
			EventID:    eventID,
			AttendeeID: attendee.ID,
			Status:     StatusUnknown,
		},
	}
	entries = append(entries, entry)
	if err := s.save(ctx, eventID, entries); err != nil {
		return Entry{}, false, err
	}
	return entry, true, nil
}

// RemoveAttendee deletes an attendee from an event roster. It reports false
// when the attendee was not on the roster.
func (s *Service) RemoveAttendee(ctx context.Context, eventID int64, attendeeID string) (bool, error) {
	entries, err := s.load(ctx, eventID)
	if err != nil {
		return false, err
	}
	kept := entries[:0]
	for _, e := range entries {
		if e.Attendee.ID != attendeeID {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return false, nil
	}
	if err := s.save(ctx, eventID, kept); err != nil {
		return false, err
	}
	return true, nil
}

func indexOf(entries []Entry, attendeeID string) int {
	for i, e := range entries {
		if e.Attendee.ID == attendeeID {
			return i
		}
	}
	return -1
}
