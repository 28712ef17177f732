package attendance

import (
	"context"
	"strings"
)

// update loads a roster, applies fn to the attendee's record and saves.
// It reports false without writing when the attendee is not on the roster.
func (s *Service) update(ctx context.Context, eventID int64, attendeeID string, fn func(*Record)) (bool, error) {
	entries, err := s.load(ctx, eventID)
	if err != nil {
		return false, err
	}
	i := indexOf(entries, attendeeID)
	if i < 0 {
		return false, nil
	}
	fn(&entries[i].Record)
	if err := s.save(ctx, eventID, entries); err != nil {
		return false, err
	}
	return true, nil
}

// CheckIn stamps the attendee as arrived, Late or Present. Any earlier
// check-out is cleared.
func (s *Service) CheckIn(ctx context.Context, eventID int64, attendeeID string, late bool) (bool, error) {
	return s.update(ctx, eventID, attendeeID, func(r *Record) {
		now := s.now()
		r.CheckInAt = &now
		r.CheckOutAt = nil
		if late {
			r.Status = StatusLate
		} else {
			r.Status = StatusPresent
		}
	})
}

// CheckOut stamps the attendee as departed. Unknown, Present and Late become
// Left; Excused and Left keep their status.
func (s *Service) CheckOut(ctx context.Context, eventID int64, attendeeID string) (bool, error) {
	return s.update(ctx, eventID, attendeeID, func(r *Record) {
		now := s.now()
		r.CheckOutAt = &now
		switch r.Status {
		case StatusUnknown, StatusPresent, StatusLate:
			r.Status = StatusLeft
		}
	})
}

// SetStatus overwrites the attendee's status. Notes replace the existing
// notes only when non-blank.
func (s *Service) SetStatus(ctx context.Context, eventID int64, attendeeID string, status Status, notes string) (bool, error) {
	return s.update(ctx, eventID, attendeeID, func(r *Record) {
		r.Status = status
		if strings.TrimSpace(notes) != "" {
			n := notes
			r.Notes = &n
		}
	})
}
