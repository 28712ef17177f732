package attendance

import (
	"context"
	"testing"
	"time"
)

func TestCheckIn(t *testing.T) {
	svc := newTestService(t, newFakeStore())
	ctx := context.Background()
	e, _ := svc.AddAttendee(ctx, 1, "Alice", "")

	ok, err := svc.CheckOut(ctx, 1, e.Attendee.ID)
	if err != nil || !ok {
		t.Fatalf("check-out = %v, %v", ok, err)
	}
	ok, err = svc.CheckIn(ctx, 1, e.Attendee.ID, false)
	if err != nil || !ok {
		t.Fatalf("check-in = %v, %v", ok, err)
	}
	entries, _ := svc.Roster(ctx, 1)
	r := entries[0].Record
	if r.Status != StatusPresent {
		t.Fatalf("status = %v, want Present", r.Status)
	}
	if r.CheckInAt == nil || !r.CheckInAt.Equal(fixedNow) {
		t.Fatalf("check-in time = %v, want %v", r.CheckInAt, fixedNow)
	}
	if r.CheckOutAt != nil {
		t.Fatalf("expected check-out cleared, got %v", r.CheckOutAt)
	}

	if _, err := svc.CheckIn(ctx, 1, e.Attendee.ID, true); err != nil {
		t.Fatalf("late check-in: %v", err)
	}
	entries, _ = svc.Roster(ctx, 1)
	if entries[0].Record.Status != StatusLate {
		t.Fatalf("status = %v, want Late", entries[0].Record.Status)
	}
}

func TestCheckOutTransitions(t *testing.T) {
	tests := []struct {
		from Status
		want Status
	}{
		{from: StatusUnknown, want: StatusLeft},
		{from: StatusPresent, want: StatusLeft},
		{from: StatusLate, want: StatusLeft},
		{from: StatusExcused, want: StatusExcused},
		{from: StatusLeft, want: StatusLeft},
	}
	for _, tc := range tests {
		t.Run(tc.from.String(), func(t *testing.T) {
			svc := newTestService(t, newFakeStore())
			ctx := context.Background()
			e, _ := svc.AddAttendee(ctx, 1, "Alice", "")
			if _, err := svc.SetStatus(ctx, 1, e.Attendee.ID, tc.from, ""); err != nil {
				t.Fatalf("set status: %v", err)
			}
			ok, err := svc.CheckOut(ctx, 1, e.Attendee.ID)
			if err != nil || !ok {
				t.Fatalf("check-out = %v, %v", ok, err)
			}
			entries, _ := svc.Roster(ctx, 1)
			r := entries[0].Record
			if r.Status != tc.want {
				t.Fatalf("status = %v, want %v", r.Status, tc.want)
			}
			if r.CheckOutAt == nil || !r.CheckOutAt.Equal(fixedNow) {
				t.Fatalf("check-out time = %v, want %v", r.CheckOutAt, fixedNow)
			}
		})
	}
}

func TestSetStatusNotes(t *testing.T) {
	svc := newTestService(t, newFakeStore())
	ctx := context.Background()
	e, _ := svc.AddAttendee(ctx, 1, "Alice", "")

	if _, err := svc.SetStatus(ctx, 1, e.Attendee.ID, StatusExcused, "doctor's note"); err != nil {
		t.Fatalf("set status: %v", err)
	}
	if _, err := svc.SetStatus(ctx, 1, e.Attendee.ID, StatusPresent, "   "); err != nil {
		t.Fatalf("set status: %v", err)
	}
	entries, _ := svc.Roster(ctx, 1)
	r := entries[0].Record
	if r.Status != StatusPresent {
		t.Fatalf("status = %v, want Present", r.Status)
	}
	if r.Notes == nil || *r.Notes != "doctor's note" {
		t.Fatalf("notes = %v, want preserved note", r.Notes)
	}
}

func TestTransitionsOnMissingAttendee(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store)
	ctx := context.Background()
	if _, err := svc.AddAttendee(ctx, 1, "Alice", ""); err != nil {
		t.Fatalf("add: %v", err)
	}
	sets := store.sets

	checks := map[string]func() (bool, error){
		"check-in":   func() (bool, error) { return svc.CheckIn(ctx, 1, "ghost", false) },
		"check-out":  func() (bool, error) { return svc.CheckOut(ctx, 1, "ghost") },
		"set status": func() (bool, error) { return svc.SetStatus(ctx, 1, "ghost", StatusPresent, "x") },
		"other event": func() (bool, error) {
			entries, _ := svc.Roster(ctx, 1)
			return svc.CheckIn(ctx, 2, entries[0].Attendee.ID, false)
		},
	}
	for name, fn := range checks {
		ok, err := fn()
		if err != nil || ok {
			t.Fatalf("%s = %v, %v; want false, nil", name, ok, err)
		}
	}
	if store.sets != sets {
		t.Fatal("expected no saves for missing attendees")
	}
	if _, ok := store.data[RosterKey(2)]; ok {
		t.Fatal("expected no roster created for event 2")
	}
}

func TestCheckInUsesClock(t *testing.T) {
	later := fixedNow.Add(90 * time.Minute)
	svc := NewService(newFakeStore(), WithClock(func() time.Time { return later }))
	ctx := context.Background()
	e, _ := svc.AddAttendee(ctx, 1, "Alice", "")
	if e.Attendee.ID == "" {
		t.Fatal("expected default generator to assign an id")
	}
	if _, err := svc.CheckIn(ctx, 1, e.Attendee.ID, false); err != nil {
		t.Fatalf("check-in: %v", err)
	}
	entries, _ := svc.Roster(ctx, 1)
	if !entries[0].Record.CheckInAt.Equal(later) {
		t.Fatalf("check-in time = %v, want %v", entries[0].Record.CheckInAt, later)
	}
}
