package attendance

import (
	"context"
	"testing"
)

func rosterWith(statuses ...Status) []Entry {
	entries := make([]Entry, len(statuses))
	for i, s := range statuses {
		entries[i].Record.Status = s
	}
	return entries
}

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		want    Stats
	}{
		{name: "empty", entries: nil, want: Stats{}},
		{
			name:    "mixed",
			entries: rosterWith(StatusPresent, StatusLate, StatusExcused, StatusLeft, StatusUnknown, StatusPresent),
			want:    Stats{Total: 6, Present: 2, Late: 1, Excused: 1, Left: 1, Unknown: 1, Absent: 1, PercentPresent: 50},
		},
		{
			name:    "rounds to one decimal",
			entries: rosterWith(StatusPresent, StatusUnknown, StatusUnknown),
			want:    Stats{Total: 3, Present: 1, Unknown: 2, Absent: 2, PercentPresent: 33.3},
		},
		{
			name:    "only unknown entries are all absent",
			entries: rosterWith(StatusUnknown, StatusUnknown, StatusUnknown),
			want:    Stats{Total: 3, Unknown: 3, Absent: 3},
		},
		{
			name:    "out of range status is absent",
			entries: rosterWith(StatusPresent, Status(9)),
			want:    Stats{Total: 2, Present: 1, Absent: 1, PercentPresent: 50},
		},
		{
			name:    "half rounds to even",
			entries: append(rosterWith(StatusPresent), rosterWith(make([]Status, 15)...)...),
			want:    Stats{Total: 16, Present: 1, Unknown: 15, Absent: 15, PercentPresent: 6.2},
		},
		{
			name:    "everyone accounted for",
			entries: rosterWith(StatusPresent, StatusLate, StatusExcused, StatusLeft),
			want:    Stats{Total: 4, Present: 1, Late: 1, Excused: 1, Left: 1, PercentPresent: 50},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeStats(tc.entries)
			if got != tc.want {
				t.Fatalf("ComputeStats = %+v, want %+v", got, tc.want)
			}
			accounted := got.Present + got.Late + got.Excused + got.Left
			if got.Absent != max(0, got.Total-accounted) {
				t.Fatalf("absent = %d, want total %d minus accounted %d", got.Absent, got.Total, accounted)
			}
		})
	}
}

func TestStatsLateArrivalScenario(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	bob, err := svc.AddAttendee(ctx, 1, "Bob", "")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.CheckIn(ctx, 1, bob.Attendee.ID, true); err != nil {
		t.Fatalf("check-in: %v", err)
	}
	sets := store.sets
	st, err := svc.Stats(ctx, 1)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := Stats{Total: 1, Late: 1, PercentPresent: 100}
	if st != want {
		t.Fatalf("stats = %+v, want %+v", st, want)
	}
	if store.sets != sets {
		t.Fatal("stats must not write to the store")
	}
}
