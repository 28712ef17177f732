package attendance

import "math"

// ComputeStats counts statuses in a single pass. Absent is every entry that is
// not present, late, excused or left, so Unknown entries are counted twice:
// once under Unknown and once under Absent.
func ComputeStats(entries []Entry) Stats {
	st := Stats{Total: len(entries)}
	for _, e := range entries {
		switch e.Record.Status {
		case StatusPresent:
			st.Present++
		case StatusLate:
			st.Late++
		case StatusExcused:
			st.Excused++
		case StatusLeft:
			st.Left++
		case StatusUnknown:
			st.Unknown++
		}
	}
	st.Absent = max(0, st.Total-(st.Present+st.Late+st.Excused+st.Left))
	if st.Total > 0 {
		pct := float64(st.Present+st.Late) / float64(st.Total) * 100
		st.PercentPresent = math.RoundToEven(pct*10) / 10
	}
	return st
}
