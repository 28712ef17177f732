// Package metrics exposes Prometheus instrumentation for the roster store,
// roster mutations and per-event attendance counts.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"rollcall/internal/attendance"
)

// Recorder owns the roster collectors.
type Recorder struct {
	storeDuration *prometheus.HistogramVec
	storeErrors   *prometheus.CounterVec
	mutations     *prometheus.CounterVec
	attendees     *prometheus.GaugeVec
}

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		storeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rollcall_store_op_duration_seconds",
			Help:    "Latency of roster store operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rollcall_store_errors_total",
			Help: "Roster store operations that returned an error.",
		}, []string{"op"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rollcall_roster_mutations_total",
			Help: "Roster operations by outcome.",
		}, []string{"op", "result"}),
		attendees: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rollcall_roster_attendees",
			Help: "Attendees per event and status, as last computed.",
		}, []string{"event", "status"}),
	}
	reg.MustRegister(r.storeDuration, r.storeErrors, r.mutations, r.attendees)
	return r
}

// Observe counts one roster operation. result is "ok", "not_found" or "error".
func (r *Recorder) Observe(op, result string) {
	r.mutations.WithLabelValues(op, result).Inc()
}

// SetStats publishes the attendance counts of an event.
func (r *Recorder) SetStats(eventID int64, st attendance.Stats) {
	event := strconv.FormatInt(eventID, 10)
	for status, n := range map[string]int{
		"present": st.Present,
		"late":    st.Late,
		"excused": st.Excused,
		"left":    st.Left,
		"unknown": st.Unknown,
		"absent":  st.Absent,
	} {
		r.attendees.WithLabelValues(event, status).Set(float64(n))
	}
}

// InstrumentStore wraps s so each call is timed and failures are counted.
func (r *Recorder) InstrumentStore(s attendance.Store) attendance.Store {
	return &instrumentedStore{next: s, rec: r}
}

type instrumentedStore struct {
	next attendance.Store
	rec  *Recorder
}

func (s *instrumentedStore) observe(op string, start time.Time, err error) {
	s.rec.storeDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		s.rec.storeErrors.WithLabelValues(op).Inc()
	}
}

func (s *instrumentedStore) Get(ctx context.Context, key string) (string, bool, error) {
	start := time.Now()
	v, ok, err := s.next.Get(ctx, key)
	s.observe("get", start, err)
	return v, ok, err
}

func (s *instrumentedStore) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	err := s.next.Set(ctx, key, value)
	s.observe("set", start, err)
	return err
}

func (s *instrumentedStore) Remove(ctx context.Context, key string) error {
	start := time.Now()
	err := s.next.Remove(ctx, key)
	s.observe("remove", start, err)
	return err
}
