package attendance

import (
	"context"
	"strings"
	"time"
)

// CSVTimeLayout renders timestamps in a fixed-width, lexically sortable
// ISO-8601 form.
const CSVTimeLayout = "2006-01-02T15:04:05.0000000Z07:00"

const csvHeader = "Name,Email,Status,CheckInAt,CheckOutAt,Notes"

// ExportJSON returns the roster in the same encoding it is stored in.
func (s *Service) ExportJSON(ctx context.Context, eventID int64) (string, error) {
	entries, err := s.load(ctx, eventID)
	if err != nil {
		return "", err
	}
	return encodeRoster(entries)
}

// ExportCSV renders the roster as CSV, one row per entry after the header.
func (s *Service) ExportCSV(ctx context.Context, eventID int64) (string, error) {
	entries, err := s.load(ctx, eventID)
	if err != nil {
		return "", err
	}
	return EncodeCSV(entries), nil
}

// EncodeCSV renders entries as CSV. Fields holding a comma, quote or line
// break are quoted with inner quotes doubled.
func EncodeCSV(entries []Entry) string {
	var b strings.Builder
	b.WriteString(csvHeader)
	b.WriteByte('\n')
	for _, e := range entries {
		fields := [...]string{
			escapeCSV(e.Attendee.Name),
			escapeCSV(deref(e.Attendee.Email)),
			e.Record.Status.String(),
			formatCSVTime(e.Record.CheckInAt),
			formatCSVTime(e.Record.CheckOutAt),
			escapeCSV(deref(e.Record.Notes)),
		}
		b.WriteString(strings.Join(fields[:], ","))
		b.WriteByte('\n')
	}
	return b.String()
}

func escapeCSV(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func formatCSVTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(CSVTimeLayout)
}

// ImportJSON loads a roster document into an event. A payload that does not
// parse is ignored. With merge, each imported entry overwrites its match in
// place (see FindMatch) or is appended; without merge the imported roster
// replaces the stored one.
func (s *Service) ImportJSON(ctx context.Context, eventID int64, payload string, merge bool) error {
	imported, err := decodeRoster(payload)
	if err != nil || imported == nil {
		return nil
	}
	if !merge {
		return s.save(ctx, eventID, imported)
	}

	entries, err := s.load(ctx, eventID)
	if err != nil {
		return err
	}
	for _, item := range imported {
		if i := FindMatch(entries, deref(item.Attendee.Email), item.Attendee.Name); i >= 0 {
			entries[i].Attendee = item.Attendee
			entries[i].Record = item.Record
			continue
		}
		entries = append(entries, item)
	}
	return s.save(ctx, eventID, entries)
}
