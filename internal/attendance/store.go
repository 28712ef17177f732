package attendance

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Store is the key-value persistence boundary. Get reports ok=false when the
// key does not exist.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// RosterKey returns the store key holding the roster of an event.
func RosterKey(eventID int64) string {
	return fmt.Sprintf("attendance:%d", eventID)
}

// load reads the roster of an event. Missing, blank or corrupt documents are
// an empty roster; only store failures are errors.
func (s *Service) load(ctx context.Context, eventID int64) ([]Entry, error) {
	raw, ok, err := s.store.Get(ctx, RosterKey(eventID))
	if err != nil {
		return nil, fmt.Errorf("load roster %d: %w", eventID, err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []Entry{}, nil
	}
	entries, err := decodeRoster(raw)
	if err != nil || entries == nil {
		return []Entry{}, nil
	}
	return entries, nil
}

// save replaces the stored roster and notifies listeners.
func (s *Service) save(ctx context.Context, eventID int64, entries []Entry) error {
	doc, err := encodeRoster(entries)
	if err != nil {
		return fmt.Errorf("encode roster %d: %w", eventID, err)
	}
	if err := s.store.Set(ctx, RosterKey(eventID), doc); err != nil {
		return fmt.Errorf("save roster %d: %w", eventID, err)
	}
	s.notify(eventID)
	return nil
}

func encodeRoster(entries []Entry) (string, error) {
	if entries == nil {
		entries = []Entry{}
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeRoster(raw string) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
