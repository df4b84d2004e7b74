package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bootlog/bootlog/internal/model"
)

// ListBoots returns every boot in the store, newest first.
func (s *Store) ListBoots(ctx context.Context) ([]model.Boot, error) {
	rows, err := s.Queries.ListBoots(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]model.Boot, 0, len(rows))
	for _, r := range rows {
		result = append(result, mapBootRow(r))
	}
	return result, nil
}

// GetBoot returns the boot's metadata row, or nil when absent.
func (s *Store) GetBoot(ctx context.Context, bootID string) (*model.Boot, error) {
	row, err := s.Queries.GetBoot(ctx, bootID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	boot := mapBootRow(row)
	return &boot, nil
}

// LatestBootID returns the newest boot id. When the boots table is empty but
// log rows exist (a store upgraded in place), the newest boot id present in
// the logs table is used instead.
func (s *Store) LatestBootID(ctx context.Context) (string, error) {
	bootID, err := s.Queries.LatestBootID(ctx)
	if err != nil {
		return "", err
	}
	if bootID != "" {
		return bootID, nil
	}
	return s.Queries.LatestLogBootID(ctx)
}

// GetBootDetails samples system/event_id/tags from one row of the boot.
// Absent boots yield empty details.
func (s *Store) GetBootDetails(ctx context.Context, bootID string) (model.BootDetails, error) {
	system, eventID, tags, err := s.Queries.SampleLogForBoot(ctx, bootID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.BootDetails{}, nil
		}
		return model.BootDetails{}, err
	}
	return model.BootDetails{
		System:  optionalString(system),
		EventID: optionalString(eventID),
		Tags:    optionalString(tags),
	}, nil
}

// LoadBoot reads a boot's events in row order together with the time range
// covered by parseable event timestamps. An empty bootID loads the latest
// boot. Returns nil when the store holds no matching events.
func (s *Store) LoadBoot(ctx context.Context, bootID string) (*model.BootData, error) {
	target := bootID
	if target == "" {
		var err error
		target, err = s.LatestBootID(ctx)
		if err != nil {
			return nil, err
		}
	}
	if target == "" {
		return nil, nil
	}

	rows, err := s.Queries.ListLogsForBoot(ctx, target)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	data := &model.BootData{
		BootID: target,
		Events: make([]model.LogEvent, 0, len(rows)),
	}
	for _, r := range rows {
		event := mapLogRow(r)
		data.Events = append(data.Events, event)

		if ts, ok := parseEventTime(event.UTCTime); ok {
			if data.Start.IsZero() || ts.Before(data.Start) {
				data.Start = ts
			}
			if data.End.IsZero() || ts.After(data.End) {
				data.End = ts
			}
		}
	}

	if data.Start.IsZero() {
		data.Start = time.Now().UTC()
	}
	if data.End.IsZero() {
		data.End = data.Start
	}
	data.Hours = data.End.Sub(data.Start).Hours()

	return data, nil
}

// parseEventTime tolerates the timestamp shapes seen in uploads: RFC3339
// with or without fractional seconds or a trailing Z.
func parseEventTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04:05.999999999"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func mapBootRow(r BootRow) model.Boot {
	return model.Boot{
		BootID:     r.BootID,
		CreatedAt:  parseTime(r.CreatedAt),
		EventCount: r.EventCount,
	}
}
