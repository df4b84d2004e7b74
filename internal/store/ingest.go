package store

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/bootlog/bootlog/internal/model"
)

// newBootID returns an unguessable url-safe token. The length matches the
// boot ids already present in migrated stores.
func newBootID() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate boot id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Ingest writes events as a fresh boot and returns its id. An empty event
// list is a no-op returning an empty id.
func (s *Store) Ingest(ctx context.Context, events []model.LogEvent) (string, error) {
	if len(events) == 0 {
		return "", nil
	}

	bootID, err := newBootID()
	if err != nil {
		return "", err
	}

	if err := s.IngestBoot(ctx, bootID, events); err != nil {
		return "", err
	}
	return bootID, nil
}

// IngestBoot writes events under an explicit boot id. Everything — the event
// rows, the boots row, the index rows, and the recomputed log_count — lands
// in one transaction, so a reader never observes a boot without its events.
// Rows colliding on (boot_id, row_id) are overwritten.
func (s *Store) IngestBoot(ctx context.Context, bootID string, events []model.LogEvent) error {
	if len(events) == 0 {
		return nil
	}

	now := time.Now()

	return s.WithTx(ctx, func(ctx context.Context, q *Queries) error {
		for _, e := range events {
			if err := q.InsertLogRow(ctx, logRowParams(bootID, e)); err != nil {
				return err
			}
		}

		if err := q.UpsertBoot(ctx, bootID, formatTime(now), int64(len(events))); err != nil {
			return err
		}

		if err := q.DeleteIndexForBoot(ctx, bootID); err != nil {
			return err
		}
		for _, e := range events {
			err := q.InsertIndexRow(ctx, bootID, e.RowID,
				nullString(e.System), nullString(e.EventID), nullString(model.JoinTags(e.Tags)))
			if err != nil {
				return err
			}
		}

		// log_count is the true row count, not a running sum.
		count, err := q.CountLogs(ctx)
		if err != nil {
			return err
		}
		return q.SetLogCount(ctx, count, formatTime(now))
	})
}
