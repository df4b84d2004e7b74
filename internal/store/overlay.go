package store

import (
	"context"

	"github.com/bootlog/bootlog/internal/model"
)

// SetBootMetadata rewrites system/event_id/tags on every event row of the
// boot, then rebuilds the boot's log_index rows from scratch. The index is a
// pure projection of the logs table and is never patched in place.
func (s *Store) SetBootMetadata(ctx context.Context, bootID, system, eventID string, tags []string) error {
	tagsValue := model.JoinTags(tags)

	return s.WithTx(ctx, func(ctx context.Context, q *Queries) error {
		if _, err := q.UpdateLogsMetadata(ctx, bootID, system, eventID, tagsValue); err != nil {
			return err
		}

		rows, err := q.MetadataRowsForBoot(ctx, bootID)
		if err != nil {
			return err
		}

		if err := q.DeleteIndexForBoot(ctx, bootID); err != nil {
			return err
		}
		for _, r := range rows {
			if err := q.InsertIndexRow(ctx, bootID, r.RowID, r.System, r.EventID, r.Tags); err != nil {
				return err
			}
		}
		return nil
	})
}
