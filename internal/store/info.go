package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bootlog/bootlog/internal/model"
)

// ReadInfo returns the embedded identity record, or nil when the store has
// never been initialised with one.
func (s *Store) ReadInfo(ctx context.Context) (*model.Dataset, error) {
	row, err := s.Queries.GetDatasetInfo(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	ds := mapDatasetInfo(row)
	ds.StorePath = s.path
	return &ds, nil
}

// WriteInfo replaces the identity record. CreatedAt defaults to now when
// unset; UpdatedAt is always stamped.
func (s *Store) WriteInfo(ctx context.Context, ds model.Dataset) error {
	now := time.Now()
	createdAt := ds.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	return s.WithTx(ctx, func(ctx context.Context, q *Queries) error {
		return q.ReplaceDatasetInfo(ctx, DatasetInfoRow{
			ID:            ds.ID,
			Name:          ds.Name,
			Description:   ds.Description,
			OwnerUserID:   nullInt64Ptr(ds.OwnerUserID),
			LogCount:      ds.LogCount,
			SchemaVersion: currentSchemaVersion,
			CreatedAt:     formatTime(createdAt),
			UpdatedAt:     formatTime(now),
		})
	})
}

func mapDatasetInfo(row DatasetInfoRow) model.Dataset {
	return model.Dataset{
		ID:            row.ID,
		Name:          row.Name,
		Description:   row.Description,
		OwnerUserID:   optionalInt64Ptr(row.OwnerUserID),
		LogCount:      row.LogCount,
		SchemaVersion: row.SchemaVersion,
		CreatedAt:     parseTime(row.CreatedAt),
		UpdatedAt:     parseTime(row.UpdatedAt),
	}
}
