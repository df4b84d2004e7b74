package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bootlog/bootlog/internal/model"
)

// SetBookmark upserts the user's bookmark on an event row. A colorIndex of
// zero or below removes the row entirely rather than storing a zero value.
func (s *Store) SetBookmark(ctx context.Context, userID int64, bootID string, rowID, colorIndex int64) error {
	return s.WithTx(ctx, func(ctx context.Context, q *Queries) error {
		if colorIndex <= 0 {
			return q.DeleteBookmark(ctx, userID, bootID, rowID)
		}
		now := formatTime(time.Now())
		return q.UpsertBookmark(ctx, userID, bootID, rowID, colorIndex, now, now)
	})
}

// GetBookmark returns the bookmark for the row, or nil when none exists.
func (s *Store) GetBookmark(ctx context.Context, userID int64, bootID string, rowID int64) (*model.Bookmark, error) {
	row, err := s.Queries.GetBookmark(ctx, userID, bootID, rowID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	bookmark := mapBookmarkRow(row)
	return &bookmark, nil
}

// ListBookmarksForBoot returns the user's bookmarks on a boot in row order.
func (s *Store) ListBookmarksForBoot(ctx context.Context, userID int64, bootID string) ([]model.Bookmark, error) {
	rows, err := s.Queries.ListBookmarksForBoot(ctx, userID, bootID)
	if err != nil {
		return nil, err
	}

	result := make([]model.Bookmark, 0, len(rows))
	for _, r := range rows {
		result = append(result, mapBookmarkRow(r))
	}
	return result, nil
}

func mapBookmarkRow(r BookmarkRow) model.Bookmark {
	return model.Bookmark{
		UserID:     r.UserID,
		BootID:     r.BootID,
		RowID:      r.RowID,
		ColorIndex: r.ColorIndex,
		CreatedAt:  parseTime(r.CreatedAt),
		UpdatedAt:  parseTime(r.UpdatedAt),
	}
}
