package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bootlog/bootlog/internal/model"
)

// UserResolver batch-fetches user records for the application-level join of
// comment rows against the central identity store.
type UserResolver interface {
	UsersByIDs(ctx context.Context, ids []int64) (map[int64]model.User, error)
}

// CreateComment inserts a comment on an event row. When parentID is set the
// parent must exist on the same boot and the same row; otherwise the write
// fails with ErrInvalidParent and nothing is persisted.
func (s *Store) CreateComment(ctx context.Context, userID int64, bootID string, rowID int64, parentID *int64, body string) (*model.Comment, error) {
	now := time.Now()
	var created model.Comment

	err := s.WithTx(ctx, func(ctx context.Context, q *Queries) error {
		if parentID != nil {
			parent, err := q.GetComment(ctx, *parentID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return fmt.Errorf("%w: parent %d not found", ErrInvalidParent, *parentID)
				}
				return err
			}
			if parent.BootID != bootID || parent.RowID != rowID {
				return fmt.Errorf("%w: parent %d belongs to a different row", ErrInvalidParent, *parentID)
			}
		}

		id, err := q.InsertComment(ctx, userID, bootID, rowID, nullInt64Ptr(parentID), body, formatTime(now))
		if err != nil {
			return err
		}

		created = model.Comment{
			ID:        id,
			UserID:    userID,
			BootID:    bootID,
			RowID:     rowID,
			ParentID:  parentID,
			Body:      body,
			CreatedAt: now.UTC(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ListCommentsForBoot returns a boot's comments in creation order.
func (s *Store) ListCommentsForBoot(ctx context.Context, bootID string) ([]model.Comment, error) {
	rows, err := s.Queries.ListCommentsForBoot(ctx, bootID)
	if err != nil {
		return nil, err
	}

	result := make([]model.Comment, 0, len(rows))
	for _, r := range rows {
		result = append(result, mapCommentRow(r))
	}
	return result, nil
}

// ListCommentsWithAuthors joins a boot's comments against the central
// identity store in two steps: fetch the comment rows, batch-fetch the
// matching users, merge in memory. User rows are never copied into the
// dataset file.
func (s *Store) ListCommentsWithAuthors(ctx context.Context, bootID string, users UserResolver) ([]model.CommentWithAuthor, error) {
	comments, err := s.ListCommentsForBoot(ctx, bootID)
	if err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return []model.CommentWithAuthor{}, nil
	}

	seen := make(map[int64]struct{}, len(comments))
	ids := make([]int64, 0, len(comments))
	for _, c := range comments {
		if _, ok := seen[c.UserID]; ok {
			continue
		}
		seen[c.UserID] = struct{}{}
		ids = append(ids, c.UserID)
	}

	authors, err := users.UsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]model.CommentWithAuthor, 0, len(comments))
	for _, c := range comments {
		joined := model.CommentWithAuthor{Comment: c}
		if u, ok := authors[c.UserID]; ok {
			joined.AuthorName = u.Name
			joined.AuthorEmail = u.Email
		}
		result = append(result, joined)
	}
	return result, nil
}

func mapCommentRow(r CommentRow) model.Comment {
	return model.Comment{
		ID:        r.ID,
		UserID:    r.UserID,
		BootID:    r.BootID,
		RowID:     r.RowID,
		ParentID:  optionalInt64Ptr(r.ParentID),
		Body:      r.Body,
		CreatedAt: parseTime(r.CreatedAt),
	}
}
