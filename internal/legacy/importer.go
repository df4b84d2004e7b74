// Package legacy migrates data out of the old architecture, in which every
// dataset's boots, index entries, bookmarks, and comments lived in one
// shared store keyed by dataset_id, into the current one-file-per-dataset
// layout. The migration is one-way and idempotent: each target store records
// a marker once its copy has committed.
package legacy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bootlog/bootlog/internal/catalog"
	"github.com/bootlog/bootlog/internal/store"

	// Import SQLite driver for database/sql
	_ "modernc.org/sqlite"
)

// MigrationKey marks a target store that has already received its copy.
const MigrationKey = "central_import"

// Importer copies legacy rows from the shared store into per-dataset files.
type Importer struct {
	sourcePath string
	root       string
	log        *logrus.Logger
}

// New returns an Importer reading the shared store at sourcePath and writing
// dataset files under root.
func New(sourcePath, root string, log *logrus.Logger) *Importer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Importer{sourcePath: sourcePath, root: root, log: log}
}

// Result summarises one import pass.
type Result struct {
	Imported    int
	AlreadyDone int
	Skipped     int
}

// Run migrates every legacy dataset row. One malformed or unreadable dataset
// is logged and skipped; it never aborts the migration of the others. A
// missing source store means there is nothing to migrate.
func (im *Importer) Run(ctx context.Context) (Result, error) {
	var result Result

	if _, err := os.Stat(im.sourcePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return result, nil
		}
		return result, err
	}

	src, err := openLegacy(im.sourcePath)
	if err != nil {
		return result, fmt.Errorf("failed to open legacy store: %w", err)
	}
	defer func() {
		_ = src.Close()
	}()

	datasetCols, err := tableColumns(ctx, src, "datasets")
	if err != nil {
		return result, err
	}
	if len(datasetCols) == 0 {
		return result, nil
	}

	rows, err := selectAll(ctx, src, "datasets", "")
	if err != nil {
		return result, err
	}

	for _, row := range rows {
		id := rowInt64(row, "id")
		name := rowString(row, "name")
		if id <= 0 || name == "" {
			im.log.WithField("row", row).Warn("skipping malformed legacy dataset row")
			result.Skipped++
			continue
		}

		status, err := im.importDataset(ctx, src, id, name, row)
		if err != nil {
			im.log.WithError(err).WithFields(logrus.Fields{
				"dataset_id": id,
				"name":       name,
			}).Warn("skipping legacy dataset")
			result.Skipped++
			continue
		}
		if status {
			result.Imported++
		} else {
			result.AlreadyDone++
		}
	}

	return result, nil
}

// importDataset migrates one legacy dataset. Returns false when the target
// store's marker shows the work was already done.
func (im *Importer) importDataset(ctx context.Context, src *sql.DB, id int64, name string, row map[string]any) (bool, error) {
	path := rowString(row, "db_path")
	if path == "" {
		path = filepath.Join(im.root, fmt.Sprintf("dataset%d_%s.db", id, catalog.Slugify(name)))
	}

	target, err := store.Open(path)
	if err != nil {
		return false, err
	}
	defer func() {
		_ = target.Close()
	}()

	applied, err := target.MigrationApplied(ctx, MigrationKey)
	if err != nil {
		return false, err
	}
	if applied {
		return false, nil
	}

	boots, err := im.legacyBoots(ctx, src, id)
	if err != nil {
		return false, err
	}
	indexRows, err := im.legacyIndexRows(ctx, src, id)
	if err != nil {
		return false, err
	}
	bookmarks, err := im.legacyBookmarks(ctx, src, id)
	if err != nil {
		return false, err
	}
	comments, err := im.legacyComments(ctx, src, id)
	if err != nil {
		return false, err
	}

	now := time.Now()
	var owner sql.NullInt64
	if v := rowInt64(row, "owner_user_id"); v != 0 {
		owner = sql.NullInt64{Int64: v, Valid: true}
	}
	createdAt := rowString(row, "created_at")
	if createdAt == "" {
		createdAt = now.UTC().Format(time.RFC3339)
	}

	err = target.WithTx(ctx, func(ctx context.Context, q *store.Queries) error {
		if err := q.ReplaceDatasetInfo(ctx, store.DatasetInfoRow{
			ID:            id,
			Name:          name,
			Description:   rowString(row, "description"),
			OwnerUserID:   owner,
			LogCount:      rowInt64(row, "log_count"),
			SchemaVersion: 0,
			CreatedAt:     createdAt,
			UpdatedAt:     now.UTC().Format(time.RFC3339),
		}); err != nil {
			return err
		}

		for _, b := range boots {
			if err := q.UpsertBoot(ctx, b.BootID, b.CreatedAt, b.EventCount); err != nil {
				return err
			}
		}
		for _, r := range indexRows {
			if err := q.InsertIndexRow(ctx, r.BootID, r.RowID, r.System, r.EventID, r.Tags); err != nil {
				return err
			}
		}
		for _, b := range bookmarks {
			if err := q.InsertBookmarkRow(ctx, b); err != nil {
				return err
			}
		}
		for _, c := range comments {
			if err := q.InsertCommentRow(ctx, c); err != nil {
				return err
			}
		}

		// The legacy log_count column is untrusted; recount the rows that are
		// actually present in the target file.
		count, err := q.CountLogs(ctx)
		if err != nil {
			return err
		}
		if err := q.SetLogCount(ctx, count, now.UTC().Format(time.RFC3339)); err != nil {
			return err
		}

		return q.SetMigrationState(ctx, MigrationKey, now.UTC().Format(time.RFC3339))
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// legacyBoots copies the boots rows for one dataset, tolerating installs
// whose boots table never existed.
func (im *Importer) legacyBoots(ctx context.Context, src *sql.DB, datasetID int64) ([]store.BootRow, error) {
	rows, err := guardedSelect(ctx, src, "boots", "dataset_id", datasetID)
	if err != nil || rows == nil {
		return nil, err
	}

	result := make([]store.BootRow, 0, len(rows))
	for _, m := range rows {
		bootID := rowString(m, "boot_id")
		if bootID == "" {
			continue
		}
		result = append(result, store.BootRow{
			BootID:     bootID,
			CreatedAt:  rowString(m, "created_at"),
			EventCount: rowInt64(m, "event_count"),
		})
	}
	return result, nil
}

func (im *Importer) legacyIndexRows(ctx context.Context, src *sql.DB, datasetID int64) ([]store.IndexRow, error) {
	rows, err := guardedSelect(ctx, src, "log_index", "dataset_id", datasetID)
	if err != nil || rows == nil {
		return nil, err
	}

	result := make([]store.IndexRow, 0, len(rows))
	for _, m := range rows {
		bootID := rowString(m, "boot_id")
		if bootID == "" {
			continue
		}
		result = append(result, store.IndexRow{
			BootID:  bootID,
			RowID:   rowInt64(m, "row_id"),
			System:  rowNullString(m, "system"),
			EventID: rowNullString(m, "event_id"),
			Tags:    rowNullString(m, "tags"),
		})
	}
	return result, nil
}

func (im *Importer) legacyBookmarks(ctx context.Context, src *sql.DB, datasetID int64) ([]store.BookmarkRow, error) {
	rows, err := guardedSelect(ctx, src, "bookmarks", "dataset_id", datasetID)
	if err != nil || rows == nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	result := make([]store.BookmarkRow, 0, len(rows))
	for _, m := range rows {
		colorIndex := rowInt64(m, "color_index")
		if colorIndex <= 0 {
			continue
		}
		createdAt := rowString(m, "created_at")
		if createdAt == "" {
			createdAt = now
		}
		updatedAt := rowString(m, "updated_at")
		if updatedAt == "" {
			updatedAt = createdAt
		}
		result = append(result, store.BookmarkRow{
			UserID:     rowInt64(m, "user_id"),
			BootID:     rowString(m, "boot_id"),
			RowID:      rowInt64(m, "row_id"),
			ColorIndex: colorIndex,
			CreatedAt:  createdAt,
			UpdatedAt:  updatedAt,
		})
	}
	return result, nil
}

func (im *Importer) legacyComments(ctx context.Context, src *sql.DB, datasetID int64) ([]store.CommentRow, error) {
	rows, err := guardedSelect(ctx, src, "comments", "dataset_id", datasetID)
	if err != nil || rows == nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	result := make([]store.CommentRow, 0, len(rows))
	for _, m := range rows {
		createdAt := rowString(m, "created_at")
		if createdAt == "" {
			createdAt = now
		}
		var parent sql.NullInt64
		if v := rowInt64(m, "parent_id"); v != 0 {
			parent = sql.NullInt64{Int64: v, Valid: true}
		}
		result = append(result, store.CommentRow{
			ID:        rowInt64(m, "id"),
			UserID:    rowInt64(m, "user_id"),
			BootID:    rowString(m, "boot_id"),
			RowID:     rowInt64(m, "row_id"),
			ParentID:  parent,
			Body:      rowString(m, "body"),
			CreatedAt: createdAt,
		})
	}
	return result, nil
}
