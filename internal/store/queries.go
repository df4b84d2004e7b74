package store

import (
	"context"
	"database/sql"
)

// DBTX matches both *sql.DB and *sql.Tx so every query can run standalone or
// inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries exposes the statements of the per-dataset schema.
type Queries struct {
	db DBTX
}

// New constructs a Queries helper around the provided handle.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a copy of the Queries helper scoped to the supplied
// transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// LogRow mirrors one row of the logs table.
type LogRow struct {
	ID          int64
	BootID      string
	RowID       int64
	Name        sql.NullString
	Description sql.NullString
	Color       sql.NullString
	System      sql.NullString
	Subsystem   sql.NullString
	Unit        sql.NullString
	Code        sql.NullString
	SetClear    sql.NullString
	UTCTime     sql.NullString
	NormTime    sql.NullInt64
	ATime       sql.NullInt64
	BTime       sql.NullInt64
	CTime       sql.NullInt64
	DTime       sql.NullInt64
	Channels    sql.NullString
	Data        sql.NullString
	EventID     sql.NullString
	Tags        sql.NullString
}

// InsertLogRowParams carries one event row for upsert.
type InsertLogRowParams struct {
	BootID      string
	RowID       int64
	Name        sql.NullString
	Description sql.NullString
	Color       sql.NullString
	System      sql.NullString
	Subsystem   sql.NullString
	Unit        sql.NullString
	Code        sql.NullString
	SetClear    sql.NullString
	UTCTime     sql.NullString
	NormTime    sql.NullInt64
	ATime       sql.NullInt64
	BTime       sql.NullInt64
	CTime       sql.NullInt64
	DTime       sql.NullInt64
	Channels    string
	Data        string
	EventID     string
	Tags        string
}

const insertLogRow = `INSERT OR REPLACE INTO logs (
	boot_id, row_id, name, description, color, system, subsystem, unit, code, set_clear,
	utctime, norm_time, a_time, b_time, c_time, d_time, channels, data, event_id, tags
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertLogRow(ctx context.Context, p InsertLogRowParams) error {
	_, err := q.db.ExecContext(ctx, insertLogRow,
		p.BootID, p.RowID, p.Name, p.Description, p.Color, p.System, p.Subsystem,
		p.Unit, p.Code, p.SetClear, p.UTCTime, p.NormTime,
		p.ATime, p.BTime, p.CTime, p.DTime, p.Channels, p.Data, p.EventID, p.Tags,
	)
	return err
}

const selectLogColumns = `id, boot_id, row_id, name, description, color, system, subsystem,
	unit, code, set_clear, utctime, norm_time, a_time, b_time, c_time, d_time,
	channels, data, event_id, tags`

const listLogsForBoot = `SELECT ` + selectLogColumns + ` FROM logs WHERE boot_id = ? ORDER BY row_id`

func (q *Queries) ListLogsForBoot(ctx context.Context, bootID string) ([]LogRow, error) {
	rows, err := q.db.QueryContext(ctx, listLogsForBoot, bootID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []LogRow
	for rows.Next() {
		var r LogRow
		if err := rows.Scan(
			&r.ID, &r.BootID, &r.RowID, &r.Name, &r.Description, &r.Color, &r.System,
			&r.Subsystem, &r.Unit, &r.Code, &r.SetClear, &r.UTCTime, &r.NormTime,
			&r.ATime, &r.BTime, &r.CTime, &r.DTime, &r.Channels, &r.Data, &r.EventID, &r.Tags,
		); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

const countLogs = `SELECT COUNT(*) FROM logs`

func (q *Queries) CountLogs(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countLogs).Scan(&count)
	return count, err
}

const latestLogBootID = `SELECT boot_id FROM logs ORDER BY id DESC LIMIT 1`

func (q *Queries) LatestLogBootID(ctx context.Context) (string, error) {
	var bootID string
	err := q.db.QueryRowContext(ctx, latestLogBootID).Scan(&bootID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return bootID, err
}

const sampleLogForBoot = `SELECT system, event_id, tags FROM logs WHERE boot_id = ? LIMIT 1`

func (q *Queries) SampleLogForBoot(ctx context.Context, bootID string) (system, eventID, tags sql.NullString, err error) {
	err = q.db.QueryRowContext(ctx, sampleLogForBoot, bootID).Scan(&system, &eventID, &tags)
	return system, eventID, tags, err
}

const updateLogsMetadata = `UPDATE logs SET system = ?, event_id = ?, tags = ? WHERE boot_id = ?`

func (q *Queries) UpdateLogsMetadata(ctx context.Context, bootID, system, eventID, tags string) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateLogsMetadata, system, eventID, tags, bootID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// MetadataRow is the slice of a log row that feeds the log_index rebuild.
type MetadataRow struct {
	RowID   int64
	System  sql.NullString
	EventID sql.NullString
	Tags    sql.NullString
}

const metadataRowsForBoot = `SELECT row_id, system, event_id, tags FROM logs WHERE boot_id = ? ORDER BY row_id`

func (q *Queries) MetadataRowsForBoot(ctx context.Context, bootID string) ([]MetadataRow, error) {
	rows, err := q.db.QueryContext(ctx, metadataRowsForBoot, bootID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []MetadataRow
	for rows.Next() {
		var r MetadataRow
		if err := rows.Scan(&r.RowID, &r.System, &r.EventID, &r.Tags); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

const upsertBoot = `INSERT INTO boots (boot_id, created_at, event_count) VALUES (?, ?, ?)
	ON CONFLICT(boot_id) DO UPDATE SET created_at = excluded.created_at, event_count = excluded.event_count`

func (q *Queries) UpsertBoot(ctx context.Context, bootID, createdAt string, eventCount int64) error {
	_, err := q.db.ExecContext(ctx, upsertBoot, bootID, createdAt, eventCount)
	return err
}

// BootRow mirrors one row of the boots table.
type BootRow struct {
	BootID     string
	CreatedAt  string
	EventCount int64
}

const listBoots = `SELECT boot_id, created_at, event_count FROM boots ORDER BY datetime(created_at) DESC, boot_id`

func (q *Queries) ListBoots(ctx context.Context) ([]BootRow, error) {
	rows, err := q.db.QueryContext(ctx, listBoots)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []BootRow
	for rows.Next() {
		var r BootRow
		if err := rows.Scan(&r.BootID, &r.CreatedAt, &r.EventCount); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

const getBoot = `SELECT boot_id, created_at, event_count FROM boots WHERE boot_id = ?`

func (q *Queries) GetBoot(ctx context.Context, bootID string) (BootRow, error) {
	var r BootRow
	err := q.db.QueryRowContext(ctx, getBoot, bootID).Scan(&r.BootID, &r.CreatedAt, &r.EventCount)
	return r, err
}

const latestBoot = `SELECT boot_id FROM boots ORDER BY datetime(created_at) DESC LIMIT 1`

func (q *Queries) LatestBootID(ctx context.Context) (string, error) {
	var bootID string
	err := q.db.QueryRowContext(ctx, latestBoot).Scan(&bootID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return bootID, err
}

const deleteIndexForBoot = `DELETE FROM log_index WHERE boot_id = ?`

func (q *Queries) DeleteIndexForBoot(ctx context.Context, bootID string) error {
	_, err := q.db.ExecContext(ctx, deleteIndexForBoot, bootID)
	return err
}

const insertIndexRow = `INSERT INTO log_index (boot_id, row_id, system, event_id, tags) VALUES (?, ?, ?, ?, ?)`

func (q *Queries) InsertIndexRow(ctx context.Context, bootID string, rowID int64, system, eventID, tags sql.NullString) error {
	_, err := q.db.ExecContext(ctx, insertIndexRow, bootID, rowID, system, eventID, tags)
	return err
}

// IndexRow mirrors one row of the log_index table.
type IndexRow struct {
	BootID  string
	RowID   int64
	System  sql.NullString
	EventID sql.NullString
	Tags    sql.NullString
}

const listIndexForBoot = `SELECT boot_id, row_id, system, event_id, tags FROM log_index WHERE boot_id = ? ORDER BY row_id`

func (q *Queries) ListIndexForBoot(ctx context.Context, bootID string) ([]IndexRow, error) {
	rows, err := q.db.QueryContext(ctx, listIndexForBoot, bootID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []IndexRow
	for rows.Next() {
		var r IndexRow
		if err := rows.Scan(&r.BootID, &r.RowID, &r.System, &r.EventID, &r.Tags); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// DatasetInfoRow mirrors the dataset_info singleton.
type DatasetInfoRow struct {
	ID            int64
	Name          string
	Description   string
	OwnerUserID   sql.NullInt64
	LogCount      int64
	SchemaVersion int64
	CreatedAt     string
	UpdatedAt     string
}

const getDatasetInfo = `SELECT id, name, description, owner_user_id, log_count, schema_version, created_at, updated_at
	FROM dataset_info LIMIT 1`

func (q *Queries) GetDatasetInfo(ctx context.Context) (DatasetInfoRow, error) {
	var r DatasetInfoRow
	err := q.db.QueryRowContext(ctx, getDatasetInfo).Scan(
		&r.ID, &r.Name, &r.Description, &r.OwnerUserID, &r.LogCount,
		&r.SchemaVersion, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

const deleteDatasetInfo = `DELETE FROM dataset_info`

const insertDatasetInfo = `INSERT INTO dataset_info
	(id, name, description, owner_user_id, log_count, schema_version, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

// ReplaceDatasetInfo rewrites the identity singleton. dataset_info holds at
// most one row, enforced here rather than by the schema.
func (q *Queries) ReplaceDatasetInfo(ctx context.Context, r DatasetInfoRow) error {
	if _, err := q.db.ExecContext(ctx, deleteDatasetInfo); err != nil {
		return err
	}
	_, err := q.db.ExecContext(ctx, insertDatasetInfo,
		r.ID, r.Name, r.Description, r.OwnerUserID, r.LogCount,
		r.SchemaVersion, r.CreatedAt, r.UpdatedAt,
	)
	return err
}

const setLogCount = `UPDATE dataset_info SET log_count = ?, updated_at = ?`

func (q *Queries) SetLogCount(ctx context.Context, count int64, updatedAt string) error {
	_, err := q.db.ExecContext(ctx, setLogCount, count, updatedAt)
	return err
}

const upsertBookmark = `INSERT INTO bookmarks (user_id, boot_id, row_id, color_index, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(user_id, boot_id, row_id) DO UPDATE SET color_index = excluded.color_index, updated_at = excluded.updated_at`

func (q *Queries) UpsertBookmark(ctx context.Context, userID int64, bootID string, rowID, colorIndex int64, createdAt, updatedAt string) error {
	_, err := q.db.ExecContext(ctx, upsertBookmark, userID, bootID, rowID, colorIndex, createdAt, updatedAt)
	return err
}

const deleteBookmark = `DELETE FROM bookmarks WHERE user_id = ? AND boot_id = ? AND row_id = ?`

func (q *Queries) DeleteBookmark(ctx context.Context, userID int64, bootID string, rowID int64) error {
	_, err := q.db.ExecContext(ctx, deleteBookmark, userID, bootID, rowID)
	return err
}

// BookmarkRow mirrors one row of the bookmarks table.
type BookmarkRow struct {
	UserID     int64
	BootID     string
	RowID      int64
	ColorIndex int64
	CreatedAt  string
	UpdatedAt  string
}

const getBookmark = `SELECT user_id, boot_id, row_id, color_index, created_at, updated_at
	FROM bookmarks WHERE user_id = ? AND boot_id = ? AND row_id = ?`

func (q *Queries) GetBookmark(ctx context.Context, userID int64, bootID string, rowID int64) (BookmarkRow, error) {
	var r BookmarkRow
	err := q.db.QueryRowContext(ctx, getBookmark, userID, bootID, rowID).Scan(
		&r.UserID, &r.BootID, &r.RowID, &r.ColorIndex, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

const listBookmarksForBoot = `SELECT user_id, boot_id, row_id, color_index, created_at, updated_at
	FROM bookmarks WHERE user_id = ? AND boot_id = ? ORDER BY row_id`

func (q *Queries) ListBookmarksForBoot(ctx context.Context, userID int64, bootID string) ([]BookmarkRow, error) {
	rows, err := q.db.QueryContext(ctx, listBookmarksForBoot, userID, bootID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []BookmarkRow
	for rows.Next() {
		var r BookmarkRow
		if err := rows.Scan(&r.UserID, &r.BootID, &r.RowID, &r.ColorIndex, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// CommentRow mirrors one row of the comments table.
type CommentRow struct {
	ID        int64
	UserID    int64
	BootID    string
	RowID     int64
	ParentID  sql.NullInt64
	Body      string
	CreatedAt string
}

const insertComment = `INSERT INTO comments (user_id, boot_id, row_id, parent_id, body, created_at)
	VALUES (?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertComment(ctx context.Context, userID int64, bootID string, rowID int64, parentID sql.NullInt64, body, createdAt string) (int64, error) {
	res, err := q.db.ExecContext(ctx, insertComment, userID, bootID, rowID, parentID, body, createdAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const insertCommentRow = `INSERT OR IGNORE INTO comments (id, user_id, boot_id, row_id, parent_id, body, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

// InsertCommentRow inserts a comment preserving its id. Used by the legacy
// importer, which must keep parent references intact.
func (q *Queries) InsertCommentRow(ctx context.Context, r CommentRow) error {
	_, err := q.db.ExecContext(ctx, insertCommentRow, r.ID, r.UserID, r.BootID, r.RowID, r.ParentID, r.Body, r.CreatedAt)
	return err
}

const getComment = `SELECT id, user_id, boot_id, row_id, parent_id, body, created_at FROM comments WHERE id = ?`

func (q *Queries) GetComment(ctx context.Context, id int64) (CommentRow, error) {
	var r CommentRow
	err := q.db.QueryRowContext(ctx, getComment, id).Scan(
		&r.ID, &r.UserID, &r.BootID, &r.RowID, &r.ParentID, &r.Body, &r.CreatedAt,
	)
	return r, err
}

const listCommentsForBoot = `SELECT id, user_id, boot_id, row_id, parent_id, body, created_at
	FROM comments WHERE boot_id = ? ORDER BY datetime(created_at), id`

func (q *Queries) ListCommentsForBoot(ctx context.Context, bootID string) ([]CommentRow, error) {
	rows, err := q.db.QueryContext(ctx, listCommentsForBoot, bootID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []CommentRow
	for rows.Next() {
		var r CommentRow
		if err := rows.Scan(&r.ID, &r.UserID, &r.BootID, &r.RowID, &r.ParentID, &r.Body, &r.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

const upsertBookmarkRow = `INSERT OR IGNORE INTO bookmarks (user_id, boot_id, row_id, color_index, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)`

// InsertBookmarkRow inserts a bookmark with its original timestamps. Used by
// the legacy importer.
func (q *Queries) InsertBookmarkRow(ctx context.Context, r BookmarkRow) error {
	_, err := q.db.ExecContext(ctx, upsertBookmarkRow, r.UserID, r.BootID, r.RowID, r.ColorIndex, r.CreatedAt, r.UpdatedAt)
	return err
}

const getMigrationState = `SELECT value FROM migration_state WHERE key = ?`

func (q *Queries) GetMigrationState(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := q.db.QueryRowContext(ctx, getMigrationState, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

const setMigrationState = `INSERT OR REPLACE INTO migration_state (key, value) VALUES (?, ?)`

func (q *Queries) SetMigrationState(ctx context.Context, key, value string) error {
	_, err := q.db.ExecContext(ctx, setMigrationState, key, value)
	return err
}
