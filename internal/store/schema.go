package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// currentSchemaVersion is recorded on dataset_info. Stores written before
// the version column existed are detected by column sniffing instead.
const currentSchemaVersion = 2

// legacyBootID tags rows copied out of a pre-boot logs table during the
// in-place rebuild.
const legacyBootID = "legacy"

// logColumns is the full column set of the logs table after boot_id and the
// surrogate primary key, in insert order.
var logColumns = []string{
	"row_id", "name", "description", "color", "system", "subsystem",
	"unit", "code", "set_clear", "utctime", "norm_time",
	"a_time", "b_time", "c_time", "d_time",
	"channels", "data", "event_id", "tags",
}

var baseSchema = []string{
	`CREATE TABLE IF NOT EXISTS dataset_info (
		id INTEGER NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		owner_user_id INTEGER,
		log_count INTEGER NOT NULL DEFAULT 0,
		schema_version INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS boots (
		boot_id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		event_count INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS log_index (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		boot_id TEXT NOT NULL,
		row_id INTEGER NOT NULL,
		system TEXT,
		event_id TEXT,
		tags TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS bookmarks (
		user_id INTEGER NOT NULL,
		boot_id TEXT NOT NULL,
		row_id INTEGER NOT NULL,
		color_index INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(user_id, boot_id, row_id)
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		boot_id TEXT NOT NULL,
		row_id INTEGER NOT NULL,
		parent_id INTEGER,
		body TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS migration_state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}

const createLogsTable = `CREATE TABLE IF NOT EXISTS %s (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	boot_id TEXT NOT NULL,
	row_id INTEGER NOT NULL,
	name TEXT,
	description TEXT,
	color TEXT,
	system TEXT,
	subsystem TEXT,
	unit TEXT,
	code TEXT,
	set_clear TEXT,
	utctime TEXT,
	norm_time INTEGER,
	a_time INTEGER,
	b_time INTEGER,
	c_time INTEGER,
	d_time INTEGER,
	channels TEXT,
	data TEXT,
	event_id TEXT,
	tags TEXT,
	UNIQUE(boot_id, row_id)
)`

var logIndices = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_logs_boot_row ON logs(boot_id, row_id)`,
	`CREATE INDEX IF NOT EXISTS idx_logs_boot ON logs(boot_id)`,
}

func (s *Store) ensureSchema(ctx context.Context) error {
	for _, stmt := range baseSchema {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	// Stores created before versioning lack the schema_version column.
	infoCols, err := tableColumns(ctx, s.DB, "dataset_info")
	if err != nil {
		return err
	}
	if !containsColumn(infoCols, "schema_version") {
		if _, err := s.DB.ExecContext(ctx, `ALTER TABLE dataset_info ADD COLUMN schema_version INTEGER NOT NULL DEFAULT 0`); err != nil {
			return err
		}
	}

	version, err := s.storedSchemaVersion(ctx)
	if err != nil {
		return err
	}

	if version < currentSchemaVersion {
		if err := s.upgradeLogs(ctx); err != nil {
			return err
		}
		if _, err := s.DB.ExecContext(ctx, `UPDATE dataset_info SET schema_version = ?`, currentSchemaVersion); err != nil {
			return err
		}
	}

	for _, stmt := range logIndices {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) storedSchemaVersion(ctx context.Context) (int64, error) {
	var version int64
	err := s.DB.QueryRowContext(ctx, `SELECT schema_version FROM dataset_info LIMIT 1`).Scan(&version)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return version, nil
}

// upgradeLogs brings the logs table to the current column set. Detection is
// column-existence based: a table without boot_id or the surrogate primary
// key is rebuilt in place, carrying existing rows over under the legacy
// sentinel boot id.
func (s *Store) upgradeLogs(ctx context.Context) error {
	cols, err := tableColumns(ctx, s.DB, "logs")
	if err != nil {
		return err
	}

	if len(cols) == 0 {
		_, err := s.DB.ExecContext(ctx, fmt.Sprintf(createLogsTable, "logs"))
		return err
	}

	if containsColumn(cols, "boot_id") && containsColumn(cols, "id") {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(createLogsTable, "logs_new")); err != nil {
		return err
	}

	selectCols := make([]string, 0, len(logColumns))
	for _, col := range logColumns {
		if containsColumn(cols, col) {
			selectCols = append(selectCols, col)
		} else {
			selectCols = append(selectCols, "NULL AS "+col)
		}
	}

	copyStmt := fmt.Sprintf(
		`INSERT INTO logs_new (boot_id, %s) SELECT ?, %s FROM logs`,
		strings.Join(logColumns, ", "),
		strings.Join(selectCols, ", "),
	)
	if _, err := tx.ExecContext(ctx, copyStmt, legacyBootID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DROP TABLE logs`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `ALTER TABLE logs_new RENAME TO logs`); err != nil {
		return err
	}

	return tx.Commit()
}

// tableColumns returns the column names of table, empty when the table does
// not exist.
func tableColumns(ctx context.Context, db *sql.DB, table string) ([]string, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var cols []string
	for rows.Next() {
		var (
			cid       int64
			name      string
			colType   string
			notNull   int64
			dfltValue sql.NullString
			pk        int64
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

func containsColumn(cols []string, name string) bool {
	for _, col := range cols {
		if col == name {
			return true
		}
	}
	return false
}
