package legacy

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
)

// openLegacy opens the shared store read-only; the importer never mutates
// the legacy layout.
func openLegacy(path string) (*sql.DB, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?mode=ro", filepath.ToSlash(absPath))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// tableColumns returns the column names of table, empty when the table does
// not exist. The legacy schema evolved over time, so every copy is guarded
// by these checks.
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

func hasColumn(cols []string, name string) bool {
	for _, col := range cols {
		if col == name {
			return true
		}
	}
	return false
}

// guardedSelect reads every row of table matching filterCol = filterValue,
// returning nil (not an error) when the table or the filter column is
// missing from this installation.
func guardedSelect(ctx context.Context, db *sql.DB, table, filterCol string, filterValue int64) ([]map[string]any, error) {
	cols, err := tableColumns(ctx, db, table)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 || !hasColumn(cols, filterCol) {
		return nil, nil
	}
	return selectAll(ctx, db, table, fmt.Sprintf("%s = %d", filterCol, filterValue))
}

// selectAll reads a table into generic row maps so that copies survive
// column differences between installations.
func selectAll(ctx context.Context, db *sql.DB, table, where string) ([]map[string]any, error) {
	query := fmt.Sprintf(`SELECT * FROM %s`, table)
	if where != "" {
		query += ` WHERE ` + where
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var result []map[string]any
	for rows.Next() {
		values := make([]any, len(names))
		targets := make([]any, len(names))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}

		m := make(map[string]any, len(names))
		for i, name := range names {
			m[name] = values[i]
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func rowString(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func rowInt64(m map[string]any, key string) int64 {
	switch v := m[key].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func rowNullString(m map[string]any, key string) sql.NullString {
	if s := rowString(m, key); s != "" {
		return sql.NullString{String: s, Valid: true}
	}
	return sql.NullString{}
}
