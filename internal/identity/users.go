package identity

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/bootlog/bootlog/internal/model"
)

const userColumns = `id, email, name, created_at, updated_at, last_seen`

// GetUser returns the user with the given id, or nil when absent.
func (s *Store) GetUser(ctx context.Context, id int64) (*model.User, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByEmail returns the user with the given email, or nil when absent.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// GetOrCreateUser returns the user with the given email, creating the
// account on first sight.
func (s *Store) GetOrCreateUser(ctx context.Context, email string) (*model.User, error) {
	existing, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO users (email, name, created_at, updated_at, last_seen) VALUES (?, NULL, ?, ?, ?)`,
		email, now, now, now,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

// UpdateUserName sets the user's display name.
func (s *Store) UpdateUserName(ctx context.Context, id int64, name string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.DB.ExecContext(ctx, `UPDATE users SET name = ?, updated_at = ? WHERE id = ?`, name, now, id)
	return err
}

// UpdateUserLastSeen stamps the user's last activity.
func (s *Store) UpdateUserLastSeen(ctx context.Context, id int64, when time.Time) error {
	stamp := when.UTC().Format(time.RFC3339)
	_, err := s.DB.ExecContext(ctx, `UPDATE users SET last_seen = ?, updated_at = ? WHERE id = ?`, stamp, stamp, id)
	return err
}

// UsersByIDs batch-fetches users keyed by id. Unknown ids are simply absent
// from the result.
func (s *Store) UsersByIDs(ctx context.Context, ids []int64) (map[int64]model.User, error) {
	result := make(map[int64]model.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		user, err := scanUserColumns(rows)
		if err != nil {
			return nil, err
		}
		result[user.ID] = user
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row *sql.Row) (*model.User, error) {
	user, err := scanUserColumns(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func scanUserColumns(row rowScanner) (model.User, error) {
	var (
		user      model.User
		name      sql.NullString
		createdAt string
		updatedAt string
		lastSeen  sql.NullString
	)
	if err := row.Scan(&user.ID, &user.Email, &name, &createdAt, &updatedAt, &lastSeen); err != nil {
		return model.User{}, err
	}

	user.Name = name.String
	user.CreatedAt = parseStamp(createdAt)
	user.UpdatedAt = parseStamp(updatedAt)
	user.LastSeen = parseStamp(lastSeen.String)
	return user, nil
}

func parseStamp(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
