package store

import "context"

// MigrationApplied reports whether the named one-way migration has already
// run against this store.
func (s *Store) MigrationApplied(ctx context.Context, key string) (bool, error) {
	_, ok, err := s.Queries.GetMigrationState(ctx, key)
	return ok, err
}

// MarkMigrationApplied records that the named migration completed. The value
// is informational (typically a timestamp).
func (s *Store) MarkMigrationApplied(ctx context.Context, key, value string) error {
	return s.WithTx(ctx, func(ctx context.Context, q *Queries) error {
		return q.SetMigrationState(ctx, key, value)
	})
}
