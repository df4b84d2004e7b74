package store

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Writers to the same file are serialized by SQLite itself; a losing writer
// sees SQLITE_BUSY. The busy_timeout pragma absorbs short contention, this
// retry absorbs the rest.
const (
	busyRetryInterval = 50 * time.Millisecond
	busyRetryMax      = 5
)

func isBusy(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	code := se.Code()
	return code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED
}

func retryBusy(ctx context.Context, fn func() error) error {
	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(busyRetryInterval), busyRetryMax),
		ctx,
	)
	return backoff.Retry(func() error {
		if err := fn(); err != nil {
			if isBusy(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		return nil
	}, bo)
}
