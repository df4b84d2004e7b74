package store

import "errors"

// ErrInvalidParent indicates a comment reply whose parent is missing, on a
// different boot, or on a different row.
var ErrInvalidParent = errors.New("store: invalid comment parent")
