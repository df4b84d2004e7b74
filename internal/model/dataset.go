package model

import "time"

// Dataset is the identity record embedded in every store file. A nil
// OwnerUserID marks the dataset as shared; an owned dataset is visible only
// to its owner.
type Dataset struct {
	ID            int64
	Name          string
	Description   string
	OwnerUserID   *int64
	StorePath     string
	LogCount      int64
	SchemaVersion int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Shared reports whether the dataset has no owner.
func (d Dataset) Shared() bool {
	return d.OwnerUserID == nil
}

// Boot is one immutable ingested batch of events.
type Boot struct {
	BootID     string
	CreatedAt  time.Time
	EventCount int64
}

// BootData is a fully loaded boot: its events in row order plus the time
// range derived from parseable event timestamps.
type BootData struct {
	BootID string
	Start  time.Time
	End    time.Time
	Hours  float64
	Events []LogEvent
}

// BootDetails is the metadata sample shown when editing a boot: the
// system/event_id/tags taken from one of its rows.
type BootDetails struct {
	System  string
	EventID string
	Tags    string
}

// Bookmark marks a single event row for a user. A row with ColorIndex <= 0
// is never persisted; clearing a bookmark deletes the row.
type Bookmark struct {
	UserID     int64
	BootID     string
	RowID      int64
	ColorIndex int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Comment is a user annotation on a single event row. A reply's parent must
// exist on the same boot and row.
type Comment struct {
	ID        int64
	UserID    int64
	BootID    string
	RowID     int64
	ParentID  *int64
	Body      string
	CreatedAt time.Time
}

// CommentWithAuthor pairs a comment with the author fields resolved from the
// central identity store.
type CommentWithAuthor struct {
	Comment
	AuthorName  string
	AuthorEmail string
}

// User is an account row from the central identity store.
type User struct {
	ID        int64
	Email     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	LastSeen  time.Time
}
