// Package model defines the record shapes shared by the catalog, the
// per-dataset stores, and the legacy importer.
package model

import "strings"

// LogEvent is one row of a boot's event log. ATime through DTime are
// per-channel offsets that may be absent. Data carries the event's
// arbitrary structured payload.
type LogEvent struct {
	RowID       int64
	Name        string
	Description string
	Color       string
	System      string
	Subsystem   string
	Unit        string
	Code        string
	SetClear    string
	UTCTime     string
	NormTime    int64
	ATime       *int64
	BTime       *int64
	CTime       *int64
	DTime       *int64
	Channels    []string
	Data        any
	EventID     string
	Tags        []string
}

// LogIndexEntry is the denormalised metadata projection of a LogEvent. It is
// rebuilt wholesale whenever a boot's metadata changes and must never be
// patched row by row.
type LogIndexEntry struct {
	BootID  string
	RowID   int64
	System  string
	EventID string
	Tags    []string
}

// JoinTags encodes a tag list into the comma-joined form stored on disk.
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// SplitTags decodes the stored comma-joined form back into a tag list. An
// empty value yields an empty list, never a single empty tag.
func SplitTags(value string) []string {
	if value == "" {
		return []string{}
	}
	return strings.Split(value, ",")
}
