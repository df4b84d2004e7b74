package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/bootlog/bootlog/internal/model"
)

// Timestamps are persisted as RFC3339 UTC text so that SQLite's datetime()
// can order them.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

func optionalString(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return ns.String
}

func nullInt64Ptr(value *int64) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *value, Valid: true}
}

func optionalInt64Ptr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	v := ni.Int64
	return &v
}

// encodeChannels and encodeData mirror the JSON text the original files
// carry, so upgraded stores and fresh stores stay byte-compatible.
func encodeChannels(channels []string) string {
	if channels == nil {
		channels = []string{}
	}
	raw, err := json.Marshal(channels)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

func decodeChannels(value string) []string {
	if value == "" {
		return []string{}
	}
	var channels []string
	if err := json.Unmarshal([]byte(value), &channels); err != nil || channels == nil {
		return []string{}
	}
	return channels
}

func encodeData(data any) string {
	raw, err := json.Marshal(data)
	if err != nil {
		return "null"
	}
	return string(raw)
}

func decodeData(value string) any {
	if value == "" {
		return nil
	}
	var data any
	if err := json.Unmarshal([]byte(value), &data); err != nil {
		return nil
	}
	return data
}

func mapLogRow(row LogRow) model.LogEvent {
	return model.LogEvent{
		RowID:       row.RowID,
		Name:        optionalString(row.Name),
		Description: optionalString(row.Description),
		Color:       optionalString(row.Color),
		System:      optionalString(row.System),
		Subsystem:   optionalString(row.Subsystem),
		Unit:        optionalString(row.Unit),
		Code:        optionalString(row.Code),
		SetClear:    optionalString(row.SetClear),
		UTCTime:     optionalString(row.UTCTime),
		NormTime:    row.NormTime.Int64,
		ATime:       optionalInt64Ptr(row.ATime),
		BTime:       optionalInt64Ptr(row.BTime),
		CTime:       optionalInt64Ptr(row.CTime),
		DTime:       optionalInt64Ptr(row.DTime),
		Channels:    decodeChannels(optionalString(row.Channels)),
		Data:        decodeData(optionalString(row.Data)),
		EventID:     optionalString(row.EventID),
		Tags:        model.SplitTags(optionalString(row.Tags)),
	}
}

func logRowParams(bootID string, e model.LogEvent) InsertLogRowParams {
	return InsertLogRowParams{
		BootID:      bootID,
		RowID:       e.RowID,
		Name:        nullString(e.Name),
		Description: nullString(e.Description),
		Color:       nullString(e.Color),
		System:      nullString(e.System),
		Subsystem:   nullString(e.Subsystem),
		Unit:        nullString(e.Unit),
		Code:        nullString(e.Code),
		SetClear:    nullString(e.SetClear),
		UTCTime:     nullString(e.UTCTime),
		NormTime:    sql.NullInt64{Int64: e.NormTime, Valid: true},
		ATime:       nullInt64Ptr(e.ATime),
		BTime:       nullInt64Ptr(e.BTime),
		CTime:       nullInt64Ptr(e.CTime),
		DTime:       nullInt64Ptr(e.DTime),
		Channels:    encodeChannels(e.Channels),
		Data:        encodeData(e.Data),
		EventID:     e.EventID,
		Tags:        model.JoinTags(e.Tags),
	}
}
