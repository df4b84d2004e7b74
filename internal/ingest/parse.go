// Package ingest turns uploaded JSON payloads into fully defaulted log
// events ready for the store. Payloads are either a bare array of events or
// an object carrying an "events" array.
package ingest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fastjson"

	"github.com/bootlog/bootlog/internal/model"
)

// ParseEvents parses an upload payload and applies per-field defaults:
// row_id falls back to the item's 1-based position, utctime and norm_time to
// offsets from parse time, tags accepts the legacy "labels" spelling and
// event_id the legacy "eventid" spelling.
func ParseEvents(raw []byte) ([]model.LogEvent, error) {
	var parser fastjson.Parser
	root, err := parser.ParseBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse events payload: %w", err)
	}

	var items []*fastjson.Value
	switch root.Type() {
	case fastjson.TypeArray:
		items = root.GetArray()
	case fastjson.TypeObject:
		if events := root.Get("events"); events != nil && events.Type() == fastjson.TypeArray {
			items = events.GetArray()
		}
	default:
	}

	now := time.Now().UTC()
	cleaned := make([]model.LogEvent, 0, len(items))
	for idx, item := range items {
		if item.Type() != fastjson.TypeObject {
			continue
		}

		rowID := item.GetInt64("row_id")
		if rowID == 0 {
			rowID = int64(idx) + 1
		}

		utcTime := stringField(item, "utctime")
		if utcTime == "" {
			utcTime = now.Add(time.Duration(idx)*time.Second).Format("2006-01-02T15:04:05") + "Z"
		}

		normTime := int64(idx)
		if item.Exists("norm_time") {
			normTime = item.GetInt64("norm_time")
		}

		tags := stringList(item, "tags")
		if tags == nil {
			tags = stringList(item, "labels")
		}
		if tags == nil {
			tags = []string{}
		}

		eventID := stringField(item, "event_id")
		if eventID == "" {
			eventID = stringField(item, "eventid")
		}

		name := stringField(item, "name")
		if name == "" {
			name = fmt.Sprintf("Event %d", rowID)
		}

		cleaned = append(cleaned, model.LogEvent{
			RowID:       rowID,
			Name:        name,
			Description: stringField(item, "description"),
			Color:       stringOr(item, "color", "Green"),
			System:      stringOr(item, "system", "Unknown"),
			Subsystem:   stringField(item, "subsystem"),
			Unit:        stringField(item, "unit"),
			Code:        stringField(item, "code"),
			SetClear:    stringOr(item, "set_clear", "set"),
			UTCTime:     utcTime,
			NormTime:    normTime,
			ATime:       intPtrField(item, "a_time"),
			BTime:       intPtrField(item, "b_time"),
			CTime:       intPtrField(item, "c_time"),
			DTime:       intPtrField(item, "d_time"),
			Channels:    channelList(item),
			Data:        anyField(item, "data"),
			EventID:     eventID,
			Tags:        tags,
		})
	}
	return cleaned, nil
}

func stringField(v *fastjson.Value, key string) string {
	return string(v.GetStringBytes(key))
}

func stringOr(v *fastjson.Value, key, fallback string) string {
	if s := stringField(v, key); s != "" {
		return s
	}
	return fallback
}

func intPtrField(v *fastjson.Value, key string) *int64 {
	field := v.Get(key)
	if field == nil || field.Type() != fastjson.TypeNumber {
		return nil
	}
	value := field.GetInt64()
	return &value
}

// stringList returns nil when the key is absent or not an array, so callers
// can distinguish "missing" from "empty".
func stringList(v *fastjson.Value, key string) []string {
	field := v.Get(key)
	if field == nil || field.Type() != fastjson.TypeArray {
		return nil
	}
	values := field.GetArray()
	result := make([]string, 0, len(values))
	for _, item := range values {
		result = append(result, string(item.GetStringBytes()))
	}
	return result
}

func channelList(v *fastjson.Value) []string {
	if channels := stringList(v, "channels"); channels != nil {
		return channels
	}
	return []string{}
}

// anyField round-trips an arbitrary JSON subtree into the generic form the
// store persists.
func anyField(v *fastjson.Value, key string) any {
	field := v.Get(key)
	if field == nil || field.Type() == fastjson.TypeNull {
		return nil
	}
	var out any
	if err := json.Unmarshal(field.MarshalTo(nil), &out); err != nil {
		return nil
	}
	return out
}
