package ingest

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseEventsBareArray(t *testing.T) {
	payload := `[
		{"row_id": 10, "name": "Rail up", "system": "PSU", "utctime": "2024-03-01T10:00:00Z", "norm_time": 42,
		 "a_time": 100, "channels": ["a", "b"], "data": {"reading": 5}, "event_id": "E-1", "tags": ["power"]},
		{"name": "Unnamed follower"}
	]`

	events, err := ParseEvents([]byte(payload))
	if err != nil {
		t.Fatalf("ParseEvents error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	first := events[0]
	if first.RowID != 10 || first.Name != "Rail up" || first.System != "PSU" {
		t.Fatalf("unexpected first event %+v", first)
	}
	if first.UTCTime != "2024-03-01T10:00:00Z" || first.NormTime != 42 {
		t.Fatalf("time fields not taken from payload: %+v", first)
	}
	if first.ATime == nil || *first.ATime != 100 {
		t.Fatalf("a_time not parsed: %+v", first.ATime)
	}
	if first.BTime != nil {
		t.Fatalf("absent b_time should be nil, got %v", *first.BTime)
	}
	if !reflect.DeepEqual(first.Channels, []string{"a", "b"}) {
		t.Fatalf("unexpected channels %v", first.Channels)
	}
	data, ok := first.Data.(map[string]any)
	if !ok || data["reading"] != float64(5) {
		t.Fatalf("unexpected data %#v", first.Data)
	}
}

func TestParseEventsDefaults(t *testing.T) {
	events, err := ParseEvents([]byte(`[{}, {}]`))
	if err != nil {
		t.Fatalf("ParseEvents error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	first := events[0]
	if first.RowID != 1 || first.Name != "Event 1" {
		t.Fatalf("positional defaults wrong: %+v", first)
	}
	if first.Color != "Green" || first.System != "Unknown" || first.SetClear != "set" {
		t.Fatalf("field defaults wrong: %+v", first)
	}
	if first.NormTime != 0 || events[1].NormTime != 1 {
		t.Fatalf("norm_time offsets wrong: %d, %d", first.NormTime, events[1].NormTime)
	}
	if !strings.HasSuffix(first.UTCTime, "Z") {
		t.Fatalf("default utctime not UTC-suffixed: %q", first.UTCTime)
	}
	if first.Tags == nil || len(first.Tags) != 0 {
		t.Fatalf("expected empty non-nil tags, got %#v", first.Tags)
	}
	if first.Channels == nil || len(first.Channels) != 0 {
		t.Fatalf("expected empty non-nil channels, got %#v", first.Channels)
	}
	if first.Data != nil {
		t.Fatalf("expected nil data, got %#v", first.Data)
	}
}

func TestParseEventsObjectForm(t *testing.T) {
	payload := `{"events": [{"name": "wrapped"}], "uploader": "bench"}`

	events, err := ParseEvents([]byte(payload))
	if err != nil {
		t.Fatalf("ParseEvents error: %v", err)
	}
	if len(events) != 1 || events[0].Name != "wrapped" {
		t.Fatalf("unexpected events %+v", events)
	}
}

func TestParseEventsLegacySpellings(t *testing.T) {
	payload := `[{"labels": ["flight", "review"], "eventid": "E-9"}]`

	events, err := ParseEvents([]byte(payload))
	if err != nil {
		t.Fatalf("ParseEvents error: %v", err)
	}
	if !reflect.DeepEqual(events[0].Tags, []string{"flight", "review"}) {
		t.Fatalf("labels fallback failed: %v", events[0].Tags)
	}
	if events[0].EventID != "E-9" {
		t.Fatalf("eventid fallback failed: %q", events[0].EventID)
	}
}

func TestParseEventsExplicitEmptyTags(t *testing.T) {
	events, err := ParseEvents([]byte(`[{"tags": [], "labels": ["ignored"]}]`))
	if err != nil {
		t.Fatalf("ParseEvents error: %v", err)
	}
	if len(events[0].Tags) != 0 {
		t.Fatalf("explicit empty tags should win over labels, got %v", events[0].Tags)
	}
}

func TestParseEventsSkipsNonObjects(t *testing.T) {
	events, err := ParseEvents([]byte(`[{"name": "real"}, 42, "junk", null]`))
	if err != nil {
		t.Fatalf("ParseEvents error: %v", err)
	}
	if len(events) != 1 || events[0].Name != "real" {
		t.Fatalf("expected only the object item, got %+v", events)
	}
}

func TestParseEventsBadJSON(t *testing.T) {
	if _, err := ParseEvents([]byte(`{"events": [`)); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestParseEventsObjectWithoutEvents(t *testing.T) {
	events, err := ParseEvents([]byte(`{"uploader": "bench"}`))
	if err != nil {
		t.Fatalf("ParseEvents error: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events, got %+v", events)
	}
}
