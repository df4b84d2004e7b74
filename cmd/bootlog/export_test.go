package main

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/bootlog/bootlog/internal/ingest"
	"github.com/bootlog/bootlog/internal/model"
)

// TestExportRoundTrip compresses an export payload and feeds the decompressed
// events back through the upload parser.
func TestExportRoundTrip(t *testing.T) {
	aTime := int64(100)
	data := &model.BootData{
		BootID: "bootA",
		Start:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		End:    time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
		Hours:  2.5,
		Events: []model.LogEvent{
			{
				RowID:    1,
				Name:     "Rail up",
				Color:    "Green",
				System:   "PSU",
				SetClear: "set",
				UTCTime:  "2024-03-01T10:00:00Z",
				NormTime: 0,
				ATime:    &aTime,
				Channels: []string{"a"},
				Data:     map[string]any{"reading": float64(5)},
				EventID:  "E-1",
				Tags:     []string{"power"},
			},
			{
				RowID:    2,
				Name:     "Rail settle",
				Color:    "Green",
				System:   "PSU",
				SetClear: "clear",
				UTCTime:  "2024-03-01T12:30:00Z",
				NormTime: 1,
				Channels: []string{},
				Tags:     []string{},
			},
		},
	}

	payload := map[string]any{
		"boot_id": data.BootID,
		"events":  exportEvents(data),
	}

	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatalf("zstd.NewWriter error: %v", err)
	}
	if err := json.NewEncoder(enc).Encode(payload); err != nil {
		t.Fatalf("encode error: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder error: %v", err)
	}

	dec, err := zstd.NewReader(&buf)
	if err != nil {
		t.Fatalf("zstd.NewReader error: %v", err)
	}
	defer dec.Close()

	raw, err := io.ReadAll(dec)
	if err != nil {
		t.Fatalf("decompress error: %v", err)
	}

	events, err := ingest.ParseEvents(raw)
	if err != nil {
		t.Fatalf("ParseEvents error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events back, got %d", len(events))
	}

	first := events[0]
	if first.RowID != 1 || first.Name != "Rail up" || first.System != "PSU" {
		t.Fatalf("first event mangled: %+v", first)
	}
	if first.UTCTime != "2024-03-01T10:00:00Z" || first.EventID != "E-1" {
		t.Fatalf("first event fields lost: %+v", first)
	}
	if first.ATime == nil || *first.ATime != aTime {
		t.Fatalf("a_time lost in round trip: %+v", first.ATime)
	}
	if len(first.Tags) != 1 || first.Tags[0] != "power" {
		t.Fatalf("tags lost: %v", first.Tags)
	}

	second := events[1]
	if second.SetClear != "clear" || second.ATime != nil {
		t.Fatalf("second event mangled: %+v", second)
	}
}
