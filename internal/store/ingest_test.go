package store

import (
	"context"
	"reflect"
	"testing"

	"github.com/bootlog/bootlog/internal/model"
)

func TestIngestRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	events := testEvents(5)
	a := int64(120)
	events[2].ATime = &a

	bootID, err := st.Ingest(ctx, events)
	if err != nil {
		t.Fatalf("Ingest error: %v", err)
	}
	if bootID == "" {
		t.Fatalf("expected non-empty boot id")
	}

	data, err := st.LoadBoot(ctx, bootID)
	if err != nil {
		t.Fatalf("LoadBoot error: %v", err)
	}
	if data == nil {
		t.Fatalf("expected boot data")
	}
	if len(data.Events) != len(events) {
		t.Fatalf("expected %d events, got %d", len(events), len(data.Events))
	}

	for i, got := range data.Events {
		want := events[i]
		if got.RowID != want.RowID || got.Name != want.Name || got.System != want.System ||
			got.SetClear != want.SetClear || got.UTCTime != want.UTCTime || got.EventID != want.EventID {
			t.Fatalf("row %d mismatch: got %+v want %+v", i, got, want)
		}
		if !reflect.DeepEqual(got.Channels, want.Channels) {
			t.Fatalf("row %d channels mismatch: got %v want %v", i, got.Channels, want.Channels)
		}
		if !reflect.DeepEqual(got.Tags, want.Tags) {
			t.Fatalf("row %d tags mismatch: got %v want %v", i, got.Tags, want.Tags)
		}
		if !reflect.DeepEqual(got.Data, want.Data) {
			t.Fatalf("row %d data mismatch: got %v want %v", i, got.Data, want.Data)
		}
	}

	if data.Events[2].ATime == nil || *data.Events[2].ATime != a {
		t.Fatalf("expected a_time %d, got %v", a, data.Events[2].ATime)
	}
	if data.Events[0].ATime != nil {
		t.Fatalf("expected absent a_time to stay nil")
	}
}

func TestIngestEmptyIsNoOp(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	bootID, err := st.Ingest(ctx, nil)
	if err != nil {
		t.Fatalf("Ingest error: %v", err)
	}
	if bootID != "" {
		t.Fatalf("expected empty boot id, got %q", bootID)
	}

	boots, err := st.ListBoots(ctx)
	if err != nil {
		t.Fatalf("ListBoots error: %v", err)
	}
	if len(boots) != 0 {
		t.Fatalf("expected no boots, got %d", len(boots))
	}
}

func TestReingestOverwritesInPlace(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	if err := st.IngestBoot(ctx, "bootA", testEvents(4)); err != nil {
		t.Fatalf("IngestBoot error: %v", err)
	}

	// Same boot and rows with changed content must overwrite, not duplicate.
	replacement := testEvents(4)
	for i := range replacement {
		replacement[i].Name = "replaced"
	}
	if err := st.IngestBoot(ctx, "bootA", replacement); err != nil {
		t.Fatalf("second IngestBoot error: %v", err)
	}

	count, err := st.Queries.CountLogs(ctx)
	if err != nil {
		t.Fatalf("CountLogs error: %v", err)
	}
	if count != 4 {
		t.Fatalf("expected 4 rows, got %d", count)
	}

	var pairs int64
	err = st.DB.QueryRow(`SELECT COUNT(*) FROM (SELECT boot_id, row_id FROM logs GROUP BY boot_id, row_id HAVING COUNT(*) > 1)`).Scan(&pairs)
	if err != nil {
		t.Fatalf("duplicate check error: %v", err)
	}
	if pairs != 0 {
		t.Fatalf("found %d duplicate (boot_id, row_id) pairs", pairs)
	}

	data, err := st.LoadBoot(ctx, "bootA")
	if err != nil {
		t.Fatalf("LoadBoot error: %v", err)
	}
	for _, e := range data.Events {
		if e.Name != "replaced" {
			t.Fatalf("expected overwritten row, got %+v", e)
		}
	}

	indexRows, err := st.Queries.ListIndexForBoot(ctx, "bootA")
	if err != nil {
		t.Fatalf("ListIndexForBoot error: %v", err)
	}
	if len(indexRows) != 4 {
		t.Fatalf("expected 4 index rows after re-ingest, got %d", len(indexRows))
	}
}

func TestLogCountIsTrueRowCount(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	if err := st.WriteInfo(ctx, model.Dataset{ID: 1, Name: "counts"}); err != nil {
		t.Fatalf("WriteInfo error: %v", err)
	}

	if _, err := st.Ingest(ctx, testEvents(50)); err != nil {
		t.Fatalf("first Ingest error: %v", err)
	}
	if _, err := st.Ingest(ctx, testEvents(10)); err != nil {
		t.Fatalf("second Ingest error: %v", err)
	}

	ds, err := st.ReadInfo(ctx)
	if err != nil {
		t.Fatalf("ReadInfo error: %v", err)
	}

	count, err := st.Queries.CountLogs(ctx)
	if err != nil {
		t.Fatalf("CountLogs error: %v", err)
	}
	if ds.LogCount != count {
		t.Fatalf("log_count %d does not match true count %d", ds.LogCount, count)
	}
	if count != 60 {
		t.Fatalf("expected 60 rows, got %d", count)
	}
}

func TestListBootsNewestFirst(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	if err := st.IngestBoot(ctx, "bootA", testEvents(50)); err != nil {
		t.Fatalf("IngestBoot A error: %v", err)
	}
	if err := st.IngestBoot(ctx, "bootB", testEvents(10)); err != nil {
		t.Fatalf("IngestBoot B error: %v", err)
	}

	// Force distinct creation times; ingestion within one second would tie.
	if _, err := st.DB.Exec(`UPDATE boots SET created_at = '2024-01-01T00:00:00Z' WHERE boot_id = 'bootA'`); err != nil {
		t.Fatalf("failed to backdate bootA: %v", err)
	}

	boots, err := st.ListBoots(ctx)
	if err != nil {
		t.Fatalf("ListBoots error: %v", err)
	}
	if len(boots) != 2 {
		t.Fatalf("expected 2 boots, got %d", len(boots))
	}
	if boots[0].BootID != "bootB" || boots[1].BootID != "bootA" {
		t.Fatalf("expected newest first, got %v then %v", boots[0].BootID, boots[1].BootID)
	}
	if boots[0].EventCount != 10 || boots[1].EventCount != 50 {
		t.Fatalf("unexpected event counts %+v", boots)
	}

	latest, err := st.LatestBootID(ctx)
	if err != nil {
		t.Fatalf("LatestBootID error: %v", err)
	}
	if latest != "bootB" {
		t.Fatalf("expected latest bootB, got %s", latest)
	}
}

func TestLatestBootFallsBackToLogs(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	if err := st.IngestBoot(ctx, "bootA", testEvents(2)); err != nil {
		t.Fatalf("IngestBoot error: %v", err)
	}
	// Simulate an upgraded store whose boots table was never backfilled.
	if _, err := st.DB.Exec(`DELETE FROM boots`); err != nil {
		t.Fatalf("failed to clear boots: %v", err)
	}

	data, err := st.LoadBoot(ctx, "")
	if err != nil {
		t.Fatalf("LoadBoot error: %v", err)
	}
	if data == nil || data.BootID != "bootA" {
		t.Fatalf("expected fallback to logs table, got %+v", data)
	}
}

func TestLoadBootComputesTimeRange(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	events := testEvents(3)
	events[0].UTCTime = "2024-03-01T10:00:00Z"
	events[1].UTCTime = "2024-03-01T12:30:00Z"
	events[2].UTCTime = "not a timestamp"

	if err := st.IngestBoot(ctx, "bootA", events); err != nil {
		t.Fatalf("IngestBoot error: %v", err)
	}

	data, err := st.LoadBoot(ctx, "bootA")
	if err != nil {
		t.Fatalf("LoadBoot error: %v", err)
	}
	if data.Start.Format("15:04") != "10:00" || data.End.Format("15:04") != "12:30" {
		t.Fatalf("unexpected range %v - %v", data.Start, data.End)
	}
	if data.Hours != 2.5 {
		t.Fatalf("expected 2.5 hours, got %v", data.Hours)
	}
}

func TestLoadBootMissingReturnsNil(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	data, err := st.LoadBoot(ctx, "nope")
	if err != nil {
		t.Fatalf("LoadBoot error: %v", err)
	}
	if data != nil {
		t.Fatalf("expected nil for missing boot, got %+v", data)
	}

	boot, err := st.GetBoot(ctx, "nope")
	if err != nil {
		t.Fatalf("GetBoot error: %v", err)
	}
	if boot != nil {
		t.Fatalf("expected nil boot, got %+v", boot)
	}
}
