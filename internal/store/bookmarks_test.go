package store

import (
	"context"
	"testing"
)

func TestBookmarkUpsertAndClear(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	if err := st.SetBookmark(ctx, 7, "bootA", 3, 2); err != nil {
		t.Fatalf("SetBookmark error: %v", err)
	}

	b, err := st.GetBookmark(ctx, 7, "bootA", 3)
	if err != nil {
		t.Fatalf("GetBookmark error: %v", err)
	}
	if b == nil {
		t.Fatal("expected bookmark, got nil")
	}
	if b.ColorIndex != 2 {
		t.Fatalf("ColorIndex = %d, want 2", b.ColorIndex)
	}

	// Setting the same row again overwrites the color rather than adding a row.
	if err := st.SetBookmark(ctx, 7, "bootA", 3, 5); err != nil {
		t.Fatalf("SetBookmark error: %v", err)
	}
	b, err = st.GetBookmark(ctx, 7, "bootA", 3)
	if err != nil {
		t.Fatalf("GetBookmark error: %v", err)
	}
	if b == nil || b.ColorIndex != 5 {
		t.Fatalf("expected overwritten bookmark with color 5, got %+v", b)
	}

	var count int
	err = st.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookmarks`).Scan(&count)
	if err != nil {
		t.Fatalf("count query error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single bookmark row, got %d", count)
	}

	// Color zero clears the bookmark; no zero-valued row is kept.
	if err := st.SetBookmark(ctx, 7, "bootA", 3, 0); err != nil {
		t.Fatalf("SetBookmark clear error: %v", err)
	}
	b, err = st.GetBookmark(ctx, 7, "bootA", 3)
	if err != nil {
		t.Fatalf("GetBookmark error: %v", err)
	}
	if b != nil {
		t.Fatalf("expected bookmark gone, got %+v", b)
	}
	err = st.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookmarks`).Scan(&count)
	if err != nil {
		t.Fatalf("count query error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no bookmark rows, got %d", count)
	}
}

func TestClearMissingBookmarkIsNoOp(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	if err := st.SetBookmark(ctx, 1, "bootA", 42, -1); err != nil {
		t.Fatalf("SetBookmark error: %v", err)
	}
}

func TestListBookmarksForBootIsPerUser(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	if err := st.SetBookmark(ctx, 1, "bootA", 2, 1); err != nil {
		t.Fatalf("SetBookmark error: %v", err)
	}
	if err := st.SetBookmark(ctx, 1, "bootA", 5, 3); err != nil {
		t.Fatalf("SetBookmark error: %v", err)
	}
	if err := st.SetBookmark(ctx, 2, "bootA", 2, 4); err != nil {
		t.Fatalf("SetBookmark error: %v", err)
	}
	if err := st.SetBookmark(ctx, 1, "bootB", 2, 1); err != nil {
		t.Fatalf("SetBookmark error: %v", err)
	}

	list, err := st.ListBookmarksForBoot(ctx, 1, "bootA")
	if err != nil {
		t.Fatalf("ListBookmarksForBoot error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 bookmarks for user 1 on bootA, got %d", len(list))
	}
	if list[0].RowID != 2 || list[1].RowID != 5 {
		t.Fatalf("expected row order 2,5, got %d,%d", list[0].RowID, list[1].RowID)
	}
}
