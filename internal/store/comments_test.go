package store

import (
	"context"
	"errors"
	"testing"

	"github.com/bootlog/bootlog/internal/model"
)

type stubResolver struct {
	users map[int64]model.User
	calls int
	ids   []int64
}

func (s *stubResolver) UsersByIDs(_ context.Context, ids []int64) (map[int64]model.User, error) {
	s.calls++
	s.ids = ids
	return s.users, nil
}

func TestCreateCommentAndReply(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	root, err := st.CreateComment(ctx, 1, "bootA", 3, nil, "looks like a brownout")
	if err != nil {
		t.Fatalf("CreateComment error: %v", err)
	}
	if root.ID == 0 || root.ParentID != nil {
		t.Fatalf("unexpected root comment %+v", root)
	}

	reply, err := st.CreateComment(ctx, 2, "bootA", 3, &root.ID, "confirmed on the scope")
	if err != nil {
		t.Fatalf("CreateComment reply error: %v", err)
	}
	if reply.ParentID == nil || *reply.ParentID != root.ID {
		t.Fatalf("reply not linked to parent: %+v", reply)
	}

	list, err := st.ListCommentsForBoot(ctx, "bootA")
	if err != nil {
		t.Fatalf("ListCommentsForBoot error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(list))
	}
	if list[0].Body != "looks like a brownout" || list[1].Body != "confirmed on the scope" {
		t.Fatalf("unexpected order: %q, %q", list[0].Body, list[1].Body)
	}
}

func TestCreateCommentRejectsMissingParent(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	missing := int64(999)
	_, err := st.CreateComment(ctx, 1, "bootA", 3, &missing, "reply to nothing")
	if !errors.Is(err, ErrInvalidParent) {
		t.Fatalf("expected ErrInvalidParent, got %v", err)
	}

	list, err := st.ListCommentsForBoot(ctx, "bootA")
	if err != nil {
		t.Fatalf("ListCommentsForBoot error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected nothing persisted, got %d comments", len(list))
	}
}

func TestCreateCommentRejectsCrossRowParent(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	root, err := st.CreateComment(ctx, 1, "bootA", 3, nil, "on row three")
	if err != nil {
		t.Fatalf("CreateComment error: %v", err)
	}

	_, err = st.CreateComment(ctx, 1, "bootA", 4, &root.ID, "wrong row")
	if !errors.Is(err, ErrInvalidParent) {
		t.Fatalf("expected ErrInvalidParent for cross-row reply, got %v", err)
	}

	_, err = st.CreateComment(ctx, 1, "bootB", 3, &root.ID, "wrong boot")
	if !errors.Is(err, ErrInvalidParent) {
		t.Fatalf("expected ErrInvalidParent for cross-boot reply, got %v", err)
	}
}

func TestListCommentsWithAuthors(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	if _, err := st.CreateComment(ctx, 1, "bootA", 3, nil, "first"); err != nil {
		t.Fatalf("CreateComment error: %v", err)
	}
	if _, err := st.CreateComment(ctx, 2, "bootA", 3, nil, "second"); err != nil {
		t.Fatalf("CreateComment error: %v", err)
	}
	if _, err := st.CreateComment(ctx, 1, "bootA", 5, nil, "third"); err != nil {
		t.Fatalf("CreateComment error: %v", err)
	}

	resolver := &stubResolver{users: map[int64]model.User{
		1: {ID: 1, Name: "Ada", Email: "ada@example.com"},
	}}

	joined, err := st.ListCommentsWithAuthors(ctx, "bootA", resolver)
	if err != nil {
		t.Fatalf("ListCommentsWithAuthors error: %v", err)
	}
	if len(joined) != 3 {
		t.Fatalf("expected 3 joined comments, got %d", len(joined))
	}
	if resolver.calls != 1 {
		t.Fatalf("expected one batched lookup, got %d", resolver.calls)
	}
	if len(resolver.ids) != 2 {
		t.Fatalf("expected deduplicated user ids, got %v", resolver.ids)
	}
	if joined[0].AuthorName != "Ada" || joined[0].AuthorEmail != "ada@example.com" {
		t.Fatalf("unexpected author on first comment: %+v", joined[0])
	}
	// User 2 is unknown to the resolver; the comment still comes back.
	if joined[1].AuthorName != "" || joined[1].Body != "second" {
		t.Fatalf("unexpected joined row for unknown author: %+v", joined[1])
	}
}

func TestListCommentsWithAuthorsEmptyBoot(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	resolver := &stubResolver{}
	joined, err := st.ListCommentsWithAuthors(ctx, "bootA", resolver)
	if err != nil {
		t.Fatalf("ListCommentsWithAuthors error: %v", err)
	}
	if len(joined) != 0 {
		t.Fatalf("expected no comments, got %d", len(joined))
	}
	if resolver.calls != 0 {
		t.Fatal("resolver should not be called for an empty boot")
	}
}
