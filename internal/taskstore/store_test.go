package taskstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dohr-michael/taskchat/internal/tasks"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db", "tasks.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	empty, err := s.List(ctx)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("List on empty db = %#v, %v", empty, err)
	}

	a, _ := s.Create(ctx, "Buy milk", false, "user")
	b, _ := s.Create(ctx, "Walk dog", true, "")

	if a.ID != 1 || b.ID != 2 {
		t.Errorf("ids = %d, %d", a.ID, b.ID)
	}

	done, err := s.SetCompleted(ctx, a.ID, true)
	if err != nil || !done.Completed {
		t.Fatalf("SetCompleted = %+v, %v", done, err)
	}

	if err := s.Delete(ctx, b.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []tasks.Task{{ID: 1, Text: "Buy milk", Completed: true, UserID: "user"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}

	c, _ := s.Create(ctx, "Next", false, "")
	if c.ID != 3 {
		t.Errorf("ids must not be reused, got %d", c.ID)
	}
}

func TestStoreNotFound(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.Get(ctx, 9); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get = %v", err)
	}
	if err := s.Delete(ctx, 9); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete = %v", err)
	}
	if _, err := s.SetCompleted(ctx, 9, true); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetCompleted = %v", err)
	}
}

func TestStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Create(context.Background(), "keep me", false, "")
	s.Close()

	again, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer again.Close()
	list, _ := again.List(context.Background())
	if len(list) != 1 || list[0].Text != "keep me" {
		t.Errorf("reopened list = %+v", list)
	}
}
