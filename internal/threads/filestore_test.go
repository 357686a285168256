package threads

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
)

func TestCreateGet(t *testing.T) {
	store := NewFileStore(t.TempDir())

	th, err := store.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !strings.HasPrefix(th.ID, "thr_") || !ValidID(th.ID) {
		t.Errorf("ID = %q", th.ID)
	}

	got, err := store.Get(th.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != th.ID || got.MessageCount != 0 {
		t.Errorf("Get = %+v", got)
	}
}

func TestGetUnknown(t *testing.T) {
	store := NewFileStore(t.TempDir())

	for _, id := range []string{"thr_deadbeef", "../etc", "thr_../../x", "", "sess_12345678"} {
		if _, err := store.Get(id); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(%q) err = %v, want ErrNotFound", id, err)
		}
	}
}

func TestAppendAndMessages(t *testing.T) {
	store := NewFileStore(t.TempDir())
	th, _ := store.Create()

	if err := store.Append(th.ID, UserMessage("add milk"), AssistantMessage(`{"action":"add"}`)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := store.Append(th.ID, UserMessage("list")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	msgs, err := store.Messages(th.ID)
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	if msgs[0].Role != "user" || msgs[1].Role != "assistant" || msgs[2].Content != "list" {
		t.Errorf("messages = %+v", msgs)
	}
	if sm := msgs[1].ToSchemaMessage(); sm.Role != schema.Assistant {
		t.Errorf("schema role = %q", sm.Role)
	}

	meta, _ := store.Get(th.ID)
	if meta.MessageCount != 3 || meta.Title != "add milk" {
		t.Errorf("meta = %+v", meta)
	}
}

func TestMessagesSkipsCorruptLines(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	th, _ := store.Create()
	store.Append(th.ID, UserMessage("one"))

	f, err := os.OpenFile(filepath.Join(dir, th.ID, "messages.jsonl"), os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	f.WriteString("{broken\n\n")
	f.Close()
	store.Append(th.ID, UserMessage("two"))

	msgs, err := store.Messages(th.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 {
		t.Errorf("got %d messages, want 2", len(msgs))
	}
}

func TestListOrdering(t *testing.T) {
	store := NewFileStore(t.TempDir())

	first, _ := store.Create()
	time.Sleep(5 * time.Millisecond)
	second, _ := store.Create()
	time.Sleep(5 * time.Millisecond)
	store.Append(first.ID, UserMessage("bump"))

	list, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != first.ID || list[1].ID != second.ID {
		t.Errorf("List order wrong: %v", list)
	}
}

func TestListMissingDir(t *testing.T) {
	list, err := NewFileStore(filepath.Join(t.TempDir(), "nope")).List()
	if err != nil || list != nil {
		t.Errorf("List = %v, %v", list, err)
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("é", 80)
	got := truncate(long, titleLength)
	if n := len([]rune(got)); n != titleLength {
		t.Errorf("rune length = %d, want %d", n, titleLength)
	}
	if truncate("  short ", titleLength) != "short" {
		t.Error("short titles should only be trimmed")
	}
}
