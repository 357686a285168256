package threads

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	idPrefix    = "thr_"
	titleLength = 60
)

// FileStore keeps each thread in <dir>/<id>/ as meta.json + messages.jsonl.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func newID() string {
	return idPrefix + uuid.New().String()[:8]
}

// ValidID reports whether id has the shape this store issues. Ids come from
// clients, so nothing else may reach the filesystem.
func ValidID(id string) bool {
	hex := strings.TrimPrefix(id, idPrefix)
	if hex == id || len(hex) != 8 {
		return false
	}
	for _, r := range hex {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}

func (fs *FileStore) metaPath(id string) string {
	return filepath.Join(fs.dir, id, "meta.json")
}

func (fs *FileStore) messagesPath(id string) string {
	return filepath.Join(fs.dir, id, "messages.jsonl")
}

func (fs *FileStore) Create() (*Thread, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	now := time.Now()
	t := &Thread{ID: newID(), CreatedAt: now, UpdatedAt: now}
	if err := os.MkdirAll(filepath.Join(fs.dir, t.ID), 0o755); err != nil {
		return nil, fmt.Errorf("create thread dir: %w", err)
	}
	if err := fs.writeMeta(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (fs *FileStore) Get(id string) (*Thread, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.readMeta(id)
}

// List returns threads, most recently updated first. Unreadable threads are skipped.
func (fs *FileStore) List() ([]*Thread, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list threads: %w", err)
	}

	var out []*Thread
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		t, err := fs.readMeta(e.Name())
		if err != nil {
			continue
		}
		out = append(out, t)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// Append writes msgs to the thread's log and bumps its metadata.
func (fs *FileStore) Append(id string, msgs ...Message) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	t, err := fs.readMeta(id)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(fs.messagesPath(id), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open messages: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, m := range msgs {
		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("marshal message: %w", err)
		}
		w.Write(data)
		w.WriteByte('\n')

		if t.Title == "" && m.Role == "user" {
			t.Title = truncate(m.Content, titleLength)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write messages: %w", err)
	}

	t.MessageCount += len(msgs)
	t.UpdatedAt = time.Now()
	return fs.writeMeta(t)
}

// Messages returns the thread's turns in order. Corrupted lines are skipped.
func (fs *FileStore) Messages(id string) ([]Message, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	if _, err := fs.readMeta(id); err != nil {
		return nil, err
	}

	f, err := os.Open(fs.messagesPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open messages: %w", err)
	}
	defer f.Close()

	var out []Message
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var m Message
		if err := json.Unmarshal(line, &m); err != nil {
			continue
		}
		out = append(out, m)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan messages: %w", err)
	}
	return out, nil
}

// writeMeta replaces meta.json through a temp file + rename.
func (fs *FileStore) writeMeta(t *Thread) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}

	path := fs.metaPath(t.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write meta tmp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename meta: %w", err)
	}
	return nil
}

func (fs *FileStore) readMeta(id string) (*Thread, error) {
	if !ValidID(id) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	data, err := os.ReadFile(fs.metaPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("read meta: %w", err)
	}

	var t Thread
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("unmarshal meta: %w", err)
	}
	return &t, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
