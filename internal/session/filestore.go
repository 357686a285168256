package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists the token in a small JSON document keyed by Key, so that
// `ask --continue` can pick up where the previous process left off. Other keys
// in the document are preserved.
type FileStore struct {
	mu    sync.Mutex
	path  string
	token string
}

// OpenFileStore loads the token stored at path, if any. A missing file is an
// empty store.
func OpenFileStore(path string) (*FileStore, error) {
	fs := &FileStore{path: path}
	doc, err := fs.read()
	if err != nil {
		return nil, err
	}
	fs.token = doc[Key]
	return fs, nil
}

// Path returns the backing file.
func (fs *FileStore) Path() string { return fs.path }

func (fs *FileStore) Reset() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.token = ""
	doc, err := fs.read()
	if err != nil {
		return err
	}
	if _, ok := doc[Key]; !ok {
		return nil
	}
	delete(doc, Key)
	return fs.write(doc)
}

func (fs *FileStore) Get() string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.token
}

// Set updates the in-process token first; a write failure is returned but does
// not roll the token back.
func (fs *FileStore) Set(token string) (bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if token == "" || token == fs.token {
		return false, nil
	}
	fs.token = token

	doc, err := fs.read()
	if err != nil {
		doc = map[string]string{}
	}
	doc[Key] = token
	return true, fs.write(doc)
}

func (fs *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	doc := map[string]string{}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}
	return doc, nil
}

// write replaces the file atomically through a temp file + rename.
func (fs *FileStore) write(doc map[string]string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(fs.path), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session tmp: %w", err)
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		return fmt.Errorf("rename session: %w", err)
	}
	return nil
}
