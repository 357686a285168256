// Package taskstore is the development task-store backend: a sqlite table
// served over the same HTTP contract as the hosted data API.
package taskstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/dohr-michael/taskchat/internal/tasks"
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	text      TEXT    NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0,
	user_id   TEXT    NOT NULL DEFAULT ''
);`

// ErrNotFound is returned for unknown task ids.
var ErrNotFound = errors.New("task not found")

// Store persists tasks in sqlite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path. ":memory:" gives a
// private in-memory database.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open task db: %w", err)
	}
	// One connection: sqlite serialises writers and :memory: is per-connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate task db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// List returns every task ordered by id.
func (s *Store) List(ctx context.Context) ([]tasks.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, text, completed, user_id FROM tasks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	out := []tasks.Task{}
	for rows.Next() {
		var t tasks.Task
		if err := rows.Scan(&t.ID, &t.Text, &t.Completed, &t.UserID); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Get returns one task.
func (s *Store) Get(ctx context.Context, id int) (tasks.Task, error) {
	var t tasks.Task
	err := s.db.QueryRowContext(ctx,
		`SELECT id, text, completed, user_id FROM tasks WHERE id = ?`, id,
	).Scan(&t.ID, &t.Text, &t.Completed, &t.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return tasks.Task{}, ErrNotFound
	}
	if err != nil {
		return tasks.Task{}, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

// Create inserts a task and returns it with its id.
func (s *Store) Create(ctx context.Context, text string, completed bool, userID string) (tasks.Task, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (text, completed, user_id) VALUES (?, ?, ?)`, text, completed, userID)
	if err != nil {
		return tasks.Task{}, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return tasks.Task{}, fmt.Errorf("insert task id: %w", err)
	}
	return tasks.Task{ID: int(id), Text: text, Completed: completed, UserID: userID}, nil
}

// Delete removes a task.
func (s *Store) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return affected(res)
}

// SetCompleted updates the completion flag and returns the task.
func (s *Store) SetCompleted(ctx context.Context, id int, completed bool) (tasks.Task, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET completed = ? WHERE id = ?`, completed, id)
	if err != nil {
		return tasks.Task{}, fmt.Errorf("update task %d: %w", id, err)
	}
	if err := affected(res); err != nil {
		return tasks.Task{}, err
	}
	return s.Get(ctx, id)
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
