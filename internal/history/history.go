// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// MemoryPath opens a history that lives only as long as the Store.
const MemoryPath = ":memory:"

// Entry is one recorded command line.
type Entry struct {
	ID      int64
	Session string
	Line    string
	At      time.Time
	OK      bool
}

// Store records console input in SQLite.
type Store struct {
	db      *sql.DB
	session string
	limit   int
	logger  *log.Logger

	mu       sync.Mutex
	lastLine string
}

// Option configures a Store.
type Option func(*Store)

// WithLimit keeps at most n entries; 0 keeps everything.
func WithLimit(n int) Option {
	return func(s *Store) { s.limit = n }
}

// WithSessionID overrides the generated session ID.
func WithSessionID(id string) Option {
	return func(s *Store) { s.session = id }
}

// WithLogger sets the structured logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// Open opens or creates the history database at path.
func Open(path string, opts ...Option) (*Store, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite has one writer; a single connection also keeps :memory: alive
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &Store{
		db:      db,
		session: uuid.New().String(),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	s.logger.Debug("HISTORY_OPEN", "path", path, "session", s.session)
	return s, nil
}

func (s *Store) initSchema() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return err
	}
	_, err := s.db.Exec(InitMetadata)
	return err
}

// Session returns the ID recorded with this store's entries.
func (s *Store) Session() string { return s.session }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Add records line. Blank lines and immediate repeats within the session
// are skipped. Entries beyond the limit are pruned oldest first.
func (s *Store) Add(line string, ok bool) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if line == s.lastLine {
		return nil
	}

	_, err := s.db.Exec(
		"INSERT INTO entries (session, line, executed_at, ok) VALUES (?, ?, ?, ?)",
		s.session, line, time.Now().UnixMilli(), ok,
	)
	if err != nil {
		return fmt.Errorf("failed to add history entry: %w", err)
	}
	s.lastLine = line

	if s.limit > 0 {
		_, err = s.db.Exec(
			"DELETE FROM entries WHERE id <= (SELECT id FROM entries ORDER BY id DESC LIMIT 1 OFFSET ?)",
			s.limit,
		)
		if err != nil {
			return fmt.Errorf("failed to prune history: %w", err)
		}
	}
	return nil
}

// Recent returns the last n entries, oldest first. n <= 0 returns all.
func (s *Store) Recent(n int) ([]Entry, error) {
	query := "SELECT id, session, line, executed_at, ok FROM entries ORDER BY id DESC"
	var args []any
	if n > 0 {
		query += " LIMIT ?"
		args = append(args, n)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var at int64
		if err := rows.Scan(&e.ID, &e.Session, &e.Line, &at, &e.OK); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		e.At = time.UnixMilli(at)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// Lines returns the last n lines, oldest first, for seeding line editors.
func (s *Store) Lines(n int) ([]string, error) {
	entries, err := s.Recent(n)
	if err != nil {
		return nil, err
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.Line
	}
	return lines, nil
}

// Count returns the number of stored entries.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM entries").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return n, nil
}

// Clear removes every entry.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM entries"); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	s.lastLine = ""
	return nil
}
