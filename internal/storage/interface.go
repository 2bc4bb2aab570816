/*
Package storage implements the durable store behind the learning service.

The learning service persists two logical state records, the interaction
history and the per-user preference map, as JSON snapshots keyed in a state
table. Storage is SQLite-backed via modernc.org/sqlite (pure Go, CGo-free)
and degrades gracefully: if the database is unavailable, operations become
no-ops and learning continues in-memory for the session.

The database lives at ~/.askdeck/history.db by default.
*/
package storage

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// Well-known state keys.
const (
	KeyInteractions = "interactions"
	KeyPreferences  = "preferences"
)

// Storage defines the persistence operations the learning service needs.
type Storage interface {
	// Init opens the database and runs migrations.
	Init() error

	// SaveState writes one logical state record under a fixed key.
	SaveState(key string, data []byte) error

	// LoadState reads one logical state record. Returns (nil, nil) if the
	// key has never been written.
	LoadState(key string) ([]byte, error)

	// Close closes the database connection.
	Close() error
}

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db       *sql.DB
	dbPath   string
	enabled  bool
	mu       sync.Mutex
	initOnce sync.Once
}

// NewStorage creates a SQLite storage instance rooted in the user's home
// directory. If the home directory cannot be determined, storage is disabled
// but operations will not fail.
func NewStorage() *SQLiteStorage {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("Warning: failed to get home directory: %v", err)
		return &SQLiteStorage{enabled: false}
	}

	return NewStorageAt(filepath.Join(home, ".askdeck", "history.db"))
}

// NewStorageAt creates a SQLite storage instance at an explicit path.
func NewStorageAt(dbPath string) *SQLiteStorage {
	return &SQLiteStorage{
		dbPath:  dbPath,
		enabled: true,
	}
}

// Init opens the database and runs migrations. If initialization fails,
// storage is disabled and subsequent operations become no-ops.
func (s *SQLiteStorage) Init() error {
	if !s.enabled {
		return nil
	}

	var initErr error
	s.initOnce.Do(func() {
		dbDir := filepath.Dir(s.dbPath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			initErr = fmt.Errorf("failed to create db directory: %w", err)
			s.enabled = false
			return
		}

		db, err := sql.Open("sqlite", s.dbPath)
		if err != nil {
			initErr = fmt.Errorf("failed to open database: %w", err)
			s.enabled = false
			log.Printf("Warning: %v", initErr)
			return
		}
		s.db = db

		if err := db.Ping(); err != nil {
			initErr = fmt.Errorf("failed to ping database: %w", err)
			s.enabled = false
			log.Printf("Warning: %v", initErr)
			return
		}

		if err := s.runMigrations(); err != nil {
			initErr = fmt.Errorf("failed to run migrations: %w", err)
			s.enabled = false
			log.Printf("Warning: %v", initErr)
			return
		}
	})

	return initErr
}

// SaveState upserts one state record. A disabled store silently succeeds.
func (s *SQLiteStorage) SaveState(key string, data []byte) error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO state (key, value, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, data)
	if err != nil {
		return fmt.Errorf("failed to save state %q: %w", key, err)
	}
	return nil
}

// LoadState reads one state record, or (nil, nil) when absent or disabled.
func (s *SQLiteStorage) LoadState(key string) ([]byte, error) {
	if !s.enabled || s.db == nil {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var data []byte
	err := s.db.QueryRow("SELECT value FROM state WHERE key = ?", key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load state %q: %w", key, err)
	}
	return data, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	if !s.enabled || s.db == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	s.db = nil
	return nil
}
