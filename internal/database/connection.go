package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the database. The backend is chosen
// by DB_TYPE: "sqlite" (the default) uses DATABASE_PATH, "postgres" uses
// DATABASE_URL.
func Connect() error {
	dbType := os.Getenv("DB_TYPE")
	if dbType == "" {
		dbType = "sqlite"
	}

	var db *sqlx.DB
	var err error

	switch dbType {
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}
		db, err = sqlx.Connect("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %v", err)
		}
	default:
		dbPath := os.Getenv("DATABASE_PATH")
		if dbPath == "" {
			// Create data directory if it doesn't exist
			dataDir := "data"
			if err := os.MkdirAll(dataDir, 0755); err != nil {
				return fmt.Errorf("failed to create data directory: %v", err)
			}
			dbPath = filepath.Join(dataDir, "qsobot.db")
		}

		db, err = sqlx.Connect("sqlite3", dbPath)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %v", err)
		}

		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	DB = db

	// Initialize schema
	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	// Per-card scheduling state, keyed by Q-code
	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS card_states (
			code TEXT PRIMARY KEY,
			box INTEGER NOT NULL DEFAULT 0,
			due_at TIMESTAMP NOT NULL,
			last_reviewed_at TIMESTAMP,
			review_count INTEGER NOT NULL DEFAULT 0,
			correct_count INTEGER NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create card_states table: %v", err)
	}

	// Single-row aggregate statistics
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS stats (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			total_reviews INTEGER NOT NULL DEFAULT 0,
			correct_answers INTEGER NOT NULL DEFAULT 0,
			studied_today INTEGER NOT NULL DEFAULT 0,
			current_streak INTEGER NOT NULL DEFAULT 0,
			last_study_date TEXT NOT NULL DEFAULT ''
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create stats table: %v", err)
	}

	// Free-form key-value settings (reminder subscription, alphabet choice)
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create settings table: %v", err)
	}

	return nil
}

// ClearAll erases every card state, resets aggregate statistics to their
// defaults and drops all settings. Irreversible; callers are expected to
// confirm with the user first.
func ClearAll() error {
	if _, err := DB.Exec("DELETE FROM card_states"); err != nil {
		return fmt.Errorf("%w: failed to clear card states: %v", ErrPersistence, err)
	}
	if _, err := DB.Exec("DELETE FROM stats"); err != nil {
		return fmt.Errorf("%w: failed to clear stats: %v", ErrPersistence, err)
	}
	if _, err := DB.Exec("DELETE FROM settings"); err != nil {
		return fmt.Errorf("%w: failed to clear settings: %v", ErrPersistence, err)
	}
	return nil
}
