package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported driver names
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Connect opens the database for driver and dsn and applies connection settings.
// For SQLite the parent directory of a file dsn is created if needed.
func Connect(driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite:
		if dir := sqliteDir(dsn); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == DriverSQLite {
		// Enable foreign keys so review states cascade with users and cards
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(5)
	}
	return db, nil
}

func sqliteDir(dsn string) string {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" {
		return ""
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return ""
	}
	return dir
}

// InitializeSchema creates the tables if they don't exist
func InitializeSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema(db.DriverName()) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}

func schema(driver string) []string {
	r := strings.NewReplacer(
		"%PK%", "INTEGER PRIMARY KEY AUTOINCREMENT",
		"%TS%", "TIMESTAMP",
		"%FLOAT%", "REAL",
	)
	if driver == DriverPostgres {
		r = strings.NewReplacer(
			"%PK%", "BIGSERIAL PRIMARY KEY",
			"%TS%", "TIMESTAMPTZ",
			"%FLOAT%", "DOUBLE PRECISION",
		)
	}

	stmts := make([]string, 0, len(ddl))
	for _, s := range ddl {
		stmts = append(stmts, r.Replace(s))
	}
	return stmts
}

var ddl = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id %PK%,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		language TEXT NOT NULL DEFAULT 'en',
		telegram_chat_id BIGINT,
		notification_enabled BOOLEAN NOT NULL DEFAULT TRUE,
		notification_hour INTEGER NOT NULL DEFAULT 9,
		cards_per_day INTEGER NOT NULL DEFAULT 20,
		created_at %TS% NOT NULL,
		updated_at %TS% NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_progress (
		id %PK%,
		user_id BIGINT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		current_level TEXT NOT NULL DEFAULT 'A1',
		total_cards INTEGER NOT NULL DEFAULT 0,
		mastered_cards INTEGER NOT NULL DEFAULT 0,
		current_streak INTEGER NOT NULL DEFAULT 0,
		longest_streak INTEGER NOT NULL DEFAULT 0,
		accuracy_rate %FLOAT% NOT NULL DEFAULT 0,
		average_response_time %FLOAT% NOT NULL DEFAULT 0,
		cards_per_day INTEGER NOT NULL DEFAULT 0,
		time_spent INTEGER NOT NULL DEFAULT 0,
		last_study_date %TS%,
		created_at %TS% NOT NULL,
		updated_at %TS% NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS decks (
		id %PK%,
		owner_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		language TEXT NOT NULL DEFAULT 'en',
		level TEXT NOT NULL DEFAULT 'A1',
		category TEXT NOT NULL DEFAULT 'vocabulary',
		is_public BOOLEAN NOT NULL DEFAULT TRUE,
		is_archived BOOLEAN NOT NULL DEFAULT FALSE,
		total_cards INTEGER NOT NULL DEFAULT 0,
		mastered_cards INTEGER NOT NULL DEFAULT 0,
		due_cards INTEGER NOT NULL DEFAULT 0,
		completion_rate %FLOAT% NOT NULL DEFAULT 0,
		difficulty %FLOAT% NOT NULL DEFAULT 0,
		average_mastery_time %FLOAT% NOT NULL DEFAULT 0,
		stats_updated_at %TS%,
		created_at %TS% NOT NULL,
		updated_at %TS% NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS flashcards (
		id %PK%,
		deck_id BIGINT NOT NULL REFERENCES decks(id) ON DELETE CASCADE,
		front TEXT NOT NULL,
		back TEXT NOT NULL,
		example TEXT NOT NULL DEFAULT '',
		created_at %TS% NOT NULL,
		updated_at %TS% NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_flashcards_deck ON flashcards(deck_id)`,
	`CREATE TABLE IF NOT EXISTS card_review_states (
		id %PK%,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		card_id BIGINT NOT NULL REFERENCES flashcards(id) ON DELETE CASCADE,
		correct_attempts INTEGER NOT NULL DEFAULT 0,
		incorrect_attempts INTEGER NOT NULL DEFAULT 0,
		average_response_time %FLOAT% NOT NULL DEFAULT 0,
		last_reviewed_at %TS%,
		next_review_at %TS%,
		ease_factor %FLOAT% NOT NULL DEFAULT 2.5,
		interval_days INTEGER NOT NULL DEFAULT 1,
		streak INTEGER NOT NULL DEFAULT 0,
		mastered_at %TS%,
		version BIGINT NOT NULL DEFAULT 0,
		created_at %TS% NOT NULL,
		updated_at %TS% NOT NULL,
		UNIQUE(user_id, card_id),
		CHECK (ease_factor >= 1.3),
		CHECK (interval_days >= 1),
		CHECK (streak >= 0)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_review_states_user ON card_review_states(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_review_states_card ON card_review_states(card_id)`,
	`CREATE INDEX IF NOT EXISTS idx_review_states_next_review ON card_review_states(next_review_at)`,
	`CREATE TABLE IF NOT EXISTS achievement_definitions (
		id %PK%,
		type TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		icon TEXT NOT NULL DEFAULT 'trophy',
		points INTEGER NOT NULL DEFAULT 0,
		requirement_value INTEGER NOT NULL,
		UNIQUE(type, name)
	)`,
	`CREATE TABLE IF NOT EXISTS achievements (
		id %PK%,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		type TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		icon TEXT NOT NULL DEFAULT 'trophy',
		points INTEGER NOT NULL DEFAULT 0,
		unlocked_at %TS% NOT NULL,
		UNIQUE(user_id, type, name)
	)`,
}
