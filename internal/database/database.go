package database

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/tahcohcat/eventquest-web/internal/logger"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
)

type DB struct {
	*sqlx.DB
}

// NewDB opens the store, checks the connection and makes sure the schema exists.
func NewDB(driver, dsn string) (*DB, error) {
	if driver == "" {
		driver = DriverSQLite
	}

	switch driver {
	case DriverSQLite:
		if dsn == "" {
			dsn = "eventquest.db" // Default SQLite file
		}
		dsn = withParam(dsn, "_foreign_keys=on")
	case DriverPgx, DriverPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("database dsn is required for driver %s", driver)
		}
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Every connection to :memory: is its own database
	if driver == DriverSQLite && strings.HasPrefix(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	dbWrapper := &DB{DB: db}

	if err := dbWrapper.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.New().WithField("driver", driver).Info("Database connection established and tables initialized")
	return dbWrapper, nil
}

func withParam(dsn, param string) string {
	if strings.Contains(dsn, param) {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + param
	}
	return dsn + "?" + param
}

// createTables creates the schema. The DDL sticks to types both SQLite and
// PostgreSQL accept.
func (db *DB) createTables() error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			avatar_url TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'Attendee',
			level INTEGER NOT NULL DEFAULT 1,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS achievements (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			points INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS user_achievements (
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			achievement_id TEXT NOT NULL REFERENCES achievements(id) ON DELETE CASCADE,
			progress INTEGER NOT NULL DEFAULT 0 CHECK (progress BETWEEN 0 AND 100),
			PRIMARY KEY (user_id, achievement_id)
		);`,
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			date TIMESTAMP NOT NULL,
			location TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS event_registrations (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			event_id TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, event_id)
		);`,
		`CREATE TABLE IF NOT EXISTS activities (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			points INTEGER NOT NULL DEFAULT 0,
			time_slot TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			participants INTEGER NOT NULL DEFAULT 0,
			max_participants INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS user_activities (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			activity_id TEXT NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
			completed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS leaderboards (
			id TEXT PRIMARY KEY,
			event_id TEXT REFERENCES events(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS user_leaderboard (
			leaderboard_id TEXT NOT NULL REFERENCES leaderboards(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			score DOUBLE PRECISION NOT NULL DEFAULT 0,
			rank INTEGER NOT NULL CHECK (rank >= 1),
			PRIMARY KEY (leaderboard_id, user_id)
		);`,
	}

	// Create indexes for better performance
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_user_achievements_user_id ON user_achievements(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_event_registrations_user_id ON event_registrations(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_user_activities_user_id ON user_activities(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_leaderboards_event_id ON leaderboards(event_id);`,
		`CREATE INDEX IF NOT EXISTS idx_user_leaderboard_rank ON user_leaderboard(leaderboard_id, rank);`,
	}

	for _, query := range tables {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	for _, index := range indexes {
		if _, err := db.Exec(index); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
