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

// Connect establishes a connection to the database. DB_TYPE selects the
// driver ("sqlite" by default, "postgres" with DATABASE_URL).
func Connect() error {
	dbType := os.Getenv("DB_TYPE")
	if dbType == "" {
		dbType = "sqlite"
	}

	var db *sqlx.DB
	var err error

	if dbType == "postgres" {
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return fmt.Errorf("DATABASE_URL is not set")
		}
		db, err = sqlx.Connect("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %v", err)
		}
	} else {
		dataDir := "data"
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %v", err)
		}
		dbPath := filepath.Join(dataDir, "duelengine.db")
		db, err = sqlx.Connect("sqlite3", dbPath)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %v", err)
		}
		if _, err = db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return fmt.Errorf("failed to enable foreign keys: %v", err)
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	DB = db

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
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if DB.DriverName() == "postgres" {
		serial = "BIGSERIAL PRIMARY KEY"
	}

	statements := []string{
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS knowledge_points (
			id %s,
			name TEXT NOT NULL,
			subject TEXT NOT NULL,
			chapter TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(name, subject, chapter)
		)`, serial),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS questions (
			id %s,
			knowledge_point_id INTEGER NOT NULL,
			text TEXT NOT NULL,
			option_a TEXT NOT NULL,
			option_b TEXT NOT NULL,
			option_c TEXT NOT NULL,
			option_d TEXT NOT NULL,
			correct_index INTEGER NOT NULL,
			explanation TEXT DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (knowledge_point_id) REFERENCES knowledge_points(id)
		)`, serial),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS attempt_stats (
			id %s,
			user_id BIGINT NOT NULL,
			question_id INTEGER NOT NULL,
			total_attempts INTEGER DEFAULT 0,
			correct_attempts INTEGER DEFAULT 0,
			last_attempted_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (question_id) REFERENCES questions(id),
			UNIQUE(user_id, question_id)
		)`, serial),
		`
		CREATE TABLE IF NOT EXISTS energy_state (
			user_id BIGINT PRIMARY KEY,
			hearts INTEGER NOT NULL,
			last_update TIMESTAMP NOT NULL
		)`,
		`
		CREATE TABLE IF NOT EXISTS duel_history (
			room_id TEXT PRIMARY KEY,
			challenger_id BIGINT NOT NULL,
			opponent_id BIGINT NOT NULL,
			subject TEXT NOT NULL,
			chapter TEXT NOT NULL,
			challenger_score INTEGER NOT NULL,
			opponent_score INTEGER NOT NULL,
			winner_id BIGINT,
			summary_json TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			finished_at TIMESTAMP NOT NULL
		)`,
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS duel_answers (
			id %s,
			room_id TEXT NOT NULL,
			user_id BIGINT NOT NULL,
			question_id INTEGER NOT NULL,
			order_index INTEGER NOT NULL,
			answer INTEGER NOT NULL,
			correct_answer INTEGER NOT NULL,
			is_correct BOOLEAN DEFAULT FALSE,
			elapsed_seconds REAL NOT NULL,
			score INTEGER NOT NULL,
			FOREIGN KEY (room_id) REFERENCES duel_history(room_id)
		)`, serial),
	}

	for _, stmt := range statements {
		if _, err := DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %v", err)
		}
	}
	return nil
}
