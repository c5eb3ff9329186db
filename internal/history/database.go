package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

// DSN builds the archive connection string. A .env file in the project
// directory is honored when present; otherwise BTT_DB_* environment
// variables apply, falling back to local-development defaults.
func DSN(projectPath string) string {
	if projectPath != "" {
		envPath := filepath.Join(projectPath, ".env")
		if err := godotenv.Load(envPath); err != nil {
			// .env file might not exist, that's okay - use environment variables
			_ = err
		}
	}

	host := envOr("BTT_DB_HOST", "127.0.0.1")
	port := envOr("BTT_DB_PORT", "3306")
	user := envOr("BTT_DB_USERNAME", "root")
	password := os.Getenv("BTT_DB_PASSWORD")
	name := envOr("BTT_DB_DATABASE", "btt")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", user, password, host, port, name)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Open connects to the archive database and makes sure its schema
// exists
func Open(projectPath string) (*sql.DB, error) {
	db, err := sql.Open("mysql", DSN(projectPath))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to archive database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping archive database: %w", err)
	}

	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id VARCHAR(64) PRIMARY KEY,
			total_cases INT NOT NULL,
			completed_cases INT NOT NULL,
			failed_cases INT NOT NULL,
			total_steps INT NOT NULL,
			passed_steps INT NOT NULL,
			failed_steps INT NOT NULL,
			duration_seconds DOUBLE NOT NULL,
			workers INT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS case_runs (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			run_id VARCHAR(64) NOT NULL,
			case_id VARCHAR(128) NOT NULL,
			title VARCHAR(255) NOT NULL,
			status VARCHAR(16) NOT NULL,
			steps_total INT NOT NULL,
			steps_passed INT NOT NULL,
			steps_failed INT NOT NULL,
			source VARCHAR(255) NOT NULL,
			INDEX idx_case_runs_run (run_id),
			INDEX idx_case_runs_case (case_id)
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create archive schema: %w", err)
		}
	}
	return nil
}
