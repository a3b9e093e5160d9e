// Command migrate applies the hand-written SQL in migrations/ to a postgres
// database, in lexical file order, recording each applied file.
package main

import (
	"database/sql"
	"flag"
	"os"
	"path/filepath"
	"sort"

	"crowdfund/internal/config"
	"crowdfund/internal/logger"

	_ "github.com/lib/pq"
)

const historyTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	filename   TEXT PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

func main() {
	dir := flag.String("dir", "migrations", "directory holding *.sql migrations")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config: %v", err)
	}
	if cfg.Database.Driver != "postgres" {
		logger.Fatal("migrate only supports the postgres driver, got %q", cfg.Database.Driver)
	}

	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal("Failed to ping database: %v", err)
	}
	logger.Info("Connected to database successfully")

	if _, err := db.Exec(historyTable); err != nil {
		logger.Fatal("Failed to create schema_migrations: %v", err)
	}

	files, err := filepath.Glob(filepath.Join(*dir, "*.sql"))
	if err != nil {
		logger.Fatal("Failed to list migrations: %v", err)
	}
	sort.Strings(files)

	applied := 0
	for _, path := range files {
		name := filepath.Base(path)
		ok, err := apply(db, name, path)
		if err != nil {
			logger.Fatal("Migration %s failed: %v", name, err)
		}
		if ok {
			applied++
			logger.Info("Applied migration %s", name)
		}
	}
	logger.Info("Migrations complete: %d applied, %d total", applied, len(files))
}

// apply runs one file inside a transaction unless it is already recorded
func apply(db *sql.DB, name, path string) (bool, error) {
	var exists bool
	if err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE filename = $1)`, name).Scan(&exists); err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	tx, err := db.Begin()
	if err != nil {
		return false, err
	}
	if _, err := tx.Exec(string(body)); err != nil {
		tx.Rollback()
		return false, err
	}
	if _, err := tx.Exec(`INSERT INTO schema_migrations (filename) VALUES ($1)`, name); err != nil {
		tx.Rollback()
		return false, err
	}
	return true, tx.Commit()
}
