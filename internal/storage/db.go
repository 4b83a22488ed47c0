// Package storage opens the vault's SQLite database and brings its schema
// up to date with the embedded goose migrations.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/kasa/internal/filex"
	"github.com/dmitrijs2005/kasa/internal/storage/migrations"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// FileMode restricts the database file to its owner.
const FileMode = 0o600

// RunMigrations applies all pending migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// Open opens (creating if needed) the database at path and migrates it.
// The path ":memory:" gives a private in-memory database.
//
// A single connection is used: the vault is a single-writer resource and
// an in-memory database only lives as long as its connection.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if !isMemory(path) {
		if _, err := filex.EnsureParentDir(path); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if !isMemory(path) {
		if err := os.Chmod(path, FileMode); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set database permissions: %w", err)
		}
	}

	return db, nil
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}

func dsn(path string) string {
	if isMemory(path) {
		return path
	}
	return "file:" + path + "?_pragma=busy_timeout(5000)"
}
