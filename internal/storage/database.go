// internal/storage/database.go
package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // Driver registration
	"github.com/pressly/goose/v3"

	"github.com/Annany2002/recipe-backend/config"
	"github.com/Annany2002/recipe-backend/internal/logger"
)

var (
	customLog = logger.NewLogger()
)

const dsnParams = "_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// ConnectDB opens the SQLite database that backs the users, recipes and
// ingredients collections and brings its schema up to date.
func ConnectDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := OpenDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// OpenDB opens and pings the database file without touching the schema.
func OpenDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	dbPath := filepath.Join(cfg.DatabaseDir, cfg.DatabaseFile)
	customLog.Printf("Storage: Initializing database: %s", dbPath)

	if err := os.MkdirAll(cfg.DatabaseDir, 0o750); err != nil {
		customLog.Warnf("Storage: Error creating data directory '%s': %v", cfg.DatabaseDir, err)
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// Foreign keys on, WAL so readers don't block the writer, 5s busy timeout.
	// Transactions take the write lock at BEGIN so concurrent writers wait on
	// the busy timeout instead of failing a read-to-write lock upgrade.
	db, err := sql.Open("sqlite3", dbPath+"?"+dsnParams)
	if err != nil {
		customLog.Warnf("Storage: Failed to open db '%s': %v", dbPath, err)
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		customLog.Warnf("Storage: Failed to ping db '%s': %v", dbPath, err)
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	customLog.Println("Storage: Database connection successful.")

	return db, nil
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "migrations"); err != nil {
		customLog.Warnf("Storage: Migrations failed: %v", err)
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	customLog.Println("Storage: Schema is up to date.")
	return nil
}
