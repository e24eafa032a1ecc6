package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// ConnectionConfig holds database connection configuration
type ConnectionConfig struct {
	DatabasePath string
	// MigrationsPath overrides the embedded migrations when set
	MigrationsPath string
	// SkipMigrations leaves the schema untouched on Connect
	SkipMigrations  bool
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Logger          *logrus.Logger
}

// DefaultConnectionConfig returns a default configuration
func DefaultConnectionConfig() *ConnectionConfig {
	return &ConnectionConfig{
		DatabasePath:    "./data/catalog.db",
		MaxOpenConns:    1, // SQLite works best with single connection
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		Logger:          logrus.New(),
	}
}

// ConnectionManager manages database connections
type ConnectionManager struct {
	config *ConnectionConfig
	db     *sql.DB
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager(config *ConnectionConfig) *ConnectionManager {
	if config.Logger == nil {
		config.Logger = logrus.New()
	}
	return &ConnectionManager{
		config: config,
	}
}

// Connect opens the database and applies pending migrations unless SkipMigrations is set
func (cm *ConnectionManager) Connect() error {
	if cm.db != nil {
		return fmt.Errorf("database connection already established")
	}

	db, err := Open(cm.config.DatabasePath)
	if err != nil {
		return err
	}

	if cm.config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cm.config.MaxOpenConns)
	}
	if cm.config.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cm.config.MaxIdleConns)
	}
	if cm.config.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cm.config.ConnMaxLifetime)
	}

	if !cm.config.SkipMigrations {
		migrations := NewMigrationManager(db, cm.config.MigrationsPath, cm.config.Logger)
		if err := migrations.RunMigrations(); err != nil {
			db.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	cm.db = db
	cm.config.Logger.WithField("db_path", cm.config.DatabasePath).Info("Database connection established")
	return nil
}

// GetDB returns the database connection
func (cm *ConnectionManager) GetDB() *sql.DB {
	return cm.db
}

// Close closes the database connection
func (cm *ConnectionManager) Close() error {
	if cm.db == nil {
		return nil
	}

	err := cm.db.Close()
	cm.db = nil

	if err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	cm.config.Logger.Info("Database connection closed")
	return nil
}

// GetMigrationManager returns a migration manager for this connection
func (cm *ConnectionManager) GetMigrationManager() *MigrationManager {
	if cm.db == nil {
		return nil
	}

	return NewMigrationManager(cm.db, cm.config.MigrationsPath, cm.config.Logger)
}

// HealthCheck pings the database and checks that foreign keys are enforced
func (cm *ConnectionManager) HealthCheck(ctx context.Context) error {
	if cm.db == nil {
		return fmt.Errorf("database connection not established")
	}

	if err := cm.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	var fkEnabled int
	if err := cm.db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fkEnabled); err != nil {
		return fmt.Errorf("failed to check foreign key status: %w", err)
	}
	if fkEnabled != 1 {
		return fmt.Errorf("foreign keys are not enabled")
	}

	return nil
}

// Open opens a SQLite database with foreign keys and WAL enabled,
// creating the parent directory when needed.
func Open(path string) (*sql.DB, error) {
	dsn := path
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute database path: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = absPath
	}

	separator := "?"
	if strings.Contains(dsn, "?") {
		separator = "&"
	}

	db, err := sql.Open("sqlite3", dsn+separator+"_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
