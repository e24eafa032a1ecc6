package main

import (
	"flag"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"plant-shop-api/internal/database"
)

func main() {
	var (
		dbPath         = flag.String("db", "./data/catalog.db", "Database file path")
		migrationsPath = flag.String("migrations", "", "Migrations directory path (default: embedded migrations)")
		action         = flag.String("action", "up", "Migration action: up, down, status, validate")
		verbose        = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	logger := logrus.New()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	absDBPath, err := filepath.Abs(*dbPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to get absolute database path")
	}

	absMigrationsPath := ""
	if *migrationsPath != "" {
		absMigrationsPath, err = filepath.Abs(*migrationsPath)
		if err != nil {
			logger.WithError(err).Fatal("Failed to get absolute migrations path")
		}
	}

	logger.WithFields(logrus.Fields{
		"db_path":         absDBPath,
		"migrations_path": absMigrationsPath,
		"action":          *action,
	}).Info("Starting migration tool")

	connectionManager := database.NewConnectionManager(&database.ConnectionConfig{
		DatabasePath:   absDBPath,
		MigrationsPath: absMigrationsPath,
		SkipMigrations: true,
		Logger:         logger,
	})

	if err := connectionManager.Connect(); err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer connectionManager.Close()

	migrationManager := connectionManager.GetMigrationManager()

	switch *action {
	case "up":
		err = migrationManager.RunMigrations()
	case "down":
		err = migrationManager.RollbackMigration()
	case "status":
		err = showMigrationStatus(migrationManager)
	case "validate":
		err = migrationManager.ValidateSchema()
		if err == nil {
			fmt.Println("Schema validation passed successfully")
		}
	default:
		logger.WithField("action", *action).Fatal("Unknown action. Use: up, down, status, validate")
	}

	if err != nil {
		logger.WithError(err).WithField("action", *action).Fatal("Migration action failed")
	}

	logger.Info("Migration tool completed successfully")
}

func showMigrationStatus(migrationManager *database.MigrationManager) error {
	status, err := migrationManager.GetMigrationStatus()
	if err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}

	fmt.Printf("Migration Status:\n")
	fmt.Printf("  Version: %d\n", status.Version)
	fmt.Printf("  Applied: %t\n", status.Applied)
	fmt.Printf("  Dirty: %t\n", status.Dirty)
	fmt.Printf("  Timestamp: %s\n", status.Timestamp.Format("2006-01-02 15:04:05"))

	return nil
}
