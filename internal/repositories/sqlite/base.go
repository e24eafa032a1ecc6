package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/sirupsen/logrus"

	"plant-shop-api/internal/repositories"
)

// baseRepository provides the query helpers shared by SQLite repositories
type baseRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func newBaseRepository(db *sql.DB, logger *logrus.Logger) baseRepository {
	if logger == nil {
		logger = logrus.New()
	}
	return baseRepository{db: db, logger: logger}
}

// logQuery logs a query with its execution time
func (r *baseRepository) logQuery(operation, table, query string, args []interface{}, duration time.Duration, err error) {
	fields := logrus.Fields{
		"operation": operation,
		"table":     table,
		"query":     query,
		"args":      args,
		"duration":  duration,
	}

	if err != nil {
		fields["error"] = err.Error()
		r.logger.WithFields(fields).Error("Query failed")
	} else {
		r.logger.WithFields(fields).Debug("Query executed")
	}
}

// executeQuery executes a query and logs the result
func (r *baseRepository) executeQuery(ctx context.Context, operation, table, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query, args...)
	r.logQuery(operation, table, query, args, time.Since(start), err)

	if err != nil {
		return nil, repositories.NewRepositoryError(operation, table, "", err)
	}
	return rows, nil
}

// executeQueryRow executes a single-row query and logs it
func (r *baseRepository) executeQueryRow(ctx context.Context, operation, table, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := r.db.QueryRowContext(ctx, query, args...)
	r.logQuery(operation, table, query, args, time.Since(start), nil)
	return row
}

// withTransaction runs fn inside a transaction, rolling back on any error
func (r *baseRepository) withTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return repositories.NewRepositoryError("begin", "transaction", "", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.logger.WithError(rbErr).Error("Failed to rollback transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return repositories.NewRepositoryError("commit", "transaction", "", err)
	}
	return nil
}
