package persistence

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Execer runs a statement; satisfied by *pgxpool.Pool.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// RunMigrations executes the embedded SQL migrations in file name order.
// Every statement is idempotent, so the whole set runs on each start.
func RunMigrations(ctx context.Context, db Execer, logger *zap.Logger) error {
	if db == nil {
		logger.Warn("no postgres pool available; skipping migrations")
		return nil
	}

	filenames, err := fs.Glob(migrationFiles, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(filenames)

	for _, name := range filenames {
		content, err := migrationFiles.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		logger.Info("applying migration", zap.String("file", name))
		if _, err := db.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}

	logger.Info("migrations applied", zap.Int("count", len(filenames)))
	return nil
}
