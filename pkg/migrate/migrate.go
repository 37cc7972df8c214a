package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/angelmondragon/catalog-backend/pkg/config"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

const migrationsDir = "migrations"

// Run executes a goose command against the configured database using the
// embedded migration set.
func Run(ctx context.Context, db *sql.DB, cfg config.DBConfig, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}

	goose.SetBaseFS(embeddedMigrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect(cfg)); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.RunContext(ctx, command, db, migrationsDir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

func dialect(cfg config.DBConfig) string {
	if cfg.UsesSQLite() {
		return "sqlite3"
	}
	return "postgres"
}
