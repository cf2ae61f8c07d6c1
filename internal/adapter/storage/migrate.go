package storage

import (
	"context"
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

//go:embed migrations
var migrationFS embed.FS

const migrationTable = "schema_migrations"

// Migrate applies the embedded schema files of the dialect at most once each.
// It returns the names of the files applied by this call.
func (a *SQLAdapter) Migrate(ctx context.Context) ([]string, error) {
	return applyMigrations(ctx, a.db, a.dialect)
}

func applyMigrations(ctx context.Context, db *sqlx.DB, dialect string) ([]string, error) {
	root := path.Join("migrations", dialect)
	entries, err := fs.ReadDir(migrationFS, root)
	if err != nil {
		return nil, errors.Wrapf(err, "read migrations for %s", dialect)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+migrationTable+` (
		name VARCHAR(255) NOT NULL PRIMARY KEY,
		applied_at BIGINT NOT NULL
	)`); err != nil {
		return nil, errors.Wrap(err, "ensure migration table")
	}

	var applied []string
	for _, file := range files {
		var count int
		if err := db.GetContext(ctx, &count, `SELECT COUNT(*) FROM `+migrationTable+` WHERE name = ?`, file); err != nil {
			return applied, errors.Wrapf(err, "check migration %s", file)
		}
		if count > 0 {
			continue
		}

		content, err := fs.ReadFile(migrationFS, path.Join(root, file))
		if err != nil {
			return applied, errors.Wrapf(err, "read migration %s", file)
		}

		// MySQL rejects multi-statement Exec without multiStatements=true in the DSN.
		for _, stmt := range splitStatements(string(content)) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return applied, errors.Wrapf(err, "apply migration %s", file)
			}
		}

		if _, err := db.ExecContext(ctx,
			`INSERT INTO `+migrationTable+` (name, applied_at) VALUES (?, ?)`,
			file, time.Now().UTC().UnixMilli(),
		); err != nil {
			return applied, errors.Wrapf(err, "record migration %s", file)
		}
		applied = append(applied, file)
	}

	return applied, nil
}

func splitStatements(content string) []string {
	var stmts []string
	for _, part := range strings.Split(content, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
