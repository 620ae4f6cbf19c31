package database

import (
	"context"
	"database/sql"
	"io/fs"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

// Migrate runs a goose command ("up", "down", "status", ...) against the
// migrations embedded in fsys under dir.
func Migrate(ctx context.Context, db *sql.DB, fsys fs.FS, dir, command string, args ...string) error {
	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "failed to set goose dialect")
	}

	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return errors.Wrapf(err, "goose %s", command)
	}
	return nil
}
