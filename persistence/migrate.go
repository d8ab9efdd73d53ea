package persistence

import (
	"context"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
	"github.com/uptrace/bun"
)

// goose keeps its base FS and dialect in package state
var gooseMu sync.Mutex

// Migrate applies every pending migration
func Migrate(ctx context.Context, db *bun.DB) error {
	return withGoose(db, func(d Dialect) error {
		if err := goose.UpContext(ctx, db.DB, "."); err != nil {
			return fmt.Errorf("migrate up (%s): %w", d, err)
		}
		return nil
	})
}

// Rollback reverts the latest applied migration
func Rollback(ctx context.Context, db *bun.DB) error {
	return withGoose(db, func(d Dialect) error {
		if err := goose.DownContext(ctx, db.DB, "."); err != nil {
			return fmt.Errorf("migrate down (%s): %w", d, err)
		}
		return nil
	})
}

// Version returns the current schema version
func Version(ctx context.Context, db *bun.DB) (int64, error) {
	var version int64
	err := withGoose(db, func(Dialect) error {
		v, err := goose.GetDBVersionContext(ctx, db.DB)
		version = v
		return err
	})
	return version, err
}

func withGoose(db *bun.DB, fn func(Dialect) error) error {
	d := DialectOf(db)

	fsys, err := GetMigrationsFS(d)
	if err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(fsys)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(string(d)); err != nil {
		return err
	}

	return fn(d)
}
