package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

// Dialect names the SQL flavour of a database
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "postgres"
)

func (d Dialect) dir() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

// Config holds database options
type Config struct {
	DSN   string
	Debug bool
}

// DialectFor picks the dialect from the DSN. Postgres URLs and keyword
// DSNs select Postgres, anything else is treated as a SQLite file.
func DialectFor(dsn string) Dialect {
	dsn = strings.TrimSpace(dsn)
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return DialectPostgres
	case strings.Contains(dsn, "host=") && strings.Contains(dsn, "dbname="):
		return DialectPostgres
	default:
		return DialectSQLite
	}
}

// DialectOf returns the dialect of an open database
func DialectOf(db *bun.DB) Dialect {
	if db.Dialect().Name() == dialect.PG {
		return DialectPostgres
	}
	return DialectSQLite
}

// Open connects to the database described by cfg and checks the connection
func Open(ctx context.Context, cfg Config) (*bun.DB, error) {
	var db *bun.DB

	switch DialectFor(cfg.DSN) {
	case DialectPostgres:
		sqldb, err := sql.Open("pgx", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("db open error: %w", err)
		}
		db = bun.NewDB(sqldb, pgdialect.New())
	default:
		sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("db open error: %w", err)
		}
		// SQLite allows a single writer and in memory databases live
		// as long as their connection.
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	}

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	if DialectOf(db) == DialectSQLite {
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}

	return db, nil
}
