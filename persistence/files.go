package persistence

import (
	"embed"
	"io/fs"
)

//go:embed migrations
var migrationsFS embed.FS

// GetMigrationsFS returns the migration files for dialect, rooted at the
// dialect directory.
func GetMigrationsFS(d Dialect) (fs.FS, error) {
	return fs.Sub(migrationsFS, "migrations/"+d.dir())
}
