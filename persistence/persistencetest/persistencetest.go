// Package persistencetest opens migrated in-memory databases for tests.
package persistencetest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/lingoscene/lingoscene-api/persistence"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// NewDB returns a private in-memory SQLite database with every migration
// applied. It is closed when the test ends.
func NewDB(t testing.TB) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := persistence.Open(context.Background(), persistence.Config{DSN: dsn})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})

	require.NoError(t, persistence.Migrate(context.Background(), db))

	return db
}
