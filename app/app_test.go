package app_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/lingoscene/lingoscene-api/app"
	"github.com/lingoscene/lingoscene-api/config"
	"github.com/lingoscene/lingoscene-api/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.App.Env = config.EnvTest
	cfg.Database.DSN = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	cfg.Dictionary.Enabled = false
	return cfg
}

func TestServerAutoMigrates(t *testing.T) {
	ctx := context.Background()

	a, err := app.New(ctx, testConfig(), logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	srv, err := a.Server(ctx)
	require.NoError(t, err)

	res, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	_, _, err = a.Repository().Users().List(ctx)
	assert.NoError(t, err, "tables exist after auto migration")
}

func TestMigrateAndRollback(t *testing.T) {
	ctx := context.Background()

	a, err := app.New(ctx, testConfig(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	require.NoError(t, a.Migrate(ctx))
	require.NoError(t, a.Rollback(ctx))
	require.NoError(t, a.Migrate(ctx))
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := app.New(context.Background(), nil, nil)
	assert.Error(t, err)
}
