//go:build integration

// Package dbtest starts a throwaway Postgres for repository integration tests.
package dbtest

import (
	"context"
	"io/fs"
	"testing"
	"time"

	"github.com/draftea/order-system/shared/database"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// NewPostgres runs a Postgres container, applies the migrations in fsys and
// returns a connection. Everything is torn down when the test ends.
func NewPostgres(t *testing.T, fsys fs.FS) *sqlx.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("orders_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Connect(ctx, dsn, database.Options{MaxOpenConns: 10, MaxIdleConns: 5})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	require.NoError(t, database.Migrate(ctx, db.DB, fsys, ".", "up"))
	return db
}
