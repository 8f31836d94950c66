package storage

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// openTestPostgres skips unless TEST_POSTGRES_URL points at a scratch database.
func openTestPostgres(t *testing.T) *PostgresStore {
	t.Helper()

	url := os.Getenv("TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("TEST_POSTGRES_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	table := fmt.Sprintf("kv_test_%d", time.Now().UnixNano())
	store, err := NewPostgresStore(ctx, url, table)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = store.db.Exec(context.Background(), "DROP TABLE IF EXISTS "+table)
		_ = store.Close()
	})

	return store
}

func TestPostgresStoreContract(t *testing.T) {
	store := openTestPostgres(t)

	runStoreContract(t, store)
}

func TestNewPostgresStoreRejectsBadTableName(t *testing.T) {
	_, err := NewPostgresStore(context.Background(), "postgres://unused", "kv; DROP TABLE users")
	require.ErrorContains(t, err, "invalid table name")
}
