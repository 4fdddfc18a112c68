package testutil_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-freitas/rocketseat-nlw-planner/testutil"
)

func TestMain(m *testing.M) {
	if _, err := testutil.MigrateFromEnv(context.Background()); err != nil {
		log.Fatalf("TestMain: %v", err)
	}
	os.Exit(m.Run())
}

// TestNewTx_RollsBackOnCleanup verifies that writes made through NewTx are
// visible inside the test and gone once it finishes.
func TestNewTx_RollsBackOnCleanup(t *testing.T) {
	destination := "rollback-" + uuid.NewString()

	t.Run("write", func(t *testing.T) {
		tx := testutil.NewTx(t)
		_, err := tx.Exec(context.Background(),
			`INSERT INTO trips (destination, starts_at, ends_at) VALUES ($1, '2030-01-01', '2030-01-02')`,
			destination)
		require.NoError(t, err)
		assert.Equal(t, 1, testutil.CountTrips(t, tx, destination))
	})

	assert.Zero(t, testutil.CountTrips(t, testutil.NewPool(t), destination))
}

func TestMigrateFromEnv_UnsetIsNoop(t *testing.T) {
	t.Setenv(testutil.DSNVar, "")

	ok, err := testutil.MigrateFromEnv(context.Background())

	require.NoError(t, err)
	assert.False(t, ok)
}
