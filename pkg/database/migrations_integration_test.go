//go:build integration

package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bagucv/bagbot-engine/pkg/database"
	"github.com/bagucv/bagbot-engine/pkg/testhelpers"
)

func TestRunMigrations_Integration(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	ctx := context.Background()

	// GetTestDB already migrated; a second run is a no-op.
	require.NoError(t, database.RunMigrations(ctx, testDB.DB, zap.NewNop()))

	version, dirty, err := database.MigrationVersion(ctx, testDB.DB)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	for _, table := range []string{"recursos_libros", "recursos_tesis", "recursos_publicaciones_seriadas", "recursos_colec_docs"} {
		var exists bool
		require.NoError(t, testDB.DB.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = $1)`,
			table).Scan(&exists))
		assert.True(t, exists, table)
	}

	var unaccented string
	require.NoError(t, testDB.DB.QueryRowContext(ctx, `SELECT UNACCENT('López')`).Scan(&unaccented))
	assert.Equal(t, "Lopez", unaccented)

	assert.Equal(t, 0, testDB.DB.Stats().InUse, "migrator must release its connection")
}
