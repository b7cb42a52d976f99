//go:build integration

package repository

import (
	"context"
	"os"
	"testing"

	"github.com/guttosm/cart-service/internal/testutil"
	"github.com/stretchr/testify/require"
)

// TestMain shares one MongoDB and one PostgreSQL container across the package.
func TestMain(m *testing.M) {
	os.Exit(testutil.SetupTestMain(context.Background(), m))
}

// setupTestDBFromSharedContainer connects to a database unique to the test.
func setupTestDBFromSharedContainer(t *testing.T) *MongoDB {
	db, err := NewMongoDB(testutil.SharedMongoURI(), testutil.SanitizeDBName(t.Name()))
	require.NoError(t, err)
	return db
}
