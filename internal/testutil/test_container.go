//go:build integration

package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
)

var (
	sharedMongo    *MongoDBContainer
	sharedPostgres *PostgresContainer
	sharedMu       sync.RWMutex
)

// SetupTestMain starts the shared MongoDB and PostgreSQL containers, runs the
// tests and tears the containers down. Usage:
//
//	func TestMain(m *testing.M) {
//		os.Exit(testutil.SetupTestMain(context.Background(), m))
//	}
func SetupTestMain(ctx context.Context, m *testing.M) int {
	mongo, err := SetupMongoDB(ctx)
	if err != nil {
		panic(err)
	}
	pg, err := SetupPostgres(ctx)
	if err != nil {
		_ = mongo.Cleanup(ctx)
		panic(err)
	}

	sharedMu.Lock()
	sharedMongo, sharedPostgres = mongo, pg
	sharedMu.Unlock()

	code := m.Run()

	for _, cleanup := range []func(context.Context) error{mongo.Cleanup, pg.Cleanup} {
		if err := cleanup(ctx); err != nil {
			_, _ = os.Stderr.WriteString("Warning: failed to cleanup shared container: " + err.Error() + "\n")
		}
	}
	return code
}

// SharedMongoURI returns the URI of the shared MongoDB container.
func SharedMongoURI() string {
	sharedMu.RLock()
	defer sharedMu.RUnlock()

	if sharedMongo == nil {
		panic("shared MongoDB container not initialized - call SetupTestMain first")
	}
	return sharedMongo.URI
}

// SharedPostgresDSN returns the DSN of the shared PostgreSQL container.
func SharedPostgresDSN() string {
	sharedMu.RLock()
	defer sharedMu.RUnlock()

	if sharedPostgres == nil {
		panic("shared Postgres container not initialized - call SetupTestMain first")
	}
	return sharedPostgres.DSN
}

// SanitizeDBName turns a test name into a unique MongoDB database name.
func SanitizeDBName(testName string) string {
	sanitized := strings.NewReplacer("/", "_", "\\", "_").Replace(testName)
	if len(sanitized) > 50 {
		sanitized = sanitized[:50]
	}
	return fmt.Sprintf("%s_%d", sanitized, time.Now().UnixNano()%1000000)
}
