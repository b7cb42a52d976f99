package app

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cart-service/config"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testConfig is a small, fast configuration for wiring tests.
func testConfig() config.Config {
	return config.Config{
		Server: config.ServerConfig{
			Port:            "0",
			RateWindow:      time.Minute,
			ShutdownTimeout: time.Second,
			RequestTimeout:  5 * time.Second,
			IdempotencyTTL:  time.Minute,
			SSEHeartbeat:    time.Second,
		},
		Log:     config.LogConfig{Level: "error"},
		Cart:    config.CartConfig{SessionTTL: time.Hour, CleanupInterval: time.Minute, MaxQuantity: 99},
		Catalog: config.CatalogConfig{Backend: config.CatalogBackendMemory},
		Cache:   config.CacheConfig{Size: 100, TTL: time.Minute},
		CircuitBreaker: config.CircuitBreakerConfig{
			FailureThreshold: 3,
			HalfOpenRequests: 1,
			Timeout:          time.Second,
		},
	}
}

func writeSeed(t *testing.T, rows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.csv")
	content := "id,name,price,discount_percentage,poster_pricing\n"
	for _, r := range rows {
		content += r + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func serve(app *App, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	return w
}
