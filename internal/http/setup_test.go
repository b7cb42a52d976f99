//go:build !integration

package http

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/guttosm/cart-service/internal/domain/dto"
	"github.com/guttosm/cart-service/internal/domain/model"
	"github.com/guttosm/cart-service/internal/middleware"
	"github.com/guttosm/cart-service/internal/mocks"
	"github.com/guttosm/cart-service/internal/repository"
	"github.com/guttosm/cart-service/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	router *gin.Engine
	store  *service.CartStore
	repo   *repository.MemoryProductRepository
	orders *mocks.MockOrderRepository
}

func seedProducts() []model.Product {
	return []model.Product{
		{
			ID:                 "sunset",
			Name:               "Sunset Print",
			Price:              decimal.NewFromInt(45),
			DiscountPercentage: decimal.NewFromInt(20),
			PosterPricing: map[string]decimal.Decimal{
				"A4": decimal.NewFromInt(100),
				"A3": decimal.NewFromInt(133),
			},
		},
		{ID: "ebook", Name: "Field Guide", Price: decimal.RequireFromString("12.49")},
	}
}

func newTestAPI(t *testing.T, cfg RouterConfig) *testAPI {
	t.Helper()

	repo := repository.NewMemoryProductRepository(seedProducts()...)
	catalog := service.NewCatalogService(repo, nil)
	store := service.NewCartStore(service.CartStoreConfig{MaxQuantity: 10})
	t.Cleanup(store.Stop)
	orders := &mocks.MockOrderRepository{}

	handlers := Handlers{
		Cart:     NewCartHandler(service.NewCartService(store, catalog, 10), 0),
		Catalog:  NewCatalogHandler(catalog, nil),
		Checkout: NewCheckoutHandler(service.NewCheckoutService(store, orders, nil, nil)),
		Health:   NewHealthHandler(),
	}
	return &testAPI{router: NewRouter(handlers, cfg), store: store, repo: repo, orders: orders}
}

func (a *testAPI) do(method, path, body, session string, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != "" {
		req.Header.Set(middleware.CartSessionHeader, session)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func newSession() string {
	return uuid.NewString()
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope struct {
		Data      T      `json:"data"`
		RequestID string `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), w.Body.String())
	require.NotEmpty(t, envelope.RequestID)
	return envelope.Data
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func requireStatus(t *testing.T, want int, w *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, want, w.Code, w.Body.String())
}

