//go:build !integration

package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/guttosm/cart-service/internal/domain/dto"
	"github.com/guttosm/cart-service/internal/domain/model"
	"github.com/guttosm/cart-service/internal/middleware"
	"github.com/guttosm/cart-service/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListProducts(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantIDs    []string
		wantLimit  int
	}{
		{name: "default page sorted by name", query: "", wantStatus: http.StatusOK, wantIDs: []string{"ebook", "sunset"}, wantLimit: defaultPageSize},
		{name: "limit and offset", query: "?limit=1&offset=1", wantStatus: http.StatusOK, wantIDs: []string{"sunset"}, wantLimit: 1},
		{name: "offset past end", query: "?offset=10", wantStatus: http.StatusOK, wantIDs: []string{}, wantLimit: defaultPageSize},
		{name: "limit is capped", query: "?limit=5000", wantStatus: http.StatusOK, wantIDs: []string{"ebook", "sunset"}, wantLimit: maxPageSize},
		{name: "zero limit", query: "?limit=0", wantStatus: http.StatusBadRequest},
		{name: "non numeric limit", query: "?limit=ten", wantStatus: http.StatusBadRequest},
		{name: "negative offset", query: "?offset=-1", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t, DefaultRouterConfig())

			w := api.do(http.MethodGet, "/api/v1/products"+tt.query, "", "")

			requireStatus(t, tt.wantStatus, w)
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, dto.ErrCodeInvalidRequest, decodeError(t, w).Error)
				return
			}
			page := decodeData[dto.ProductListResponse](t, w)
			ids := make([]string, 0, len(page.Products))
			for _, p := range page.Products {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantLimit, page.Limit)
		})
	}
}

func TestGetProduct(t *testing.T) {
	api := newTestAPI(t, DefaultRouterConfig())

	w := api.do(http.MethodGet, "/api/v1/products/sunset", "", "")
	requireStatus(t, http.StatusOK, w)
	p := decodeData[model.Product](t, w)
	assert.Equal(t, "Sunset Print", p.Name)
	assert.True(t, decimal.NewFromInt(133).Equal(p.PosterPricing["A3"]))

	w = api.do(http.MethodGet, "/api/v1/products/missing", "", "")
	requireStatus(t, http.StatusNotFound, w)
	assert.Equal(t, dto.ErrCodeNotFound, decodeError(t, w).Error)
}

func TestAdminProducts_OpenWithoutVerifier(t *testing.T) {
	api := newTestAPI(t, DefaultRouterConfig())

	w := api.do(http.MethodPut, "/api/v1/admin/products/mug",
		`{"name":"Mug","price":"9.90","poster_pricing":{"A4":"20"}}`, "")
	requireStatus(t, http.StatusOK, w)

	stored, err := api.repo.Get(context.Background(), "mug")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("9.9").Equal(stored.Price))
	assert.True(t, decimal.NewFromInt(20).Equal(stored.PosterPricing["A4"]))

	w = api.do(http.MethodDelete, "/api/v1/admin/products/mug", "", "")
	requireStatus(t, http.StatusNoContent, w)

	w = api.do(http.MethodDelete, "/api/v1/admin/products/mug", "", "")
	requireStatus(t, http.StatusNotFound, w)
}

func TestUpsertProduct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{name: "negative price", body: `{"name":"Mug","price":"-1"}`, wantField: "price"},
		{name: "discount over 100", body: `{"name":"Mug","price":"1","discount_percentage":"120"}`, wantField: "discount_percentage"},
		{name: "unparseable poster price", body: `{"name":"Mug","price":"1","poster_pricing":{"A4":"cheap"}}`, wantField: "poster_pricing.A4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t, DefaultRouterConfig())

			w := api.do(http.MethodPut, "/api/v1/admin/products/mug", tt.body, "")

			requireStatus(t, http.StatusBadRequest, w)
			resp := decodeError(t, w)
			assert.Equal(t, dto.ErrCodeInvalidRequest, resp.Error)
			assert.Equal(t, tt.wantField, resp.Details["field"])
			assert.Equal(t, 2, api.repo.Len())
		})
	}

	t.Run("missing name", func(t *testing.T) {
		api := newTestAPI(t, DefaultRouterConfig())
		w := api.do(http.MethodPut, "/api/v1/admin/products/mug", `{"price":"1"}`, "")
		requireStatus(t, http.StatusBadRequest, w)
	})
}

func TestAdminProducts_Authenticated(t *testing.T) {
	auth := service.NewAdminAuthenticator(service.AdminAuthConfig{
		APIKeys:   []string{"secret-key"},
		JWTSecret: "jwt-secret",
		JWTIssuer: "cart-service",
	})
	cfg := DefaultRouterConfig()
	cfg.AdminAuth = auth
	api := newTestAPI(t, cfg)

	token, err := auth.IssueToken("ops@example.com", time.Hour)
	require.NoError(t, err)

	body := `{"name":"Mug","price":"9.90"}`
	tests := []struct {
		name       string
		headers    []string
		wantStatus int
	}{
		{name: "no credentials", wantStatus: http.StatusUnauthorized},
		{name: "wrong api key", headers: []string{middleware.APIKeyHeader, "nope"}, wantStatus: http.StatusUnauthorized},
		{name: "garbage token", headers: []string{"Authorization", "Bearer abc.def.ghi"}, wantStatus: http.StatusUnauthorized},
		{name: "api key", headers: []string{middleware.APIKeyHeader, "secret-key"}, wantStatus: http.StatusOK},
		{name: "bearer token", headers: []string{"Authorization", "Bearer " + token}, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(http.MethodPut, "/api/v1/admin/products/mug", body, "", tt.headers...)
			requireStatus(t, tt.wantStatus, w)
		})
	}

	t.Run("reads stay public", func(t *testing.T) {
		requireStatus(t, http.StatusOK, api.do(http.MethodGet, "/api/v1/products/mug", "", ""))
	})
}
