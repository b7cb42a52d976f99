package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cart-service/internal/domain/dto"
	"github.com/guttosm/cart-service/internal/domain/model"
	"github.com/guttosm/cart-service/internal/i18n"
	"github.com/guttosm/cart-service/internal/logger"
	"github.com/guttosm/cart-service/internal/middleware"
	"github.com/guttosm/cart-service/internal/service"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// CatalogHandler serves the product catalog and its admin writes.
type CatalogHandler struct {
	catalog service.CatalogService
	audit   *service.AuditWriter
}

// NewCatalogHandler creates a catalog handler. audit may be nil.
func NewCatalogHandler(catalog service.CatalogService, audit *service.AuditWriter) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, audit: audit}
}

// ListProducts handles GET /api/v1/products.
//
// @Summary      List products
// @Tags         Catalog
// @Produce      json
// @Param        limit query int false "Page size (max 200)" default(50)
// @Param        offset query int false "Offset" default(0)
// @Success      200 {object} dto.SuccessResponse{data=dto.ProductListResponse}
// @Failure      400 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Router       /api/v1/products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	b := NewResponseBuilder(c)
	limit, err := queryInt(c, "limit", defaultPageSize)
	if err != nil || limit <= 0 {
		b.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, nil)
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		b.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, nil)
		return
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	products, err := h.catalog.ListProducts(c.Request.Context(), limit, offset)
	if err != nil {
		b.Fail(err)
		return
	}
	b.Success(http.StatusOK, dto.ProductListResponse{Products: products, Limit: limit, Offset: offset})
}

// GetProduct handles GET /api/v1/products/:id.
//
// @Summary      Get product
// @Tags         Catalog
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.SuccessResponse{data=model.Product}
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/v1/products/{id} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	b := NewResponseBuilder(c)
	product, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		b.Fail(err)
		return
	}
	b.Success(http.StatusOK, product)
}

// UpsertProduct handles PUT /api/v1/admin/products/:id.
//
// @Summary      Create or replace product
// @Description  Carts keep the price a line was added at; changing a product affects only later additions.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        request body dto.UpsertProductRequest true "Product"
// @Success      200 {object} dto.SuccessResponse{data=model.Product}
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      403 {object} dto.ErrorResponse
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /api/v1/admin/products/{id} [put]
func (h *CatalogHandler) UpsertProduct(c *gin.Context) {
	b := NewResponseBuilder(c)
	req, err := BindAndValidate[dto.UpsertProductRequest](c)
	if err != nil {
		bindFailed(b, err)
		return
	}

	product, err := req.ToProduct(strings.TrimSpace(c.Param("id")))
	if err != nil {
		b.Fail(err)
		return
	}
	if err := h.catalog.SaveProduct(c.Request.Context(), product); err != nil {
		b.Fail(err)
		return
	}

	log := logger.Logger()
	log.Info().
		Str("product_id", product.ID).
		Str("admin", middleware.GetAdminSubject(c)).
		Str("request_id", middleware.GetRequestID(c)).
		Msg("Product saved")
	h.recordWrite(c, product.ID, "upsert")
	b.Success(http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/v1/admin/products/:id.
//
// @Summary      Delete product
// @Description  Lines already in carts keep their product snapshot.
// @Tags         Admin
// @Param        id path string true "Product ID"
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Router       /api/v1/admin/products/{id} [delete]
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")
	if err := h.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		NewResponseBuilder(c).Fail(err)
		return
	}

	log := logger.Logger()
	log.Info().
		Str("product_id", id).
		Str("admin", middleware.GetAdminSubject(c)).
		Str("request_id", middleware.GetRequestID(c)).
		Msg("Product deleted")
	h.recordWrite(c, id, "delete")
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) recordWrite(c *gin.Context, productID, op string) {
	h.audit.Log(&model.LogEntry{
		Timestamp:  time.Now().UTC(),
		Level:      "info",
		Message:    "catalog " + op,
		RequestID:  middleware.GetRequestID(c),
		ActionType: model.ActionCatalogWrite,
		ProductID:  productID,
		Fields:     map[string]interface{}{"admin": middleware.GetAdminSubject(c), "op": op},
	})
}

func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
