package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cart-service/internal/domain/model"
	"github.com/guttosm/cart-service/internal/i18n"
	"github.com/guttosm/cart-service/internal/service"
)

// AuditLogResponse is a page of audit entries.
type AuditLogResponse struct {
	Entries []model.LogEntry `json:"entries"`
	Total   int64            `json:"total" example:"120"`
	Limit   int              `json:"limit" example:"50"`
	Offset  int              `json:"offset" example:"0"`
} // @name AuditLogResponse

// AuditHandler lets admins read the audit trail.
type AuditHandler struct {
	logs service.LoggingService
}

// NewAuditHandler creates an audit handler.
func NewAuditHandler(logs service.LoggingService) *AuditHandler {
	return &AuditHandler{logs: logs}
}

// ListEntries handles GET /api/v1/admin/audit.
//
// @Summary      List audit entries
// @Description  Newest first. Filters by session, action type and an RFC 3339 time range.
// @Tags         Admin
// @Produce      json
// @Security     ApiKeyAuth
// @Security     BearerAuth
// @Param        session_id query string false "Cart session"
// @Param        action     query string false "Action type" Enums(cart_changed, checkout, catalog_write)
// @Param        from       query string false "Start time (RFC 3339)"
// @Param        to         query string false "End time (RFC 3339)"
// @Param        limit      query int    false "Page size" default(50)
// @Param        offset     query int    false "Entries to skip" default(0)
// @Success      200 {object} dto.SuccessResponse{data=AuditLogResponse}
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Router       /api/v1/admin/audit [get]
func (h *AuditHandler) ListEntries(c *gin.Context) {
	b := NewResponseBuilder(c)
	opts, ok := auditQuery(c)
	if !ok {
		b.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, nil)
		return
	}

	entries, err := h.logs.QueryLogs(c.Request.Context(), opts)
	if err != nil {
		b.Fail(err)
		return
	}
	total, err := h.logs.CountLogs(c.Request.Context(), opts)
	if err != nil {
		b.Fail(err)
		return
	}
	if entries == nil {
		entries = []model.LogEntry{}
	}
	b.Success(http.StatusOK, AuditLogResponse{Entries: entries, Total: total, Limit: opts.Limit, Offset: opts.Skip})
}

func auditQuery(c *gin.Context) (model.LogQueryOptions, bool) {
	limit, err := queryInt(c, "limit", defaultPageSize)
	if err != nil || limit <= 0 {
		return model.LogQueryOptions{}, false
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		return model.LogQueryOptions{}, false
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	opts := model.LogQueryOptions{
		SessionID:  c.Query("session_id"),
		ActionType: c.Query("action"),
		Limit:      limit,
		Skip:       offset,
	}
	for name, dst := range map[string]**time.Time{"from": &opts.StartTime, "to": &opts.EndTime} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return model.LogQueryOptions{}, false
		}
		*dst = &t
	}
	return opts, true
}
