package http

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cart-service/internal/domain/dto"
	"github.com/guttosm/cart-service/internal/i18n"
	"github.com/guttosm/cart-service/internal/middleware"
)

var successResponsePool = sync.Pool{
	New: func() interface{} { return &dto.SuccessResponse{} },
}

// ResponseBuilder writes the API envelopes for one request.
type ResponseBuilder struct {
	c *gin.Context
}

// NewResponseBuilder creates a new response builder for the given context.
func NewResponseBuilder(c *gin.Context) *ResponseBuilder {
	return &ResponseBuilder{c: c}
}

// Success wraps data in a SuccessResponse.
func (b *ResponseBuilder) Success(status int, data interface{}) {
	resp := successResponsePool.Get().(*dto.SuccessResponse)
	resp.Data = data
	resp.RequestID = middleware.GetRequestID(b.c)
	resp.Timestamp = time.Now()

	// gin serializes synchronously, so the value can go back afterwards.
	b.c.JSON(status, resp)

	*resp = dto.SuccessResponse{}
	successResponsePool.Put(resp)
}

// Error answers with a translated message. err, when set, is attached for
// ErrorHandler to log.
func (b *ResponseBuilder) Error(status int, messageKey string, err error) {
	b.write(status, dto.NewError(dto.ErrCodeFromStatus(status), i18n.Message(b.c, messageKey)), err)
}

// Fail maps err to a status and message and answers with it.
func (b *ResponseBuilder) Fail(err error) {
	m := mapError(err)
	resp := dto.NewError(dto.ErrCodeFromStatus(m.status), i18n.Message(b.c, m.key))
	if m.field != "" {
		resp = resp.WithDetail("field", m.field).WithDetail("reason", m.reason)
	}

	// Only unexpected failures reach the error log.
	var logged error
	if m.status >= 500 {
		logged = err
	}
	b.write(m.status, resp, logged)
}

func (b *ResponseBuilder) write(status int, resp dto.ErrorResponse, err error) {
	if err != nil {
		_ = b.c.Error(err)
	}
	b.c.AbortWithStatusJSON(status, resp.WithRequestID(middleware.GetRequestID(b.c)))
}

// Validator is implemented by request bodies with checks beyond binding tags.
type Validator interface {
	Validate() error
}

// BindAndValidate decodes the JSON body into a T and runs its Validate method.
func BindAndValidate[T any](c *gin.Context) (*T, error) {
	var req T
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, err
	}
	if v, ok := any(&req).(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	return &req, nil
}
