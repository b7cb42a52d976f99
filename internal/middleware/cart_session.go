package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/guttosm/cart-service/internal/domain/dto"
	"github.com/guttosm/cart-service/internal/i18n"
)

const (
	// CartSessionHeader identifies the shopper's cart.
	CartSessionHeader = "X-Cart-Session"
	// CartSessionQuery is accepted where headers cannot be set, such as EventSource.
	CartSessionQuery = "session"

	cartSessionKey = "cart_session"
)

// CartSession resolves the cart session id. A missing id is generated and
// echoed back; a malformed one is rejected with 400.
func CartSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(CartSessionHeader)
		if raw == "" {
			raw = c.Query(CartSessionQuery)
		}

		sessionID := uuid.NewString()
		if raw != "" {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest,
					dto.NewError(dto.ErrCodeInvalidRequest, i18n.Message(c, i18n.ErrKeyInvalidSession)).
						WithRequestID(GetRequestID(c)))
				return
			}
			sessionID = parsed.String()
		}

		c.Set(cartSessionKey, sessionID)
		c.Header(CartSessionHeader, sessionID)
		c.Next()
	}
}

// GetCartSession returns the session id set by CartSession.
func GetCartSession(c *gin.Context) string {
	return c.GetString(cartSessionKey)
}
