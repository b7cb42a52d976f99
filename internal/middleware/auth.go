package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cart-service/internal/domain/dto"
	"github.com/guttosm/cart-service/internal/i18n"
	"github.com/guttosm/cart-service/internal/logger"
	"github.com/guttosm/cart-service/internal/service"
)

const (
	// APIKeyHeader is the HTTP header name for API key authentication.
	APIKeyHeader = "X-API-Key"

	adminSubjectKey = "admin_subject"
)

// AdminVerifier checks admin credentials.
type AdminVerifier interface {
	VerifyAPIKey(key string) error
	VerifyToken(token string) (*service.AdminClaims, error)
}

// AdminAuth guards catalog writes. It accepts an X-API-Key or an
// Authorization bearer token. A nil verifier disables the check.
func AdminAuth(verifier AdminVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			c.Next()
			return
		}

		if key := c.GetHeader(APIKeyHeader); key != "" {
			if err := verifier.VerifyAPIKey(key); err != nil {
				rejectAdmin(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, i18n.ErrKeyInvalidAPIKey, err)
				return
			}
			c.Set(adminSubjectKey, "api-key")
			c.Next()
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			rejectAdmin(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, i18n.ErrKeyUnauthorized, nil)
			return
		}

		claims, err := verifier.VerifyToken(token)
		switch {
		case errors.Is(err, service.ErrInsufficientRole):
			rejectAdmin(c, http.StatusForbidden, dto.ErrCodeForbidden, i18n.ErrKeyForbidden, err)
			return
		case err != nil:
			rejectAdmin(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, i18n.ErrKeyInvalidToken, err)
			return
		}

		c.Set(adminSubjectKey, claims.Subject)
		c.Next()
	}
}

// GetAdminSubject returns who passed AdminAuth.
func GetAdminSubject(c *gin.Context) string {
	return c.GetString(adminSubjectKey)
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

func rejectAdmin(c *gin.Context, status int, code, key string, err error) {
	if err != nil {
		log := logger.Logger()
		log.Warn().
			Str("request_id", GetRequestID(c)).
			Str("path", c.Request.URL.Path).
			Err(err).
			Msg("admin authentication failed")
	}
	c.AbortWithStatusJSON(status, dto.NewError(code, i18n.Message(c, key)).WithRequestID(GetRequestID(c)))
}
