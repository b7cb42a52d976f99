package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cart-service/internal/domain/dto"
	"github.com/guttosm/cart-service/internal/i18n"
)

const (
	// IdempotencyKeyHeader names the client-chosen retry key.
	IdempotencyKeyHeader = "Idempotency-Key"
	// DefaultIdempotencyTTL is how long a replay is kept.
	DefaultIdempotencyTTL = 10 * time.Minute

	maxIdempotencyEntries = 10000
	// maxIdempotentBody bounds the request body hashed into the replay key.
	maxIdempotentBody = 64 << 10
)

// Idempotency replays the first successful response for a repeated
// Idempotency-Key within the same cart session, so a retried checkout does
// not place a second order. Concurrent requests with the same key are
// serialized.
type Idempotency struct {
	store *idempotencyStore

	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// NewIdempotency creates the middleware state.
func NewIdempotency(ttl time.Duration) (*Idempotency, error) {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	store, err := newIdempotencyStore(maxIdempotencyEntries, ttl)
	if err != nil {
		return nil, err
	}
	return &Idempotency{store: store, locks: make(map[string]*keyLock)}, nil
}

// Handler returns the gin middleware. Requests without the header pass through.
func (i *Idempotency) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		cacheKey, err := i.cacheKey(c, key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewError(dto.ErrCodeInvalidRequest, i18n.Message(c, i18n.ErrKeyInvalidRequestBody)).WithRequestID(GetRequestID(c)))
			return
		}
		unlock := i.lock(cacheKey)
		defer unlock()

		if r, ok := i.store.get(cacheKey); ok {
			c.Header("X-Idempotency-Replayed", "true")
			c.Data(r.status, r.contentType, r.body)
			c.Abort()
			return
		}

		rec := &recordingWriter{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		if status := rec.Status(); status >= 200 && status < 300 {
			i.store.set(cacheKey, &replay{
				status:      status,
				contentType: rec.Header().Get("Content-Type"),
				body:        rec.body.Bytes(),
			})
		}
	}
}

func (i *Idempotency) lock(key string) (unlock func()) {
	i.mu.Lock()
	l, ok := i.locks[key]
	if !ok {
		l = &keyLock{}
		i.locks[key] = l
	}
	l.refs++
	i.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		i.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(i.locks, key)
		}
		i.mu.Unlock()
	}
}

// Close releases the replay cache.
func (i *Idempotency) Close() {
	i.store.close()
}

// cacheKey binds the key to the session, route and body so a reused key
// with a different request is not replayed. The body is buffered and handed
// back to the request; bodies over maxIdempotentBody are refused.
func (i *Idempotency) cacheKey(c *gin.Context, key string) (string, error) {
	h := sha256.New()
	for _, part := range []string{key, GetCartSession(c), c.Request.Method, c.Request.URL.Path} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	if c.Request.Body != nil {
		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxIdempotentBody))
		if err != nil {
			return "", err
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		h.Write(body)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

type recordingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *recordingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
