package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/seyifunmi-idowu/express-sub000/internal/redis"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
)

// cachedResponse stores the response for idempotent requests.
type cachedResponse struct {
	StatusCode  int             `json:"status_code"`
	Body        json.RawMessage `json:"body"`
	ContentType string          `json:"content_type"`
}

// responseWriter wraps gin.ResponseWriter to capture the response.
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response for a repeated Idempotency-Key
// instead of re-executing the request. Server errors are not stored, so a
// retry after a 5xx runs the handler again.
func Idempotency(store redis.KeyStoreInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Only mutating methods are replayable.
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := "idempotency:" + key

		data, err := store.Get(ctx, cacheKey)
		if err != nil {
			// Store unavailable; run the handler without replay protection.
			c.Next()
			return
		}
		if data != nil {
			var cached cachedResponse
			if jerr := json.Unmarshal(data, &cached); jerr == nil {
				contentType := cached.ContentType
				if contentType == "" {
					contentType = "application/json"
				}
				c.Data(cached.StatusCode, contentType, cached.Body)
				c.Abort()
				return
			}
		}

		w := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = w

		c.Next()

		if c.Writer.Status() >= 200 && c.Writer.Status() < 500 {
			cached, err := json.Marshal(cachedResponse{
				StatusCode:  c.Writer.Status(),
				Body:        w.body.Bytes(),
				ContentType: c.Writer.Header().Get("Content-Type"),
			})
			if err == nil {
				_ = store.Set(ctx, cacheKey, cached, idempotencyTTL)
			}
		}
	}
}
