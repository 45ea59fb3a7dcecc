package middleware

import (
	"bytes"
	"encoding/json"
	"time"

	"mobile-wallet-service/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HeaderIdempotencyKey is the client-supplied retry key for transfer POSTs.
const HeaderIdempotencyKey = "Idempotency-Key"

// HeaderIdempotencyReplayed marks a response served from the cache.
const HeaderIdempotencyReplayed = "X-Idempotency-Replayed"

// DefaultIdempotencyTTL bounds the replay window.
const DefaultIdempotencyTTL = 24 * time.Hour

// storedResponse is the cached outcome of a committed request.
type storedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// Idempotency replays the cached response for a repeated Idempotency-Key
// instead of executing the transfer again. Requests without the header pass
// through untouched. The key is scoped per route, so the same key on two
// different operations never collides. Cache failure degrades to
// pass-through, like the rate limiter.
func Idempotency(cache ports.IdempotencyCache, ttl time.Duration, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		cacheKey := c.Request.Method + ":" + c.FullPath() + ":" + key

		cached, err := cache.Get(c.Request.Context(), cacheKey)
		if err != nil {
			log.Warn().Err(err).Str("path", c.FullPath()).Msg("idempotency cache unavailable, allowing request")
			c.Next()
			return
		}
		if cached != nil {
			var stored storedResponse
			if err := json.Unmarshal(cached, &stored); err == nil {
				c.Header(HeaderIdempotencyReplayed, "true")
				c.Data(stored.Status, "application/json; charset=utf-8", stored.Body)
				c.Abort()
				return
			}
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = rec
		c.Next()

		// Only committed outcomes are replayable. A failed request may be
		// retried with the same key and succeed.
		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}
		payload, err := json.Marshal(storedResponse{Status: status, Body: rec.body.Bytes()})
		if err != nil {
			return
		}
		if err := cache.Set(c.Request.Context(), cacheKey, payload, ttl); err != nil {
			log.Warn().Err(err).Str("path", c.FullPath()).Msg("failed to store idempotency record")
		}
	}
}

// bodyRecorder tees the response body so it can be cached after the
// handler runs.
type bodyRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *bodyRecorder) WriteString(s string) (int, error) {
	r.body.WriteString(s)
	return r.ResponseWriter.WriteString(s)
}
