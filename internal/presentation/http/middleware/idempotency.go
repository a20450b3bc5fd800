package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/entity"
	"github.com/weicheng-hsu/truckbooks-api/internal/domain/repository"
	"github.com/weicheng-hsu/truckbooks-api/internal/presentation/http/dto/response"
)

const (
	// IdempotencyKeyHeader is the HTTP header carrying the client's key
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long a cached response is replayed
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
}

// bodyRecorder duplicates the response body so it can be cached
type bodyRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func hashRequestBody(c *gin.Context) string {
	if c.Request.Body == nil {
		return ""
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Idempotency replays the cached response when a write request arrives twice
// with the same Idempotency-Key. Keys are scoped per user; reusing a key with
// a different request body is rejected. Requests without the header pass
// through untouched.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		currentUser := userIDFromContext(c)
		if currentUser == uuid.Nil {
			c.Next()
			return
		}

		requestHash := hashRequestBody(c)

		existing, err := config.Repo.GetByKey(c.Request.Context(), key, currentUser)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if existing != nil && !existing.IsExpired() {
			if existing.RequestHash != requestHash {
				response.ErrorWithCode(c, 422, "Idempotency key was already used with a different request body")
				c.Abort()
				return
			}
			c.Header("X-Idempotency-Replayed", "true")
			c.Data(existing.ResponseCode, "application/json", []byte(existing.ResponseBody))
			c.Abort()
			return
		}

		recorder := &bodyRecorder{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = recorder

		c.Next()

		// Only successful outcomes are worth replaying; a failed request
		// should be retryable with the same key
		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}

		_ = config.Repo.Create(c.Request.Context(), &entity.IdempotencyKey{
			Key:          key,
			UserID:       currentUser,
			Endpoint:     c.Request.Method + " " + c.FullPath(),
			RequestHash:  requestHash,
			ResponseCode: status,
			ResponseBody: recorder.body.String(),
			ExpiresAt:    time.Now().Add(IdempotencyKeyTTL),
		})
	}
}
