package v1

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cashwire/transferd/internal/errs"
)

// ValueStore is the plain string-value surface the idempotency middleware
// needs: response cache plus a short-lived in-flight lock.
type ValueStore interface {
	GetValue(ctx context.Context, key string) (string, error)
	SetValue(ctx context.Context, key, value string, ttl time.Duration) error
	SetValueNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	DeleteValue(ctx context.Context, key string) (bool, error)
}

const (
	idempotencyHeader = "Idempotency-Key"

	idempotencyCacheTTL = 24 * time.Hour
	idempotencyLockTTL  = 10 * time.Second

	idempotencyCachePrefix = "idempotency:"
	idempotencyLockPrefix  = "idempotency-lock:"
)

// storedResponse is the cached outcome of a completed request. The body hash
// guards against reusing a key with a different payload.
type storedResponse struct {
	BodyHash string `json:"bodyHash"`
	Status   int    `json:"status"`
	Payload  string `json:"payload"`
}

// responseRecorder captures status and body so successful responses can be
// cached for replay.
type responseRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (rw *responseRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseRecorder) Write(b []byte) (int, error) {
	rw.body.Write(b)
	return rw.ResponseWriter.Write(b)
}

// idempotency de-duplicates mutating requests carrying an Idempotency-Key
// header. The engine itself provides no idempotence; this is strictly a
// caller-side guard in front of it. Requests without the header pass through
// untouched.
func idempotency(store ValueStore, l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(idempotencyHeader)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()

			body, err := io.ReadAll(r.Body)
			if err != nil {
				badRequest(w, "unreadable body")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			bodyHash := hashBytes(body)

			cacheKey := idempotencyCachePrefix + key
			lockKey := idempotencyLockPrefix + key

			if cached, err := store.GetValue(ctx, cacheKey); err == nil {
				var stored storedResponse
				if err := json.Unmarshal([]byte(cached), &stored); err == nil {
					if stored.BodyHash != bodyHash {
						writeErr(w, http.StatusUnprocessableEntity,
							"idempotency key reused with a different payload", "idempotency_key_reuse")
						return
					}
					w.Header().Set("Content-Type", "application/json")
					w.Header().Set("X-Idempotency-Hit", "true")
					w.WriteHeader(stored.Status)
					_, _ = w.Write([]byte(stored.Payload))
					return
				}
			} else if !errors.Is(err, errs.ErrNotFound) {
				writeDomainErr(w, err)
				return
			}

			acquired, err := store.SetValueNX(ctx, lockKey, "processing", idempotencyLockTTL)
			if err != nil {
				writeDomainErr(w, err)
				return
			}
			if !acquired {
				writeErr(w, http.StatusConflict,
					"a request with this idempotency key is in flight", "idempotency_in_flight")
				return
			}
			defer func() {
				if _, err := store.DeleteValue(ctx, lockKey); err != nil {
					l.Warn("failed to release idempotency lock", "key", key, "err", err)
				}
			}()

			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status >= 200 && rec.status < 300 {
				stored, _ := json.Marshal(storedResponse{
					BodyHash: bodyHash,
					Status:   rec.status,
					Payload:  rec.body.String(),
				})
				if err := store.SetValue(ctx, cacheKey, string(stored), idempotencyCacheTTL); err != nil {
					l.Warn("failed to cache idempotent response", "key", key, "err", err)
				}
			}
		})
	}
}

func hashBytes(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}
