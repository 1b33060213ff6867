package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestIDFrom(ctx))

	ctx = WithRequestID(ctx, "req-123")
	assert.Equal(t, "req-123", RequestIDFrom(ctx))
}

func TestFromCtx(t *testing.T) {
	// without request id, falls back to global logger
	assert.NotNil(t, FromCtx(context.Background()))

	ctx := WithRequestID(context.Background(), "req-456")
	assert.NotNil(t, FromCtx(ctx))
}

func TestRequestIDMiddleware(t *testing.T) {
	t.Run("generates request id when missing", func(t *testing.T) {
		var seen string
		h := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = RequestIDFrom(r.Context())
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
	})

	t.Run("propagates client request id", func(t *testing.T) {
		var seen string
		h := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = RequestIDFrom(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "client-id")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "client-id", seen)
	})
}

func TestStatusWriter(t *testing.T) {
	t.Run("records explicit status", func(t *testing.T) {
		rec := httptest.NewRecorder()
		sw := &statusWriter{ResponseWriter: rec, status: http.StatusOK}

		sw.WriteHeader(http.StatusBadRequest)

		assert.Equal(t, http.StatusBadRequest, sw.status)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("defaults to 200 for implicit writes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("ok"))
		}))

		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
	})
}

func TestLoggingMiddlewarePassesStatusThrough(t *testing.T) {
	rec := httptest.NewRecorder()
	h := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/orders/1/cancel-request", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
}
