package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tatavachnadze/URL-Shortener/internal/handlers"
	"github.com/tatavachnadze/URL-Shortener/internal/middleware"
)

type metaOutput struct {
	Body struct {
		Status string `json:"status"`
	}
}

// captureMeta serves one request through the middleware and returns the
// request metadata the handler saw.
func captureMeta(t *testing.T, configure func(req *http.Request)) handlers.RequestMeta {
	t.Helper()

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))
	api.UseMiddleware(middleware.RequestMeta(api))

	metaChan := make(chan handlers.RequestMeta, 1)

	huma.Get(api, "/test", func(ctx context.Context, _ *struct{}) (*metaOutput, error) {
		metaChan <- handlers.RequestMetaFromContext(ctx)

		out := &metaOutput{}
		out.Body.Status = "ok"

		return out, nil
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	configure(req)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	return <-metaChan
}

func TestRequestMeta(t *testing.T) {
	t.Run("extracts user agent", func(t *testing.T) {
		meta := captureMeta(t, func(req *http.Request) {
			req.Header.Set("User-Agent", "TestAgent/1.0")
		})

		assert.Equal(t, "TestAgent/1.0", meta.UserAgent)
	})

	t.Run("takes the first X-Forwarded-For entry", func(t *testing.T) {
		meta := captureMeta(t, func(req *http.Request) {
			req.Header.Set("X-Forwarded-For", "203.0.113.195, 70.41.3.18, 150.172.238.178")
		})

		assert.Equal(t, "203.0.113.195", meta.ClientIP)
	})

	t.Run("uses a single X-Forwarded-For verbatim", func(t *testing.T) {
		meta := captureMeta(t, func(req *http.Request) {
			req.Header.Set("X-Forwarded-For", "203.0.113.195")
		})

		assert.Equal(t, "203.0.113.195", meta.ClientIP)
	})

	t.Run("falls back to X-Real-IP", func(t *testing.T) {
		meta := captureMeta(t, func(req *http.Request) {
			req.Header.Set("X-Real-IP", "10.0.0.1")
		})

		assert.Equal(t, "10.0.0.1", meta.ClientIP)
	})

	t.Run("falls back to host when no proxy headers present", func(t *testing.T) {
		meta := captureMeta(t, func(_ *http.Request) {})

		assert.NotEmpty(t, meta.ClientIP)
	})
}

func TestRequestMetaFromContext(t *testing.T) {
	t.Run("zero value when absent", func(t *testing.T) {
		meta := handlers.RequestMetaFromContext(context.Background())

		assert.Empty(t, meta.ClientIP)
		assert.Empty(t, meta.UserAgent)
	})
}
