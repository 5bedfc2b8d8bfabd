package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLogs points the default slog logger at a buffer for the
// duration of one test, so assertions can grep the log output.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	old := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(old) })

	return &buf
}

func TestChain_AppliesInOrder(t *testing.T) {
	// The first middleware listed must be the outermost: it sees the
	// request before the second, which sees it before the handler.
	var order []string

	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := Chain(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}),
		tag("outer"), tag("inner"),
	)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestRequestID_MintsID(t *testing.T) {
	var seenID string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/demos", nil))

	require.NotEmpty(t, seenID)
	// A minted id is a well-formed UUID.
	_, err := uuid.Parse(seenID)
	assert.NoError(t, err)
	// The same id is echoed to the client.
	assert.Equal(t, seenID, rec.Header().Get("X-Request-ID"))
}

func TestRequestID_KeepsInboundID(t *testing.T) {
	var seenID string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest("GET", "/api/demos", nil)
	req.Header.Set("X-Request-ID", "upstream-id-123")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "upstream-id-123", seenID)
	assert.Equal(t, "upstream-id-123", rec.Header().Get("X-Request-ID"))
}

func TestGetRequestID_WithoutMiddleware(t *testing.T) {
	assert.Equal(t, "", GetRequestID(context.Background()))
}

func TestLogger_RecordsStatusAndPath(t *testing.T) {
	buf := captureLogs(t)

	handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/demos/99", nil))

	logLine := buf.String()
	assert.Contains(t, logLine, "method=GET")
	assert.Contains(t, logLine, "path=/api/demos/99")
	assert.Contains(t, logLine, "status=404")
}

func TestLogger_DefaultsToStatus200(t *testing.T) {
	// A handler that writes a body without calling WriteHeader gets a
	// 200 from net/http; the access log must agree.
	buf := captureLogs(t)

	handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/demos", nil))

	assert.Contains(t, buf.String(), "status=200")
}

func TestRecovery_ConvertsPanicTo500(t *testing.T) {
	buf := captureLogs(t)

	handler := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/demos", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"status":"error","error":"internal server error"}`, rec.Body.String())
	assert.Contains(t, buf.String(), "panic recovered")
}

func TestRecovery_PassesThroughHealthyHandler(t *testing.T) {
	handler := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}
