// Package middleware holds the HTTP middleware chain that wraps the
// router: request-id tagging, access logging, and panic recovery.
//
// HOW MIDDLEWARE COMPOSES:
// ────────────────────────
// A middleware is any function that takes an http.Handler and returns
// another http.Handler wrapping it. Chaining them builds an onion:
//
//	Chain(router, RequestID, Logger, Recovery)
//	  = RequestID(Logger(Recovery(router)))
//
// so RequestID runs first on the way in (every later log line can use
// the id) and last on the way out. None of the middleware knows about
// the others — each only sees "the next handler".
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"demos-api/internal/utils/response"

	"github.com/google/uuid"
)

// Middleware is a function that wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares to a handler in the order given: the first
// middleware in the list is the outermost wrapper and therefore the
// first to see a request.
func Chain(handler http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}

// contextKey is a private type for context keys. Using a dedicated type
// (instead of a plain string) means no other package can collide with
// our keys, even if it stores a value under the same string.
type contextKey string

const requestIDKey contextKey = "requestID"

// ─────────────────────────────────────────────────────────────────────────────
// RequestID tags every request with a unique id.
//
// If the client (or an upstream proxy) already set X-Request-ID we keep
// it, so one id can follow a request across services; otherwise we mint
// a fresh UUID. The id travels two ways:
//
//   - into the request context, for handlers and the access log
//   - onto the response as X-Request-ID, so a client error report can
//     quote the exact id to grep the server logs for
//
// ─────────────────────────────────────────────────────────────────────────────
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID extracts the request id from a context, or returns ""
// when the request never passed through the RequestID middleware.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// responseWriter wraps http.ResponseWriter to remember the status code,
// which the standard interface gives us no way to read back.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// ─────────────────────────────────────────────────────────────────────────────
// Logger writes one structured access-log line per request.
//
// The handler is timed around its ServeHTTP call, and the wrapped
// ResponseWriter captures the status code the handler chose (defaulting
// to 200, which is what net/http sends when a handler writes a body
// without calling WriteHeader).
// ─────────────────────────────────────────────────────────────────────────────
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		slog.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", wrapped.statusCode),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", GetRequestID(r.Context())),
			slog.String("remote_addr", r.RemoteAddr),
		)
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// Recovery converts a panicking handler into a 500 response.
//
// A panic in a handler goroutine would otherwise kill just that request
// with an empty reply and a stack trace on stderr. Here we log the
// stack through slog (so it lands in the same stream as everything
// else, tagged with the request id) and send the standard error
// envelope. The panic still marks a defect — recovery is about keeping
// the process serving, not about pretending nothing happened.
// ─────────────────────────────────────────────────────────────────────────────
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic recovered",
					slog.Any("error", rec),
					slog.String("request_id", GetRequestID(r.Context())),
					slog.String("stack", string(debug.Stack())),
				)

				_ = response.WriteJSON(w, http.StatusInternalServerError,
					response.GeneralError(errors.New("internal server error")))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
