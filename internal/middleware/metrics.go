package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"steel-ledger/mtrledger/internal/logging"
	"steel-ledger/mtrledger/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ctxKey string

const (
	requestIDKey    ctxKey = "request_id"
	requestIDHeader        = "X-Request-ID"
)

// MetricsMiddleware counts and times each request by its chi route pattern and writes one
// access log line per request.
func MetricsMiddleware(metricsReg *metrics.MetricsRegistry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// route pattern is only known after chi has routed the request
			inFlight := NormalizeEndpoint(r.URL.Path)
			metricsReg.HTTPRequestsInFlight.WithLabelValues(inFlight).Inc()
			defer metricsReg.HTTPRequestsInFlight.WithLabelValues(inFlight).Dec()

			start := time.Now()
			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			route := routeLabel(r)
			elapsed := time.Since(start)

			metricsReg.HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
			metricsReg.HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(elapsed.Seconds())

			logging.WithRequest(RequestIDFromContext(r.Context()), route).Infow("HTTP request completed",
				"method", r.Method,
				"status", rec.status,
				"elapsed_ms", elapsed.Milliseconds(),
				"bytes_in", r.ContentLength,
				"bytes_out", rec.bytes,
			)
		})
	}
}

// RequestIDMiddleware keeps an incoming X-Request-ID or mints one, and echoes it back.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// RequestIDFromContext returns the id set by RequestIDMiddleware, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func routeLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unknown"
}

type responseRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (rr *responseRecorder) WriteHeader(code int) {
	if rr.wroteHeader {
		return
	}
	rr.status = code
	rr.wroteHeader = true
	rr.ResponseWriter.WriteHeader(code)
}

func (rr *responseRecorder) Write(b []byte) (int, error) {
	rr.wroteHeader = true
	n, err := rr.ResponseWriter.Write(b)
	rr.bytes += n
	return n, err
}

// NormalizeEndpoint replaces numeric and UUID path segments with {id}, so
// /api/v1/mtr/42 becomes /api/v1/mtr/{id}.
func NormalizeEndpoint(path string) string {
	segs := strings.Split(path, "/")
	for i, seg := range segs {
		if looksLikeID(seg) {
			segs[i] = "{id}"
		}
	}
	return strings.Join(segs, "/")
}

func looksLikeID(seg string) bool {
	if seg == "" {
		return false
	}
	if _, err := uuid.Parse(seg); err == nil {
		return true
	}
	return strings.Trim(seg, "0123456789") == ""
}
