package observability

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// routingOutcomeKey holds a *routingOutcome in a request's context.
// ConvertHandler fills it in via RecordRoutingOutcome once it resolves a
// path; the middlewares below read it back after ServeHTTP returns so the
// request span and the HTTP metrics carry routing detail the generic
// method/route/status fields can't express.
type routingOutcomeKey struct{}

type routingOutcome struct {
	fromMIME   string
	toMIME     string
	pathLength int
	simple     bool
}

// withRoutingOutcome ensures ctx carries a *routingOutcome, reusing one
// already present rather than shadowing it. Both TracingMiddleware and
// MetricsMiddleware call this, and both must end up reading the same
// pointer ConvertHandler's RecordRoutingOutcome call fills in — whichever
// middleware wraps the other, the inner one must not replace the outer
// one's outcome in the context it hands down the chain.
func withRoutingOutcome(ctx context.Context) (context.Context, *routingOutcome) {
	if out, ok := ctx.Value(routingOutcomeKey{}).(*routingOutcome); ok {
		return ctx, out
	}
	out := &routingOutcome{}
	return context.WithValue(ctx, routingOutcomeKey{}, out), out
}

// RecordRoutingOutcome attaches the resolved MIME pair and winning path
// length to the request in flight. It is a no-op if ctx did not pass
// through TracingMiddleware or MetricsMiddleware first.
func RecordRoutingOutcome(ctx context.Context, fromMIME, toMIME string, pathLength int, simpleMode bool) {
	if out, ok := ctx.Value(routingOutcomeKey{}).(*routingOutcome); ok {
		out.fromMIME = fromMIME
		out.toMIME = toMIME
		out.pathLength = pathLength
		out.simple = simpleMode
	}
}

// TracingMiddleware starts one span per request, propagating any inbound
// trace context and recording HTTP semantic-convention attributes plus,
// when the handler calls RecordRoutingOutcome, the MIME pair and path
// length a conversion actually resolved to.
func TracingMiddleware(serviceName string) func(http.Handler) http.Handler {
	tracer := otel.Tracer(serviceName)
	propagator := otel.GetTextMapPropagator()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

			routePattern := chi.RouteContext(r.Context()).RoutePattern()
			if routePattern == "" {
				routePattern = r.URL.Path
			}

			spanName := fmt.Sprintf("%s %s", r.Method, routePattern)
			ctx, span := tracer.Start(
				ctx,
				spanName,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.method", r.Method),
					attribute.String("http.target", r.URL.Path),
					attribute.String("http.route", routePattern),
					attribute.String("http.user_agent", r.UserAgent()),
					attribute.String("http.request_id", r.Header.Get("X-Request-ID")),
				),
			)
			defer span.End()

			ctx, outcome := withRoutingOutcome(ctx)

			ww := &enhancedResponseWriter{ResponseWriter: w, status: http.StatusOK, startTime: time.Now()}
			propagator.Inject(ctx, propagation.HeaderCarrier(w.Header()))
			if spanCtx := span.SpanContext(); spanCtx.HasTraceID() {
				w.Header().Set("X-Trace-ID", spanCtx.TraceID().String())
			}

			next.ServeHTTP(ww, r.WithContext(ctx))

			duration := time.Since(ww.startTime)
			span.SetAttributes(
				attribute.Int("http.status_code", ww.status),
				attribute.Int64("http.response_size", ww.bytesWritten),
				attribute.Float64("http.duration_ms", float64(duration.Milliseconds())),
			)
			if outcome.fromMIME != "" {
				span.SetAttributes(
					attribute.String("routing.from_mime", outcome.fromMIME),
					attribute.String("routing.to_mime", outcome.toMIME),
					attribute.Int("routing.path_length", outcome.pathLength),
					attribute.Bool("routing.simple_mode", outcome.simple),
				)
			}

			if ww.status >= 400 {
				span.SetStatus(codes.Error, http.StatusText(ww.status))
			} else {
				span.SetStatus(codes.Ok, "")
			}

			if duration > 5*time.Second {
				span.AddEvent("slow_request", trace.WithAttributes(attribute.Float64("duration_seconds", duration.Seconds())))
			}
		})
	}
}

// MetricsMiddleware records HTTP request counts and latency per
// method/route/status, and, for requests that resolved a routing outcome,
// path-attempt and path-length metrics on the same collector the
// executor's breaker-trip callback feeds.
func MetricsMiddleware(collector *Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			routePattern := chi.RouteContext(r.Context()).RoutePattern()
			if routePattern == "" {
				routePattern = "unknown"
			}

			ctx, outcome := withRoutingOutcome(r.Context())
			ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(ww, r.WithContext(ctx))

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(ww.status)

			collector.HTTPRequests.WithLabelValues(r.Method, routePattern, status).Inc()
			collector.HTTPDuration.WithLabelValues(r.Method, routePattern).Observe(duration)

			if outcome.fromMIME != "" {
				pathOutcome := "converted"
				if ww.status >= 400 {
					pathOutcome = "failed"
				}
				collector.PathAttempts.WithLabelValues(pathOutcome).Inc()
				if pathOutcome == "converted" {
					collector.PathsYielded.WithLabelValues(pathOutcome).Observe(float64(outcome.pathLength))
				}
			}
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the response status.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// enhancedResponseWriter captures status, byte count, and start time so
// TracingMiddleware can compute duration and response size after the
// handler returns.
type enhancedResponseWriter struct {
	http.ResponseWriter
	status        int
	bytesWritten  int64
	startTime     time.Time
	headerWritten bool
}

func (w *enhancedResponseWriter) WriteHeader(status int) {
	if !w.headerWritten {
		w.status = status
		w.headerWritten = true
		w.ResponseWriter.WriteHeader(status)
	}
}

func (w *enhancedResponseWriter) Write(b []byte) (int, error) {
	if !w.headerWritten {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytesWritten += int64(n)
	return n, err
}
