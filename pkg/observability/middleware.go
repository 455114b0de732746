package observability

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Middleware returns gin middleware creating one server span per request
// named "METHOD route". When red is not nil each request is also recorded
// with the route as its operation.
func Middleware(tracer trace.Tracer, red *REDMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		parent := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))

		ctx, span := tracer.Start(parent, c.Request.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPRequestMethodKey.String(c.Request.Method),
				attribute.String("http.route", route),
			),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)

		start := time.Now()

		c.Next()

		code := c.Writer.Status()
		span.SetAttributes(semconv.HTTPResponseStatusCode(code))

		status := statusOK
		if code >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(code))

			status = statusError
		}

		if red != nil {
			red.RecordRequest(ctx, route, status, time.Since(start))
		}
	}
}
