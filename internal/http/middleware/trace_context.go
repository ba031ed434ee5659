package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	HeaderRequestID = "X-Request-Id"
	HeaderTraceID   = "X-Trace-Id"

	KeyRequestID = "request_id"
	KeyTraceID   = "trace_id"
)

// KeyTenantID is set by handlers once the request body names a tenant.
const KeyTenantID = "tenant_id"

// AttachTraceContext gives every request a request id (client supplied or generated) and
// echoes it with the trace id of the span otelgin opened. Without an active span the
// request id doubles as the trace id.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if reqID == "" {
			reqID = uuid.NewString()
		}

		traceID := reqID
		span := trace.SpanFromContext(c.Request.Context())
		if sc := span.SpanContext(); sc.HasTraceID() {
			traceID = sc.TraceID().String()
			span.SetAttributes(attribute.String("http.request_id", reqID))
		}

		c.Set(KeyRequestID, reqID)
		c.Set(KeyTraceID, traceID)
		c.Header(HeaderRequestID, reqID)
		c.Header(HeaderTraceID, traceID)
		c.Next()
	}
}
