package shared

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/phrazzld/lingo-api/internal/observability"
)

// ContextKey is the type of request-scoped context keys set by middleware.
type ContextKey string

const (
	// OwnerIDContextKey holds the authenticated owner identity.
	OwnerIDContextKey ContextKey = "ownerID"

	// TraceIDKey holds the request trace ID.
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the number of random bytes in a generated trace ID.
	TraceIDLength = 16
)

// SetTraceID stores a trace ID on ctx. The active OpenTelemetry trace ID is
// used when there is one so responses, logs and spans correlate; otherwise a
// random ID is generated.
func SetTraceID(ctx context.Context) context.Context {
	traceID := observability.TraceID(ctx)
	if traceID == "" {
		traceID = generateTraceID()
	}
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID returns the trace ID on ctx, or "".
func GetTraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}

// WithOwnerID stores the authenticated owner identity on ctx.
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, OwnerIDContextKey, ownerID)
}

// GetOwnerID returns the authenticated owner identity on ctx.
func GetOwnerID(ctx context.Context) (string, bool) {
	ownerID, ok := ctx.Value(OwnerIDContextKey).(string)
	return ownerID, ok && ownerID != ""
}

func generateTraceID() string {
	b := make([]byte, TraceIDLength)
	if _, err := rand.Read(b); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 16)
	}
	return hex.EncodeToString(b)
}
