package shared

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Key type for context values
type ContextKey string

const (
	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"

	// TraceIDHeader carries a caller-supplied trace ID, and echoes ours back
	TraceIDHeader = "X-Trace-ID"

	// maxTraceIDLength bounds caller-supplied trace IDs
	maxTraceIDLength = 64
)

// SetTraceID adds a trace ID to the context. An empty or unusable traceID
// is replaced with a freshly generated one.
func SetTraceID(ctx context.Context, traceID string) context.Context {
	if !validTraceID(traceID) {
		traceID = NewTraceID()
	}
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// NewTraceID returns a 32 character hex string. When the random source
// fails it falls back to a time-based value, never a static one.
func NewTraceID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		fallback := make([]byte, 16)
		now := time.Now()
		binary.BigEndian.PutUint64(fallback[:8], uint64(now.UnixNano()))
		binary.BigEndian.PutUint64(fallback[8:], uint64(now.Nanosecond())<<32|uint64(now.Unix()))
		return hex.EncodeToString(fallback)
	}
	return strings.ReplaceAll(id.String(), "-", "")
}

// validTraceID accepts short IDs made of letters, digits and dashes.
func validTraceID(id string) bool {
	if id == "" || len(id) > maxTraceIDLength {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
		default:
			return false
		}
	}
	return true
}
