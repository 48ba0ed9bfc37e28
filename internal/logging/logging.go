// Package logging provides structured logging with per-request trace IDs.
package logging

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKey string

const traceIDKey contextKey = "trace_id"

// Logger wraps logrus with the fields every gateway log line carries.
type Logger struct {
	entry *logrus.Entry
}

// New creates a logger for the named service. Output is JSON on the process
// diagnostic stream.
func New(service string) *Logger {
	base := logrus.New()
	base.SetOutput(os.Stderr)
	base.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})

	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		base.SetLevel(level)
	}

	return &Logger{entry: base.WithField("service", service)}
}

// NewTraceID generates a fresh trace ID.
func NewTraceID() string {
	return uuid.NewString()
}

// WithTraceID stores a trace ID in the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// TraceID extracts the trace ID from the context, if any.
func TraceID(ctx context.Context) string {
	if v, ok := ctx.Value(traceIDKey).(string); ok {
		return v
	}
	return ""
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.entry.Info(msg)
}

// Infof logs a formatted informational message.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

// Warnf logs a formatted warning.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

// Fatalf logs a formatted message and exits.
func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.entry.Fatalf(format, args...)
}

// OperationFailed emits the single diagnostic line a failed endpoint
// invocation produces: endpoint name plus the failure message.
func (l *Logger) OperationFailed(ctx context.Context, endpoint string, err error) {
	l.entry.WithFields(logrus.Fields{
		"trace_id": TraceID(ctx),
		"endpoint": endpoint,
	}).Errorf("operation failed: %v", err)
}

// LogRequest records one access-log line.
func (l *Logger) LogRequest(ctx context.Context, method, path string, status int, duration time.Duration) {
	l.entry.WithFields(logrus.Fields{
		"trace_id": TraceID(ctx),
		"method":   method,
		"path":     path,
		"status":   status,
		"duration": duration.String(),
	}).Info("request completed")
}

// LogRateLimited records one rejected request.
func (l *Logger) LogRateLimited(r *http.Request, key string) {
	l.entry.WithFields(logrus.Fields{
		"key":    key,
		"method": r.Method,
		"path":   r.URL.Path,
	}).Warn("rate limit exceeded")
}
