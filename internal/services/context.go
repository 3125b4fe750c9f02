package services

import "context"

type contextKey string

const (
	mediaPackageKey contextKey = "media_package"
	operationKey    contextKey = "operation"
	requestIDKey    contextKey = "request_id"
)

// WithMediaPackage annotates context with the media package identifier.
func WithMediaPackage(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, mediaPackageKey, id)
}

// MediaPackageFromContext extracts the media package identifier if present.
func MediaPackageFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(mediaPackageKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithOperation annotates context with the workflow operation name.
func WithOperation(ctx context.Context, operation string) context.Context {
	if operation == "" {
		return ctx
	}
	return context.WithValue(ctx, operationKey, operation)
}

// OperationFromContext returns the operation name if present.
func OperationFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(operationKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
