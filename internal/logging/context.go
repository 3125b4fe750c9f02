package logging

import (
	"context"
	"log/slog"

	"trackmux/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldMediaPackage is the standardized key for media package identifiers.
	FieldMediaPackage = "media_package"
	// FieldOperation is the standardized key for workflow operation names.
	FieldOperation = "operation"
	// FieldCorrelationID is the standardized structured logging key for request correlation identifiers.
	FieldCorrelationID = "correlation_id"
	// FieldTrack identifies a track element in a media package.
	FieldTrack   = "track"
	FieldFlavor  = "flavor"
	FieldJobID   = "job_id"
	FieldProfile = "profile"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests a next step to the operator.
	FieldErrorHint = "error_hint"
	// FieldDecisionType names the branch decision being logged.
	FieldDecisionType   = "decision_type"
	FieldDecisionResult = "decision_result"
	FieldDecisionReason = "decision_reason"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.MediaPackageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldMediaPackage, id))
	}
	if op, ok := services.OperationFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldOperation, op))
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, rid))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
