package application

import (
	"context"
	"time"

	"github.com/draftea/order-system/shared/apperrors"
	"github.com/draftea/order-system/shared/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// startOperation opens a span for a use case; the returned func records the
// outcome counters and ends the span.
func startOperation(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, operation, trace.WithAttributes(attrs...))

	return ctx, func(err error) {
		status := "success"
		if err != nil {
			status = string(apperrors.CodeOf(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		telemetry.RecordCounter(ctx, "orders_operations_total", "Total ordering operations", 1,
			attribute.String("operation", operation),
			attribute.String("status", status),
		)
		telemetry.RecordHistogram(ctx, "orders_operation_duration_seconds", "Ordering operation duration", time.Since(start).Seconds(),
			attribute.String("operation", operation),
			attribute.String("status", status),
		)
		span.End()
	}
}
