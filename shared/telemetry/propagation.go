package telemetry

import (
	"context"

	"github.com/draftea/order-system/shared/events"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// InjectEvent writes the trace context of ctx into the event metadata so the
// consuming service continues the same trace.
func InjectEvent(ctx context.Context, event *events.Event) {
	if event.Metadata == nil {
		event.Metadata = make(events.Metadata)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(event.Metadata))
}

// ExtractEvent returns ctx enriched with the trace context carried by event.
func ExtractEvent(ctx context.Context, event *events.Event) context.Context {
	if len(event.Metadata) == 0 {
		return ctx
	}
	return otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(event.Metadata))
}
