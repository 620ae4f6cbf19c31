package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/draftea/order-system/shared/events"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	traceSDK "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestEventPropagation(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	provider := traceSDK.NewTracerProvider()
	defer func() { _ = provider.Shutdown(context.Background()) }()

	ctx, span := provider.Tracer("test").Start(context.Background(), "publish")
	defer span.End()

	evt := events.NewEvent("order-1", events.TopicPaymentRequested, nil)
	evt.Metadata = nil
	InjectEvent(ctx, evt)

	require.Contains(t, evt.Metadata, "traceparent")

	extracted := ExtractEvent(context.Background(), evt)
	assert.Equal(t, span.SpanContext().TraceID(), trace.SpanContextFromContext(extracted).TraceID())
}

func TestExtractEventWithoutMetadata(t *testing.T) {
	ctx := context.Background()
	evt := &events.Event{}
	assert.Equal(t, ctx, ExtractEvent(ctx, evt))
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	tel := NewTelemetry(Config{ServiceName: "test"})

	var seen *Telemetry
	r := chi.NewRouter()
	r.Use(Middleware(tel))
	r.Get("/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/42", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Same(t, tel, seen)
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", statusClass(201))
	assert.Equal(t, "4xx", statusClass(422))
	assert.Equal(t, "5xx", statusClass(503))
}
