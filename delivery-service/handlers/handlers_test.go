package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/draftea/order-system/delivery-service/application"
	"github.com/draftea/order-system/delivery-service/domain"
	"github.com/draftea/order-system/delivery-service/mocks"
	"github.com/draftea/order-system/shared/apperrors"
	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/logger"
	"github.com/draftea/order-system/shared/models"
	"github.com/draftea/order-system/shared/saga"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	orderID   = models.ID("2a7c9e1b-4d3f-4b6a-8c5e-9f0a1b2c3d4e")
	warehouse = models.ID("45c48cce-2e2d-4fbd-8a4c-6b1f3e9d0a01")
)

type testServer struct {
	shipments     *mocks.MockShipmentRepository
	cancellations *mocks.MockCancellations
	router        *chi.Mux
	events        *saga.Router
}

func newTestServer(t *testing.T) *testServer {
	shipments := mocks.NewMockShipmentRepository(t)
	cancellations := mocks.NewMockCancellations(t)
	log := logger.Nop()
	timings := domain.Timings{Pickup: time.Second, Transit: time.Second, Delivery: time.Second}

	router := chi.NewRouter()
	NewShipmentHandlers(application.NewGetShipment(shipments), log).RegisterRoutes(router)

	eventRouter := NewDeliveryEventHandlers(
		application.NewRequestDelivery(shipments, timings, log),
		application.NewCancelDelivery(cancellations, log),
	).Register(saga.NewRouter(log))

	return &testServer{shipments: shipments, cancellations: cancellations, router: router, events: eventRouter}
}

func (s *testServer) get(path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestShipmentHandlers_GetShipment(t *testing.T) {
	s := newTestServer(t)
	next := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s.shipments.EXPECT().FindByOrder(mock.Anything, orderID).Return(&domain.Shipment{
		ID:          models.GenerateUUID(),
		OrderID:     orderID,
		Address:     "1 George St",
		Allocations: map[models.ID]int{warehouse: 3},
		Status:      domain.ShipmentPickedUp,
		NextStepAt:  &next,
	}, nil).Once()

	rec := s.get("/api/shipments/" + orderID.String())
	require.Equal(t, http.StatusOK, rec.Code)
	var body application.ShipmentResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "PICKED_UP", body.Status)
	assert.Equal(t, 3, body.WarehouseAllocations[warehouse.String()])

	missing := models.GenerateUUID()
	s.shipments.EXPECT().FindByOrder(mock.Anything, missing).Return(nil, domain.ShipmentNotFound(missing)).Once()
	rec = s.get("/api/shipments/" + missing.String())
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.get("/api/shipments/not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeliveryEventHandlers_DeliveryRequested(t *testing.T) {
	s := newTestServer(t)
	s.shipments.EXPECT().Create(mock.Anything, mock.MatchedBy(func(sh *domain.Shipment) bool {
		return sh.OrderID == orderID && sh.Address == "1 George St" && sh.Allocations[warehouse] == 2
	})).Return(true, nil).Once()

	event := events.NewEvent(orderID, events.TopicDeliveryRequested, json.RawMessage(
		`{"order_id":"`+orderID.String()+`","address":"1 George St","warehouse_allocations":{"`+warehouse.String()+`":2}}`))
	require.NoError(t, s.events.Handle(context.Background(), event))
}

func TestDeliveryEventHandlers_CancellationRequested(t *testing.T) {
	s := newTestServer(t)
	s.cancellations.EXPECT().Cancel(mock.Anything, orderID).Return(true, nil).Once()

	event := events.NewEvent(orderID, events.TopicDeliveryCancellationRequested,
		events.DeliveryCancellationRequested{OrderID: orderID})
	require.NoError(t, s.events.Handle(context.Background(), event))
}

func TestDeliveryEventHandlers_RejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name  string
		topic events.Topic
		data  json.RawMessage
	}{
		{name: "malformed request", topic: events.TopicDeliveryRequested, data: json.RawMessage(`{"order_id":`)},
		{name: "request without order", topic: events.TopicDeliveryRequested, data: json.RawMessage(`{"address":"x"}`)},
		{name: "request without parcels", topic: events.TopicDeliveryRequested,
			data: json.RawMessage(`{"order_id":"` + orderID.String() + `","address":"x"}`)},
		{name: "cancellation without order", topic: events.TopicDeliveryCancellationRequested, data: json.RawMessage(`{}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			err := s.events.Handle(context.Background(), events.NewEvent(models.GenerateUUID(), tt.topic, tt.data))

			require.Error(t, err)
			assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
			assert.False(t, apperrors.IsRetryable(err))
		})
	}
}

type countingAdvancer struct {
	calls atomic.Int32
	err   error
}

func (a *countingAdvancer) Execute(context.Context) (int, error) {
	a.calls.Add(1)
	return 1, a.err
}

func TestShipmentScheduler_TicksUntilCancelled(t *testing.T) {
	for _, failing := range []bool{false, true} {
		advancer := &countingAdvancer{}
		if failing {
			advancer.err = errors.New("database is down")
		}
		scheduler := NewShipmentScheduler(advancer, 5*time.Millisecond, logger.Nop())

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- scheduler.Run(ctx) }()

		require.Eventually(t, func() bool { return advancer.calls.Load() >= 3 }, time.Second, time.Millisecond)
		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("scheduler did not stop")
		}
	}
}
