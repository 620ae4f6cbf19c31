package application

import (
	"context"
	"sync"
	"testing"

	"github.com/draftea/order-system/ordering-service/domain"
	"github.com/draftea/order-system/ordering-service/infrastructure/memory"
	"github.com/draftea/order-system/shared/apperrors"
	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/logger"
	"github.com/draftea/order-system/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *saga) place(t *testing.T, quantity int) models.ID {
	t.Helper()
	resp, err := s.create.Execute(context.Background(), &CreateOrderCommand{
		UserID:    testCustomerID.String(),
		ProductID: testProductID.String(),
		Quantity:  quantity,
		Address:   "500 Demo St, Sydney",
	})
	require.NoError(t, err)
	return models.ID(resp.ID)
}

func (s *saga) order(t *testing.T, id models.ID) *domain.Order {
	t.Helper()
	order, err := s.store.FindByID(context.Background(), id)
	require.NoError(t, err)
	return order
}

func (s *saga) pay(t *testing.T, id models.ID, status events.TransferStatus) {
	t.Helper()
	require.NoError(t, s.payment.Execute(context.Background(), &ProcessPaymentResultCommand{
		OrderID: id, Status: status, TransactionID: testTransaction,
	}))
}

func (s *saga) carrier(t *testing.T, id models.ID, statuses ...events.DeliveryStatus) {
	t.Helper()
	for _, status := range statuses {
		require.NoError(t, s.delivery.Execute(context.Background(), &ProcessDeliveryStatusCommand{OrderID: id, Status: status}))
	}
}

func (s *saga) stockLevels() (int, int) {
	return s.store.StockOf(testWarehouseA, testProductID), s.store.StockOf(testWarehouseB, testProductID)
}

func TestSaga_HappyPath(t *testing.T) {
	s := newSaga()
	id := s.place(t, 12)

	order := s.order(t, id)
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Equal(t, map[models.ID]int{testWarehouseA: 10, testWarehouseB: 2}, order.AllocationsByWarehouse())
	require.Len(t, s.store.OutboxByTopic(events.TopicPaymentRequested), 1)

	a, b := s.stockLevels()
	assert.Equal(t, 10, a, "creation only plans, the ledger moves on payment")
	assert.Equal(t, 5, b)

	s.pay(t, id, events.TransferSucceeded)

	order = s.order(t, id)
	assert.Equal(t, domain.StatusAwaitingShipment, order.Status)
	assert.True(t, order.StockDeducted)
	a, b = s.stockLevels()
	assert.Equal(t, 0, a)
	assert.Equal(t, 3, b)

	requested := s.store.OutboxByTopic(events.TopicDeliveryRequested)
	require.Len(t, requested, 1)
	payload, ok := requested[0].Data.(events.DeliveryRequested)
	require.True(t, ok)
	assert.Equal(t, map[models.ID]int{testWarehouseA: 10, testWarehouseB: 2}, payload.WarehouseAllocations)

	s.carrier(t, id, events.DeliveryPickedUp, events.DeliveryInTransit, events.DeliveryDelivered)

	assert.Equal(t, domain.StatusDelivered, s.order(t, id).Status)
	assert.Len(t, s.store.OutboxByTopic(events.TopicNotificationRequested), 3)
	assert.Empty(t, s.store.OutboxByTopic(events.TopicRefundRequested))
}

func TestSaga_AllocationFailurePersistsNothing(t *testing.T) {
	s := newSaga()

	_, err := s.create.Execute(context.Background(), &CreateOrderCommand{
		UserID:    testCustomerID.String(),
		ProductID: testProductID.String(),
		Quantity:  16,
		Address:   "500 Demo St, Sydney",
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInsufficientStock, apperrors.CodeOf(err))
	orders, err := s.store.ListByUser(context.Background(), testCustomerID)
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Empty(t, s.store.Outbox())
}

func TestSaga_PaymentRedeliveryDeductsOnce(t *testing.T) {
	s := newSaga()
	id := s.place(t, 12)

	s.pay(t, id, events.TransferSucceeded)
	s.pay(t, id, events.TransferSucceeded)

	a, b := s.stockLevels()
	assert.Equal(t, 0, a)
	assert.Equal(t, 3, b)
	assert.Len(t, s.store.OutboxByTopic(events.TopicDeliveryRequested), 1)
}

func TestSaga_PaymentResumesAfterPartialRun(t *testing.T) {
	s := newSaga()
	id := s.place(t, 3)

	// The previous attempt got as far as the first transition.
	rows, err := s.store.CompareAndSwapStatus(context.Background(), id, domain.StatusPending, domain.StatusPaymentSuccess)
	require.NoError(t, err)
	require.EqualValues(t, 1, rows)

	s.pay(t, id, events.TransferSucceeded)

	assert.Equal(t, domain.StatusAwaitingShipment, s.order(t, id).Status)
	a, _ := s.stockLevels()
	assert.Equal(t, 7, a)
}

func TestSaga_PaymentFailed(t *testing.T) {
	s := newSaga()
	id := s.place(t, 2)

	s.pay(t, id, events.TransferFailed)
	s.pay(t, id, events.TransferFailed)

	assert.Equal(t, domain.StatusPaymentFailed, s.order(t, id).Status)
	notifications := s.store.OutboxByTopic(events.TopicNotificationRequested)
	require.Len(t, notifications, 1)
	email := notifications[0].Data.(events.NotifyCustomer)
	assert.Contains(t, email.Subject, "Order Payment Failed")
	assert.Contains(t, email.Body, "the order was not placed")
	assert.NotContains(t, email.Body, "cancelled")
	assert.Empty(t, s.store.OutboxByTopic(events.TopicRefundRequested))

	a, b := s.stockLevels()
	assert.Equal(t, 10, a)
	assert.Equal(t, 5, b)
}

func TestSaga_InsufficientStockAtDeduction(t *testing.T) {
	s := newSaga()
	id := s.place(t, 12)

	// Another order drained the warehouse after allocation.
	s.store.SetStock(testWarehouseA, testProductID, 4)

	s.pay(t, id, events.TransferSucceeded)

	order := s.order(t, id)
	assert.Equal(t, domain.StatusCancelled, order.Status)
	assert.False(t, order.StockDeducted)
	a, b := s.stockLevels()
	assert.Equal(t, 4, a, "nothing deducted, nothing restored")
	assert.Equal(t, 5, b)
	assert.Len(t, s.store.OutboxByTopic(events.TopicRefundRequested), 1)
	assert.Empty(t, s.store.OutboxByTopic(events.TopicDeliveryRequested))

	notifications := s.store.OutboxByTopic(events.TopicNotificationRequested)
	require.Len(t, notifications, 1)
	assert.Contains(t, notifications[0].Data.(events.NotifyCustomer).Subject, "Order Processing Failed")
}

type conflictingLedger struct {
	*memory.Store
}

func (conflictingLedger) Deduct(context.Context, *domain.Order) (bool, error) {
	return false, domain.ConcurrencyConflict("stock row changed underneath")
}

func TestSaga_DeductionConflictCompensates(t *testing.T) {
	base := newSaga()
	s := newSagaWithLedger(base.store, conflictingLedger{base.store})
	id := s.place(t, 12)

	s.pay(t, id, events.TransferSucceeded)

	assert.Equal(t, domain.StatusCancelled, s.order(t, id).Status)
	assert.Len(t, s.store.OutboxByTopic(events.TopicRefundRequested), 1)
	assert.Empty(t, s.store.OutboxByTopic(events.TopicDeliveryRequested))
	a, b := s.stockLevels()
	assert.Equal(t, 10, a)
	assert.Equal(t, 5, b)
}

func TestSaga_LostInTransitRefundsWithoutRestock(t *testing.T) {
	s := newSaga()
	id := s.place(t, 12)
	s.pay(t, id, events.TransferSucceeded)
	s.carrier(t, id, events.DeliveryPickedUp)

	s.carrier(t, id, events.DeliveryLost)
	s.carrier(t, id, events.DeliveryLost)

	assert.Equal(t, domain.StatusCancelled, s.order(t, id).Status)
	assert.Len(t, s.store.OutboxByTopic(events.TopicRefundRequested), 1)
	assert.Empty(t, s.store.OutboxByTopic(events.TopicDeliveryCancellationRequested))
	a, b := s.stockLevels()
	assert.Equal(t, 0, a, "lost goods do not return to the shelf")
	assert.Equal(t, 3, b)
}

func TestSaga_OutOfOrderDeliveryUpdateIsRetried(t *testing.T) {
	s := newSaga()
	id := s.place(t, 1)
	s.pay(t, id, events.TransferSucceeded)

	err := s.delivery.Execute(context.Background(), &ProcessDeliveryStatusCommand{OrderID: id, Status: events.DeliveryInTransit})

	require.Error(t, err)
	assert.True(t, apperrors.IsRetryable(err))
	assert.Equal(t, domain.StatusAwaitingShipment, s.order(t, id).Status)

	s.carrier(t, id, events.DeliveryPickedUp, events.DeliveryInTransit)
	assert.Equal(t, domain.StatusInTransit, s.order(t, id).Status)

	// A stale PICKED_UP after the order moved on is dropped.
	s.carrier(t, id, events.DeliveryPickedUp)
	assert.Equal(t, domain.StatusInTransit, s.order(t, id).Status)
}

func TestSaga_CancelCompensatesPerStage(t *testing.T) {
	tests := []struct {
		name              string
		advance           func(*testing.T, *saga, models.ID)
		expectRefund      bool
		expectCancelShip  bool
		expectedA         int
		expectedB         int
		expectedEmailPart string
	}{
		{
			name:              "pending",
			advance:           func(*testing.T, *saga, models.ID) {},
			expectedA:         10,
			expectedB:         5,
			expectedEmailPart: "successfully cancelled",
		},
		{
			name: "payment succeeded",
			advance: func(t *testing.T, s *saga, id models.ID) {
				_, err := s.store.CompareAndSwapStatus(context.Background(), id, domain.StatusPending, domain.StatusPaymentSuccess)
				require.NoError(t, err)
			},
			expectRefund:      true,
			expectedA:         10,
			expectedB:         5,
			expectedEmailPart: "refund will be processed shortly",
		},
		{
			name: "awaiting shipment",
			advance: func(t *testing.T, s *saga, id models.ID) {
				s.pay(t, id, events.TransferSucceeded)
			},
			expectRefund:      true,
			expectCancelShip:  true,
			expectedA:         10,
			expectedB:         5,
			expectedEmailPart: "attempt to stop the shipment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSaga()
			id := s.place(t, 12)
			tt.advance(t, s, id)

			resp, err := s.cancel.Execute(context.Background(), &CancelOrderCommand{OrderID: id.String()})
			require.NoError(t, err)
			assert.Equal(t, domain.StatusCancelled, resp.Status)

			refunds := s.store.OutboxByTopic(events.TopicRefundRequested)
			if tt.expectRefund {
				require.Len(t, refunds, 1)
				assert.Equal(t, "CUST001", refunds[0].Data.(events.RefundRequested).PayeeAccount)
			} else {
				assert.Empty(t, refunds)
			}
			if tt.expectCancelShip {
				assert.Len(t, s.store.OutboxByTopic(events.TopicDeliveryCancellationRequested), 1)
			} else {
				assert.Empty(t, s.store.OutboxByTopic(events.TopicDeliveryCancellationRequested))
			}

			a, b := s.stockLevels()
			assert.Equal(t, tt.expectedA, a)
			assert.Equal(t, tt.expectedB, b)
			assert.False(t, s.order(t, id).StockDeducted)

			notifications := s.store.OutboxByTopic(events.TopicNotificationRequested)
			require.NotEmpty(t, notifications)
			last := notifications[len(notifications)-1].Data.(events.NotifyCustomer)
			assert.Contains(t, last.Body, tt.expectedEmailPart)

			// Cancelling again is a no-op.
			resp, err = s.cancel.Execute(context.Background(), &CancelOrderCommand{OrderID: id.String()})
			require.NoError(t, err)
			assert.Equal(t, domain.StatusCancelled, resp.Status)
			assert.Len(t, s.store.OutboxByTopic(events.TopicRefundRequested), len(refunds))
		})
	}
}

func TestSaga_CancelRejectsShippedOrders(t *testing.T) {
	s := newSaga()
	id := s.place(t, 1)
	s.pay(t, id, events.TransferSucceeded)
	s.carrier(t, id, events.DeliveryPickedUp)

	_, err := s.cancel.Execute(context.Background(), &CancelOrderCommand{OrderID: id.String()})

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeOrderNotCancellable, apperrors.CodeOf(err))
	assert.Equal(t, domain.StatusShipped, s.order(t, id).Status)
}

func TestSaga_CancelUnknownOrder(t *testing.T) {
	s := newSaga()

	_, err := s.cancel.Execute(context.Background(), &CancelOrderCommand{OrderID: testOrderID.String()})

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestSaga_CompensationIsIdempotent(t *testing.T) {
	s := newSaga()
	id := s.place(t, 12)
	s.pay(t, id, events.TransferSucceeded)
	order := s.order(t, id)
	compensator := NewCompensator(s.store, s.store, logger.Nop())

	var wg sync.WaitGroup
	results := make([]bool, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			won, err := compensator.Compensate(context.Background(), order, domain.StatusAwaitingShipment, ReasonCustomerRequest)
			assert.NoError(t, err)
			results[i] = won
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, won := range results {
		if won {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
	assert.Len(t, s.store.OutboxByTopic(events.TopicRefundRequested), 1)
	assert.Len(t, s.store.OutboxByTopic(events.TopicDeliveryCancellationRequested), 1)
	a, b := s.stockLevels()
	assert.Equal(t, 10, a)
	assert.Equal(t, 5, b)
}

func TestSaga_PaymentAndCancelRace(t *testing.T) {
	for i := 0; i < 50; i++ {
		s := newSaga()
		id := s.place(t, 12)

		start := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			<-start
			assert.NoError(t, s.payment.Execute(context.Background(), &ProcessPaymentResultCommand{
				OrderID: id, Status: events.TransferSucceeded,
			}))
		}()
		go func() {
			defer wg.Done()
			<-start
			_, err := s.cancel.Execute(context.Background(), &CancelOrderCommand{OrderID: id.String()})
			assert.NoError(t, err)
		}()
		close(start)
		wg.Wait()

		order := s.order(t, id)
		require.Equal(t, domain.StatusCancelled, order.Status)
		assert.False(t, order.StockDeducted)

		a, b := s.stockLevels()
		assert.Equal(t, 10, a, "stock leaked on iteration %d", i)
		assert.Equal(t, 5, b, "stock leaked on iteration %d", i)
		assert.Len(t, s.store.OutboxByTopic(events.TopicRefundRequested), 1, "the captured payment is refunded exactly once")
		assert.True(t, order.RefundRequested)
		assert.Len(t, s.store.OutboxByTopic(events.TopicDeliveryCancellationRequested),
			len(s.store.OutboxByTopic(events.TopicDeliveryRequested)))
	}
}

func TestSaga_LatePaymentAfterCancelIsRefunded(t *testing.T) {
	s := newSaga()
	id := s.place(t, 12)

	_, err := s.cancel.Execute(context.Background(), &CancelOrderCommand{OrderID: id.String()})
	require.NoError(t, err)
	assert.Empty(t, s.store.OutboxByTopic(events.TopicRefundRequested))

	s.pay(t, id, events.TransferSucceeded)
	s.pay(t, id, events.TransferSucceeded)

	order := s.order(t, id)
	assert.Equal(t, domain.StatusCancelled, order.Status)
	assert.True(t, order.RefundRequested)
	assert.False(t, order.StockDeducted)
	refunds := s.store.OutboxByTopic(events.TopicRefundRequested)
	require.Len(t, refunds, 1)
	assert.Equal(t, "CUST001", refunds[0].Data.(events.RefundRequested).PayeeAccount)
	assert.Empty(t, s.store.OutboxByTopic(events.TopicDeliveryRequested))

	a, b := s.stockLevels()
	assert.Equal(t, 10, a)
	assert.Equal(t, 5, b)

	notifications := s.store.OutboxByTopic(events.TopicNotificationRequested)
	require.Len(t, notifications, 2)
	assert.Contains(t, notifications[1].Data.(events.NotifyCustomer).Body, "received after the order was cancelled")

	require.NoError(t, s.refund.Execute(context.Background(), &ProcessRefundResultCommand{
		OrderID: id, Status: events.TransferSucceeded, TransactionID: testTransaction,
	}))
	assert.Equal(t, domain.StatusRefunded, s.order(t, id).Status)

	s.pay(t, id, events.TransferSucceeded)
	assert.Len(t, s.store.OutboxByTopic(events.TopicRefundRequested), 1)
}

func TestSaga_RefundSettlement(t *testing.T) {
	s := newSaga()
	id := s.place(t, 2)
	s.pay(t, id, events.TransferSucceeded)
	_, err := s.cancel.Execute(context.Background(), &CancelOrderCommand{OrderID: id.String()})
	require.NoError(t, err)

	require.NoError(t, s.refund.Execute(context.Background(), &ProcessRefundResultCommand{
		OrderID: id, Status: events.TransferFailed,
	}))
	assert.Equal(t, domain.StatusCancelled, s.order(t, id).Status)

	require.NoError(t, s.refund.Execute(context.Background(), &ProcessRefundResultCommand{
		OrderID: id, Status: events.TransferSucceeded, TransactionID: testTransaction,
	}))
	require.NoError(t, s.refund.Execute(context.Background(), &ProcessRefundResultCommand{
		OrderID: id, Status: events.TransferSucceeded, TransactionID: testTransaction,
	}))
	assert.Equal(t, domain.StatusRefunded, s.order(t, id).Status)

	var subjects []string
	for _, evt := range s.store.OutboxByTopic(events.TopicNotificationRequested) {
		subjects = append(subjects, evt.Data.(events.NotifyCustomer).Subject)
	}
	assert.Contains(t, subjects, "Refund Failed for order "+id.String())
	assert.Contains(t, subjects, "Your refund is complete for order "+id.String())
	assert.Len(t, subjects, 3, "cancellation, refund failure, refund completion")
}

func TestSaga_RefundForActiveOrderIsIgnored(t *testing.T) {
	s := newSaga()
	id := s.place(t, 2)

	require.NoError(t, s.refund.Execute(context.Background(), &ProcessRefundResultCommand{
		OrderID: id, Status: events.TransferSucceeded,
	}))

	assert.Equal(t, domain.StatusPending, s.order(t, id).Status)
}

func TestAdjustStock_Execute(t *testing.T) {
	s := newSaga()

	resp, err := s.adjust.Execute(context.Background(), &AdjustStockCommand{
		WarehouseID: testWarehouseB.String(), ProductID: testProductID.String(), Quantity: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, 12, resp.Quantity)

	_, err = s.adjust.Execute(context.Background(), &AdjustStockCommand{
		WarehouseID: testWarehouseB.String(), ProductID: testProductID.String(), Quantity: 0,
	})
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))

	_, err = s.adjust.Execute(context.Background(), &AdjustStockCommand{
		WarehouseID: "missing", ProductID: testProductID.String(), Quantity: 1,
	})
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}
