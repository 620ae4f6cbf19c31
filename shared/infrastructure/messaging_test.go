package infrastructure

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/draftea/order-system/shared/apperrors"
	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/models"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paymentRequestedEvent() *events.Event {
	orderID := models.GenerateUUID()
	return events.NewEvent(orderID, events.TopicPaymentRequested, events.PaymentRequested{
		OrderID:      orderID,
		Amount:       decimal.RequireFromString("25.50"),
		PayerAccount: "ACC-1",
	}).WithMetadata("traceparent", "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01")
}

func TestWireRoundTrip(t *testing.T) {
	event := paymentRequestedEvent()
	event.Metadata.Set(SQSReceiptHandleKey, "receipt")

	body, err := encodeEvent(event)
	require.NoError(t, err)

	decoded, err := decodeEvent(body)
	require.NoError(t, err)

	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, event.AggregateID, decoded.AggregateID)
	assert.Equal(t, events.TopicPaymentRequested, decoded.Topic)
	assert.Equal(t, "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01", decoded.Metadata["traceparent"])
	assert.NotContains(t, decoded.Metadata, SQSReceiptHandleKey)

	var payload events.PaymentRequested
	require.NoError(t, decoded.UnmarshalPayload(&payload))
	assert.True(t, decimal.RequireFromString("25.5").Equal(payload.Amount))
	assert.Equal(t, "ACC-1", payload.PayerAccount)
}

func TestDecodeEventUnwrapsSNSNotification(t *testing.T) {
	body, err := encodeEvent(paymentRequestedEvent())
	require.NoError(t, err)

	envelope, err := json.Marshal(map[string]string{"Type": "Notification", "Message": string(body)})
	require.NoError(t, err)

	decoded, err := decodeEvent(envelope)
	require.NoError(t, err)
	assert.Equal(t, events.TopicPaymentRequested, decoded.Topic)
}

func TestDecodeEventRejectsMalformed(t *testing.T) {
	_, err := decodeEvent([]byte(`{"id":"x"}`))
	assert.ErrorIs(t, err, events.ErrInvalidTopic)

	_, err = decodeEvent([]byte(`not json`))
	assert.Error(t, err)
}

type fakeSNS struct {
	mu      sync.Mutex
	batches []*sns.PublishBatchInput
	failIDs map[string]bool
	err     error
}

func (f *fakeSNS) PublishBatch(_ context.Context, params *sns.PublishBatchInput, _ ...func(*sns.Options)) (*sns.PublishBatchOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.batches = append(f.batches, params)

	out := &sns.PublishBatchOutput{}
	for _, entry := range params.PublishBatchRequestEntries {
		if f.failIDs[aws.ToString(entry.Id)] {
			out.Failed = append(out.Failed, snstypes.BatchResultErrorEntry{Id: entry.Id, Message: aws.String("throttled")})
		}
	}
	return out, nil
}

func TestSNSEventPublisher(t *testing.T) {
	t.Run("splits into batches with topic attribute", func(t *testing.T) {
		client := &fakeSNS{}
		publisher := NewSNSEventPublisher(client, "arn:topic")

		evts := make([]*events.Event, 12)
		for i := range evts {
			evts[i] = paymentRequestedEvent()
		}

		require.NoError(t, publisher.Publish(context.Background(), evts...))
		require.Len(t, client.batches, 2)

		total := 0
		for _, batch := range client.batches {
			assert.Equal(t, "arn:topic", aws.ToString(batch.TopicArn))
			for _, entry := range batch.PublishBatchRequestEntries {
				assert.Equal(t, "payment.requested", aws.ToString(entry.MessageAttributes[TopicAttribute].StringValue))
				total++
			}
		}
		assert.Equal(t, 12, total)
	})

	t.Run("failed entries fail the publish", func(t *testing.T) {
		event := paymentRequestedEvent()
		client := &fakeSNS{failIDs: map[string]bool{event.ID.String(): true}}

		err := NewSNSEventPublisher(client, "arn:topic").Publish(context.Background(), event)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "throttled")
	})

	t.Run("empty publish is a no-op", func(t *testing.T) {
		client := &fakeSNS{err: errors.New("unreachable")}
		assert.NoError(t, NewSNSEventPublisher(client, "arn:topic").Publish(context.Background()))
	})
}

type fakeSQS struct {
	mu           sync.Mutex
	deleted      []string
	sent         []*sqs.SendMessageInput
	visibilities []int32
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, _ *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (f *fakeSQS) DeleteMessage(_ context.Context, params *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, aws.ToString(params.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

func (f *fakeSQS) ChangeMessageVisibility(_ context.Context, params *sqs.ChangeMessageVisibilityInput, _ ...func(*sqs.Options)) (*sqs.ChangeMessageVisibilityOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visibilities = append(f.visibilities, params.VisibilityTimeout)
	return &sqs.ChangeMessageVisibilityOutput{}, nil
}

func (f *fakeSQS) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, params)
	return &sqs.SendMessageOutput{}, nil
}

func sqsMessageWithCount(count string) types.Message {
	return types.Message{
		MessageId:     aws.String("m-1"),
		ReceiptHandle: aws.String("r-1"),
		Body:          aws.String(`{}`),
		Attributes:    map[string]string{"ApproximateReceiveCount": count},
	}
}

func TestSQSEventSubscriberClean(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		receiveCount   string
		wantDeleted    bool
		wantDeadLetter bool
		wantVisibility []int32
	}{
		{name: "success acknowledges", wantDeleted: true, receiveCount: "1"},
		{name: "retryable error extends visibility", err: errors.New("db down"), receiveCount: "1", wantVisibility: []int32{30}},
		{name: "visibility grows with receive count", err: apperrors.New(apperrors.CodeConcurrencyConflict, "conflict"), receiveCount: "4", wantVisibility: []int32{60}},
		{name: "validation error is dead-lettered", err: apperrors.New(apperrors.CodeValidation, "bad status"), receiveCount: "1", wantDeleted: true, wantDeadLetter: true},
		{name: "exhausted receives are dead-lettered", err: errors.New("db down"), receiveCount: "5", wantDeleted: true, wantDeadLetter: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeSQS{}
			subscriber := NewSQSEventSubscriber(client, "queue", WithDeadLetterQueue("dlq"), WithMaxReceives(5))

			err := subscriber.clean(context.Background(), &sqsMessage{Message: sqsMessageWithCount(tt.receiveCount), Err: tt.err})
			require.NoError(t, err)

			if tt.wantDeleted {
				assert.Equal(t, []string{"r-1"}, client.deleted)
			} else {
				assert.Empty(t, client.deleted)
			}
			if tt.wantDeadLetter {
				require.Len(t, client.sent, 1)
				assert.Equal(t, "dlq", aws.ToString(client.sent[0].QueueUrl))
			} else {
				assert.Empty(t, client.sent)
			}
			assert.Equal(t, tt.wantVisibility, client.visibilities)
		})
	}
}

func TestSQSEventSubscriberHandleRecoversPanics(t *testing.T) {
	subscriber := NewSQSEventSubscriber(&fakeSQS{}, "queue")

	err := subscriber.handle(context.Background(), events.EventHandlerFunc(func(context.Context, *events.Event) error {
		panic("boom")
	}), paymentRequestedEvent())

	require.Error(t, err)
	assert.True(t, apperrors.IsRetryable(err))
}

func TestSQSEventSubscriberStopsWithContext(t *testing.T) {
	subscriber := NewSQSEventSubscriber(&fakeSQS{}, "queue", WithWorkers(2))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- subscriber.Subscribe(ctx, events.EventHandlerFunc(func(context.Context, *events.Event) error { return nil }))
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("subscriber did not stop")
	}
}
