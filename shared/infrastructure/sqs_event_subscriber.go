package infrastructure

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/draftea/order-system/shared/apperrors"
	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/logger"
	"github.com/draftea/order-system/shared/telemetry"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var _ events.Subscriber = (*SQSEventSubscriber)(nil)

const (
	SQSMessageIDKey     = "sqs_message_id"
	SQSReceiptHandleKey = "sqs_receipt_handle"
	SQSReceiveCountKey  = "sqs_receive_count"
)

type sqsAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
	ChangeMessageVisibility(ctx context.Context, params *sqs.ChangeMessageVisibilityInput, optFns ...func(*sqs.Options)) (*sqs.ChangeMessageVisibilityOutput, error)
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

type sqsMessage struct {
	Message types.Message
	Event   *events.Event
	Err     error
}

// SQSEventSubscriber reads a queue with a pool of readers, handles messages on
// a pool of workers and acknowledges them on a pool of cleaners.
type SQSEventSubscriber struct {
	running atomic.Bool
	options *sqsSubscriberOptions

	client   sqsAPI
	queueURL string
	log      *logger.Logger
}

type sqsSubscriberOptions struct {
	workers                    int32
	readers                    int32
	cleaners                   int32
	maxNumberOfMessages        int32
	waitTimeSeconds            int32
	visibilityTimeout          int32
	sleepTimeAfterEmptyReceive time.Duration
	sleepTimeAfterError        time.Duration
	receiveCountRange          int32
	visibilityTimeoutOffset    int32
	maxVisibilityTimeout       int32
	maxReceives                int32
	deadLetterQueueURL         string
	log                        *logger.Logger
}

type SQSSubscriberOption func(*sqsSubscriberOptions)

func WithWorkers(workers int32) SQSSubscriberOption {
	return func(o *sqsSubscriberOptions) {
		o.workers = workers
	}
}

func WithReaders(readers int32) SQSSubscriberOption {
	return func(o *sqsSubscriberOptions) {
		o.readers = readers
	}
}

func WithVisibilityTimeout(timeout int32) SQSSubscriberOption {
	return func(o *sqsSubscriberOptions) {
		o.visibilityTimeout = timeout
	}
}

// WithMaxReceives dead-letters a message once it has been received this many times.
func WithMaxReceives(n int32) SQSSubscriberOption {
	return func(o *sqsSubscriberOptions) {
		o.maxReceives = n
	}
}

func WithDeadLetterQueue(url string) SQSSubscriberOption {
	return func(o *sqsSubscriberOptions) {
		o.deadLetterQueueURL = url
	}
}

func WithLogger(log *logger.Logger) SQSSubscriberOption {
	return func(o *sqsSubscriberOptions) {
		o.log = log
	}
}

func NewSQSEventSubscriber(client sqsAPI, queueURL string, opts ...SQSSubscriberOption) *SQSEventSubscriber {
	options := &sqsSubscriberOptions{
		workers:                 16,
		readers:                 1,
		cleaners:                2,
		maxNumberOfMessages:     10,
		waitTimeSeconds:         10,
		visibilityTimeout:       30,
		sleepTimeAfterError:     5 * time.Second,
		receiveCountRange:       3,
		visibilityTimeoutOffset: 30,
		maxVisibilityTimeout:    900, // 15 minutes
		maxReceives:             5,
	}

	for _, opt := range opts {
		opt(options)
	}

	log := options.log
	if log == nil {
		log = logger.Nop()
	}

	return &SQSEventSubscriber{
		client:   client,
		queueURL: queueURL,
		options:  options,
		log:      log,
	}
}

// Subscribe consumes the queue until ctx is cancelled, then waits for
// in-flight messages to be acknowledged.
func (s *SQSEventSubscriber) Subscribe(ctx context.Context, handler events.EventHandler) error {
	if handler == nil {
		return errors.New("handler is required")
	}
	if !s.running.CompareAndSwap(false, true) {
		return errors.New("subscriber is already running")
	}
	defer s.running.Store(false)

	inbound := make(chan *sqsMessage, s.options.maxNumberOfMessages)
	outbound := make(chan *sqsMessage, s.options.maxNumberOfMessages)

	var readers, workers, cleaners sync.WaitGroup

	for i := 0; i < int(s.options.readers); i++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			s.startReader(ctx, inbound)
		}()
	}

	for i := 0; i < int(s.options.workers); i++ {
		workers.Add(1)
		go func() {
			defer workers.Done()
			for message := range inbound {
				message.Err = s.handle(ctx, handler, message.Event)
				outbound <- message
			}
		}()
	}

	// Acknowledgements outlive ctx so handled messages are not redelivered.
	cleanCtx := context.WithoutCancel(ctx)
	for i := 0; i < int(s.options.cleaners); i++ {
		cleaners.Add(1)
		go func() {
			defer cleaners.Done()
			for message := range outbound {
				if err := s.clean(cleanCtx, message); err != nil {
					s.log.Error(cleanCtx, "failed to acknowledge sqs message", err)
				}
			}
		}()
	}

	readers.Wait()
	close(inbound)
	workers.Wait()
	close(outbound)
	cleaners.Wait()

	return nil
}

func (s *SQSEventSubscriber) startReader(ctx context.Context, inbound chan<- *sqsMessage) {
	for {
		if ctx.Err() != nil {
			return
		}

		received, err := s.read(ctx, inbound)
		switch {
		case err != nil && ctx.Err() == nil:
			s.log.Error(ctx, "failed to receive sqs messages", err)
			sleep(ctx, s.options.sleepTimeAfterError)
		case err == nil && received == 0:
			sleep(ctx, s.options.sleepTimeAfterEmptyReceive)
		}
	}
}

func (s *SQSEventSubscriber) read(ctx context.Context, inbound chan<- *sqsMessage) (int, error) {
	output, err := s.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(s.queueURL),
		MaxNumberOfMessages: s.options.maxNumberOfMessages,
		WaitTimeSeconds:     s.options.waitTimeSeconds,
		VisibilityTimeout:   s.options.visibilityTimeout,
		MessageSystemAttributeNames: []types.MessageSystemAttributeName{
			types.MessageSystemAttributeNameApproximateReceiveCount,
		},
		MessageAttributeNames: []string{"All"},
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to receive message from SQS")
	}

	for _, message := range output.Messages {
		event, err := decodeEvent([]byte(aws.ToString(message.Body)))
		if err != nil {
			s.deadLetter(context.WithoutCancel(ctx), message, err)
			continue
		}

		event.Metadata.Set(SQSMessageIDKey, aws.ToString(message.MessageId))
		event.Metadata.Set(SQSReceiptHandleKey, aws.ToString(message.ReceiptHandle))
		event.Metadata.Set(SQSReceiveCountKey, strconv.Itoa(receiveCount(message)))

		select {
		case inbound <- &sqsMessage{Message: message, Event: event}:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	return len(output.Messages), nil
}

func (s *SQSEventSubscriber) handle(ctx context.Context, handler events.EventHandler, event *events.Event) (err error) {
	ctx = telemetry.ExtractEvent(ctx, event)
	ctx, span := telemetry.StartSpan(ctx, "consume "+event.Topic.String(),
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.destination", event.Topic.String()),
			attribute.String("messaging.message_id", event.ID.String()),
		),
	)
	defer span.End()

	ctx = s.log.WithFields(ctx, map[string]any{
		"event_id":     event.ID.String(),
		"topic":        event.Topic.String(),
		"aggregate_id": event.AggregateID.String(),
	})

	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("handler panicked: %v", r)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.log.Error(ctx, "failed to handle event", err)
		}
		telemetry.RecordCounter(ctx, "events_consumed_total", "Events consumed from SQS", 1,
			attribute.String("topic", event.Topic.String()),
			attribute.Bool("success", err == nil),
		)
	}()

	return handler.Handle(ctx, event)
}

func (s *SQSEventSubscriber) clean(ctx context.Context, message *sqsMessage) error {
	if message.Err != nil {
		count := receiveCount(message.Message)
		if !apperrors.IsRetryable(message.Err) || (s.options.maxReceives > 0 && int32(count) >= s.options.maxReceives) {
			s.deadLetter(ctx, message.Message, message.Err)
			return nil
		}

		visibilityTimeout := s.options.visibilityTimeout
		visibilityTimeout += (int32(count) / s.options.receiveCountRange) * s.options.visibilityTimeoutOffset
		if visibilityTimeout > s.options.maxVisibilityTimeout {
			visibilityTimeout = s.options.maxVisibilityTimeout
		}

		_, err := s.client.ChangeMessageVisibility(ctx, &sqs.ChangeMessageVisibilityInput{
			QueueUrl:          aws.String(s.queueURL),
			ReceiptHandle:     message.Message.ReceiptHandle,
			VisibilityTimeout: visibilityTimeout,
		})
		if err != nil {
			return errors.Wrap(err, "failed to extend visibility timeout")
		}
		return nil
	}

	return s.delete(ctx, message.Message)
}

// deadLetter parks a message that can never succeed and removes it from the queue.
func (s *SQSEventSubscriber) deadLetter(ctx context.Context, message types.Message, cause error) {
	ctx = s.log.WithFields(ctx, map[string]any{
		"sqs_message_id": aws.ToString(message.MessageId),
		"receive_count":  receiveCount(message),
	})
	s.log.Error(ctx, "dead-lettering sqs message", cause)

	if s.options.deadLetterQueueURL != "" {
		_, err := s.client.SendMessage(ctx, &sqs.SendMessageInput{
			QueueUrl:          aws.String(s.options.deadLetterQueueURL),
			MessageBody:       message.Body,
			MessageAttributes: message.MessageAttributes,
		})
		if err != nil {
			// Left on the queue; it comes back after the visibility timeout.
			s.log.Error(ctx, "failed to send message to dead-letter queue", err)
			return
		}
	}

	if err := s.delete(ctx, message); err != nil {
		s.log.Error(ctx, "failed to delete dead-lettered message", err)
	}
}

func (s *SQSEventSubscriber) delete(ctx context.Context, message types.Message) error {
	_, err := s.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(s.queueURL),
		ReceiptHandle: message.ReceiptHandle,
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete message from SQS")
	}
	return nil
}

func receiveCount(message types.Message) int {
	count, err := strconv.Atoi(message.Attributes[string(types.MessageSystemAttributeNameApproximateReceiveCount)])
	if err != nil || count < 1 {
		return 1
	}
	return count
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
