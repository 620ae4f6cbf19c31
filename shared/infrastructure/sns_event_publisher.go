package infrastructure

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/telemetry"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

var _ events.Publisher = (*SNSEventPublisher)(nil)

const maxBatchSize = 10

// TopicAttribute is the SNS message attribute the per-service SQS
// subscriptions filter on.
const TopicAttribute = "topic"

type snsAPI interface {
	PublishBatch(ctx context.Context, params *sns.PublishBatchInput, optFns ...func(*sns.Options)) (*sns.PublishBatchOutput, error)
}

// SNSEventPublisher implements events.Publisher using AWS SNS
type SNSEventPublisher struct {
	client   snsAPI
	topicArn string
}

func NewSNSEventPublisher(client snsAPI, topicArn string) *SNSEventPublisher {
	return &SNSEventPublisher{
		client:   client,
		topicArn: topicArn,
	}
}

// Publish publishes events to SNS in batches; any entry SNS rejects fails the call.
func (p *SNSEventPublisher) Publish(ctx context.Context, evts ...*events.Event) error {
	if len(evts) == 0 {
		return nil
	}

	gr, ctx := errgroup.WithContext(ctx)

	for _, eventBatch := range splitToChunks(evts, maxBatchSize) {
		eventBatch := eventBatch
		gr.Go(func() error {
			return p.batchPublish(ctx, eventBatch)
		})
	}

	return gr.Wait()
}

func (p *SNSEventPublisher) batchPublish(ctx context.Context, evts []*events.Event) error {
	requests := make([]types.PublishBatchRequestEntry, len(evts))

	for i, event := range evts {
		body, err := encodeEvent(event)
		if err != nil {
			return err
		}

		attrs := map[string]types.MessageAttributeValue{
			TopicAttribute: {
				DataType:    aws.String("String"),
				StringValue: aws.String(event.Topic.String()),
			},
		}

		requests[i] = types.PublishBatchRequestEntry{
			Id:                aws.String(event.ID.String()),
			Message:           aws.String(string(body)),
			MessageAttributes: attrs,
		}
	}

	res, err := p.client.PublishBatch(ctx, &sns.PublishBatchInput{
		TopicArn:                   aws.String(p.topicArn),
		PublishBatchRequestEntries: requests,
	})
	if err != nil {
		return errors.Wrap(err, "failed to publish batch to SNS")
	}

	for _, event := range evts {
		telemetry.RecordCounter(ctx, "events_published_total", "Events published to SNS", 1,
			attribute.String("topic", event.Topic.String()))
	}

	if len(res.Failed) > 0 {
		failed := make([]string, 0, len(res.Failed))
		for _, entry := range res.Failed {
			failed = append(failed, aws.ToString(entry.Id)+": "+aws.ToString(entry.Message))
		}
		return errors.Errorf("sns rejected %d of %d messages: %s", len(res.Failed), len(evts), strings.Join(failed, "; "))
	}

	return nil
}

// splitToChunks splits slice into chunks of specified size
func splitToChunks[T any](slice []T, chunkSize int) [][]T {
	var chunks [][]T
	for i := 0; i < len(slice); i += chunkSize {
		end := i + chunkSize
		if end > len(slice) {
			end = len(slice)
		}
		chunks = append(chunks, slice[i:end])
	}
	return chunks
}
