package infrastructure

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/draftea/order-system/shared/config"
	"github.com/draftea/order-system/shared/logger"
	"github.com/pkg/errors"
)

// LoadAWSConfig builds the SDK configuration, using static credentials when
// they are configured (LocalStack) and the default chain otherwise.
func LoadAWSConfig(ctx context.Context, cfg config.AWS) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, errors.Wrap(err, "failed to load AWS config")
	}
	return awsCfg, nil
}

// NewSNSPublisherFromConfig wires an SNS client against the configured topic.
func NewSNSPublisherFromConfig(ctx context.Context, cfg config.AWS) (*SNSEventPublisher, error) {
	awsCfg, err := LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client := sns.NewFromConfig(awsCfg, func(o *sns.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return NewSNSEventPublisher(client, cfg.SNSTopicArn), nil
}

// NewSQSSubscriberFromConfig wires an SQS client against the service queue.
func NewSQSSubscriberFromConfig(ctx context.Context, cfg config.AWS, log *logger.Logger, opts ...SQSSubscriberOption) (*SQSEventSubscriber, error) {
	if cfg.SQSQueueURL == "" {
		return nil, errors.New("sqs queue url is required")
	}

	awsCfg, err := LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client := sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	defaults := []SQSSubscriberOption{WithLogger(log)}
	if cfg.SQSWorkers > 0 {
		defaults = append(defaults, WithWorkers(cfg.SQSWorkers))
	}
	if cfg.SQSMaxReceives > 0 {
		defaults = append(defaults, WithMaxReceives(cfg.SQSMaxReceives))
	}
	if cfg.SQSDLQURL != "" {
		defaults = append(defaults, WithDeadLetterQueue(cfg.SQSDLQURL))
	}

	return NewSQSEventSubscriber(client, cfg.SQSQueueURL, append(defaults, opts...)...), nil
}
