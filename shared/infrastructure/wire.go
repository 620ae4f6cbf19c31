package infrastructure

import (
	"encoding/json"
	"time"

	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/models"
	"github.com/pkg/errors"
)

// wireMessage is the JSON body published to SNS and read back from SQS.
type wireMessage struct {
	ID            string          `json:"id"`
	AggregateID   string          `json:"aggregate_id,omitempty"`
	Metadata      events.Metadata `json:"metadata,omitempty"`
	Topic         string          `json:"topic"`
	Version       string          `json:"version,omitempty"`
	Payload       json.RawMessage `json:"payload"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id,omitempty"`
}

// snsNotification is the envelope SNS wraps around messages when raw message
// delivery is disabled on the subscription.
type snsNotification struct {
	Type    string `json:"Type"`
	Message string `json:"Message"`
}

// transportMetadata keys are set by the subscriber and never republished.
var transportMetadata = map[string]struct{}{
	SQSMessageIDKey:     {},
	SQSReceiptHandleKey: {},
	SQSReceiveCountKey:  {},
}

func encodeEvent(event *events.Event) ([]byte, error) {
	payload, err := event.MarshalPayload()
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal payload")
	}

	metadata := events.Metadata{}
	for k, v := range event.Metadata {
		if _, skip := transportMetadata[k]; skip {
			continue
		}
		metadata[k] = v
	}

	return json.Marshal(&wireMessage{
		ID:            event.ID.String(),
		AggregateID:   event.AggregateID.String(),
		Metadata:      metadata,
		Topic:         event.Topic.String(),
		Version:       event.Version,
		Payload:       payload,
		Timestamp:     event.Timestamp,
		CorrelationID: event.CorrelationID.String(),
	})
}

func decodeEvent(body []byte) (*events.Event, error) {
	var notification snsNotification
	if err := json.Unmarshal(body, &notification); err == nil && notification.Type == "Notification" {
		body = []byte(notification.Message)
	}

	var msg wireMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal message")
	}

	topic, err := events.NewTopic(msg.Topic)
	if err != nil {
		return nil, err
	}
	if msg.ID == "" {
		return nil, errors.New("message id is required")
	}

	metadata := msg.Metadata
	if metadata == nil {
		metadata = events.Metadata{}
	}

	return &events.Event{
		ID:            models.ID(msg.ID),
		AggregateID:   models.ID(msg.AggregateID),
		Topic:         topic,
		Version:       msg.Version,
		Data:          msg.Payload,
		Metadata:      metadata,
		Timestamp:     msg.Timestamp,
		CorrelationID: models.ID(msg.CorrelationID),
	}, nil
}
