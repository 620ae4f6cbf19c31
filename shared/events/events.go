package events

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"time"

	"github.com/draftea/order-system/shared/models"
)

var (
	ErrInvalidTopic    = errors.New("invalid topic")
	ErrInvalidReceiver = errors.New("receiver should be a pointer")
)

// Topic is the routing key of an event on the bus
type Topic string

func NewTopic(topic string) (Topic, error) {
	if topic == "" {
		return "", ErrInvalidTopic
	}
	return Topic(topic), nil
}

func (t Topic) String() string {
	return string(t)
}

// Metadata represents event metadata
type Metadata map[string]string

func (m Metadata) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Set stores key on a non-nil metadata map.
func (m Metadata) Set(key string, value string) {
	m[key] = value
}

func (m Metadata) Clone() Metadata {
	clone := Metadata{}
	for k, v := range m {
		clone[k] = v
	}
	return clone
}

// Event is the envelope of every message exchanged between services
type Event struct {
	ID            models.ID   `json:"id"`
	AggregateID   models.ID   `json:"aggregate_id"`
	Topic         Topic       `json:"topic"`
	Version       string      `json:"version"`
	Data          interface{} `json:"data"`
	Metadata      Metadata    `json:"metadata"`
	Timestamp     time.Time   `json:"timestamp"`
	CorrelationID models.ID   `json:"correlation_id,omitempty"`
}

// Publisher publishes events
type Publisher interface {
	Publish(ctx context.Context, events ...*Event) error
}

// Subscriber delivers inbound events to a handler until ctx is done
type Subscriber interface {
	Subscribe(ctx context.Context, handler EventHandler) error
}

// EventHandler handles inbound events
type EventHandler interface {
	Handle(ctx context.Context, event *Event) error
}

// EventHandlerFunc adapts a function to EventHandler
type EventHandlerFunc func(ctx context.Context, event *Event) error

func (f EventHandlerFunc) Handle(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// NewEvent creates a new event for the given aggregate
func NewEvent(aggregateID models.ID, topic Topic, data interface{}) *Event {
	return &Event{
		ID:          models.GenerateUUID(),
		AggregateID: aggregateID,
		Topic:       topic,
		Version:     "1.0",
		Data:        data,
		Metadata:    make(Metadata),
		Timestamp:   time.Now().UTC(),
	}
}

// WithCorrelationID sets correlation ID
func (e *Event) WithCorrelationID(correlationID models.ID) *Event {
	e.CorrelationID = correlationID
	return e
}

// WithMetadata adds metadata
func (e *Event) WithMetadata(key string, value string) *Event {
	if e.Metadata == nil {
		e.Metadata = make(Metadata)
	}
	e.Metadata.Set(key, value)
	return e
}

// MarshalPayload marshals the event payload
func (e *Event) MarshalPayload() (json.RawMessage, error) {
	if b, ok := e.Data.([]byte); ok {
		return b, nil
	}

	if b, ok := e.Data.(json.RawMessage); ok {
		return b, nil
	}

	return json.Marshal(e.Data)
}

// UnmarshalPayload unmarshals the event payload into the given pointer
func (e *Event) UnmarshalPayload(v interface{}) error {
	vValue := reflect.ValueOf(v)
	if vValue.Kind() != reflect.Ptr || vValue.IsNil() {
		return ErrInvalidReceiver
	}

	vValue = vValue.Elem()
	if e.Data != nil {
		payloadValue := reflect.ValueOf(e.Data)
		if vValue.Type() == payloadValue.Type() {
			vValue.Set(payloadValue)
			return nil
		}
		if payloadValue.Kind() == reflect.Ptr && !payloadValue.IsNil() && vValue.Type() == payloadValue.Elem().Type() {
			vValue.Set(payloadValue.Elem())
			return nil
		}
	}

	raw, err := e.MarshalPayload()
	if err != nil {
		return err
	}

	return json.Unmarshal(raw, v)
}

// Clone creates a copy of the event
func (e *Event) Clone() *Event {
	return &Event{
		ID:            e.ID,
		AggregateID:   e.AggregateID,
		Topic:         e.Topic,
		Version:       e.Version,
		Data:          e.Data,
		Metadata:      e.Metadata.Clone(),
		Timestamp:     e.Timestamp,
		CorrelationID: e.CorrelationID,
	}
}
