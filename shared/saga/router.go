package saga

import (
	"context"

	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/logger"
)

var _ events.EventHandler = (*Router)(nil)

// Router dispatches inbound saga events to the handlers registered for their
// topic. Handler errors are returned so the transport redelivers the message.
type Router struct {
	handlers map[events.Topic][]events.EventHandler
	log      *logger.Logger
}

func NewRouter(log *logger.Logger) *Router {
	if log == nil {
		log = logger.Nop()
	}
	return &Router{
		handlers: make(map[events.Topic][]events.EventHandler),
		log:      log,
	}
}

// Register adds handler for topic. Handlers of one topic run in registration order.
func (r *Router) Register(topic events.Topic, handler events.EventHandler) *Router {
	r.handlers[topic] = append(r.handlers[topic], handler)
	return r
}

func (r *Router) RegisterFunc(topic events.Topic, fn func(ctx context.Context, event *events.Event) error) *Router {
	return r.Register(topic, events.EventHandlerFunc(fn))
}

// Topics lists the topics with at least one handler.
func (r *Router) Topics() []events.Topic {
	topics := make([]events.Topic, 0, len(r.handlers))
	for topic := range r.handlers {
		topics = append(topics, topic)
	}
	return topics
}

func (r *Router) Handle(ctx context.Context, event *events.Event) error {
	handlers, exists := r.handlers[event.Topic]
	if !exists {
		r.log.Warn(r.log.WithField(ctx, "topic", event.Topic.String()), "no handlers registered for topic")
		return nil
	}

	for _, handler := range handlers {
		if err := handler.Handle(ctx, event); err != nil {
			return err
		}
	}

	return nil
}
