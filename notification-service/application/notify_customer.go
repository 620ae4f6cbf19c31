package application

import (
	"context"

	"github.com/draftea/order-system/notification-service/domain"
	"github.com/draftea/order-system/shared/httpapi"
	"github.com/draftea/order-system/shared/telemetry"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

// NotifyCustomer delivers a notification requested by the store.
type NotifyCustomer struct {
	sender domain.Sender
}

func NewNotifyCustomer(sender domain.Sender) *NotifyCustomer {
	return &NotifyCustomer{sender: sender}
}

func (uc *NotifyCustomer) Execute(ctx context.Context, n *domain.Notification) (err error) {
	ctx, finish := startOperation(ctx, "notify_customer", attribute.String("event_id", n.EventID.String()))
	defer func() { finish(err) }()

	if err := httpapi.Validate(n); err != nil {
		return err
	}

	if err := uc.sender.Send(ctx, n); err != nil {
		return errors.Wrap(err, "failed to send notification")
	}

	telemetry.RecordCounter(ctx, "notifications_sent_total", "Customer notifications sent", 1)
	return nil
}
