package handlers

import (
	"context"

	"github.com/draftea/order-system/notification-service/application"
	"github.com/draftea/order-system/notification-service/domain"
	"github.com/draftea/order-system/shared/apperrors"
	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/saga"
)

type NotificationEventHandlers struct {
	notify *application.NotifyCustomer
}

func NewNotificationEventHandlers(notify *application.NotifyCustomer) *NotificationEventHandlers {
	return &NotificationEventHandlers{notify: notify}
}

func (h *NotificationEventHandlers) Register(router *saga.Router) *saga.Router {
	return router.RegisterFunc(events.TopicNotificationRequested, h.HandleNotificationRequested)
}

func (h *NotificationEventHandlers) HandleNotificationRequested(ctx context.Context, event *events.Event) error {
	var payload events.NotifyCustomer
	if err := event.UnmarshalPayload(&payload); err != nil {
		return apperrors.Wrap(apperrors.CodeValidation, err, "malformed "+event.Topic.String()+" payload")
	}

	return h.notify.Execute(ctx, &domain.Notification{
		EventID: event.ID,
		OrderID: event.AggregateID,
		To:      payload.To,
		Subject: payload.Subject,
		Body:    payload.Body,
	})
}
