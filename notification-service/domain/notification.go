package domain

import (
	"context"

	"github.com/draftea/order-system/shared/models"
)

// Notification is a message addressed to a customer. EventID identifies the
// request it came from.
type Notification struct {
	EventID models.ID
	OrderID models.ID
	To      string `validate:"required,email"`
	Subject string `validate:"required,max=200"`
	Body    string `validate:"required"`
}

// Sender hands notifications to a delivery channel.
type Sender interface {
	Send(ctx context.Context, n *Notification) error
}
