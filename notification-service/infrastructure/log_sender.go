package infrastructure

import (
	"context"

	"github.com/draftea/order-system/notification-service/domain"
	"github.com/draftea/order-system/shared/logger"
)

// LogSender writes notifications to the structured log instead of mailing
// them.
type LogSender struct {
	log *logger.Logger
}

func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, n *domain.Notification) error {
	s.log.Info(s.log.WithFields(ctx, map[string]any{
		"event_id": n.EventID.String(),
		"order_id": n.OrderID.String(),
		"to":       n.To,
		"subject":  n.Subject,
		"body":     n.Body,
	}), "customer notified")
	return nil
}
