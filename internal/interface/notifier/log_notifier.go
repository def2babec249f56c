package notifier

import (
	"context"

	"cpaptracker-service/internal/domain/repository"
	"cpaptracker-service/pkg/logger"
)

// LogNotifier writes reminders to the service log. Used when email delivery is not configured.
type LogNotifier struct {
	logger logger.Logger
}

// NewLogNotifier creates a notifier that logs each reminder
func NewLogNotifier(logger logger.Logger) repository.Notifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the rendered reminder
func (n *LogNotifier) Notify(ctx context.Context, partName string, daysUntilReplacement int, notificationID int) error {
	msg := BuildMessage(partName, daysUntilReplacement)
	n.logger.Info(msg.Title,
		"notificationID", notificationID,
		"body", msg.Body,
		"priority", string(msg.Priority))
	return nil
}
