package repository

import (
	"context"

	"cpaptracker-service/internal/domain/entity"
)

// NotificationRepository stores the delivery history of reminder sweeps
type NotificationRepository interface {
	Save(ctx context.Context, record *entity.NotificationRecord) error
	FindByRunID(ctx context.Context, runID string) ([]*entity.NotificationRecord, error)
	FindRecent(ctx context.Context, limit int) ([]*entity.NotificationRecord, error)
}

// Notifier delivers a reminder for one part. Urgency is carried by the signed day count.
type Notifier interface {
	Notify(ctx context.Context, partName string, daysUntilReplacement int, notificationID int) error
}
