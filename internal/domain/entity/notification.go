package entity

import (
	"time"
)

// Notification delivery status
const (
	DeliverySent   = "SENT"
	DeliveryFailed = "FAILED"
)

// NotificationRecord is one delivery attempt made by a reminder sweep
type NotificationRecord struct {
	RunID                string    `json:"runId" bson:"runId"`
	NotificationID       int       `json:"notificationId" bson:"notificationId"`
	PartID               uint      `json:"partId" bson:"partId"`
	PartName             string    `json:"partName" bson:"partName"`
	DaysUntilReplacement int       `json:"daysUntilReplacement" bson:"daysUntilReplacement"`
	Today                time.Time `json:"today" bson:"today"`
	Status               string    `json:"status" bson:"status"`
	ErrorDetail          string    `json:"errorDetail,omitempty" bson:"errorDetail,omitempty"`
	CreatedAt            time.Time `json:"createdAt" bson:"createdAt"`
}
