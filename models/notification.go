package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type NotificationType string

const (
	NotificationTypeOrderCreated NotificationType = "ORDER_CREATED"
	NotificationTypeOrderStatus  NotificationType = "ORDER_STATUS"
	NotificationTypePayment      NotificationType = "PAYMENT"
	NotificationTypeSystem       NotificationType = "SYSTEM"
)

type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "low"
	NotificationPriorityNormal NotificationPriority = "normal"
	NotificationPriorityHigh   NotificationPriority = "high"
)

type NotificationRecipient struct {
	UserID bson.ObjectID `bson:"userId" json:"userId"`
	Read   bool          `bson:"read" json:"read"`
	ReadAt *time.Time    `bson:"readAt,omitempty" json:"readAt,omitempty"`
}

type Notification struct {
	ID          bson.ObjectID           `bson:"_id,omitempty" json:"id"`
	Type        NotificationType        `bson:"type" json:"type"`
	Title       string                  `bson:"title" json:"title"`
	Message     string                  `bson:"message" json:"message"`
	Data        bson.M                  `bson:"data,omitempty" json:"data,omitempty"`
	Recipients  []NotificationRecipient `bson:"recipients" json:"recipients"`
	Priority    NotificationPriority    `bson:"priority" json:"priority"`
	Global      bool                    `bson:"global" json:"global"`
	EmailSent   bool                    `bson:"emailSent" json:"emailSent"`
	EmailSentAt *time.Time              `bson:"emailSentAt,omitempty" json:"emailSentAt,omitempty"`
	CreatedAt   time.Time               `bson:"createdAt" json:"createdAt"`
}
