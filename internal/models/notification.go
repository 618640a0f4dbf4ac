package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification type tags
const (
	NotificationPostLike    = "POST_LIKE"
	NotificationPostComment = "POST_COMMENT"
)

// Notification represents a user notification stored in MongoDB
type Notification struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    string             `json:"userId" bson:"userId"`     // Recipient
	SenderID  string             `json:"senderId" bson:"senderId"` // User who triggered it
	PostID    string             `json:"postId" bson:"postId"`
	Type      string             `json:"type" bson:"type"`
	Message   string             `json:"message" bson:"message"`
	IsRead    bool               `json:"isRead" bson:"isRead"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
