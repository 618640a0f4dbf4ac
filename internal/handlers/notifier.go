package handlers

import (
	"context"

	"github.com/skilly-social/backend/internal/models"
)

// Notifier is the notification pipeline the handlers feed. Satisfied by
// *realtime.Notifier.
type Notifier interface {
	ProcessLike(ctx context.Context, receiverID, senderID, postID string) error
	ProcessUnlike(ctx context.Context, receiverID, senderID, postID string) error
	ProcessComment(ctx context.Context, receiverID, senderID, postID string) error
	MarkAllRead(ctx context.Context, userID string) ([]models.Notification, error)
}
