package realtime

import (
	"context"
	"log"

	"github.com/skilly-social/backend/internal/models"
	"github.com/skilly-social/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notifier persists notifications and pushes them to the recipient's room.
// Persistence is the durable record; the push is an at-most-once side effect
// that never rolls back or fails the triggering request.
type Notifier struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	sender           Sender
}

// NewNotifier creates a Notifier
func NewNotifier(notifRepo repositories.NotificationRepository, userRepo repositories.UserRepository, sender Sender) *Notifier {
	return &Notifier{
		notificationRepo: notifRepo,
		userRepo:         userRepo,
		sender:           sender,
	}
}

// HandleJoin pushes the current unread notifications and count to a freshly
// joined connection, if there are any.
func (n *Notifier) HandleJoin(userID string, push func(event string, data interface{})) {
	ctx := context.Background()

	unread, err := n.notificationRepo.GetUnreadByUserID(ctx, userID)
	if err != nil {
		log.Printf("Error loading unread notifications for %s: %v", userID, err)
		return
	}
	count, err := n.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		log.Printf("Error counting unread notifications for %s: %v", userID, err)
		return
	}

	if count > 0 {
		push("notifications_unread_count", count)
		push("notifications_initial", unread)
	}
}

// senderName resolves the display name of the acting user
func (n *Notifier) senderName(ctx context.Context, senderID string) string {
	sender, err := n.userRepo.GetUserByID(ctx, senderID)
	if err != nil {
		return "Someone"
	}
	return sender.Username
}

// ProcessLike persists a POST_LIKE notification for the post owner and
// pushes it to the owner's room. Self-likes are the caller's concern.
func (n *Notifier) ProcessLike(ctx context.Context, receiverID, senderID, postID string) error {
	notification := &models.Notification{
		UserID:   receiverID,
		SenderID: senderID,
		PostID:   postID,
		Type:     models.NotificationPostLike,
		Message:  n.senderName(ctx, senderID) + " liked your post",
		IsRead:   false,
	}

	if err := n.notificationRepo.CreateNotification(ctx, notification); err != nil {
		return err
	}

	n.sender.SendToRoom(receiverID, "notification", notification)
	n.pushUnreadCount(ctx, receiverID)
	return nil
}

// ProcessUnlike deletes the notifications matching the reversed like and
// pushes a removal event per deleted notification. A no-op when none exist.
func (n *Notifier) ProcessUnlike(ctx context.Context, receiverID, senderID, postID string) error {
	existing, err := n.notificationRepo.FindByRecipientSenderPostType(ctx, receiverID, senderID, postID, models.NotificationPostLike)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		return nil
	}

	ids := make([]primitive.ObjectID, len(existing))
	for i, notif := range existing {
		ids[i] = notif.ID
	}
	if err := n.notificationRepo.DeleteByIDs(ctx, ids); err != nil {
		return err
	}

	for _, notif := range existing {
		n.sender.SendToRoom(receiverID, "notification_remove", notif.ID.Hex())
	}
	n.pushUnreadCount(ctx, receiverID)
	return nil
}

// ProcessComment persists a POST_COMMENT notification for the post owner
// and pushes it to the owner's room.
func (n *Notifier) ProcessComment(ctx context.Context, receiverID, senderID, postID string) error {
	notification := &models.Notification{
		UserID:   receiverID,
		SenderID: senderID,
		PostID:   postID,
		Type:     models.NotificationPostComment,
		Message:  n.senderName(ctx, senderID) + " commented on your post",
		IsRead:   false,
	}

	if err := n.notificationRepo.CreateNotification(ctx, notification); err != nil {
		return err
	}

	n.sender.SendToRoom(receiverID, "notification", notification)
	n.pushUnreadCount(ctx, receiverID)
	return nil
}

// MarkAllRead marks every unread notification for a user as read, pushes a
// zero unread count, and returns the refreshed notification list.
func (n *Notifier) MarkAllRead(ctx context.Context, userID string) ([]models.Notification, error) {
	if err := n.notificationRepo.MarkAllRead(ctx, userID); err != nil {
		return nil, err
	}

	n.sender.SendToRoom(userID, "notifications_unread_count", int64(0))
	return n.notificationRepo.GetByUserID(ctx, userID)
}

func (n *Notifier) pushUnreadCount(ctx context.Context, userID string) {
	count, err := n.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		log.Printf("Error counting unread notifications for %s: %v", userID, err)
		return
	}
	n.sender.SendToRoom(userID, "notifications_unread_count", count)
}
