package repositories

import (
	"context"
	"time"

	"github.com/skilly-social/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	GetByUserID(ctx context.Context, userID string) ([]models.Notification, error)
	GetUnreadByUserID(ctx context.Context, userID string) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	FindByRecipientSenderPostType(ctx context.Context, userID, senderID, postID, notifType string) ([]models.Notification, error)
	DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) error
	DeleteByPostID(ctx context.Context, postID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

// MongoNotificationRepository implements NotificationRepository for MongoDB
type MongoNotificationRepository struct {
	collection *mongo.Collection
}

// NewMongoNotificationRepository creates a new MongoNotificationRepository
func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{collection: db.Collection("notifications")}
}

// CreateNotification creates a new notification in MongoDB
func (r *MongoNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	notification.ID = primitive.NewObjectID()
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, notification)
	return err
}

// GetByUserID retrieves all notifications for a recipient, newest first
func (r *MongoNotificationRepository) GetByUserID(ctx context.Context, userID string) ([]models.Notification, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

// GetUnreadByUserID retrieves the unread notifications for a recipient, newest first
func (r *MongoNotificationRepository) GetUnreadByUserID(ctx context.Context, userID string) ([]models.Notification, error) {
	return r.find(ctx, bson.M{"userId": userID, "isRead": false})
}

// CountUnread returns the number of unread notifications for a recipient
func (r *MongoNotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"userId": userID, "isRead": false})
}

// FindByRecipientSenderPostType finds the notifications matching an exact
// (recipient, sender, post, type) tuple. Used to reverse like notifications.
func (r *MongoNotificationRepository) FindByRecipientSenderPostType(ctx context.Context, userID, senderID, postID, notifType string) ([]models.Notification, error) {
	return r.find(ctx, bson.M{
		"userId":   userID,
		"senderId": senderID,
		"postId":   postID,
		"type":     notifType,
	})
}

func (r *MongoNotificationRepository) find(ctx context.Context, filter bson.M) ([]models.Notification, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// DeleteByIDs hard-deletes the notifications with the given ids
func (r *MongoNotificationRepository) DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return err
}

// DeleteByPostID hard-deletes all notifications referencing a post
func (r *MongoNotificationRepository) DeleteByPostID(ctx context.Context, postID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"postId": postID})
	return err
}

// MarkAllRead marks every unread notification for a recipient as read
func (r *MongoNotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"userId": userID, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	return err
}
