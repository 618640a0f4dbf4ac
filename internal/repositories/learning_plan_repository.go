package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/skilly-social/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrPlanNotFound is returned when a learning plan lookup matches no document
var ErrPlanNotFound = errors.New("learning plan not found")

// LearningPlanRepository defines the interface for learning plan operations
type LearningPlanRepository interface {
	CreatePlan(ctx context.Context, plan *models.LearningPlan) error
	GetPlanByID(ctx context.Context, id string) (*models.LearningPlan, error)
	GetAllPlans(ctx context.Context) ([]models.LearningPlan, error)
	GetPlansByUserID(ctx context.Context, userID string) ([]models.LearningPlan, error)
	GetPublicPlans(ctx context.Context) ([]models.LearningPlan, error)
	GetPlansSharedWith(ctx context.Context, userID string) ([]models.LearningPlan, error)
	UpdatePlan(ctx context.Context, plan *models.LearningPlan) error
	DeletePlan(ctx context.Context, id string) error
}

// MongoLearningPlanRepository implements LearningPlanRepository for MongoDB
type MongoLearningPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoLearningPlanRepository creates a new MongoLearningPlanRepository
func NewMongoLearningPlanRepository(db *mongo.Database) *MongoLearningPlanRepository {
	return &MongoLearningPlanRepository{collection: db.Collection("learningPlans")}
}

// CreatePlan creates a new learning plan in MongoDB
func (r *MongoLearningPlanRepository) CreatePlan(ctx context.Context, plan *models.LearningPlan) error {
	plan.ID = primitive.NewObjectID()
	now := time.Now()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	if plan.Topics == nil {
		plan.Topics = []models.Topic{}
	}
	if plan.SharedWith == nil {
		plan.SharedWith = []string{}
	}
	_, err := r.collection.InsertOne(ctx, plan)
	return err
}

// GetPlanByID retrieves a learning plan by ID from MongoDB
func (r *MongoLearningPlanRepository) GetPlanByID(ctx context.Context, id string) (*models.LearningPlan, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid plan ID format: %w", err)
	}

	var plan models.LearningPlan
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&plan)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// GetAllPlans retrieves all learning plans, newest first
func (r *MongoLearningPlanRepository) GetAllPlans(ctx context.Context) ([]models.LearningPlan, error) {
	return r.find(ctx, bson.M{})
}

// GetPlansByUserID retrieves a user's learning plans
func (r *MongoLearningPlanRepository) GetPlansByUserID(ctx context.Context, userID string) ([]models.LearningPlan, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

// GetPublicPlans retrieves all public learning plans
func (r *MongoLearningPlanRepository) GetPublicPlans(ctx context.Context) ([]models.LearningPlan, error) {
	return r.find(ctx, bson.M{"isPublic": true})
}

// GetPlansSharedWith retrieves the plans shared with a user
func (r *MongoLearningPlanRepository) GetPlansSharedWith(ctx context.Context, userID string) ([]models.LearningPlan, error) {
	return r.find(ctx, bson.M{"sharedWith": userID})
}

func (r *MongoLearningPlanRepository) find(ctx context.Context, filter bson.M) ([]models.LearningPlan, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []models.LearningPlan
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// UpdatePlan replaces an existing learning plan document
func (r *MongoLearningPlanRepository) UpdatePlan(ctx context.Context, plan *models.LearningPlan) error {
	plan.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": plan.ID}, plan)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPlanNotFound
	}
	return nil
}

// DeletePlan deletes a learning plan by ID
func (r *MongoLearningPlanRepository) DeletePlan(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid plan ID format: %w", err)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrPlanNotFound
	}
	return nil
}
