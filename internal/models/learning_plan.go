package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LearningPlan represents a user's learning plan stored in MongoDB
type LearningPlan struct {
	ID                 primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID             string             `json:"userId" bson:"userId"`
	UserName           string             `json:"userName" bson:"userName"`
	Title              string             `json:"title" bson:"title"`
	Description        string             `json:"description" bson:"description"`
	Topics             []Topic            `json:"topics" bson:"topics"`
	IsPublic           bool               `json:"isPublic" bson:"isPublic"`
	SharedWith         []string           `json:"sharedWith" bson:"sharedWith"`
	CreatedAt          time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt" bson:"updatedAt"`
	CompletionDeadline *time.Time         `json:"completionDeadline,omitempty" bson:"completionDeadline,omitempty"`
}

// Topic is an ordered unit of a learning plan
type Topic struct {
	ID          string     `json:"id" bson:"id"`
	Name        string     `json:"name" bson:"name"`
	Description string     `json:"description" bson:"description"`
	Resources   []Resource `json:"resources" bson:"resources"`
	Completed   bool       `json:"completed" bson:"completed"`
}

// Resource is a learning material attached to a topic
type Resource struct {
	ID        string `json:"id" bson:"id"`
	Title     string `json:"title" bson:"title"`
	Type      string `json:"type" bson:"type"` // article, video, book, etc.
	URL       string `json:"url" bson:"url"`
	Completed bool   `json:"completed" bson:"completed"`
}

// CreateLearningPlanRequest defines the request body for creating a plan
type CreateLearningPlanRequest struct {
	Title              string     `json:"title" validate:"required,min=1,max=120"`
	Description        string     `json:"description" validate:"omitempty,max=2000"`
	Topics             []Topic    `json:"topics"`
	IsPublic           bool       `json:"isPublic"`
	CompletionDeadline *time.Time `json:"completionDeadline,omitempty"`
}
