package models

import "time"

// Comment represents a comment embedded in a post document
type Comment struct {
	ID        string     `json:"id" bson:"id"`
	UserID    string     `json:"userId" bson:"userId"`
	Content   string     `json:"content" bson:"content"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// CommentRequest defines the request body for creating or updating a comment
type CommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
