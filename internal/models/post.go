package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post types are free-form categories chosen by the client
const (
	PostTypeSkillShare   = "SKILL_SHARE"
	PostTypeLearningPath = "LEARNING_PATH"
	PostTypeQuestion     = "QUESTION"
	PostTypeGeneral      = "GENERAL"
)

// Post represents a social media post stored in MongoDB. Comments are embedded
// and share the post's lifecycle.
type Post struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID         string             `json:"userId" bson:"userId"`
	Username       string             `json:"username" bson:"username"` // Denormalized at creation
	PostType       string             `json:"postType" bson:"postType"`
	Title          string             `json:"title" bson:"title"`
	Content        string             `json:"content" bson:"content"`
	MediaUrls      []string           `json:"mediaUrls" bson:"mediaUrls"`
	MediaPublicIDs []string           `json:"-" bson:"mediaPublicIds"` // Parallel to MediaUrls
	VideoUrl       string             `json:"videoUrl,omitempty" bson:"videoUrl,omitempty"`
	VideoPublicID  string             `json:"-" bson:"videoPublicId,omitempty"`
	VideoDuration  int                `json:"videoDuration,omitempty" bson:"videoDuration,omitempty"`
	Likes          []string           `json:"likes" bson:"likes"`
	SavedBy        []string           `json:"savedBy" bson:"savedBy"`
	SharedBy       []string           `json:"sharedBy" bson:"sharedBy"`
	Comments       []Comment          `json:"comments" bson:"comments"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`

	// Origin fields, set only when this post is a share of another post
	OriginalPostID   string `json:"originalPostId,omitempty" bson:"originalPostId,omitempty"`
	OriginalUserID   string `json:"originalUserId,omitempty" bson:"originalUserId,omitempty"`
	OriginalUsername string `json:"originalUsername,omitempty" bson:"originalUsername,omitempty"`
}

// HasLiked reports whether userID is in the post's like set.
func (p *Post) HasLiked(userID string) bool {
	return contains(p.Likes, userID)
}

// HasSaved reports whether userID is in the post's saved set.
func (p *Post) HasSaved(userID string) bool {
	return contains(p.SavedBy, userID)
}

// HasShared reports whether userID is in the post's shared set.
func (p *Post) HasShared(userID string) bool {
	return contains(p.SharedBy, userID)
}

// Engagement is the sum of likes, saves and comments on the post.
func (p *Post) Engagement() int {
	return len(p.Likes) + len(p.SavedBy) + len(p.Comments)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// UpdatePostRequest defines the mutable fields of a post
type UpdatePostRequest struct {
	Title    string `json:"title,omitempty" validate:"omitempty,min=1,max=120"`
	Content  string `json:"content,omitempty" validate:"omitempty,min=1,max=2000"`
	PostType string `json:"postType,omitempty"`
}
