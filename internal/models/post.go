package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a status message stored in MongoDB
type Post struct {
	ID            primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	GUID          string             `json:"guid" bson:"guid"`
	AuthorID      uint               `json:"-" bson:"author_id"` // Person ID of the author
	Text          string             `json:"body" bson:"text"`
	Public        bool               `json:"public" bson:"public"`
	AspectIDs     []uint             `json:"-" bson:"aspect_ids,omitempty"`
	PhotoGUIDs    []string           `json:"-" bson:"photo_guids,omitempty"`
	LikesCount    int                `json:"likes_count" bson:"likes_count"`
	CommentsCount int                `json:"comments_count" bson:"comments_count"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Body      string   `json:"body" validate:"required_without=Photos,max=65535"`
	Public    bool     `json:"public"`
	AspectIDs []uint   `json:"aspect_ids,omitempty"`
	Photos    []string `json:"photos,omitempty" validate:"omitempty,dive,required"`
}
