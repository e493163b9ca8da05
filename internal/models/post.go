package models

import "time"

// Post represents a single feed entry stored in the posts collection.
// Posts are immutable once created: there is no edit or delete path.
type Post struct {
	ID        string    `json:"id" firestore:"-"`
	ImageURL  string    `json:"imageUrl" firestore:"imageUrl"`
	Caption   string    `json:"caption" firestore:"caption"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

// CreatePostRequest defines the multipart form fields for creating a post.
// The image itself arrives as a separate file part.
type CreatePostRequest struct {
	Caption string `json:"caption" form:"caption" validate:"required,min=1,max=500"`
}
