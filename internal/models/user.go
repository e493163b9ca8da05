package models

import "time"

// Profile represents the demo user's public identity stored in the
// users collection. The document id is the external user identifier.
type Profile struct {
	ID        string    `json:"id" firestore:"-"`
	Name      string    `json:"name" firestore:"name"`
	Bio       string    `json:"bio" firestore:"bio"`
	PhotoURL  *string   `json:"photoURL" firestore:"photoURL"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// SaveProfileRequest defines the multipart form fields for saving the
// profile. A new photo, when selected, arrives as a separate file part.
type SaveProfileRequest struct {
	Name string `json:"name" form:"name" validate:"required,min=1,max=100"`
	Bio  string `json:"bio" form:"bio" validate:"max=200"`
}
