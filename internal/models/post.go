package models

import "time"

// Schema is the Postgres namespace holding every table of the service.
const Schema = "compass"

// Post is a forum post owned by the user that created it.
type Post struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Title         string    `json:"title" gorm:"not null"`
	Content       string    `json:"content" gorm:"not null"`
	Tag           bool      `json:"tag" gorm:"not null;default:false"` // creator's is_native at creation time
	CreatedAt     time.Time `json:"createdAt" gorm:"type:timestamptz;not null;default:now()"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt" gorm:"type:timestamptz;not null;default:now()"`
	CreatedBy     uint      `json:"createdBy" gorm:"not null;index"`

	Creator *User `json:"-" gorm:"foreignKey:CreatedBy"`
}

func (Post) TableName() string { return Schema + ".posts" }

// PostWithTally is a post as returned by every read path.
type PostWithTally struct {
	Post
	VoteTally
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// UpdatePostRequest defines the request body for editing a post. At least
// one field must be non-empty.
type UpdatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
