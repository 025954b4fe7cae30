package models

import "time"

// User is the local record of a synced external identity.
type User struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"not null"`
	Email      string    `json:"email" gorm:"not null;uniqueIndex"`
	ExternalID string    `json:"externalId" gorm:"column:external_id;not null;uniqueIndex"` // identity provider uid
	IsNative   bool      `json:"isNative" gorm:"not null;default:false"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (User) TableName() string { return Schema + ".users" }

// SyncUserRequest is the body of POST /user/sync. Both fields are optional.
type SyncUserRequest struct {
	Username string `json:"username" validate:"omitempty,max=100"`
	IsNative *bool  `json:"isNative"`
}

// ProfileResponse merges the identity provider's profile with the local row.
type ProfileResponse struct {
	UserID    string    `json:"userId"`
	LocalID   *uint     `json:"localId,omitempty"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	IsNative  bool      `json:"isNative"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
