package models

import "time"

type VoteType string

const (
	VoteUp   VoteType = "UP"
	VoteDown VoteType = "DOWN"
)

// Valid reports whether t is one of the accepted vote types.
func (t VoteType) Valid() bool {
	return t == VoteUp || t == VoteDown
}

// Vote is a user's single vote on a post. (post_id, voted_by) is unique.
type Vote struct {
	ID      uint      `json:"id" gorm:"primaryKey"`
	PostID  uint      `json:"postId" gorm:"not null;uniqueIndex:unique_vote_constraint"`
	VotedBy uint      `json:"votedBy" gorm:"not null;uniqueIndex:unique_vote_constraint"`
	Type    VoteType  `json:"type" gorm:"column:vote_type;type:text;not null;check:vote_type_check,vote_type IN ('UP','DOWN')"`
	VotedAt time.Time `json:"votedAt" gorm:"type:timestamptz;not null;default:now()"`

	Post  *Post `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	Voter *User `json:"-" gorm:"foreignKey:VotedBy"`
}

func (Vote) TableName() string { return Schema + ".votes" }

// VoteTally is the derived up/down count of a post.
type VoteTally struct {
	PostID        uint  `json:"-"`
	UpvoteCount   int64 `json:"upvoteCount"`
	DownvoteCount int64 `json:"downvoteCount"`
}

// CastVoteRequest is the body of POST /vote/:postId.
type CastVoteRequest struct {
	VoteType VoteType `json:"voteType" validate:"required,oneof=UP DOWN"`
}
