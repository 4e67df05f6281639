package model

import "time"

const (
	StatusPending  = "PENDING"
	StatusResolved = "RESOLVED"
	StatusHidden   = "HIDDEN"
)

// Vote values as stored in doubt_votes.value.
const (
	VoteUp   int8 = 1
	VoteDown int8 = -1
	VoteNone int8 = 0
)

type Doubt struct {
	ID            uint64    `gorm:"primaryKey"`
	Title         string    `gorm:"size:200;not null"`
	Description   string    `gorm:"type:text;not null"`
	Tags          []string  `gorm:"serializer:json"`
	AuthorID      uint64    `gorm:"not null;index:idx_author_time"`
	Attachments   []string  `gorm:"serializer:json"`
	Status        string    `gorm:"size:16;not null;default:'PENDING';index"`
	Views         int64     `gorm:"not null;default:0"`
	UpvoteCount   int64     `gorm:"not null;default:0"`
	DownvoteCount int64     `gorm:"not null;default:0"`
	VoteTotal     int64     `gorm:"not null;default:0"`
	Replies       []Reply   `gorm:"foreignKey:DoubtID"`
	CreatedAt     time.Time `gorm:"index:idx_author_time"`
	UpdatedAt     time.Time
}

type Reply struct {
	ID         uint64 `gorm:"primaryKey"`
	DoubtID    uint64 `gorm:"not null;index"`
	AuthorID   uint64 `gorm:"not null;index"`
	Message    string `gorm:"type:text;not null"`
	Attachment string `gorm:"size:255"`
	Approved   bool   `gorm:"not null;default:false"`
	CreatedAt  time.Time
}

// DoubtVote is the source of truth for the per-doubt vote sets, one row per
// user per doubt. Value is +1 (up) or -1 (down); a retracted vote has no row.
type DoubtVote struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	DoubtID   uint64 `gorm:"not null;index;uniqueIndex:uk_doubt_user"`
	UserID    uint64 `gorm:"not null;index;uniqueIndex:uk_doubt_user"`
	Value     int8   `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (DoubtVote) TableName() string {
	return "doubt_votes"
}

// VoteCounts is the tally returned by every vote mutation.
type VoteCounts struct {
	VoteTotal int64 `json:"vote_total"`
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
}

// DoubtRef is the slim projection returned by the duplicate detector.
type DoubtRef struct {
	ID    uint64 `json:"id"`
	Title string `json:"title"`
}

// DashboardStats is the read-only aggregate for the dashboard page.
type DashboardStats struct {
	Total    int64 `json:"total"`
	Resolved int64 `json:"resolved"`
	Pending  int64 `json:"pending"`
}

// NextVote decides the stored vote value after a user requests `requested`
// while holding `existing`. Repeating a vote retracts it; the opposite vote
// replaces it. Called inside the vote transaction.
func NextVote(existing, requested int8) int8 {
	if existing == requested {
		return VoteNone
	}
	return requested
}

// ComputeVoteTotal is the single place the derived total is produced, invoked
// at the same transaction boundary as the vote-set mutation.
func ComputeVoteTotal(upvotes, downvotes int64) int64 {
	return upvotes - downvotes
}

// DeriveStatus recomputes a doubt's resolution state from its reply set.
// HIDDEN is a moderation state and is never derived here.
func DeriveStatus(replies []Reply) string {
	for i := range replies {
		if replies[i].Approved {
			return StatusResolved
		}
	}
	return StatusPending
}
