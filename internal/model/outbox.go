package model

import "time"

// Event types published on the doubt event stream.
const (
	EventDoubtCreated    = "doubt.created"
	EventDoubtVoted      = "doubt.voted"
	EventReplyAdded      = "reply.added"
	EventReplyApproved   = "reply.approved"
	EventReplyUnapproved = "reply.unapproved"
	EventDoubtHidden     = "doubt.hidden"
	EventDoubtDeleted    = "doubt.deleted"
	EventUserSuspended   = "user.suspended"
)

// DoubtOutbox rows are written in the same transaction as the mutation they
// describe and drained to kafka after commit.
type DoubtOutbox struct {
	ID        uint64 `gorm:"primaryKey"`
	EventType string `gorm:"size:32;not null"`
	DoubtID   uint64 `gorm:"not null;index"`
	ActorID   uint64 `gorm:"not null"`
	Payload   string `gorm:"type:json;not null"`
	Status    int8   `gorm:"not null;default:0"` // 0=pending 1=sent 2=failed
	Retry     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (DoubtOutbox) TableName() string { return "doubt_outbox" }

// ReputationEvent records every reputation adjustment applied to a user.
type ReputationEvent struct {
	ID        uint64 `gorm:"primaryKey"`
	UserID    uint64 `gorm:"not null;index"`
	Delta     int64  `gorm:"not null"`
	Reason    string `gorm:"size:32;not null"`
	CreatedAt time.Time
}
