package service

import (
	"context"
	"time"

	"Doubts_Clearance/internal/model"
)

// Store interfaces are declared where they are consumed so the invariant
// logic can be exercised against in-memory fakes. The mysql repositories are
// the production implementations.

type DoubtStore interface {
	Create(ctx context.Context, doubt *model.Doubt) error
	FindByID(ctx context.Context, id uint64) (*model.Doubt, error)
	IncrementViews(ctx context.Context, id uint64) error
	ListAll(ctx context.Context, includeHidden bool) ([]model.Doubt, error)
	ListByAuthor(ctx context.Context, authorID uint64) ([]model.Doubt, error)
	FindSimilar(ctx context.Context, title string, limit int) ([]model.DoubtRef, error)
	Stats(ctx context.Context) (model.DashboardStats, error)
	Recent(ctx context.Context, n int) ([]model.Doubt, error)
	Hide(ctx context.Context, id, actorID uint64) error
	Delete(ctx context.Context, id, actorID uint64) error
}

type VoteStore interface {
	Apply(ctx context.Context, doubtID, userID uint64, requested int8) (model.VoteOutcome, error)
	Find(ctx context.Context, doubtID, userID uint64) (int8, error)
	Total(ctx context.Context, doubtID uint64) (int64, error)
}

type ReplyStore interface {
	Append(ctx context.Context, reply *model.Reply) ([]model.Reply, error)
	SetApproval(ctx context.Context, doubtID, replyID, actorID uint64) (model.ApprovalOutcome, error)
	ListByDoubt(ctx context.Context, doubtID uint64) ([]model.Reply, error)
}

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpsertGoogle(ctx context.Context, name, email, googleID, role string) (*model.User, error)
	ListAll(ctx context.Context) ([]model.User, error)
	SetStatus(ctx context.Context, id uint64, status string) error
}

type ReputationStore interface {
	Adjust(ctx context.Context, userID uint64, delta int64, reason string) error
	History(ctx context.Context, userID uint64) ([]model.ReputationEvent, error)
}

type OutboxStore interface {
	ListPending(ctx context.Context, batchSize int) ([]model.DoubtOutbox, error)
	MarkSent(ctx context.Context, id uint64) error
	MarkFailed(ctx context.Context, id uint64) error
	InsertUserEvent(ctx context.Context, event string, userID, actorID uint64) error
}

type SessionStore interface {
	AddUserToken(ctx context.Context, userID uint64, token string) error
	GetUserToken(ctx context.Context, userID uint64) (string, error)
	ExtendUserToken(ctx context.Context, userID uint64) error
	DeleteUserToken(ctx context.Context, userID uint64) error
}

// VoteCache is the redis vote mirror; all calls are best-effort.
type VoteCache interface {
	ApplyVote(ctx context.Context, doubtID, userID uint64, value int8) error
	VotedCached(ctx context.Context, doubtID, userID uint64) (int8, bool, error)
	WarmVoted(ctx context.Context, doubtID, userID uint64, value int8)
	GetTotalCached(ctx context.Context, doubtID uint64) (int64, bool, error)
	SetTotal(ctx context.Context, doubtID uint64, total int64) error
	DeleteTotal(ctx context.Context, doubtID uint64, delay ...time.Duration) error
}

// Locker is the distributed lock guarding cached-count rebuilds.
type Locker interface {
	Acquire(ctx context.Context, doubtID uint64, token string) (bool, error)
	Release(ctx context.Context, doubtID uint64, token string) error
}

// EventSender publishes one outbox payload; the kafka producer implements it.
type EventSender interface {
	Send(ctx context.Context, key string, value []byte) error
}

// Notifier delivers best-effort user notifications.
type Notifier interface {
	ReplyApproved(ctx context.Context, to, doubtTitle string) error
}
