package service

import (
	"context"
	"errors"
	"strings"

	"Doubts_Clearance/internal/apperr"
	"Doubts_Clearance/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Capability names the authority under which an approval toggle runs. Owner
// and moderator share one code path so the at-most-one-approved invariant is
// enforced identically for both.
type Capability int

const (
	CapabilityOwnerApprove Capability = iota + 1
	CapabilityAdminModerate
)

// ReplyService manages reply submission and the approve/unapprove state
// machine that derives a doubt's resolution status.
type ReplyService struct {
	replies    ReplyStore
	doubts     DoubtStore
	users      UserStore
	reputation ReputationStore
	notifier   Notifier
	events     *EventDrainer
	logger     *zap.Logger
}

func NewReplyService(replies ReplyStore, doubts DoubtStore, users UserStore, reputation ReputationStore, notifier Notifier, events *EventDrainer, logger *zap.Logger) *ReplyService {
	return &ReplyService{
		replies:    replies,
		doubts:     doubts,
		users:      users,
		reputation: reputation,
		notifier:   notifier,
		events:     events,
		logger:     logger,
	}
}

// Add appends a reply to a doubt. Any active user may reply, including the
// doubt's own author; suspended accounts are rejected at the middleware.
func (s *ReplyService) Add(ctx context.Context, doubtID, authorID uint64, message, attachment string) ([]model.Reply, error) {
	if doubtID == 0 || authorID == 0 {
		return nil, apperr.Validation("invalid id")
	}
	if strings.TrimSpace(message) == "" {
		return nil, apperr.Validation("message is required")
	}

	reply := &model.Reply{
		DoubtID:    doubtID,
		AuthorID:   authorID,
		Message:    strings.TrimSpace(message),
		Attachment: attachment,
	}
	replies, err := s.replies.Append(ctx, reply)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("doubt not found")
	}
	if err != nil {
		return nil, err
	}

	s.events.Drain(ctx)
	return replies, nil
}

// SetApproval toggles approval on a reply. Approving marks the doubt
// RESOLVED and clears every sibling; re-approving an approved reply reverts
// it and the status is re-derived from the reply set.
func (s *ReplyService) SetApproval(ctx context.Context, doubtID, replyID, actorID uint64, capability Capability) (*model.Doubt, error) {
	doubt, err := s.doubts.FindByID(ctx, doubtID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("doubt not found")
	}
	if err != nil {
		return nil, err
	}

	switch capability {
	case CapabilityOwnerApprove:
		if doubt.AuthorID != actorID {
			return nil, apperr.Forbidden("only the doubt author can approve a reply")
		}
	case CapabilityAdminModerate:
		// moderator authority checked at the route
	default:
		return nil, apperr.Forbidden("missing approval capability")
	}

	out, err := s.replies.SetApproval(ctx, doubtID, replyID, actorID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("reply not found")
	}
	if err != nil {
		return nil, err
	}

	delta := model.RepApproval
	if !out.Approved {
		delta = -model.RepApproval
	}
	if err := s.reputation.Adjust(ctx, out.ReplyAuthorID, delta, model.RepReasonApproval); err != nil {
		s.logger.Warn("reputation adjust failed",
			zap.Uint64("user_id", out.ReplyAuthorID),
			zap.Error(err))
	}

	if out.Approved {
		s.notifyApproval(ctx, out.ReplyAuthorID, out.Doubt.Title)
	}

	s.events.Drain(ctx)
	return out.Doubt, nil
}

func (s *ReplyService) notifyApproval(ctx context.Context, replyAuthorID uint64, doubtTitle string) {
	if s.notifier == nil {
		return
	}
	author, err := s.users.FindByID(ctx, replyAuthorID)
	if err != nil {
		s.logger.Warn("approval notify lookup failed", zap.Uint64("user_id", replyAuthorID), zap.Error(err))
		return
	}
	if err := s.notifier.ReplyApproved(ctx, author.Email, doubtTitle); err != nil {
		s.logger.Warn("approval notify failed", zap.String("to", author.Email), zap.Error(err))
	}
}
