package service

import (
	"context"
	"errors"

	"Doubts_Clearance/internal/apperr"
	"Doubts_Clearance/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Doubt actions a moderator may request.
const (
	ActionApprove = "approve"
	ActionHide    = "hide"
	ActionDelete  = "delete"
)

// AdminService covers moderation: account suspension and doubt actions.
// Approval goes through the same state-machine entry point as the owner path
// so both enforce the same invariants.
type AdminService struct {
	users    UserStore
	doubts   DoubtStore
	replies  *ReplyService
	sessions SessionStore
	outbox   OutboxStore
	events   *EventDrainer
	logger   *zap.Logger
}

func NewAdminService(users UserStore, doubts DoubtStore, replies *ReplyService, sessions SessionStore, outbox OutboxStore, events *EventDrainer, logger *zap.Logger) *AdminService {
	return &AdminService{
		users:    users,
		doubts:   doubts,
		replies:  replies,
		sessions: sessions,
		outbox:   outbox,
		events:   events,
		logger:   logger,
	}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.users.ListAll(ctx)
}

// ToggleUserStatus flips a user between ACTIVE and SUSPENDED. Suspension
// also tears down the live session.
func (s *AdminService) ToggleUserStatus(ctx context.Context, userID, actorID uint64) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}

	next := model.UserSuspended
	if user.IsSuspended() {
		next = model.UserActive
	}
	if err := s.users.SetStatus(ctx, userID, next); err != nil {
		return nil, err
	}
	user.Status = next

	if next == model.UserSuspended {
		if err := s.sessions.DeleteUserToken(ctx, userID); err != nil {
			s.logger.Warn("session teardown failed", zap.Uint64("user_id", userID), zap.Error(err))
		}
		if err := s.outbox.InsertUserEvent(ctx, model.EventUserSuspended, userID, actorID); err != nil {
			s.logger.Warn("suspension event failed", zap.Uint64("user_id", userID), zap.Error(err))
		}
		s.events.Drain(ctx)
	}
	return user, nil
}

func (s *AdminService) ListDoubts(ctx context.Context) ([]model.Doubt, error) {
	return s.doubts.ListAll(ctx, true)
}

// HandleDoubtAction dispatches a moderation action on a doubt.
func (s *AdminService) HandleDoubtAction(ctx context.Context, doubtID, actorID uint64, action string, replyID uint64) (*model.Doubt, error) {
	switch action {
	case ActionApprove:
		if replyID == 0 {
			return nil, apperr.Validation("reply id is required")
		}
		return s.replies.SetApproval(ctx, doubtID, replyID, actorID, CapabilityAdminModerate)
	case ActionHide:
		if err := s.doubts.Hide(ctx, doubtID, actorID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("doubt not found")
			}
			return nil, err
		}
		s.events.Drain(ctx)
		return nil, nil
	case ActionDelete:
		if err := s.doubts.Delete(ctx, doubtID, actorID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("doubt not found")
			}
			return nil, err
		}
		s.events.Drain(ctx)
		return nil, nil
	default:
		return nil, apperr.Validation("invalid action")
	}
}
