package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"Doubts_Clearance/internal/apperr"
	"Doubts_Clearance/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// VoteService is the sole mutator of the per-doubt vote sets.
type VoteService struct {
	votes      VoteStore
	reputation ReputationStore
	cache      VoteCache
	lock       Locker
	events     *EventDrainer
	logger     *zap.Logger
}

func NewVoteService(votes VoteStore, reputation ReputationStore, cache VoteCache, lock Locker, events *EventDrainer, logger *zap.Logger) *VoteService {
	return &VoteService{
		votes:      votes,
		reputation: reputation,
		cache:      cache,
		lock:       lock,
		events:     events,
		logger:     logger,
	}
}

// ParseVoteType maps the boundary vote type to the stored value.
func ParseVoteType(voteType string) (int8, error) {
	switch strings.ToUpper(strings.TrimSpace(voteType)) {
	case "UP":
		return model.VoteUp, nil
	case "DOWN":
		return model.VoteDown, nil
	default:
		return model.VoteNone, apperr.Validation("vote type must be UP or DOWN")
	}
}

// Apply casts, switches or retracts a vote with toggle-exclusive semantics
// and returns the fresh tally. The durable mutation is atomic; cache,
// reputation and event work run best-effort afterwards.
func (s *VoteService) Apply(ctx context.Context, doubtID, userID uint64, voteType string) (model.VoteCounts, error) {
	if doubtID == 0 || userID == 0 {
		return model.VoteCounts{}, apperr.Validation("invalid id")
	}
	requested, err := ParseVoteType(voteType)
	if err != nil {
		return model.VoteCounts{}, err
	}

	out, err := s.votes.Apply(ctx, doubtID, userID, requested)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.VoteCounts{}, apperr.NotFound("doubt not found")
	}
	if err != nil {
		return model.VoteCounts{}, err
	}

	s.maintainCache(ctx, doubtID, userID, out)

	if out.ReputationDelta != 0 {
		if err := s.reputation.Adjust(ctx, out.DoubtAuthorID, out.ReputationDelta, model.RepReasonVote); err != nil {
			s.logger.Warn("reputation adjust failed",
				zap.Uint64("user_id", out.DoubtAuthorID),
				zap.Error(err))
		}
	}

	s.events.Drain(ctx)
	return out.Counts, nil
}

// CallerVote reports the user's current vote on a doubt. Reads go cache-first
// against the member sets; on a miss the vote row is read from MySQL and
// backfilled lazily.
func (s *VoteService) CallerVote(ctx context.Context, doubtID, userID uint64) (int8, error) {
	if s.cache != nil {
		if value, hit, err := s.cache.VotedCached(ctx, doubtID, userID); err == nil && hit {
			return value, nil
		}
	}
	value, err := s.votes.Find(ctx, doubtID, userID)
	if err != nil {
		return model.VoteNone, err
	}
	if s.cache != nil {
		s.cache.WarmVoted(ctx, doubtID, userID, value)
	}
	return value, nil
}

// Total reads the doubt's vote total cache-first, refilling the count key
// from the stored total on a miss.
func (s *VoteService) Total(ctx context.Context, doubtID uint64) (int64, error) {
	if s.cache != nil {
		if total, hit, err := s.cache.GetTotalCached(ctx, doubtID); err == nil && hit {
			return total, nil
		}
	}
	total, err := s.votes.Total(ctx, doubtID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, apperr.NotFound("doubt not found")
	}
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		if err := s.cache.SetTotal(ctx, doubtID, total); err != nil {
			s.logger.Warn("vote total backfill failed", zap.Uint64("doubt_id", doubtID), zap.Error(err))
		}
	}
	return total, nil
}

// maintainCache mirrors the committed transition into redis. The member sets
// update directly; the cached total is only overwritten under the per-doubt
// lock, otherwise it is dropped and rebuilt lazily on the next read.
func (s *VoteService) maintainCache(ctx context.Context, doubtID, userID uint64, out model.VoteOutcome) {
	if s.cache == nil {
		return
	}
	if err := s.cache.ApplyVote(ctx, doubtID, userID, out.Value); err != nil {
		s.logger.Warn("vote cache update failed", zap.Uint64("doubt_id", doubtID), zap.Error(err))
	}

	if s.lock == nil {
		_ = s.cache.DeleteTotal(ctx, doubtID)
		return
	}
	token := fmt.Sprintf("%d-%d-%d", userID, doubtID, time.Now().UnixNano())
	got, _ := s.lock.Acquire(ctx, doubtID, token)
	if got {
		defer func() { _ = s.lock.Release(ctx, doubtID, token) }()
		if err := s.cache.SetTotal(ctx, doubtID, out.Counts.VoteTotal); err != nil {
			_ = s.cache.DeleteTotal(ctx, doubtID)
		}
		return
	}
	// Contended: drop the total and let the read side rebuild it.
	_ = s.cache.DeleteTotal(ctx, doubtID)
}
