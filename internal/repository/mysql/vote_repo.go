package mysql

import (
	"context"
	"errors"

	"Doubts_Clearance/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VoteRepository struct {
	DB *gorm.DB
}

// Apply performs the toggle-exclusive vote mutation as one atomic unit: the
// doubt row is locked FOR UPDATE to serialize concurrent votes on the same
// doubt, the vote row is mutated per model.NextVote, both sides are recounted
// from the vote table, and the derived total lands on the doubt in the same
// transaction together with the outbox event.
func (r *VoteRepository) Apply(ctx context.Context, doubtID, userID uint64, requested int8) (model.VoteOutcome, error) {
	var out model.VoteOutcome
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doubt model.Doubt
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&doubt, doubtID).Error; err != nil {
			return err
		}
		out.DoubtAuthorID = doubt.AuthorID

		existing := model.VoteNone
		var vote model.DoubtVote
		err := tx.Where("doubt_id = ? AND user_id = ?", doubtID, userID).First(&vote).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil {
			existing = vote.Value
		}

		next := model.NextVote(existing, requested)
		switch {
		case next == model.VoteNone && existing != model.VoteNone:
			if err := tx.Delete(&model.DoubtVote{}, vote.ID).Error; err != nil {
				return err
			}
		case existing == model.VoteNone:
			if err := tx.Create(&model.DoubtVote{
				DoubtID: doubtID,
				UserID:  userID,
				Value:   next,
			}).Error; err != nil {
				return err
			}
		default:
			if err := tx.Model(&model.DoubtVote{}).
				Where("id = ?", vote.ID).
				Update("value", next).Error; err != nil {
				return err
			}
		}

		out.Value = next
		out.ReputationDelta = model.VoteReputationDelta(existing, next)

		up, down, err := countVotes(tx, doubtID)
		if err != nil {
			return err
		}
		out.Counts = model.VoteCounts{
			VoteTotal: model.ComputeVoteTotal(up, down),
			Upvotes:   up,
			Downvotes: down,
		}
		if err := tx.Model(&model.Doubt{}).
			Where("id = ?", doubtID).
			UpdateColumns(map[string]any{
				"upvote_count":   up,
				"downvote_count": down,
				"vote_total":     out.Counts.VoteTotal,
			}).Error; err != nil {
			return err
		}

		return insertOutbox(tx, model.EventDoubtVoted, doubtID, userID, map[string]any{
			"value":      next,
			"vote_total": out.Counts.VoteTotal,
		})
	})
	return out, err
}

// Find returns the user's stored vote on a doubt, VoteNone when no row
// exists.
func (r *VoteRepository) Find(ctx context.Context, doubtID, userID uint64) (int8, error) {
	var vote model.DoubtVote
	err := r.DB.WithContext(ctx).
		Where("doubt_id = ? AND user_id = ?", doubtID, userID).
		First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.VoteNone, nil
	}
	if err != nil {
		return model.VoteNone, err
	}
	return vote.Value, nil
}

// Total reads the doubt's stored vote total.
func (r *VoteRepository) Total(ctx context.Context, doubtID uint64) (int64, error) {
	var doubt model.Doubt
	err := r.DB.WithContext(ctx).Select("vote_total").First(&doubt, doubtID).Error
	return doubt.VoteTotal, err
}

func countVotes(tx *gorm.DB, doubtID uint64) (up, down int64, err error) {
	if err = tx.Model(&model.DoubtVote{}).
		Where("doubt_id = ? AND value = ?", doubtID, model.VoteUp).
		Count(&up).Error; err != nil {
		return
	}
	err = tx.Model(&model.DoubtVote{}).
		Where("doubt_id = ? AND value = ?", doubtID, model.VoteDown).
		Count(&down).Error
	return
}
