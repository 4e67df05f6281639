package mysql

import (
	"context"

	"Doubts_Clearance/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReplyRepository struct {
	DB *gorm.DB
}

// Append adds a reply to a doubt and returns the full ordered reply list.
func (r *ReplyRepository) Append(ctx context.Context, reply *model.Reply) ([]model.Reply, error) {
	var replies []model.Reply
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doubt model.Doubt
		if err := tx.Select("id").First(&doubt, reply.DoubtID).Error; err != nil {
			return err
		}
		if err := tx.Create(reply).Error; err != nil {
			return err
		}
		if err := tx.Where("doubt_id = ?", reply.DoubtID).
			Order("created_at ASC, id ASC").
			Find(&replies).Error; err != nil {
			return err
		}
		return insertOutbox(tx, model.EventReplyAdded, reply.DoubtID, reply.AuthorID,
			map[string]any{"reply_id": reply.ID})
	})
	return replies, err
}

// SetApproval toggles approval on the target reply under the doubt's row
// lock: approving zeroes every sibling first (at most one approved), while
// re-approving an approved reply clears it. The doubt status is re-derived
// from the reply set before the transaction commits, so concurrent approvals
// can never leave two replies approved or a stale status behind.
func (r *ReplyRepository) SetApproval(ctx context.Context, doubtID, replyID, actorID uint64) (model.ApprovalOutcome, error) {
	var out model.ApprovalOutcome
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doubt model.Doubt
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&doubt, doubtID).Error; err != nil {
			return err
		}

		var target model.Reply
		if err := tx.Where("id = ? AND doubt_id = ?", replyID, doubtID).
			First(&target).Error; err != nil {
			return err
		}
		out.ReplyAuthorID = target.AuthorID

		if target.Approved {
			// Unapprove toggle.
			if err := tx.Model(&model.Reply{}).
				Where("id = ?", target.ID).
				Update("approved", false).Error; err != nil {
				return err
			}
			out.Approved = false
		} else {
			if err := tx.Model(&model.Reply{}).
				Where("doubt_id = ? AND approved = ?", doubtID, true).
				Update("approved", false).Error; err != nil {
				return err
			}
			if err := tx.Model(&model.Reply{}).
				Where("id = ?", target.ID).
				Update("approved", true).Error; err != nil {
				return err
			}
			out.Approved = true
		}

		var replies []model.Reply
		if err := tx.Where("doubt_id = ?", doubtID).
			Order("created_at ASC, id ASC").
			Find(&replies).Error; err != nil {
			return err
		}
		status := model.DeriveStatus(replies)
		if doubt.Status == model.StatusHidden {
			// Moderation state survives approval toggles.
			status = model.StatusHidden
		}
		if err := tx.Model(&model.Doubt{}).
			Where("id = ?", doubtID).
			Update("status", status).Error; err != nil {
			return err
		}

		doubt.Status = status
		doubt.Replies = replies
		out.Doubt = &doubt

		event := model.EventReplyUnapproved
		if out.Approved {
			event = model.EventReplyApproved
		}
		return insertOutbox(tx, event, doubtID, actorID, map[string]any{"reply_id": replyID})
	})
	return out, err
}

func (r *ReplyRepository) ListByDoubt(ctx context.Context, doubtID uint64) ([]model.Reply, error) {
	var replies []model.Reply
	err := r.DB.WithContext(ctx).
		Where("doubt_id = ?", doubtID).
		Order("created_at ASC, id ASC").
		Find(&replies).Error
	return replies, err
}
