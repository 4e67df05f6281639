package mysql

import (
	"context"

	"Doubts_Clearance/internal/model"

	"gorm.io/gorm"
)

type ReputationRepository struct {
	DB *gorm.DB
}

// Adjust applies a reputation delta, clamped so reputation never goes
// negative, and records an event row for the history view.
func (r *ReputationRepository) Adjust(ctx context.Context, userID uint64, delta int64, reason string) error {
	if delta == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.User{}).
			Where("id = ?", userID).
			UpdateColumn("reputation", gorm.Expr("GREATEST(0, reputation + ?)", delta))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(&model.ReputationEvent{
			UserID: userID,
			Delta:  delta,
			Reason: reason,
		}).Error
	})
}

func (r *ReputationRepository) History(ctx context.Context, userID uint64) ([]model.ReputationEvent, error) {
	var events []model.ReputationEvent
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&events).Error
	return events, err
}
