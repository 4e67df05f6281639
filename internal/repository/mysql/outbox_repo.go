package mysql

import (
	"context"

	"Doubts_Clearance/internal/model"

	"gorm.io/gorm"
)

type OutboxRepository struct {
	DB *gorm.DB
}

// ListPending fetches unsent event rows oldest first.
func (r *OutboxRepository) ListPending(ctx context.Context, batchSize int) ([]model.DoubtOutbox, error) {
	var list []model.DoubtOutbox
	err := r.DB.WithContext(ctx).
		Where("status = 0").
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error
	return list, err
}

func (r *OutboxRepository) MarkSent(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.DoubtOutbox{}).
		Where("id = ?", id).
		Update("status", 1).Error
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.DoubtOutbox{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": 2, "retry": gorm.Expr("retry + 1")}).Error
}

// InsertUserEvent records an event that is not tied to a doubt (suspension).
func (r *OutboxRepository) InsertUserEvent(ctx context.Context, event string, userID, actorID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return insertOutbox(tx, event, 0, actorID, map[string]any{"user_id": userID})
	})
}
