package mysql

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"Doubts_Clearance/internal/model"

	"gorm.io/gorm"
)

type DoubtRepository struct {
	DB *gorm.DB
}

func (r *DoubtRepository) Create(ctx context.Context, doubt *model.Doubt) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(doubt).Error; err != nil {
			return err
		}
		return insertOutbox(tx, model.EventDoubtCreated, doubt.ID, doubt.AuthorID, map[string]any{
			"title": doubt.Title,
		})
	})
}

func (r *DoubtRepository) FindByID(ctx context.Context, id uint64) (*model.Doubt, error) {
	var doubt model.Doubt
	err := r.DB.WithContext(ctx).
		Preload("Replies", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		First(&doubt, id).Error
	return &doubt, err
}

// IncrementViews bumps the view counter. Best-effort; concurrent readers may
// coalesce and that is acceptable.
func (r *DoubtRepository) IncrementViews(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.Doubt{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// ListAll returns doubts newest first. Hidden doubts are only visible when
// includeHidden is set (admin view).
func (r *DoubtRepository) ListAll(ctx context.Context, includeHidden bool) ([]model.Doubt, error) {
	q := r.DB.WithContext(ctx).Preload("Replies")
	if !includeHidden {
		q = q.Where("status <> ?", model.StatusHidden)
	}
	var list []model.Doubt
	err := q.Order("created_at DESC, id DESC").Find(&list).Error
	return list, err
}

func (r *DoubtRepository) ListByAuthor(ctx context.Context, authorID uint64) ([]model.Doubt, error) {
	var list []model.Doubt
	err := r.DB.WithContext(ctx).Preload("Replies").
		Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC").
		Find(&list).Error
	return list, err
}

// FindSimilar is the duplicate pre-check: case-insensitive substring match on
// the title, newest first. A cheap heuristic, not a guarantee.
func (r *DoubtRepository) FindSimilar(ctx context.Context, title string, limit int) ([]model.DoubtRef, error) {
	var refs []model.DoubtRef
	err := r.DB.WithContext(ctx).Model(&model.Doubt{}).
		Select("id", "title").
		Where("LOWER(title) LIKE ?", "%"+lowerPattern(title)+"%").
		Where("status <> ?", model.StatusHidden).
		Order("created_at DESC").
		Limit(limit).
		Find(&refs).Error
	return refs, err
}

// Stats counts doubts per resolution state for the dashboard.
func (r *DoubtRepository) Stats(ctx context.Context) (model.DashboardStats, error) {
	var stats model.DashboardStats
	type row struct {
		Status string
		N      int64
	}
	var rows []row
	err := r.DB.WithContext(ctx).Model(&model.Doubt{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return stats, err
	}
	for _, rw := range rows {
		stats.Total += rw.N
		switch rw.Status {
		case model.StatusResolved:
			stats.Resolved = rw.N
		case model.StatusPending:
			stats.Pending = rw.N
		}
	}
	return stats, nil
}

func (r *DoubtRepository) Recent(ctx context.Context, n int) ([]model.Doubt, error) {
	var list []model.Doubt
	err := r.DB.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(n).
		Find(&list).Error
	return list, err
}

// Hide parks the doubt in the moderation state.
func (r *DoubtRepository) Hide(ctx context.Context, id, actorID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Doubt{}).Where("id = ?", id).Update("status", model.StatusHidden)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return insertOutbox(tx, model.EventDoubtHidden, id, actorID, nil)
	})
}

// Delete hard-deletes a doubt with its replies and votes in one transaction.
func (r *DoubtRepository) Delete(ctx context.Context, id, actorID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Doubt{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("doubt_id = ?", id).Delete(&model.Reply{}).Error; err != nil {
			return err
		}
		if err := tx.Where("doubt_id = ?", id).Delete(&model.DoubtVote{}).Error; err != nil {
			return err
		}
		return insertOutbox(tx, model.EventDoubtDeleted, id, actorID, nil)
	})
}

// lowerPattern lowercases the candidate title and escapes LIKE wildcards so
// user input can't widen the match.
func lowerPattern(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// insertOutbox appends an event row inside the caller's transaction.
func insertOutbox(tx *gorm.DB, event string, doubtID, actorID uint64, extra map[string]any) error {
	body := map[string]any{
		"event_time": time.Now().UTC().Format(time.RFC3339Nano),
		"doubt_id":   doubtID,
		"actor_id":   actorID,
	}
	for k, v := range extra {
		body[k] = v
	}
	payload, _ := json.Marshal(body)
	return tx.Create(&model.DoubtOutbox{
		EventType: event,
		DoubtID:   doubtID,
		ActorID:   actorID,
		Payload:   string(payload),
		Status:    0,
	}).Error
}
