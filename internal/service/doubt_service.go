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

const (
	duplicateLimit = 5
	recentLimit    = 5
)

// DoubtService orchestrates the doubt lifecycle: creation, browsing, the
// dashboard aggregate and the duplicate pre-check.
type DoubtService struct {
	doubts DoubtStore
	events *EventDrainer
	logger *zap.Logger
}

func NewDoubtService(doubts DoubtStore, events *EventDrainer, logger *zap.Logger) *DoubtService {
	return &DoubtService{doubts: doubts, events: events, logger: logger}
}

// Create validates and persists a new doubt in the PENDING state with empty
// vote sets and replies. The duplicate check is a separate, optional
// pre-check the caller may run first.
func (s *DoubtService) Create(ctx context.Context, authorID uint64, title, description string, tags, attachments []string) (*model.Doubt, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" || description == "" {
		return nil, apperr.Validation("title and description are required")
	}

	doubt := &model.Doubt{
		Title:       title,
		Description: description,
		Tags:        tags,
		AuthorID:    authorID,
		Attachments: attachments,
		Status:      model.StatusPending,
	}
	if err := s.doubts.Create(ctx, doubt); err != nil {
		return nil, err
	}

	s.events.Drain(ctx)
	return doubt, nil
}

// ListAll returns doubts newest first; hidden doubts only for admins.
func (s *DoubtService) ListAll(ctx context.Context, role string) ([]model.Doubt, error) {
	return s.doubts.ListAll(ctx, role == model.RoleAdmin)
}

func (s *DoubtService) ListMine(ctx context.Context, authorID uint64) ([]model.Doubt, error) {
	return s.doubts.ListByAuthor(ctx, authorID)
}

// Get fetches a single doubt and bumps the view counter. The bump is
// best-effort: concurrent readers may coalesce.
func (s *DoubtService) Get(ctx context.Context, id uint64) (*model.Doubt, error) {
	doubt, err := s.doubts.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("doubt not found")
	}
	if err != nil {
		return nil, err
	}
	if err := s.doubts.IncrementViews(ctx, id); err != nil {
		s.logger.Warn("view bump failed", zap.Uint64("doubt_id", id), zap.Error(err))
	} else {
		doubt.Views++
	}
	return doubt, nil
}

// FindSimilar is the duplicate pre-check: a soft warning, never a blocker.
// Detector failures degrade to an empty result so creation can proceed.
func (s *DoubtService) FindSimilar(ctx context.Context, title string) []model.DoubtRef {
	if strings.TrimSpace(title) == "" {
		return nil
	}
	refs, err := s.doubts.FindSimilar(ctx, title, duplicateLimit)
	if err != nil {
		s.logger.Warn("duplicate check failed", zap.Error(err))
		return nil
	}
	return refs
}

// Dashboard is the read-only aggregate for the landing page, recomputed on
// every call.
type Dashboard struct {
	Stats  model.DashboardStats `json:"stats"`
	Recent []model.Doubt        `json:"recent"`
}

func (s *DoubtService) Dashboard(ctx context.Context) (*Dashboard, error) {
	stats, err := s.doubts.Stats(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.doubts.Recent(ctx, recentLimit)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Stats: stats, Recent: recent}, nil
}
