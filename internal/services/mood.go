package services

import (
	"context"

	"github.com/mindwell/apiserver/types"
)

// MoodRepository defines persistence operations for mood records.
type MoodRepository interface {
	Create(ctx context.Context, record types.MoodRecord) (types.MoodRecord, error)
	ListByUser(ctx context.Context, userID string) ([]types.MoodRecord, error)
}

// MoodService encapsulates mood-record use-cases.
type MoodService struct {
	repo MoodRepository
}

func NewMoodService(repo MoodRepository) *MoodService {
	return &MoodService{repo: repo}
}

func (s *MoodService) Record(ctx context.Context, record types.MoodRecord) (types.MoodRecord, error) {
	return s.repo.Create(ctx, record)
}

func (s *MoodService) ListByUser(ctx context.Context, userID string) ([]types.MoodRecord, error) {
	return s.repo.ListByUser(ctx, userID)
}
