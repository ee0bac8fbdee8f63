package services

import (
	"context"

	"github.com/mindwell/apiserver/types"
)

// TipRepository defines read operations for daily tips.
type TipRepository interface {
	Count(ctx context.Context, category string) (int, error)
	List(ctx context.Context, category string, offset, limit int) ([]types.DailyTip, error)
	ListRandom(ctx context.Context, category string, limit int) ([]types.DailyTip, error)
	Get(ctx context.Context, id int) (types.DailyTip, error)
	Categories(ctx context.Context) ([]string, error)
}

// TipService encapsulates daily-tip use-cases.
type TipService struct {
	repo TipRepository
}

func NewTipService(repo TipRepository) *TipService {
	return &TipService{repo: repo}
}

func (s *TipService) Count(ctx context.Context, category string) (int, error) {
	return s.repo.Count(ctx, category)
}

// List returns one page of tips. Random mode ignores the offset and
// samples the filtered set instead.
func (s *TipService) List(ctx context.Context, category string, random bool, offset, limit int) ([]types.DailyTip, error) {
	if random {
		return s.repo.ListRandom(ctx, category, limit)
	}
	return s.repo.List(ctx, category, offset, limit)
}

func (s *TipService) Get(ctx context.Context, id int) (types.DailyTip, error) {
	return s.repo.Get(ctx, id)
}

func (s *TipService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}
