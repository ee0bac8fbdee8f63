package services

import (
	"context"

	"github.com/mindwell/apiserver/types"
)

// JournalRepository defines persistence operations for journal entries.
type JournalRepository interface {
	Create(ctx context.Context, entry types.JournalEntry) (types.JournalEntry, error)
	ListByUser(ctx context.Context, userID string) ([]types.JournalEntry, error)
	Update(ctx context.Context, entry types.JournalEntry) (types.JournalEntry, error)
	Delete(ctx context.Context, id int) error
}

// JournalService encapsulates journal use-cases.
type JournalService struct {
	repo JournalRepository
}

func NewJournalService(repo JournalRepository) *JournalService {
	return &JournalService{repo: repo}
}

func (s *JournalService) Create(ctx context.Context, entry types.JournalEntry) (types.JournalEntry, error) {
	return s.repo.Create(ctx, entry)
}

func (s *JournalService) ListByUser(ctx context.Context, userID string) ([]types.JournalEntry, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *JournalService) Update(ctx context.Context, entry types.JournalEntry) (types.JournalEntry, error) {
	return s.repo.Update(ctx, entry)
}

func (s *JournalService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
