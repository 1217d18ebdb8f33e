package memory

import (
	"context"
	"sync"

	"quisqueya-quiz/internal/domain"
)

// ScoreStore is an in-memory, append-only implementation of app.ScoreStore.
type ScoreStore struct {
	mu      sync.RWMutex
	results []domain.RoundResult
}

func NewScoreStore() *ScoreStore {
	return &ScoreStore{}
}

func (s *ScoreStore) LoadAll(_ context.Context) ([]domain.RoundResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.RoundResult{}, s.results...), nil
}

func (s *ScoreStore) SaveScore(_ context.Context, result domain.RoundResult) error {
	if err := result.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
	return nil
}

func (s *ScoreStore) TopN(ctx context.Context, n int, theme string) ([]domain.RoundResult, error) {
	all, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return domain.TopN(all, n, theme), nil
}
