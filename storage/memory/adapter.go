package memory

import (
	"context"
	"sync"

	"github.com/sig-0/fxquotes/storage/types"
)

type Storage struct {
	data []types.Quote

	mu sync.RWMutex
}

func NewStorage() *Storage {
	return &Storage{
		data: make([]types.Quote, 0, 64),
	}
}

func (s *Storage) SaveQuote(_ context.Context, q *types.Quote) error {
	elem := *q
	elem.RetrievedAt = elem.RetrievedAt.UTC()

	s.mu.Lock()
	s.data = append(s.data, elem)
	s.mu.Unlock()

	return nil
}

// Quotes returns a copy of every saved observation, in insertion order
func (s *Storage) Quotes() []types.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Quote, len(s.data))
	copy(out, s.data)

	return out
}

// Len returns the number of saved observations
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data)
}
