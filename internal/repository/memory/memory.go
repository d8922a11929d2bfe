package memory

import (
	"context"
	"fmt"
	"sync"

	"dealfinder/internal/domain/models"
	"dealfinder/internal/repository"
)

// KV is a process-local repository.KV.
type KV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ repository.KV = (*KV)(nil)

func NewKV() *KV {
	return &KV{data: make(map[string][]byte)}
}

func (s *KV) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, repository.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *KV) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *KV) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Orders is a process-local order log. New batches go in front.
type Orders struct {
	mu     sync.RWMutex
	orders []models.Order
	byID   map[string]int
}

var _ repository.Orders = (*Orders)(nil)

func NewOrders() *Orders {
	return &Orders{byID: make(map[string]int)}
}

func (s *Orders) Append(_ context.Context, batch []models.Order) error {
	if len(batch) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range batch {
		if _, dup := s.byID[o.OrderID]; dup {
			return fmt.Errorf("order %q already exists", o.OrderID)
		}
	}

	next := make([]models.Order, 0, len(batch)+len(s.orders))
	next = append(next, batch...)
	next = append(next, s.orders...)
	s.orders = next

	for i, o := range s.orders {
		s.byID[o.OrderID] = i
	}
	return nil
}

func (s *Orders) List(_ context.Context, userID string) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if userID == "" || o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *Orders) Get(_ context.Context, id string) (models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return models.Order{}, fmt.Errorf("order %q: %w", id, models.ErrNotFound)
	}
	return s.orders[i], nil
}
