package cart

import (
	"context"
	"log/slog"
	"time"

	"dealfinder/internal/domain/models"
	"dealfinder/internal/repository"
)

// Key is where the cart snapshot lives in the session KV.
const Key = "cart"

// Service persists the cart on every change.
type Service struct {
	kv  repository.KV
	log *slog.Logger
	now func() time.Time
}

func NewService(kv repository.KV, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{kv: kv, log: log, now: time.Now}
}

func emptyCart() models.Cart {
	return models.Cart{Items: []models.CartItem{}}
}

// Load returns the stored cart, or an empty one when nothing usable is stored.
func (s *Service) Load(ctx context.Context) (models.Cart, error) {
	c, err := repository.LoadJSON(ctx, s.kv, Key, emptyCart(), s.log)
	if err != nil {
		return emptyCart(), err
	}
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}
	return c, nil
}

func (s *Service) Save(ctx context.Context, c models.Cart) error {
	return repository.SaveJSON(ctx, s.kv, Key, c)
}

func (s *Service) Add(ctx context.Context, dealID string, qty int) (models.Cart, error) {
	c, err := s.Load(ctx)
	if err != nil {
		return c, err
	}
	next, err := Add(c, dealID, qty, s.now())
	if err != nil {
		return c, err
	}
	if err := s.Save(ctx, next); err != nil {
		return c, err
	}
	s.log.Debug("cart line added", "deal_id", dealID, "qty", qty, "lines", len(next.Items))
	return next, nil
}

func (s *Service) Remove(ctx context.Context, dealID string) (models.Cart, error) {
	c, err := s.Load(ctx)
	if err != nil {
		return c, err
	}
	next := Remove(c, dealID, s.now())
	if err := s.Save(ctx, next); err != nil {
		return c, err
	}
	return next, nil
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context) error {
	return s.Save(ctx, emptyCart())
}
