package orders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dealfinder/internal/domain/models"
	"dealfinder/internal/repository"
)

type DealSource interface {
	Deals() []models.Deal
}

// Service creates and reads orders for one user.
type Service struct {
	deals DealSource
	repo  repository.Orders
	user  models.User
	log   *slog.Logger

	now     func() time.Time
	newID   func() string
	newCode func() (string, error)
}

func NewService(deals DealSource, repo repository.Orders, user models.User, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		deals:   deals,
		repo:    repo,
		user:    user,
		log:     log,
		now:     time.Now,
		newID:   NewOrderID,
		newCode: PickupCode,
	}
}

func (s *Service) User() models.User { return s.user }

// Create materializes c against the current catalog and appends the result.
// A cart with no resolvable lines yields an empty slice and writes nothing.
func (s *Service) Create(ctx context.Context, c models.Cart) ([]models.Order, error) {
	created, err := Materialize(c, s.deals.Deals(), Options{
		Now:     s.now().UTC(),
		User:    s.user,
		NewID:   s.newID,
		NewCode: s.newCode,
	})
	if err != nil {
		return nil, err
	}
	if len(created) == 0 {
		s.log.Info("checkout produced no orders", "lines", len(c.Items))
		return created, nil
	}

	if err := s.repo.Append(ctx, created); err != nil {
		return nil, fmt.Errorf("append orders: %w", err)
	}

	s.log.Info("orders created", "user_id", s.user.UserID, "count", len(created), "lines", len(c.Items))
	return created, nil
}

func (s *Service) List(ctx context.Context) ([]models.Order, error) {
	return s.repo.List(ctx, s.user.UserID)
}

func (s *Service) Get(ctx context.Context, id string) (models.Order, error) {
	return s.repo.Get(ctx, id)
}
