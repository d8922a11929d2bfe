package dealsapi

import (
	"context"
	"log/slog"
	"net/http"

	"dealfinder/internal/apis/dealsapi/endpoints"
	"dealfinder/internal/client"
	"dealfinder/internal/domain/models"
)

const DefaultBaseURL = "http://127.0.0.1:7891"

type DealsQuery = endpoints.DealsQuery
type APIError = endpoints.APIError

type Service interface {
	ListDeals(ctx context.Context, q DealsQuery) ([]models.Deal, error)
	GetDeal(ctx context.Context, id string) (models.Deal, error)
	GetProof(ctx context.Context, dealID string) (models.Proof, error)

	ListOrders(ctx context.Context) ([]models.Order, error)
	CreateOrders(ctx context.Context, cart models.Cart) ([]models.Order, error)
	GetOrder(ctx context.Context, id string) (models.Order, error)

	Me(ctx context.Context) (models.User, error)
}

type service struct {
	api *endpoints.Client
	log *slog.Logger
}

func New(transport client.Transport, baseURL string, logger *slog.Logger) Service {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &service{log: logger}
	s.api = endpoints.New(transport, baseURL, s.applyDefaultHeaders)
	return s
}

func (s *service) applyDefaultHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "dealfinder-cli/1")
	req.Header.Set("Accept", "application/json")
}

func (s *service) ListDeals(ctx context.Context, q DealsQuery) ([]models.Deal, error) {
	deals, err := s.api.ListDeals(ctx, q)
	if err != nil {
		s.log.Warn("list deals failed", "err", err)
		return nil, err
	}
	s.log.Debug("deals fetched", "count", len(deals))
	return deals, nil
}

func (s *service) GetDeal(ctx context.Context, id string) (models.Deal, error) {
	return s.api.GetDeal(ctx, id)
}

func (s *service) GetProof(ctx context.Context, dealID string) (models.Proof, error) {
	return s.api.GetProof(ctx, dealID)
}

func (s *service) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.api.ListOrders(ctx)
}

func (s *service) CreateOrders(ctx context.Context, cart models.Cart) ([]models.Order, error) {
	created, err := s.api.CreateOrders(ctx, cart)
	if err != nil {
		s.log.Error("create orders failed", "err", err, "lines", len(cart.Items))
		return nil, err
	}
	return created, nil
}

func (s *service) GetOrder(ctx context.Context, id string) (models.Order, error) {
	return s.api.GetOrder(ctx, id)
}

func (s *service) Me(ctx context.Context) (models.User, error) {
	return s.api.Me(ctx)
}
