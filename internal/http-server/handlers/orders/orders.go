package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"dealfinder/internal/domain/models"
	"dealfinder/internal/http-server/respond"
)

const maxBodyBytes = 1 << 20

type Service interface {
	Create(ctx context.Context, c models.Cart) ([]models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	Get(ctx context.Context, id string) (models.Order, error)
}

type Options struct {
	Log     *slog.Logger
	Orders  Service
	Timeout time.Duration
}

func (o *Options) defaults() {
	if o.Log == nil {
		o.Log = slog.Default()
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
}

type CreateRequest struct {
	Cart *models.Cart `json:"cart"`
}

func (req CreateRequest) validate() error {
	if req.Cart == nil {
		return errors.New("cart is required")
	}
	for i, it := range req.Cart.Items {
		if it.DealID == "" {
			return fmt.Errorf("cart.items[%d].dealId is required", i)
		}
		if it.Quantity < 1 {
			return fmt.Errorf("cart.items[%d].quantity: %w", i, models.ErrInvalidQuantity)
		}
	}
	return nil
}

func NewListHandler(opts Options) http.HandlerFunc {
	opts.defaults()

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), opts.Timeout)
		defer cancel()

		list, err := opts.Orders.List(ctx)
		if err != nil {
			respond.WriteDomainError(w, opts.Log, err)
			return
		}
		respond.WriteJSON(w, http.StatusOK, list)
	}
}

// NewCreateHandler serves POST /orders. A cart with nothing resolvable
// still answers 201 with an empty list.
func NewCreateHandler(opts Options) http.HandlerFunc {
	opts.defaults()

	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			respond.WriteBadRequest(w, "invalid json: "+err.Error())
			return
		}
		if err := req.validate(); err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), opts.Timeout)
		defer cancel()

		created, err := opts.Orders.Create(ctx, *req.Cart)
		if err != nil {
			respond.WriteDomainError(w, opts.Log, err, "lines", len(req.Cart.Items))
			return
		}
		respond.WriteJSON(w, http.StatusCreated, created)
	}
}

func NewGetHandler(opts Options) http.HandlerFunc {
	opts.defaults()

	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), opts.Timeout)
		defer cancel()

		o, err := opts.Orders.Get(ctx, id)
		if err != nil {
			respond.WriteDomainError(w, opts.Log, err, "order_id", id)
			return
		}
		respond.WriteJSON(w, http.StatusOK, o)
	}
}
