package endpoints

import (
	"context"
	"net/http"
	"net/url"

	"dealfinder/internal/domain/models"
)

type CreateOrdersRequest struct {
	Cart models.Cart `json:"cart"`
}

func (c *Client) ListOrders(ctx context.Context) ([]models.Order, error) {
	req, err := c.newReq(ctx, http.MethodGet, "/orders", nil)
	if err != nil {
		return nil, err
	}

	var out []models.Order
	if err := do(c, req, http.StatusOK, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Order{}
	}
	return out, nil
}

// CreateOrders submits the whole cart. The server answers 201 with the
// created orders, which may be an empty list.
func (c *Client) CreateOrders(ctx context.Context, cart models.Cart) ([]models.Order, error) {
	req, err := c.newReq(ctx, http.MethodPost, "/orders", CreateOrdersRequest{Cart: cart})
	if err != nil {
		return nil, err
	}

	var out []models.Order
	if err := do(c, req, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Order{}
	}
	return out, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (models.Order, error) {
	req, err := c.newReq(ctx, http.MethodGet, "/orders/"+url.PathEscape(id), nil)
	if err != nil {
		return models.Order{}, err
	}

	var out models.Order
	err = do(c, req, http.StatusOK, &out)
	return out, err
}

func (c *Client) Me(ctx context.Context) (models.User, error) {
	req, err := c.newReq(ctx, http.MethodGet, "/me", nil)
	if err != nil {
		return models.User{}, err
	}

	var out models.User
	err = do(c, req, http.StatusOK, &out)
	return out, err
}
