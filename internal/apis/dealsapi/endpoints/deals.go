package endpoints

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"dealfinder/internal/domain/models"
)

// DealsQuery carries the optional reference point. The server accepts it but
// does not apply it.
type DealsQuery struct {
	Lat, Lng float64
	HasPoint bool
}

func (q DealsQuery) encode() string {
	if !q.HasPoint {
		return ""
	}
	v := url.Values{}
	v.Set("lat", strconv.FormatFloat(q.Lat, 'f', -1, 64))
	v.Set("lon", strconv.FormatFloat(q.Lng, 'f', -1, 64))
	return "?" + v.Encode()
}

func (c *Client) ListDeals(ctx context.Context, q DealsQuery) ([]models.Deal, error) {
	req, err := c.newReq(ctx, http.MethodGet, "/deals"+q.encode(), nil)
	if err != nil {
		return nil, err
	}

	var out []models.Deal
	if err := do(c, req, http.StatusOK, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Deal{}
	}
	return out, nil
}

func (c *Client) GetDeal(ctx context.Context, id string) (models.Deal, error) {
	req, err := c.newReq(ctx, http.MethodGet, "/deals/"+url.PathEscape(id), nil)
	if err != nil {
		return models.Deal{}, err
	}

	var out models.Deal
	err = do(c, req, http.StatusOK, &out)
	return out, err
}

func (c *Client) GetProof(ctx context.Context, dealID string) (models.Proof, error) {
	req, err := c.newReq(ctx, http.MethodGet, "/deals/"+url.PathEscape(dealID)+"/proof", nil)
	if err != nil {
		return models.Proof{}, err
	}

	var out models.Proof
	err = do(c, req, http.StatusOK, &out)
	return out, err
}
