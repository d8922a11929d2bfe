package dealsapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealfinder/internal/client"
	"dealfinder/internal/domain/models"
)

func newTestService(t *testing.T, h http.Handler) Service {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	tr, err := client.Build(client.Options{HTTPClient: srv.Client(), Workers: 1})
	require.NoError(t, err)
	return New(tr, srv.URL, nil)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListDeals(t *testing.T) {
	var gotQuery string
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/deals", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		gotQuery = r.URL.RawQuery
		writeJSON(w, http.StatusOK, []models.Deal{{DealID: "a"}, {DealID: "b"}})
	}))

	deals, err := svc.ListDeals(context.Background(), DealsQuery{Lat: 22.28, Lng: 114.15, HasPoint: true})
	require.NoError(t, err)
	require.Len(t, deals, 2)
	assert.Equal(t, "a", deals[0].DealID)
	assert.Equal(t, "lat=22.28&lon=114.15", gotQuery)
}

func TestListDealsEmptyBody(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "null")
	}))

	deals, err := svc.ListDeals(context.Background(), DealsQuery{})
	require.NoError(t, err)
	assert.NotNil(t, deals)
	assert.Empty(t, deals)
}

func TestErrorsClassified(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantErr  error
		wantCode any
		wantMsg  string
	}{
		{name: "not found with envelope", status: 404, body: `{"error":{"code":"not_found","message":"deal x not found"}}`, wantErr: models.ErrNotFound, wantCode: "not_found", wantMsg: "deal x not found"},
		{name: "not found empty body", status: 404, body: "", wantErr: models.ErrNotFound},
		{name: "server error", status: 500, body: `{"code":"internal_error","message":"boom"}`, wantErr: models.ErrFetchFailure, wantCode: "internal_error", wantMsg: "boom"},
		{name: "rate limited", status: 429, body: "slow down", wantErr: models.ErrFetchFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))

			_, err := svc.GetDeal(context.Background(), "x")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
		})
	}
}

func TestMalformedJSONIsFetchFailure(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "{not json")
	}))

	_, err := svc.ListOrders(context.Background())
	assert.ErrorIs(t, err, models.ErrFetchFailure)
}

func TestTransportErrorIsFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	tr, err := client.Build(client.Options{Timeout: time.Second})
	require.NoError(t, err)
	svc := New(tr, url, nil)

	_, err = svc.ListDeals(context.Background(), DealsQuery{})
	assert.ErrorIs(t, err, models.ErrFetchFailure)
}

func TestCanceledContextIsNotFetchFailure(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []models.Deal{})
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.ListDeals(ctx, DealsQuery{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, models.ErrFetchFailure)
}

func TestCreateOrders(t *testing.T) {
	var got struct {
		Cart models.Cart `json:"cart"`
	}
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusCreated, []models.Order{{OrderID: "order-1", Status: models.OrderPaid}})
	}))

	c := models.Cart{Items: []models.CartItem{{DealID: "SKU-1", Quantity: 2}}}
	created, err := svc.CreateOrders(context.Background(), c)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "order-1", created[0].OrderID)
	assert.Equal(t, c.Items, got.Cart.Items)
}

func TestCreateOrdersEmptyResult(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, []models.Order{})
	}))

	created, err := svc.CreateOrders(context.Background(), models.Cart{})
	require.NoError(t, err)
	assert.NotNil(t, created)
	assert.Empty(t, created)
}

func TestGetOrderAndProofPaths(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/orders/order-7":
			writeJSON(w, http.StatusOK, models.Order{OrderID: "order-7"})
		case "/deals/SKU-1/proof":
			writeJSON(w, http.StatusOK, models.Proof{DealID: "SKU-1", Network: "Testnet"})
		case "/me":
			writeJSON(w, http.StatusOK, models.User{UserID: "user-1"})
		default:
			http.NotFound(w, r)
		}
	}))
	ctx := context.Background()

	o, err := svc.GetOrder(ctx, "order-7")
	require.NoError(t, err)
	assert.Equal(t, "order-7", o.OrderID)

	p, err := svc.GetProof(ctx, "SKU-1")
	require.NoError(t, err)
	assert.Equal(t, "Testnet", p.Network)

	u, err := svc.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-1", u.UserID)
}
