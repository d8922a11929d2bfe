package main

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealfinder/internal/apis/dealsapi"
	"dealfinder/internal/catalog"
	"dealfinder/internal/client"
	"dealfinder/internal/domain/models"
	"dealfinder/internal/geo"
	httpserver "dealfinder/internal/http-server"
	"dealfinder/internal/logger"
	"dealfinder/internal/orders"
	"dealfinder/internal/repository/memory"
	"dealfinder/internal/session"
)

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	log := logger.Discard()
	cat := catalog.Default()
	user := models.User{UserID: "user-1", Name: "Franklin"}

	srv := httpserver.New(log)
	srv.RegisterRoutes(httpserver.Deps{
		Catalog: cat,
		Orders:  orders.NewService(cat, memory.NewOrders(), user, log),
		User:    user,
		Timeout: 5 * time.Second,
		Now:     time.Now,
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	tr, err := client.Build(client.Options{HTTPClient: ts.Client(), Workers: 2})
	require.NoError(t, err)

	s, err := session.New(session.Options{
		API:  dealsapi.New(tr, ts.URL, log),
		KV:   memory.NewKV(),
		User: user,
		Ref:  geo.Point{Lat: 22.28552, Lng: 114.15769},
		Log:  log,
	})
	require.NoError(t, err)
	return s
}

func exec(t *testing.T, s *session.Session, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := dispatch(context.Background(), s, args, &out)
	return out.String(), err
}

func TestDealsListAndMap(t *testing.T) {
	s := newTestSession(t)

	out, err := exec(t, s, "deals", "-sort", "price-asc")
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "SKU-384729")

	_, err = exec(t, s, "view", "map")
	require.NoError(t, err)

	out, err = exec(t, s, "deals")
	require.NoError(t, err)
	assert.Contains(t, out, "LAT,LNG")
	assert.NotContains(t, out, "EXPIRES")
}

func TestDealsNothingMatches(t *testing.T) {
	s := newTestSession(t)

	out, err := exec(t, s, "deals", "-category", "no-such-category")
	require.NoError(t, err)
	assert.Contains(t, out, "no deals match")
}

func TestParseFilters(t *testing.T) {
	f, err := parseFilters([]string{"-sort", "expiry", "-category", "Dairy,Bakery", "-store", "Wellcome", "-dietary", "Vegan", "-max", "40"})
	require.NoError(t, err)
	assert.Equal(t, models.SortExpiry, f.SortBy)
	assert.Equal(t, []string{"Dairy", "Bakery"}, f.Categories)
	assert.Equal(t, []string{"Wellcome"}, f.Stores)
	assert.Equal(t, []string{"Vegan"}, f.Dietary)
	assert.Equal(t, 40.0, f.PriceMax)
	assert.False(t, f.PriceMaxAuto)

	f, err = parseFilters(nil)
	require.NoError(t, err)
	assert.Equal(t, models.InitialFilters().PriceMax, f.PriceMax)
	assert.True(t, f.PriceMaxAuto)

	f, err = parseFilters([]string{"-max", "200"})
	require.NoError(t, err)
	assert.Equal(t, 200.0, f.PriceMax)
	assert.False(t, f.PriceMaxAuto)
	assert.Empty(t, f.Categories)

	_, err = parseFilters([]string{"-sort", "name"})
	var uerr usageError
	assert.True(t, errors.As(err, &uerr))

	_, err = parseFilters([]string{"-max", "-1"})
	assert.True(t, errors.As(err, &uerr))
}

func TestCartCheckoutFlow(t *testing.T) {
	s := newTestSession(t)

	out, err := exec(t, s, "cart")
	require.NoError(t, err)
	assert.Contains(t, out, "cart is empty")

	_, err = exec(t, s, "add", "SKU-384729", "2")
	require.NoError(t, err)
	_, err = exec(t, s, "add", "SKU-561920")
	require.NoError(t, err)

	out, err = exec(t, s, "cart")
	require.NoError(t, err)
	assert.Contains(t, out, "Subtotal")
	assert.Contains(t, out, "Service fee")

	out, err = exec(t, s, "checkout")
	require.NoError(t, err)
	assert.Contains(t, out, "All set! 2 pickups are ready in Orders.")
	assert.Contains(t, out, "COOKING-")

	c, err := s.Cart(context.Background())
	require.NoError(t, err)
	assert.True(t, c.Empty())

	out, err = exec(t, s, "orders")
	require.NoError(t, err)
	assert.Contains(t, out, string(models.OrderPaid))
}

func TestAddRejectsBadQuantity(t *testing.T) {
	s := newTestSession(t)

	_, err := exec(t, s, "add", "SKU-384729", "zero")
	var uerr usageError
	assert.True(t, errors.As(err, &uerr))

	_, err = exec(t, s, "add", "SKU-384729", "0")
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)
	assert.Equal(t, "quantity must be at least 1", describe(err))
}

func TestVerifyAndAudit(t *testing.T) {
	s := newTestSession(t)

	out, err := exec(t, s, "verify", "SKU-384729")
	require.NoError(t, err)
	assert.Contains(t, out, "Verified on-chain")
	assert.Contains(t, out, "…")

	out, err = exec(t, s, "audit", "-workers", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "0 mismatch")
}

func TestUnknownDealAndCommand(t *testing.T) {
	s := newTestSession(t)

	_, err := exec(t, s, "deal", "SKU-000000")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = exec(t, s, "teleport")
	var uerr usageError
	assert.True(t, errors.As(err, &uerr))

	_, err = exec(t, s, "view", "grid")
	assert.True(t, errors.As(err, &uerr))
}
