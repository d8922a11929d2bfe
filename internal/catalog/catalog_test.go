package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealfinder/internal/domain/models"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "branch", in: "Wellcome - Sai Ying Pun", want: "wellcome-sai-ying-pun"},
		{name: "apostrophe and comma", in: "ParknShop - The Belcher's, HKU", want: "parknshop-the-belchers-hku"},
		{name: "parenthesized unit", in: "Kowloon Dairy Organic Milk (1L)", want: "kowloon-dairy-organic-milk"},
		{name: "ampersand", in: "Roast Chicken & Avocado Sandwich", want: "roast-chicken-and-avocado-sandwich"},
		{name: "surrounding noise", in: "  --Hello World!-- ", want: "hello-world"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestDefaultCatalogInvariants(t *testing.T) {
	c := Default()
	require.Equal(t, 18, c.Len())

	for _, d := range c.Deals() {
		assert.Greater(t, d.DiscountedPrice, 0.0, d.DealID)
		assert.LessOrEqual(t, d.DiscountedPrice, d.OriginalPrice, d.DealID)
		assert.GreaterOrEqual(t, d.Quantity, 0, d.DealID)

		pct := d.DiscountPercent()
		assert.GreaterOrEqual(t, pct, 0, d.DealID)
		assert.LessOrEqual(t, pct, 100, d.DealID)

		require.NotNil(t, d.Store, d.DealID)
		require.NotNil(t, d.Item, d.DealID)
		assert.Equal(t, d.StoreID, d.Store.StoreID)
		assert.Len(t, d.Item.Images, 1)
		_, err := d.ExpiresAt()
		assert.NoError(t, err, d.DealID)
	}
}

func TestStoreMetadataResolvesEveryBranch(t *testing.T) {
	c := Default()
	stores := c.Stores()
	require.Len(t, stores, 6)

	for _, s := range stores {
		_, ok := storeMetadata[s.StoreID]
		assert.True(t, ok, "no metadata for %s", s.StoreID)
	}

	d, err := c.Deal("SKU-192837")
	require.NoError(t, err)
	assert.Equal(t, "parknshop-the-belchers-hku", d.StoreID)
	require.NotNil(t, d.DistanceKm)
	assert.Equal(t, 1.1, *d.DistanceKm)
	assert.Equal(t, "2559 3777", d.Store.Phone)
	assert.Equal(t, []string{"Vegan", "Local"}, d.DietaryTags)
	assert.Equal(t, []string{"In season"}, d.Badges)
}

func TestDealNotFound(t *testing.T) {
	_, err := Default().Deal("SKU-000000")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestDealsReturnsCopies(t *testing.T) {
	c := Default()
	deals := c.Deals()
	deals[0].DiscountedPrice = 1
	*deals[0].DistanceKm = 99
	deals[0].Store.Name = "changed"

	again, err := c.Deal(deals[0].DealID)
	require.NoError(t, err)
	assert.Equal(t, 15.0, again.DiscountedPrice)
	assert.Equal(t, 0.8, *again.DistanceKm)
	assert.Equal(t, "Wellcome - Sai Ying Pun", again.Store.Name)
}

func TestNewRejectsInvalidEntries(t *testing.T) {
	base := SeedDeals[0]

	tests := []struct {
		name   string
		mutate func(r *RawDeal)
	}{
		{name: "zero price", mutate: func(r *RawDeal) { r.NewPrice = 0 }},
		{name: "price above original", mutate: func(r *RawDeal) { r.NewPrice = r.OriginalPrice + 1 }},
		{name: "negative quantity", mutate: func(r *RawDeal) { r.Quantity = -1 }},
		{name: "empty id", mutate: func(r *RawDeal) { r.ID = " " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := base
			tt.mutate(&r)
			_, err := New([]RawDeal{r})
			assert.Error(t, err)
		})
	}

	_, err := New([]RawDeal{base, base})
	assert.ErrorContains(t, err, "duplicate")
}

func TestUnknownStoreGetsDefaultMetadata(t *testing.T) {
	r := SeedDeals[0]
	r.Supermarket.Name = "Wellcome - Nowhere"
	c, err := New([]RawDeal{r})
	require.NoError(t, err)

	d := c.Deals()[0]
	assert.Equal(t, "wellcome-nowhere", d.StoreID)
	assert.Equal(t, 4.5, *d.Store.DistanceKm)
	assert.Equal(t, "2700 0000", d.Store.Phone)
	assert.Equal(t, "09:00 - 21:00", d.Store.OpeningHours)
}
