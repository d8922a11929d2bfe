package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealfinder/internal/catalog"
	"dealfinder/internal/domain/models"
)

type dealOpt func(*models.Deal)

func deal(id string, original, discounted float64, opts ...dealOpt) models.Deal {
	d := models.Deal{
		DealID:          id,
		OriginalPrice:   original,
		DiscountedPrice: discounted,
		ExpiryTimestamp: "2025-11-14T23:59:59+08:00",
		Store:           &models.Store{StoreID: "store-" + id, Brand: "Brand", Name: "Branch"},
	}
	for _, o := range opts {
		o(&d)
	}
	return d
}

func withDistance(km float64) dealOpt { return func(d *models.Deal) { d.DistanceKm = models.Float(km) } }
func withCategory(c string) dealOpt   { return func(d *models.Deal) { d.Category = c } }
func withBrand(b string) dealOpt      { return func(d *models.Deal) { d.Store.Brand = b } }
func withTags(t ...string) dealOpt    { return func(d *models.Deal) { d.DietaryTags = t } }
func withExpiry(e string) dealOpt     { return func(d *models.Deal) { d.ExpiryTimestamp = e } }

func ids(deals []models.Deal) []string {
	out := make([]string, len(deals))
	for i, d := range deals {
		out[i] = d.DealID
	}
	return out
}

func prices(deals []models.Deal) []float64 {
	out := make([]float64, len(deals))
	for i, d := range deals {
		out[i] = d.DiscountedPrice
	}
	return out
}

func noFilters(sortBy models.SortKey) models.Filters {
	return models.Filters{SortBy: sortBy}
}

func TestSortPriceAsc(t *testing.T) {
	pool := []models.Deal{
		deal("a", 100, 70), deal("b", 100, 50), deal("c", 100, 15), deal("d", 100, 99),
	}
	got := Apply(pool, noFilters(models.SortPriceAsc))
	assert.Equal(t, []float64{15, 50, 70, 99}, prices(got))
}

func TestSortDistanceMissingGoesLast(t *testing.T) {
	pool := []models.Deal{
		deal("none", 10, 1, withCategory("Bakery")),
		deal("far", 10, 5, withDistance(9.5)),
		deal("near", 10, 5, withDistance(0.4)),
	}
	got := Apply(pool, noFilters(models.SortDistance))
	assert.Equal(t, []string{"near", "far", "none"}, ids(got))
}

func TestSortKeys(t *testing.T) {
	pool := []models.Deal{
		deal("a", 100, 50, withDistance(3), withExpiry("2025-11-14T23:59:59+08:00")),
		deal("b", 100, 20, withDistance(1), withExpiry("2025-11-12T20:00:00+08:00")),
		deal("c", 100, 90, withDistance(2), withExpiry("not a time")),
		deal("d", 100, 60, withDistance(4), withExpiry("2025-11-12T12:00:00Z")),
	}

	tests := []struct {
		name string
		key  models.SortKey
		want []string
	}{
		{name: "distance", key: models.SortDistance, want: []string{"b", "c", "a", "d"}},
		{name: "discount desc", key: models.SortDiscountDesc, want: []string{"b", "a", "d", "c"}},
		{name: "price asc", key: models.SortPriceAsc, want: []string{"b", "a", "d", "c"}},
		{name: "expiry, unparsable last", key: models.SortExpiry, want: []string{"b", "d", "a", "c"}},
		{name: "unknown falls back to distance", key: "rating", want: []string{"b", "c", "a", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(pool, noFilters(tt.key))))
		})
	}
}

func TestSortIsStable(t *testing.T) {
	pool := []models.Deal{
		deal("a", 10, 5), deal("b", 10, 5), deal("c", 10, 5), deal("d", 10, 1),
	}
	got := Apply(pool, noFilters(models.SortPriceAsc))
	assert.Equal(t, []string{"d", "a", "b", "c"}, ids(got))
}

func TestMatch(t *testing.T) {
	dairy := deal("dairy", 35, 15, withCategory("Dairy & Eggs"), withBrand("Wellcome"), withTags("Vegetarian", "High Protein"))
	bare := deal("bare", 35, 15)
	bare.Store.Brand = ""

	tests := []struct {
		name string
		d    models.Deal
		f    models.Filters
		want bool
	}{
		{name: "empty filters", d: dairy, f: models.Filters{}, want: true},
		{name: "category hit", d: dairy, f: models.Filters{Categories: []string{"Bakery", "Dairy & Eggs"}}, want: true},
		{name: "category miss", d: dairy, f: models.Filters{Categories: []string{"Bakery"}}, want: false},
		{name: "deal without category passes", d: bare, f: models.Filters{Categories: []string{"Bakery"}}, want: true},
		{name: "brand hit", d: dairy, f: models.Filters{Stores: []string{"Wellcome"}}, want: true},
		{name: "brand miss", d: dairy, f: models.Filters{Stores: []string{"YATA"}}, want: false},
		{name: "deal without brand passes", d: bare, f: models.Filters{Stores: []string{"YATA"}}, want: true},
		{name: "dietary overlap", d: dairy, f: models.Filters{Dietary: []string{"Vegan", "High Protein"}}, want: true},
		{name: "dietary miss", d: dairy, f: models.Filters{Dietary: []string{"Vegan"}}, want: false},
		{name: "no tags fails dietary", d: bare, f: models.Filters{Dietary: []string{"Vegan"}}, want: false},
		{name: "price at ceiling", d: dairy, f: models.Filters{PriceMax: 15}, want: true},
		{name: "price above ceiling", d: dairy, f: models.Filters{PriceMax: 14.99}, want: false},
		{name: "all dimensions", d: dairy, f: models.Filters{
			Categories: []string{"Dairy & Eggs"}, Stores: []string{"Wellcome"}, Dietary: []string{"Vegetarian"}, PriceMax: 20,
		}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.d, tt.f))
		})
	}
}

func TestApplyWithoutRestrictionsReturnsWholePool(t *testing.T) {
	pool := catalog.Default().Deals()
	got := Apply(pool, noFilters(models.SortPriceAsc))
	require.Len(t, got, len(pool))
	assert.ElementsMatch(t, ids(pool), ids(got))
}

func TestApplyIsIdempotentAndPure(t *testing.T) {
	pool := catalog.Default().Deals()
	before := ids(pool)
	f := models.Filters{SortBy: models.SortDiscountDesc, Dietary: []string{"High Protein"}, PriceMax: 60}

	first := Apply(pool, f)
	second := Apply(pool, f)
	assert.Equal(t, first, second)
	assert.Equal(t, before, ids(pool))
	for _, d := range first {
		assert.LessOrEqual(t, d.DiscountedPrice, 60.0)
	}
}

func TestOptionsFor(t *testing.T) {
	pool := []models.Deal{
		deal("a", 50, 12, withCategory("Bakery"), withBrand("ParknShop"), withTags("Vegetarian")),
		deal("b", 200, 99, withCategory("Seafood"), withBrand("YATA"), withTags("Omega-3")),
		deal("c", 40, 21, withCategory("Bakery"), withBrand("Wellcome"), withTags("Vegetarian", "High Protein")),
	}
	got := OptionsFor(pool)
	assert.Equal(t, []string{"Bakery", "Seafood"}, got.Categories)
	assert.Equal(t, []string{"ParknShop", "Wellcome", "YATA"}, got.Stores)
	assert.Equal(t, []string{"High Protein", "Omega-3", "Vegetarian"}, got.Dietary)
	assert.Equal(t, PriceRange{Min: 10, Max: 100}, got.Price)
}

func TestPriceBoundsEmptyPool(t *testing.T) {
	assert.Equal(t, PriceRange{Min: 0, Max: 200}, PriceBounds(nil))
}

func TestActiveFilterCount(t *testing.T) {
	defaults := DefaultFilters(FilterOptions{Price: PriceRange{Max: 100}})
	require.Equal(t, 100.0, defaults.PriceMax)

	tests := []struct {
		name string
		f    models.Filters
		want int
	}{
		{name: "defaults", f: defaults, want: 0},
		{
			name: "three categories and a price change count as two",
			f: models.Filters{
				SortBy:     models.SortDistance,
				Categories: []string{"Bakery", "Produce", "Seafood"},
				PriceMax:   50,
			},
			want: 2,
		},
		{
			name: "every dimension",
			f: models.Filters{
				SortBy:     models.SortExpiry,
				Categories: []string{"Bakery"},
				Stores:     []string{"YATA", "Wellcome"},
				Dietary:    []string{"Vegan"},
				PriceMax:   10,
			},
			want: 5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ActiveFilterCount(tt.f, defaults))
		})
	}
}

func TestStatsFor(t *testing.T) {
	assert.Nil(t, StatsFor(nil))
	assert.Nil(t, StatsFor([]models.Deal{}))

	noBrand := deal("c", 30, 20)
	noBrand.Store.Brand = ""
	noBrand.Store.Name = "Corner Shop"

	got := StatsFor([]models.Deal{
		deal("a", 100, 50, withBrand("Wellcome")),
		deal("b", 100, 75, withBrand("Wellcome")),
		noBrand,
	})
	require.NotNil(t, got)
	assert.Equal(t, 3, got.Total)
	assert.Equal(t, 2, got.StoreCount)
	// (50 + 25 + 33.33) / 3 = 36.11
	assert.Equal(t, 36, got.AverageDiscount)
}

func TestStatsForFullDiscountIsNotNil(t *testing.T) {
	got := StatsFor([]models.Deal{deal("free", 10, 0)})
	require.NotNil(t, got)
	assert.Equal(t, 100, got.AverageDiscount)
}

func TestBuild(t *testing.T) {
	pool := catalog.Default().Deals()

	v := Build(pool, models.InitialFilters())
	assert.Equal(t, 100.0, v.Options.Price.Max)
	assert.Equal(t, 100.0, v.Filters.PriceMax)
	assert.Equal(t, 0, v.ActiveFilters)
	assert.Len(t, v.Deals, len(pool))
	require.NotNil(t, v.Stats)
	assert.Equal(t, 5, v.Stats.StoreCount)
	assert.Equal(t, 0.8, *v.Deals[0].DistanceKm)

	f := models.InitialFilters()
	f.Categories = []string{"Nothing Here"}
	empty := Build(pool, f)
	assert.Empty(t, empty.Deals)
	assert.Nil(t, empty.Stats)
	assert.Equal(t, 1, empty.ActiveFilters)
}

func TestBuildKeepsExplicitCeiling(t *testing.T) {
	pool := []models.Deal{
		deal("cheap", 40, 20),
		deal("premium", 300, 250),
	}

	auto := Build(pool, models.InitialFilters())
	assert.Equal(t, 250.0, auto.Filters.PriceMax)
	assert.False(t, auto.Filters.PriceMaxAuto)
	assert.Len(t, auto.Deals, 2)
	assert.Equal(t, 0, auto.ActiveFilters)

	f := models.InitialFilters()
	f.PriceMaxAuto = false
	explicit := Build(pool, f)
	assert.Equal(t, float64(models.InitialPriceMax), explicit.Filters.PriceMax)
	require.Len(t, explicit.Deals, 1)
	assert.Equal(t, "cheap", explicit.Deals[0].DealID)
	assert.Equal(t, 1, explicit.ActiveFilters)
}

func TestBuildEmptyPool(t *testing.T) {
	v := Build(nil, models.InitialFilters())
	assert.Empty(t, v.Deals)
	assert.Nil(t, v.Stats)
	assert.Equal(t, 200.0, v.Filters.PriceMax)
	assert.Equal(t, 0, v.ActiveFilters)
}
