package discovery

import (
	"math"
	"sort"

	"dealfinder/internal/domain/models"
)

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FilterOptions is the vocabulary the filter UI offers for a deal pool.
type FilterOptions struct {
	Categories []string   `json:"categories"`
	Stores     []string   `json:"stores"`
	Dietary    []string   `json:"dietary"`
	Price      PriceRange `json:"price"`
}

func OptionsFor(pool []models.Deal) FilterOptions {
	categories := map[string]struct{}{}
	stores := map[string]struct{}{}
	dietary := map[string]struct{}{}

	for _, d := range pool {
		if d.Category != "" {
			categories[d.Category] = struct{}{}
		}
		if b := d.Brand(); b != "" {
			stores[b] = struct{}{}
		}
		for _, tag := range d.DietaryTags {
			dietary[tag] = struct{}{}
		}
	}

	return FilterOptions{
		Categories: sortedKeys(categories),
		Stores:     sortedKeys(stores),
		Dietary:    sortedKeys(dietary),
		Price:      PriceBounds(pool),
	}
}

// PriceBounds snaps the observed discounted price range outwards to
// multiples of 5. An empty pool yields the initial ceiling.
func PriceBounds(pool []models.Deal) PriceRange {
	if len(pool) == 0 {
		return PriceRange{Min: 0, Max: models.InitialPriceMax}
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, d := range pool {
		lo = math.Min(lo, d.DiscountedPrice)
		hi = math.Max(hi, d.DiscountedPrice)
	}
	return PriceRange{
		Min: math.Floor(lo/5) * 5,
		Max: math.Ceil(hi/5) * 5,
	}
}

// DefaultFilters is the configuration a reset returns to for this pool.
func DefaultFilters(opts FilterOptions) models.Filters {
	f := models.InitialFilters()
	f.PriceMaxAuto = false
	if opts.Price.Max > 0 {
		f.PriceMax = opts.Price.Max
	}
	return f
}

// ActiveFilterCount counts the dimensions of f that differ from defaults.
// Each dimension contributes at most 1.
func ActiveFilterCount(f, defaults models.Filters) int {
	n := 0
	if len(f.Categories) > 0 {
		n++
	}
	if len(f.Stores) > 0 {
		n++
	}
	if len(f.Dietary) > 0 {
		n++
	}
	if f.PriceMax != defaults.PriceMax {
		n++
	}
	if f.SortBy != defaults.SortBy {
		n++
	}
	return n
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
