package discovery

import (
	"math"
	"slices"
	"sort"

	"dealfinder/internal/domain/models"
)

// Apply filters pool by f and orders the result by f.SortBy. The returned
// slice is new; pool is left untouched.
func Apply(pool []models.Deal, f models.Filters) []models.Deal {
	out := make([]models.Deal, 0, len(pool))
	for _, d := range pool {
		if Match(d, f) {
			out = append(out, d)
		}
	}
	Sort(out, f.SortBy)
	return out
}

// Match reports whether d passes every filter dimension.
func Match(d models.Deal, f models.Filters) bool {
	if len(f.Categories) > 0 && d.Category != "" && !slices.Contains(f.Categories, d.Category) {
		return false
	}
	if brand := d.Brand(); len(f.Stores) > 0 && brand != "" && !slices.Contains(f.Stores, brand) {
		return false
	}
	if len(f.Dietary) > 0 && !overlaps(d.DietaryTags, f.Dietary) {
		return false
	}
	if f.PriceMax > 0 && d.DiscountedPrice > f.PriceMax {
		return false
	}
	return true
}

func overlaps(tags, want []string) bool {
	for _, t := range tags {
		if slices.Contains(want, t) {
			return true
		}
	}
	return false
}

// Sort orders deals in place by key. Unknown keys sort by distance.
// Equal keys keep their relative order.
func Sort(deals []models.Deal, key models.SortKey) {
	less := comparator(key)
	sort.SliceStable(deals, func(i, j int) bool { return less(deals[i], deals[j]) })
}

func comparator(key models.SortKey) func(a, b models.Deal) bool {
	switch key {
	case models.SortDiscountDesc:
		return func(a, b models.Deal) bool { return a.DiscountRatio() > b.DiscountRatio() }
	case models.SortPriceAsc:
		return func(a, b models.Deal) bool { return a.DiscountedPrice < b.DiscountedPrice }
	case models.SortExpiry:
		return expiryLess
	default:
		return func(a, b models.Deal) bool { return distanceKey(a) < distanceKey(b) }
	}
}

func distanceKey(d models.Deal) float64 {
	if d.DistanceKm == nil {
		return math.Inf(1)
	}
	return *d.DistanceKm
}

// expiryLess puts the soonest expiry first and unparsable timestamps last.
func expiryLess(a, b models.Deal) bool {
	ta, errA := a.ExpiresAt()
	tb, errB := b.ExpiresAt()
	switch {
	case errA != nil:
		return false
	case errB != nil:
		return true
	}
	return ta.Before(tb)
}
