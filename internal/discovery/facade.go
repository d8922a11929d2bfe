package discovery

import "dealfinder/internal/domain/models"

// View is everything a presentation layer needs to render discovery.
type View struct {
	Deals         []models.Deal  `json:"deals"`
	Stats         *Stats         `json:"stats"`
	Options       FilterOptions  `json:"options"`
	Filters       models.Filters `json:"filters"`
	Defaults      models.Filters `json:"defaults"`
	ActiveFilters int            `json:"activeFilters"`
}

// Build runs the discovery pipeline over an augmented pool. A ceiling the
// user has not chosen (PriceMaxAuto) is replaced by the pool's own default.
// An explicit ceiling is kept as is, even when it equals InitialPriceMax.
func Build(pool []models.Deal, f models.Filters) View {
	opts := OptionsFor(pool)
	defaults := DefaultFilters(opts)

	if len(pool) > 0 && f.PriceMaxAuto {
		f.PriceMax = defaults.PriceMax
		f.PriceMaxAuto = false
	}
	if !f.SortBy.Valid() {
		f.SortBy = models.SortDistance
	}

	deals := Apply(pool, f)
	return View{
		Deals:         deals,
		Stats:         StatsFor(deals),
		Options:       opts,
		Filters:       f,
		Defaults:      defaults,
		ActiveFilters: ActiveFilterCount(f, defaults),
	}
}
