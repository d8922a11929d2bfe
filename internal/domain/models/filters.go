package models

type SortKey string

const (
	SortDistance     SortKey = "distance"
	SortDiscountDesc SortKey = "discount-desc"
	SortPriceAsc     SortKey = "price-asc"
	SortExpiry       SortKey = "expiry"
)

// InitialPriceMax is the ceiling used before any deal pool is known.
const InitialPriceMax = 200

func (k SortKey) Valid() bool {
	switch k {
	case SortDistance, SortDiscountDesc, SortPriceAsc, SortExpiry:
		return true
	}
	return false
}

// Filters is the discovery configuration. Empty sets mean no restriction,
// PriceMax <= 0 means no ceiling. While PriceMaxAuto is set the ceiling has
// not been chosen by the user and follows the pool's default once a pool is
// known.
type Filters struct {
	SortBy       SortKey  `json:"sortBy"`
	Categories   []string `json:"categories"`
	Stores       []string `json:"stores"`
	Dietary      []string `json:"dietary"`
	PriceMax     float64  `json:"priceMax"`
	PriceMaxAuto bool     `json:"priceMaxAuto,omitempty"`
}

func InitialFilters() Filters {
	return Filters{
		SortBy:       SortDistance,
		Categories:   []string{},
		Stores:       []string{},
		Dietary:      []string{},
		PriceMax:     InitialPriceMax,
		PriceMaxAuto: true,
	}
}

type ViewMode string

const (
	ViewList ViewMode = "list"
	ViewMap  ViewMode = "map"
)

func (m ViewMode) Valid() bool {
	return m == ViewList || m == ViewMap
}
