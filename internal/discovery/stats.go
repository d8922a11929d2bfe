package discovery

import (
	"math"

	"dealfinder/internal/domain/models"
)

type Stats struct {
	Total           int `json:"total"`
	StoreCount      int `json:"storeCount"`
	AverageDiscount int `json:"averageDiscount"`
}

// StatsFor summarizes a filtered result. It returns nil for an empty
// result so that "nothing matched" is never confused with a 0% average.
func StatsFor(deals []models.Deal) *Stats {
	if len(deals) == 0 {
		return nil
	}

	stores := make(map[string]struct{})
	var sum float64
	for _, d := range deals {
		sum += d.DiscountRatio() * 100
		stores[d.Store.Label()] = struct{}{}
	}

	return &Stats{
		Total:           len(deals),
		StoreCount:      len(stores),
		AverageDiscount: int(math.Round(sum / float64(len(deals)))),
	}
}
