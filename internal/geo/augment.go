package geo

import "dealfinder/internal/domain/models"

// Augment returns copies of deals with distances from ref filled in.
// A distance already present on the deal or on its store wins over the
// computed one; the two are resolved independently. Deals without a store
// are passed through unchanged. Results are rounded to 2 decimal places.
func Augment(ref Point, deals []models.Deal) []models.Deal {
	out := make([]models.Deal, len(deals))
	for i, d := range deals {
		out[i] = augmentOne(ref, d)
	}
	return out
}

func augmentOne(ref Point, d models.Deal) models.Deal {
	d = d.Clone()
	if d.Store == nil {
		return d
	}

	computed := Haversine(ref, FromLocation(d.Store.Location))

	dealKm := computed
	if d.DistanceKm != nil {
		dealKm = *d.DistanceKm
	}
	storeKm := computed
	if d.Store.DistanceKm != nil {
		storeKm = *d.Store.DistanceKm
	}

	d.DistanceKm = models.Float(round2(dealKm))
	d.Store.DistanceKm = models.Float(round2(storeKm))
	return d
}
