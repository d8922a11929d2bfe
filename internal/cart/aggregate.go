package cart

import (
	"github.com/shopspring/decimal"

	"dealfinder/internal/domain/models"
)

var ServiceFeeRate = decimal.RequireFromString("0.02")

type Line struct {
	Deal     models.Deal `json:"deal"`
	Quantity int         `json:"quantity"`
}

func (l Line) Amount() decimal.Decimal {
	return decimal.NewFromFloat(l.Deal.DiscountedPrice).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// StoreGroup is the part of a cart that is picked up at one store.
type StoreGroup struct {
	StoreID    string   `json:"storeId"`
	StoreName  string   `json:"storeName"`
	StoreBrand string   `json:"storeBrand,omitempty"`
	Address    string   `json:"address,omitempty"`
	DistanceKm *float64 `json:"distanceKm,omitempty"`
	Lines      []Line   `json:"items"`
}

// Subtotal is the unrounded sum of the group's line amounts.
func (g StoreGroup) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range g.Lines {
		sum = sum.Add(l.Amount())
	}
	return sum
}

// Group resolves cart lines against pool and buckets them by store, in the
// order each store first appears in the cart. Lines whose deal is gone from
// the pool, or whose deal has no store, are dropped.
func Group(c models.Cart, pool []models.Deal) []StoreGroup {
	byID := make(map[string]models.Deal, len(pool))
	for _, d := range pool {
		byID[d.DealID] = d
	}

	var groups []StoreGroup
	index := make(map[string]int)

	for _, it := range c.Items {
		d, ok := byID[it.DealID]
		if !ok || d.Store == nil {
			continue
		}
		key := d.StoreID
		if key == "" {
			key = d.Store.StoreID
		}

		i, seen := index[key]
		if !seen {
			i = len(groups)
			index[key] = i
			groups = append(groups, StoreGroup{
				StoreID:    key,
				StoreName:  d.Store.Name,
				StoreBrand: d.Store.Brand,
				Address:    d.Store.Address,
				DistanceKm: d.Store.DistanceKm,
			})
		}
		groups[i].Lines = append(groups[i].Lines, Line{Deal: d, Quantity: it.Quantity})
	}
	return groups
}

type Totals struct {
	ByStore    map[string]decimal.Decimal `json:"byStore"`
	Subtotal   decimal.Decimal            `json:"subtotal"`
	ServiceFee decimal.Decimal            `json:"serviceFee"`
	GrandTotal decimal.Decimal            `json:"grandTotal"`
}

// TotalsFor sums the groups first and rounds only the fee and the grand
// total, each to 2 decimal places.
func TotalsFor(groups []StoreGroup) Totals {
	t := Totals{ByStore: make(map[string]decimal.Decimal, len(groups)), Subtotal: decimal.Zero}
	for _, g := range groups {
		sub := g.Subtotal()
		t.ByStore[g.StoreID] = sub
		t.Subtotal = t.Subtotal.Add(sub)
	}
	t.ServiceFee = t.Subtotal.Mul(ServiceFeeRate).Round(2)
	t.GrandTotal = t.Subtotal.Add(t.ServiceFee).Round(2)
	return t
}
