package models

import (
	"math"
	"time"
)

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Item struct {
	ItemID      string   `json:"itemId"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Allergens   []string `json:"allergens,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
	Unit        string   `json:"unit,omitempty"`
}

type Store struct {
	StoreID      string   `json:"storeId"`
	Brand        string   `json:"brand"`
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	Location     Location `json:"location"`
	DistanceKm   *float64 `json:"distanceKm,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	OpeningHours string   `json:"openingHours,omitempty"`
}

// Label is the name used when counting distinct partner stores.
func (s *Store) Label() string {
	if s == nil {
		return ""
	}
	if s.Brand != "" {
		return s.Brand
	}
	return s.Name
}

// Deal is a discounted offer of an Item at a Store. Item and Store are
// embedded snapshots and may be absent.
type Deal struct {
	DealID          string   `json:"dealId"`
	SKU             string   `json:"sku,omitempty"`
	ItemID          string   `json:"itemId"`
	StoreID         string   `json:"storeId"`
	OriginalPrice   float64  `json:"originalPrice"`
	DiscountedPrice float64  `json:"discountedPrice"`
	ExpiryTimestamp string   `json:"expiryTimestamp"`
	Quantity        int      `json:"quantity"`
	Category        string   `json:"category,omitempty"`
	Unit            string   `json:"unit,omitempty"`
	DietaryTags     []string `json:"dietaryTags,omitempty"`
	Badges          []string `json:"badges,omitempty"`
	DistanceKm      *float64 `json:"distanceKm,omitempty"`
	Item            *Item    `json:"item,omitempty"`
	Store           *Store   `json:"store,omitempty"`
}

// DiscountRatio is (original - discounted) / original, 0 when the original
// price is not positive.
func (d Deal) DiscountRatio() float64 {
	if d.OriginalPrice <= 0 {
		return 0
	}
	return (d.OriginalPrice - d.DiscountedPrice) / d.OriginalPrice
}

func (d Deal) DiscountPercent() int {
	return int(math.Round(d.DiscountRatio() * 100))
}

func (d Deal) ExpiresAt() (time.Time, error) {
	return time.Parse(time.RFC3339, d.ExpiryTimestamp)
}

func (d Deal) Brand() string {
	if d.Store == nil {
		return ""
	}
	return d.Store.Brand
}

func (d Deal) Name() string {
	if d.Item == nil {
		return ""
	}
	return d.Item.Name
}

// Clone returns a deep copy so callers can modify distances or tags without
// touching the source pool.
func (d Deal) Clone() Deal {
	out := d
	out.DietaryTags = append([]string(nil), d.DietaryTags...)
	out.Badges = append([]string(nil), d.Badges...)
	if d.DistanceKm != nil {
		v := *d.DistanceKm
		out.DistanceKm = &v
	}
	if d.Item != nil {
		it := *d.Item
		it.Images = append([]string(nil), d.Item.Images...)
		it.Allergens = append([]string(nil), d.Item.Allergens...)
		it.Ingredients = append([]string(nil), d.Item.Ingredients...)
		out.Item = &it
	}
	if d.Store != nil {
		st := *d.Store
		if d.Store.DistanceKm != nil {
			v := *d.Store.DistanceKm
			st.DistanceKm = &v
		}
		out.Store = &st
	}
	return out
}

func Float(v float64) *float64 { return &v }
