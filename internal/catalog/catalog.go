package catalog

import (
	"fmt"
	"strings"

	"dealfinder/internal/domain/models"
)

// Catalog is the in-memory deal pool. It is immutable after New and safe
// for concurrent readers.
type Catalog struct {
	deals  []models.Deal
	index  map[string]int
	stores []models.Store
}

func New(raw []RawDeal) (*Catalog, error) {
	c := &Catalog{
		deals: make([]models.Deal, 0, len(raw)),
		index: make(map[string]int, len(raw)),
	}
	seenStore := make(map[string]bool)

	for _, r := range raw {
		d, err := normalize(r)
		if err != nil {
			return nil, err
		}
		if _, dup := c.index[d.DealID]; dup {
			return nil, fmt.Errorf("catalog: duplicate deal %q", d.DealID)
		}
		c.index[d.DealID] = len(c.deals)
		c.deals = append(c.deals, d)

		if !seenStore[d.StoreID] {
			seenStore[d.StoreID] = true
			c.stores = append(c.stores, *d.Clone().Store)
		}
	}
	return c, nil
}

// Default builds the catalog from the built-in seed feed.
func Default() *Catalog {
	c, err := New(SeedDeals)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) Len() int { return len(c.deals) }

// Deals returns copies of all deals in feed order.
func (c *Catalog) Deals() []models.Deal {
	out := make([]models.Deal, len(c.deals))
	for i, d := range c.deals {
		out[i] = d.Clone()
	}
	return out
}

func (c *Catalog) Deal(id string) (models.Deal, error) {
	i, ok := c.index[id]
	if !ok {
		return models.Deal{}, fmt.Errorf("deal %q: %w", id, models.ErrNotFound)
	}
	return c.deals[i].Clone(), nil
}

// Stores returns the distinct stores in the order they first appear.
func (c *Catalog) Stores() []models.Store {
	out := make([]models.Store, len(c.stores))
	copy(out, c.stores)
	return out
}

func normalize(r RawDeal) (models.Deal, error) {
	id := strings.TrimSpace(r.ID)
	if id == "" {
		return models.Deal{}, fmt.Errorf("catalog: entry %q has empty id", r.Name)
	}
	if r.NewPrice <= 0 || r.NewPrice > r.OriginalPrice {
		return models.Deal{}, fmt.Errorf("catalog: %s: price %.2f must be in (0, %.2f]", id, r.NewPrice, r.OriginalPrice)
	}
	if r.Quantity < 0 {
		return models.Deal{}, fmt.Errorf("catalog: %s: negative quantity %d", id, r.Quantity)
	}

	storeID := Slugify(strings.Join(strings.Fields(r.Supermarket.Name), " "))
	meta, ok := storeMetadata[storeID]
	if !ok {
		meta = defaultStoreMeta
	}

	store := &models.Store{
		StoreID:      storeID,
		Brand:        r.Supermarket.Brand,
		Name:         r.Supermarket.Name,
		Address:      r.Supermarket.Address,
		Location:     models.Location{Lat: r.Supermarket.Lat, Lng: r.Supermarket.Lng},
		DistanceKm:   models.Float(meta.DistanceKm),
		Phone:        meta.Phone,
		OpeningHours: meta.OpeningHours,
	}

	return models.Deal{
		DealID:          id,
		SKU:             id,
		ItemID:          id,
		StoreID:         storeID,
		OriginalPrice:   r.OriginalPrice,
		DiscountedPrice: r.NewPrice,
		ExpiryTimestamp: r.Expiry,
		Quantity:        r.Quantity,
		Category:        r.Category,
		Unit:            r.Unit,
		DietaryTags:     append([]string{}, dietaryTagsByCategory[r.Category]...),
		Badges:          append([]string{}, badgesByCategory[r.Category]...),
		DistanceKm:      models.Float(meta.DistanceKm),
		Item: &models.Item{
			ItemID:      id,
			Name:        r.Name,
			Description: r.Description,
			Images:      []string{"/images/" + Slugify(r.Name) + ".jpg"},
			Unit:        r.Unit,
		},
		Store: store,
	}, nil
}
