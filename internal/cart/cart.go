package cart

import (
	"fmt"
	"time"

	"dealfinder/internal/domain/models"
)

// Add returns c with qty more of dealID. An existing line keeps its
// position and grows; otherwise a new line is appended.
func Add(c models.Cart, dealID string, qty int, now time.Time) (models.Cart, error) {
	if qty <= 0 {
		return c, fmt.Errorf("add %q x%d: %w", dealID, qty, models.ErrInvalidQuantity)
	}
	out := c.Clone()
	found := false
	for i := range out.Items {
		if out.Items[i].DealID == dealID {
			out.Items[i].Quantity += qty
			found = true
			break
		}
	}
	if !found {
		out.Items = append(out.Items, models.CartItem{DealID: dealID, Quantity: qty})
	}
	out.LastUpdated = now
	return out, nil
}

// Remove drops every line for dealID.
func Remove(c models.Cart, dealID string, now time.Time) models.Cart {
	out := models.Cart{Items: make([]models.CartItem, 0, len(c.Items)), LastUpdated: c.LastUpdated}
	for _, it := range c.Items {
		if it.DealID != dealID {
			out.Items = append(out.Items, it)
		}
	}
	if len(out.Items) != len(c.Items) {
		out.LastUpdated = now
	}
	return out
}
