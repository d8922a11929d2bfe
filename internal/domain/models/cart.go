package models

import "time"

type CartItem struct {
	DealID   string `json:"dealId"`
	Quantity int    `json:"quantity"`
}

// Cart keeps lines in the order they were first added.
type Cart struct {
	Items       []CartItem `json:"items"`
	LastUpdated time.Time  `json:"lastUpdated"`
}

func (c Cart) Empty() bool { return len(c.Items) == 0 }

func (c Cart) Clone() Cart {
	out := Cart{LastUpdated: c.LastUpdated}
	out.Items = append([]CartItem{}, c.Items...)
	return out
}
