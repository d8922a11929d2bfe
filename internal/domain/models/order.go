package models

import "time"

type OrderStatus string

const (
	OrderPaid           OrderStatus = "Paid"
	OrderReadyForPickup OrderStatus = "Ready for Pickup"
	OrderCompleted      OrderStatus = "Completed"
	OrderCancelled      OrderStatus = "Cancelled"
)

// Active reports whether the order still awaits pickup.
func (s OrderStatus) Active() bool {
	return s == OrderPaid || s == OrderReadyForPickup
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPaid, OrderReadyForPickup, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

type StoreSnapshot struct {
	StoreID string `json:"storeId"`
	Brand   string `json:"brand"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

type OrderLine struct {
	DealID          string  `json:"dealId"`
	Quantity        int     `json:"quantity"`
	PriceAtPurchase float64 `json:"priceAtPurchase"`
}

type PickupWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type Order struct {
	OrderID       string        `json:"orderId"`
	UserID        string        `json:"userId"`
	StoreID       string        `json:"storeId"`
	StoreSnapshot StoreSnapshot `json:"storeSnapshot"`
	Deals         []OrderLine   `json:"deals"`
	Status        OrderStatus   `json:"status"`
	QRCode        string        `json:"qrCode"`
	PickupWindow  PickupWindow  `json:"pickupWindow"`
	CreatedAt     time.Time     `json:"createdAt"`
	TotalAmount   float64       `json:"totalAmount"`
}

type User struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}
