package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"dealfinder/internal/cart"
	"dealfinder/internal/domain/models"
)

const (
	// PickupStagger separates the pickup start of consecutive store groups.
	PickupStagger = time.Minute
	PickupWindow  = 2 * time.Hour
)

type Options struct {
	Now     time.Time
	User    models.User
	NewID   func() string
	NewCode func() (string, error)
}

// Materialize turns a cart into one Paid order per store group, in the order
// the groups first appear in the cart. Prices are snapshotted from pool.
func Materialize(c models.Cart, pool []models.Deal, opts Options) ([]models.Order, error) {
	if opts.NewID == nil {
		opts.NewID = NewOrderID
	}
	if opts.NewCode == nil {
		opts.NewCode = PickupCode
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	groups := cart.Group(c, pool)
	out := make([]models.Order, 0, len(groups))

	for i, g := range groups {
		code, err := opts.NewCode()
		if err != nil {
			return nil, err
		}

		start := opts.Now.Add(time.Duration(i) * PickupStagger)
		o := models.Order{
			OrderID: opts.NewID(),
			UserID:  opts.User.UserID,
			StoreID: g.StoreID,
			StoreSnapshot: models.StoreSnapshot{
				StoreID: g.StoreID,
				Brand:   g.StoreBrand,
				Name:    g.StoreName,
				Address: g.Address,
			},
			Deals:  make([]models.OrderLine, 0, len(g.Lines)),
			Status: models.OrderPaid,
			QRCode: code,
			PickupWindow: models.PickupWindow{
				Start: start,
				End:   start.Add(PickupWindow),
			},
			CreatedAt: opts.Now,
		}

		total := decimal.Zero
		for _, l := range g.Lines {
			o.Deals = append(o.Deals, models.OrderLine{
				DealID:          l.Deal.DealID,
				Quantity:        l.Quantity,
				PriceAtPurchase: l.Deal.DiscountedPrice,
			})
			total = total.Add(l.Amount())
		}
		o.TotalAmount = total.Round(2).InexactFloat64()

		out = append(out, o)
	}
	return out, nil
}
