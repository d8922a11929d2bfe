package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"dealfinder/internal/cart"
	"dealfinder/internal/discovery"
	"dealfinder/internal/domain/models"
	"dealfinder/internal/proof"
	"dealfinder/internal/session"
)

const timeLayout = "Jan 2 15:04"

func table(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

func money(v float64) string { return fmt.Sprintf("HK$%.2f", v) }

func distance(d *float64) string {
	if d == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f km", *d)
}

func expiry(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Format(timeLayout)
}

func printView(out io.Writer, v discovery.View, mode models.ViewMode) {
	if v.Stats == nil {
		fmt.Fprintln(out, "no deals match the current filters")
		return
	}
	fmt.Fprintf(out, "%d deals from %d stores, avg %d%% off", v.Stats.Total, v.Stats.StoreCount, v.Stats.AverageDiscount)
	if v.ActiveFilters > 0 {
		fmt.Fprintf(out, " (%d filters active)", v.ActiveFilters)
	}
	fmt.Fprint(out, "\n\n")

	if mode == models.ViewMap {
		printMap(out, v.Deals)
		return
	}

	tw := table(out)
	fmt.Fprintln(tw, "ID\tITEM\tSTORE\tPRICE\tWAS\tOFF\tDIST\tEXPIRES")
	for _, d := range v.Deals {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d%%\t%s\t%s\n",
			d.DealID, d.Name(), d.Brand(),
			money(d.DiscountedPrice), money(d.OriginalPrice), d.DiscountPercent(),
			distance(d.DistanceKm), expiry(d.ExpiryTimestamp))
	}
	tw.Flush()
}

// printMap lists pins: one per store, in the order stores first appear.
func printMap(out io.Writer, deals []models.Deal) {
	type pin struct {
		store *models.Store
		dist  *float64
		ids   []string
	}
	var order []string
	pins := make(map[string]*pin)
	for _, d := range deals {
		p, ok := pins[d.StoreID]
		if !ok {
			p = &pin{store: d.Store, dist: d.DistanceKm}
			pins[d.StoreID] = p
			order = append(order, d.StoreID)
		}
		p.ids = append(p.ids, d.DealID)
	}

	tw := table(out)
	fmt.Fprintln(tw, "STORE\tLAT,LNG\tDIST\tDEALS")
	for _, id := range order {
		p := pins[id]
		name, coords := id, "-"
		if p.store != nil {
			name = p.store.Name
			coords = fmt.Sprintf("%.5f,%.5f", p.store.Location.Lat, p.store.Location.Lng)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, coords, distance(p.dist), strings.Join(p.ids, " "))
	}
	tw.Flush()
}

func printDeal(out io.Writer, d models.Deal) {
	tw := table(out)
	fmt.Fprintf(tw, "Deal\t%s\n", d.DealID)
	if d.Item != nil {
		fmt.Fprintf(tw, "Item\t%s\n", d.Item.Name)
		if d.Item.Description != "" {
			fmt.Fprintf(tw, "\t%s\n", d.Item.Description)
		}
		if len(d.Item.Allergens) > 0 {
			fmt.Fprintf(tw, "Allergens\t%s\n", strings.Join(d.Item.Allergens, ", "))
		}
	}
	if d.Store != nil {
		fmt.Fprintf(tw, "Store\t%s\n", d.Store.Name)
		fmt.Fprintf(tw, "Address\t%s\n", d.Store.Address)
		if d.Store.OpeningHours != "" {
			fmt.Fprintf(tw, "Hours\t%s\n", d.Store.OpeningHours)
		}
	}
	fmt.Fprintf(tw, "Price\t%s (was %s, %d%% off)\n", money(d.DiscountedPrice), money(d.OriginalPrice), d.DiscountPercent())
	fmt.Fprintf(tw, "Expires\t%s\n", expiry(d.ExpiryTimestamp))
	fmt.Fprintf(tw, "Left\t%d\n", d.Quantity)
	fmt.Fprintf(tw, "Distance\t%s\n", distance(d.DistanceKm))
	if len(d.DietaryTags) > 0 {
		fmt.Fprintf(tw, "Dietary\t%s\n", strings.Join(d.DietaryTags, ", "))
	}
	if len(d.Badges) > 0 {
		fmt.Fprintf(tw, "Badges\t%s\n", strings.Join(d.Badges, ", "))
	}
	tw.Flush()
}

func printSummary(out io.Writer, s session.Summary) {
	if s.Cart.Empty() {
		fmt.Fprintln(out, "cart is empty")
		return
	}

	tw := table(out)
	for _, g := range s.Groups {
		fmt.Fprintf(tw, "%s\t\t\t%s\n", g.StoreName, distance(g.DistanceKm))
		for _, l := range g.Lines {
			fmt.Fprintf(tw, "  %s\t%s\tx%d\t%s\n", l.Deal.DealID, l.Deal.Name(), l.Quantity,
				money(l.Deal.DiscountedPrice*float64(l.Quantity)))
		}
	}
	fmt.Fprintln(tw, "\t\t\t")
	fmt.Fprintf(tw, "Subtotal\t\t\tHK$%s\n", s.Totals.Subtotal.StringFixed(2))
	fmt.Fprintf(tw, "Service fee\t\t\tHK$%s\n", s.Totals.ServiceFee.StringFixed(2))
	fmt.Fprintf(tw, "Total\t\t\tHK$%s\n", s.Totals.GrandTotal.StringFixed(2))
	tw.Flush()

	if missing := len(s.Cart.Items) - countLines(s.Groups); missing > 0 {
		fmt.Fprintf(out, "\n%d cart lines refer to deals that are no longer listed\n", missing)
	}
}

func countLines(groups []cart.StoreGroup) int {
	n := 0
	for _, g := range groups {
		n += len(g.Lines)
	}
	return n
}

func printOrders(out io.Writer, list []models.Order) {
	tw := table(out)
	fmt.Fprintln(tw, "ORDER\tSTORE\tSTATUS\tCODE\tPICKUP\tTOTAL")
	for _, o := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			o.OrderID, o.StoreSnapshot.Name, o.Status, o.QRCode,
			pickup(o.PickupWindow), money(o.TotalAmount))
	}
	tw.Flush()
}

func pickup(w models.PickupWindow) string {
	start, end := w.Start.Local(), w.End.Local()
	return start.Format(timeLayout) + " - " + end.Format("15:04")
}

func printOrder(out io.Writer, o models.Order) {
	tw := table(out)
	fmt.Fprintf(tw, "Order\t%s\n", o.OrderID)
	fmt.Fprintf(tw, "Status\t%s\n", o.Status)
	fmt.Fprintf(tw, "Pickup code\t%s\n", o.QRCode)
	fmt.Fprintf(tw, "Store\t%s\n", o.StoreSnapshot.Name)
	fmt.Fprintf(tw, "Address\t%s\n", o.StoreSnapshot.Address)
	fmt.Fprintf(tw, "Pickup\t%s\n", pickup(o.PickupWindow))
	for _, l := range o.Deals {
		fmt.Fprintf(tw, "  %s\tx%d @ %s\n", l.DealID, l.Quantity, money(l.PriceAtPurchase))
	}
	fmt.Fprintf(tw, "Total\t%s\n", money(o.TotalAmount))
	tw.Flush()
}

func printVerification(out io.Writer, v session.Verification) {
	tw := table(out)
	fmt.Fprintf(tw, "Status\t%s\n", v.Status)
	if p := v.Proof; p != nil {
		fmt.Fprintf(tw, "Network\t%s\n", p.Network)
		fmt.Fprintf(tw, "Signer\t%s\n", p.Signer)
		fmt.Fprintf(tw, "Block\t%d\n", p.BlockNumber)
		fmt.Fprintf(tw, "Anchored\t%s\n", p.AnchorTimestamp.Local().Format(timeLayout))
		fmt.Fprintf(tw, "Content hash\t%s\n", proof.ShortHash(p.ContentHash, 8, 6))
		fmt.Fprintf(tw, "Local hash\t%s\n", proof.ShortHash(v.Local, 8, 6))
		fmt.Fprintf(tw, "Tx\t%s\n", proof.ShortHash(p.TxHash, 8, 6))
	}
	tw.Flush()
}

func printAudit(out io.Writer, rep session.AuditReport) {
	tw := table(out)
	fmt.Fprintln(tw, "DEAL\tSTATUS\tERROR")
	for _, e := range rep.Entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.DealID, e.Status, e.Err)
	}
	tw.Flush()
	fmt.Fprintf(out, "\n%d verified, %d mismatch, %d unknown\n", rep.Verified, rep.Mismatch, rep.Unknown)
}
