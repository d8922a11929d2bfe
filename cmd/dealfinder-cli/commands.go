package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"dealfinder/internal/domain/models"
	"dealfinder/internal/session"
)

// multiFlag collects a repeatable string flag; comma-separated values are
// split as well.
type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ",") }

func (m *multiFlag) Set(v string) error {
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			*m = append(*m, p)
		}
	}
	return nil
}

func dispatch(ctx context.Context, s *session.Session, args []string, out io.Writer) error {
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "deals":
		return cmdDeals(ctx, s, rest, out)
	case "deal":
		return cmdDeal(ctx, s, rest, out)
	case "view":
		return cmdView(ctx, s, rest, out)
	case "cart":
		return cmdCart(ctx, s, out)
	case "add":
		return cmdAdd(ctx, s, rest, out)
	case "remove":
		return cmdRemove(ctx, s, rest, out)
	case "checkout":
		return cmdCheckout(ctx, s, out)
	case "orders":
		return cmdOrders(ctx, s, out)
	case "order":
		return cmdOrder(ctx, s, rest, out)
	case "verify":
		return cmdVerify(ctx, s, rest, out)
	case "audit":
		return cmdAudit(ctx, s, rest, out)
	}
	return usagef("unknown command %q", cmd)
}

func parseFilters(args []string) (models.Filters, error) {
	f := models.InitialFilters()

	fs := flag.NewFlagSet("deals", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	sortBy := fs.String("sort", string(models.SortDistance), "distance|discount-desc|price-asc|expiry")
	var categories, stores, dietary multiFlag
	fs.Var(&categories, "category", "category, repeatable")
	fs.Var(&stores, "store", "store brand, repeatable")
	fs.Var(&dietary, "dietary", "dietary tag, repeatable")
	priceMax := fs.Float64("max", models.InitialPriceMax, "price ceiling (default follows the deal pool)")

	if err := fs.Parse(args); err != nil {
		return f, usagef("deals: %v", err)
	}

	f.SortBy = models.SortKey(*sortBy)
	if !f.SortBy.Valid() {
		return f, usagef("deals: unknown sort %q", *sortBy)
	}
	if *priceMax < 0 {
		return f, usagef("deals: -max must not be negative")
	}
	f.Categories = categories
	f.Stores = stores
	f.Dietary = dietary
	fs.Visit(func(fl *flag.Flag) {
		if fl.Name == "max" {
			f.PriceMax = *priceMax
			f.PriceMaxAuto = false
		}
	})
	return f, nil
}

func cmdDeals(ctx context.Context, s *session.Session, args []string, out io.Writer) error {
	f, err := parseFilters(args)
	if err != nil {
		return err
	}

	view, err := s.Discover(ctx, f)
	if err != nil {
		return err
	}
	mode, err := s.ViewMode(ctx)
	if err != nil {
		return err
	}

	printView(out, view, mode)
	return nil
}

func cmdDeal(ctx context.Context, s *session.Session, args []string, out io.Writer) error {
	if len(args) != 1 {
		return usagef("deal: expected <id>")
	}
	d, err := s.Deal(ctx, args[0])
	if err != nil {
		return err
	}
	printDeal(out, d)
	return nil
}

func cmdView(ctx context.Context, s *session.Session, args []string, out io.Writer) error {
	switch len(args) {
	case 0:
		m, err := s.ViewMode(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, m)
		return nil
	case 1:
		m := models.ViewMode(args[0])
		if !m.Valid() {
			return usagef("view: expected list or map, got %q", args[0])
		}
		if err := s.SetViewMode(ctx, m); err != nil {
			return err
		}
		fmt.Fprintf(out, "view set to %s\n", m)
		return nil
	}
	return usagef("view: expected [list|map]")
}

func cmdCart(ctx context.Context, s *session.Session, out io.Writer) error {
	sum, err := s.CartSummary(ctx)
	if err != nil {
		return err
	}
	printSummary(out, sum)
	return nil
}

func cmdAdd(ctx context.Context, s *session.Session, args []string, out io.Writer) error {
	if len(args) < 1 || len(args) > 2 {
		return usagef("add: expected <dealId> [qty]")
	}
	qty := 1
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return usagef("add: qty must be an integer")
		}
		qty = n
	}

	c, err := s.AddToCart(ctx, args[0], qty)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "added %d x %s (%d lines in cart)\n", qty, args[0], len(c.Items))
	return nil
}

func cmdRemove(ctx context.Context, s *session.Session, args []string, out io.Writer) error {
	if len(args) != 1 {
		return usagef("remove: expected <dealId>")
	}
	c, err := s.RemoveFromCart(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "removed %s (%d lines in cart)\n", args[0], len(c.Items))
	return nil
}

func cmdCheckout(ctx context.Context, s *session.Session, out io.Writer) error {
	c, err := s.Cart(ctx)
	if err != nil {
		return err
	}
	if c.Empty() {
		fmt.Fprintln(out, "cart is empty")
		return nil
	}

	created, err := s.Checkout(ctx)
	if err != nil {
		return err
	}
	if len(created) == 0 {
		fmt.Fprintln(out, "none of the cart items are available any more; cart kept")
		return nil
	}

	noun := "pickup is"
	if len(created) > 1 {
		noun = "pickups are"
	}
	fmt.Fprintf(out, "All set! %d %s ready in Orders.\n\n", len(created), noun)
	printOrders(out, created)
	return nil
}

func cmdOrders(ctx context.Context, s *session.Session, out io.Writer) error {
	list, err := s.Orders(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(out, "no orders yet")
		return nil
	}
	printOrders(out, list)
	return nil
}

func cmdOrder(ctx context.Context, s *session.Session, args []string, out io.Writer) error {
	if len(args) != 1 {
		return usagef("order: expected <id>")
	}
	o, err := s.Order(ctx, args[0])
	if err != nil {
		return err
	}
	printOrder(out, o)
	return nil
}

func cmdVerify(ctx context.Context, s *session.Session, args []string, out io.Writer) error {
	if len(args) != 1 {
		return usagef("verify: expected <dealId>")
	}
	v, err := s.VerifyProof(ctx, args[0])
	if err != nil {
		return err
	}
	printVerification(out, v)
	return nil
}

func cmdAudit(ctx context.Context, s *session.Session, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("audit", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	workers := fs.Int("workers", 4, "concurrent proof fetches")
	if err := fs.Parse(args); err != nil {
		return usagef("audit: %v", err)
	}

	rep, err := s.AuditProofs(ctx, *workers)
	if err != nil {
		return err
	}
	printAudit(out, rep)
	return nil
}
