package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"dealfinder/internal/apis/dealsapi"
	"dealfinder/internal/cart"
	"dealfinder/internal/discovery"
	"dealfinder/internal/domain/models"
	"dealfinder/internal/geo"
	"dealfinder/internal/proof"
	"dealfinder/internal/repository"
)

// ViewModeKey is where the discover view preference is stored.
const ViewModeKey = "discover:view"

// API is the part of the deals service the session talks to.
type API interface {
	ListDeals(ctx context.Context, q dealsapi.DealsQuery) ([]models.Deal, error)
	GetDeal(ctx context.Context, id string) (models.Deal, error)
	GetProof(ctx context.Context, dealID string) (models.Proof, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	CreateOrders(ctx context.Context, c models.Cart) ([]models.Order, error)
	GetOrder(ctx context.Context, id string) (models.Order, error)
}

type Options struct {
	API  API
	KV   repository.KV
	User models.User
	Ref  geo.Point
	Log  *slog.Logger
}

// Session is one user's client-side state: the last fetched deal pool, the
// persisted cart and view preference, and the last results of each fetch.
type Session struct {
	api  API
	kv   repository.KV
	cart *cart.Service
	user models.User
	ref  geo.Point
	log  *slog.Logger

	mu sync.Mutex

	discoverGuard *Guard
	dealGuard     *Guard
	proofGuard    *Guard
	ordersGuard   *Guard
	orderGuard    *Guard
	checkoutGuard *Guard

	pool     []models.Deal
	deal     *models.Deal
	proof    *Verification
	orders   []models.Order
	order    *models.Order
	lastPaid []models.Order
}

// Snapshot is the last applied result of each fetch.
type Snapshot struct {
	Deal         *models.Deal
	Verification *Verification
	Orders       []models.Order
	Order        *models.Order
	LastCheckout []models.Order
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Deal:         s.deal,
		Verification: s.proof,
		Orders:       s.orders,
		Order:        s.order,
		LastCheckout: s.lastPaid,
	}
}

func New(opts Options) (*Session, error) {
	if opts.API == nil {
		return nil, fmt.Errorf("session: API is nil")
	}
	if opts.KV == nil {
		return nil, fmt.Errorf("session: KV is nil")
	}
	if opts.Log == nil {
		opts.Log = slog.Default()
	}

	s := &Session{
		api:  opts.API,
		kv:   opts.KV,
		cart: cart.NewService(opts.KV, opts.Log),
		user: opts.User,
		ref:  opts.Ref,
		log:  opts.Log,
	}
	s.discoverGuard = newGuard(&s.mu)
	s.dealGuard = newGuard(&s.mu)
	s.proofGuard = newGuard(&s.mu)
	s.ordersGuard = newGuard(&s.mu)
	s.orderGuard = newGuard(&s.mu)
	s.checkoutGuard = newGuard(&s.mu)
	return s, nil
}

func (s *Session) User() models.User { return s.user }

// Pool returns a copy of the last successfully fetched deals.
func (s *Session) Pool() []models.Deal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clonePool(s.pool)
}

func (s *Session) query() dealsapi.DealsQuery {
	return dealsapi.DealsQuery{Lat: s.ref.Lat, Lng: s.ref.Lng, HasPoint: true}
}

// Refresh fetches the deal pool and augments it with distances from the
// reference point. On failure the previous pool is kept.
func (s *Session) Refresh(ctx context.Context) ([]models.Deal, error) {
	t := s.discoverGuard.Begin()

	augmented, err := s.fetchPool(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.discoverGuard.Commit(ctx, t, func() { s.pool = augmented }); err != nil {
		return nil, err
	}
	s.log.Debug("deal pool refreshed", "count", len(augmented))
	return clonePool(augmented), nil
}

// fetchPool lists and augments deals without touching session state.
func (s *Session) fetchPool(ctx context.Context) ([]models.Deal, error) {
	deals, err := s.api.ListDeals(ctx, s.query())
	if err != nil {
		return nil, fetchErr("list deals", err)
	}
	return geo.Augment(s.ref, deals), nil
}

// Discover refreshes the pool and derives the filtered view for f.
func (s *Session) Discover(ctx context.Context, f models.Filters) (discovery.View, error) {
	pool, err := s.Refresh(ctx)
	if err != nil {
		return discovery.View{}, err
	}
	return discovery.Build(pool, f), nil
}

func (s *Session) ViewMode(ctx context.Context) (models.ViewMode, error) {
	m, err := repository.LoadJSON(ctx, s.kv, ViewModeKey, models.ViewList, s.log)
	if err != nil {
		return models.ViewList, err
	}
	if !m.Valid() {
		s.log.Warn("stored view mode ignored", "value", string(m))
		return models.ViewList, nil
	}
	return m, nil
}

func (s *Session) SetViewMode(ctx context.Context, m models.ViewMode) error {
	if !m.Valid() {
		return fmt.Errorf("view mode %q: must be %q or %q", m, models.ViewList, models.ViewMap)
	}
	return repository.SaveJSON(ctx, s.kv, ViewModeKey, m)
}

func (s *Session) Cart(ctx context.Context) (models.Cart, error) {
	return s.cart.Load(ctx)
}

func (s *Session) AddToCart(ctx context.Context, dealID string, qty int) (models.Cart, error) {
	return s.cart.Add(ctx, dealID, qty)
}

func (s *Session) RemoveFromCart(ctx context.Context, dealID string) (models.Cart, error) {
	return s.cart.Remove(ctx, dealID)
}

// Summary is the cart resolved against the deal pool.
type Summary struct {
	Cart   models.Cart       `json:"cart"`
	Groups []cart.StoreGroup `json:"groups"`
	Totals cart.Totals       `json:"totals"`
}

// CartSummary groups the stored cart by store. The pool is fetched once
// when nothing has been fetched yet.
func (s *Session) CartSummary(ctx context.Context) (Summary, error) {
	c, err := s.cart.Load(ctx)
	if err != nil {
		return Summary{}, err
	}

	pool := s.Pool()
	if len(pool) == 0 && !c.Empty() {
		if pool, err = s.Refresh(ctx); err != nil {
			return Summary{}, err
		}
	}

	groups := cart.Group(c, pool)
	return Summary{Cart: c, Groups: groups, Totals: cart.TotalsFor(groups)}, nil
}

// Checkout submits the stored cart. Once the server has created at least
// one order the cart is cleared, even if the caller's context ended in the
// meantime; only the LastCheckout snapshot is subject to the staleness
// guard. On any submission error the cart is left as it was.
func (s *Session) Checkout(ctx context.Context) ([]models.Order, error) {
	c, err := s.cart.Load(ctx)
	if err != nil {
		return nil, err
	}

	t := s.checkoutGuard.Begin()
	created, err := s.api.CreateOrders(ctx, c)
	if err != nil {
		return nil, fetchErr("create orders", err)
	}

	if len(created) == 0 {
		s.log.Info("checkout produced no orders", "lines", len(c.Items))
	} else if err := s.cart.Clear(context.WithoutCancel(ctx)); err != nil {
		s.log.Error("clear cart after checkout failed", "err", err, "orders", len(created))
		return created, err
	}

	if err := s.checkoutGuard.Commit(ctx, t, func() { s.lastPaid = created }); err != nil {
		s.log.Debug("checkout snapshot superseded", "err", err)
	}

	if len(created) > 0 {
		s.log.Info("checkout complete", "orders", len(created), "lines", len(c.Items))
	}
	return created, nil
}

func (s *Session) Orders(ctx context.Context) ([]models.Order, error) {
	t := s.ordersGuard.Begin()
	list, err := s.api.ListOrders(ctx)
	if err != nil {
		return nil, fetchErr("list orders", err)
	}
	if err := s.ordersGuard.Commit(ctx, t, func() { s.orders = list }); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Session) Order(ctx context.Context, id string) (models.Order, error) {
	t := s.orderGuard.Begin()
	o, err := s.api.GetOrder(ctx, id)
	if err != nil {
		return models.Order{}, fetchErr("get order "+id, err)
	}
	if err := s.orderGuard.Commit(ctx, t, func() { s.order = &o }); err != nil {
		return models.Order{}, err
	}
	return o, nil
}

// Deal fetches one deal and augments it with its distance.
func (s *Session) Deal(ctx context.Context, id string) (models.Deal, error) {
	t := s.dealGuard.Begin()
	d, err := s.api.GetDeal(ctx, id)
	if err != nil {
		return models.Deal{}, fetchErr("get deal "+id, err)
	}
	d = geo.Augment(s.ref, []models.Deal{d})[0]

	if err := s.dealGuard.Commit(ctx, t, func() { s.deal = &d }); err != nil {
		return models.Deal{}, err
	}
	return d, nil
}

// Verification is a fetched proof together with the local check result.
type Verification struct {
	Proof  *models.Proof `json:"proof,omitempty"`
	Status proof.Status  `json:"status"`
	Local  string        `json:"localHash,omitempty"`
}

// VerifyProof fetches the proof for dealID and recomputes its content hash.
// A mismatch is reported in the status, not as an error.
func (s *Session) VerifyProof(ctx context.Context, dealID string) (Verification, error) {
	t := s.proofGuard.Begin()
	p, err := s.api.GetProof(ctx, dealID)
	if err != nil {
		return Verification{Status: proof.Unknown}, fetchErr("get proof "+dealID, err)
	}

	v := Verification{Proof: &p, Status: proof.Verify(&p), Local: proof.Hash(p.Canonical)}
	if err := s.proofGuard.Commit(ctx, t, func() { s.proof = &v }); err != nil {
		return Verification{Status: proof.Unknown}, err
	}
	if v.Status == proof.Mismatch {
		s.log.Warn("proof mismatch", "deal_id", dealID, "claimed", p.ContentHash, "local", v.Local)
	}
	return v, nil
}

// fetchErr keeps not-found and context errors as they are and marks
// everything else as a fetch failure.
func fetchErr(op string, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrFetchFailure),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, models.ErrFetchFailure, err)
}

func clonePool(in []models.Deal) []models.Deal {
	out := make([]models.Deal, len(in))
	for i, d := range in {
		out[i] = d.Clone()
	}
	return out
}
