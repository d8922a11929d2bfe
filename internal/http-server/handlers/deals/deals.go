package deals

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"dealfinder/internal/domain/models"
	"dealfinder/internal/http-server/query"
	"dealfinder/internal/http-server/respond"
	"dealfinder/internal/proof"
)

type Catalog interface {
	Deals() []models.Deal
	Deal(id string) (models.Deal, error)
}

type Options struct {
	Log     *slog.Logger
	Catalog Catalog
	Now     func() time.Time
}

func (o *Options) defaults() {
	if o.Log == nil {
		o.Log = slog.Default()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// NewListHandler serves GET /deals. lat/lon are validated when present but
// do not change the result; distances are computed by the caller.
func NewListHandler(opts Options) http.HandlerFunc {
	opts.defaults()

	return func(w http.ResponseWriter, r *http.Request) {
		if opts.Catalog == nil {
			opts.Log.Error("deals handler misconfigured: catalog is nil")
			respond.WriteInternalError(w)
			return
		}
		if _, _, _, err := query.Coordinates(r); err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
		respond.WriteJSON(w, http.StatusOK, opts.Catalog.Deals())
	}
}

func NewGetHandler(opts Options) http.HandlerFunc {
	opts.defaults()

	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		d, err := opts.Catalog.Deal(id)
		if err != nil {
			respond.WriteDomainError(w, opts.Log, err, "deal_id", id)
			return
		}
		respond.WriteJSON(w, http.StatusOK, d)
	}
}

func NewProofHandler(opts Options) http.HandlerFunc {
	opts.defaults()

	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		d, err := opts.Catalog.Deal(id)
		if err != nil {
			respond.WriteDomainError(w, opts.Log, err, "deal_id", id)
			return
		}

		p, err := proof.Build(d, opts.Now())
		if err != nil {
			respond.WriteDomainError(w, opts.Log, err, "deal_id", id)
			return
		}
		respond.WriteJSON(w, http.StatusOK, p)
	}
}
