package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"dealfinder/internal/domain/models"
	"dealfinder/internal/http-server/handlers/deals"
	"dealfinder/internal/http-server/handlers/orders"
	"dealfinder/internal/http-server/handlers/users"
	"dealfinder/internal/http-server/middleware"
	"dealfinder/internal/http-server/respond"
)

type Server struct {
	log    *slog.Logger
	router chi.Router
}

type Deps struct {
	Catalog deals.Catalog
	Orders  orders.Service
	User    models.User
	Faults  middleware.FaultOptions
	Timeout time.Duration
	Now     func() time.Time
}

func New(log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{log: log, router: chi.NewRouter()}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) RegisterRoutes(dep Deps) {
	r := s.router

	r.Use(middleware.AccessLog(s.log))
	r.Use(middleware.RecoverPanic(s.log))
	r.Use(middleware.RequestID)

	faults := dep.Faults
	faults.Skip = func(req *http.Request) bool { return req.URL.Path == "/health" }
	r.Use(middleware.Faults(faults, s.log))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respond.WriteError(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respond.WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	dealOpts := deals.Options{Log: s.log, Catalog: dep.Catalog, Now: dep.Now}
	r.Get("/deals", deals.NewListHandler(dealOpts))
	r.Get("/deals/{id}", deals.NewGetHandler(dealOpts))
	r.Get("/deals/{id}/proof", deals.NewProofHandler(dealOpts))

	orderOpts := orders.Options{Log: s.log, Orders: dep.Orders, Timeout: dep.Timeout}
	r.Get("/orders", orders.NewListHandler(orderOpts))
	r.Post("/orders", orders.NewCreateHandler(orderOpts))
	r.Get("/orders/{id}", orders.NewGetHandler(orderOpts))

	r.Get("/me", users.NewMeHandler(dep.User))
}
