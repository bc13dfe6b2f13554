package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"service-dispatch/internal/http/handlers"
)

// Handlers groups the resource handlers. A nil handler leaves its routes
// unregistered.
type Handlers struct {
	Base     *handlers.Handlers
	Courier  *handlers.CourierHandler
	Delivery *handlers.DeliveryHandler
	Seller   *handlers.SellerHandler
}

// Middlewares are optional cross-cutting layers.
type Middlewares struct {
	Observability func(http.Handler) http.Handler
	// MatchLimit guards the match endpoint, keyed by courier.
	MatchLimit func(http.Handler) http.Handler
	Metrics    http.Handler
}

const requestTimeout = 5 * time.Second

// New constructs a chi-based http.Handler with base middleware and routes.
func New(h Handlers, mw Middlewares) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if mw.Observability != nil {
		r.Use(mw.Observability)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	base := h.Base
	if base == nil {
		base = handlers.New(nil)
	}
	r.Get("/ping", base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(base.HealthcheckHead))
	r.NotFound(http.HandlerFunc(base.NotFound))
	if mw.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", mw.Metrics)
	}

	if c := h.Courier; c != nil {
		matchLimit := mw.MatchLimit
		if matchLimit == nil {
			matchLimit = func(next http.Handler) http.Handler { return next }
		}
		r.Route("/couriers", func(r chi.Router) {
			r.Get("/nearby", c.Nearby)
			r.Route("/{id}", func(r chi.Router) {
				r.Post("/profile", c.CreateProfile)
				r.Get("/profile", c.GetProfile)
				r.Patch("/profile", c.UpdateProfile)
				r.Put("/availability", c.SetAvailability)
				r.Put("/position", c.UpdatePosition)
				r.With(matchLimit).Get("/matches", c.Matches)
			})
		})
	}

	if d := h.Delivery; d != nil {
		r.Route("/deliveries/{id}", func(r chi.Router) {
			r.Get("/", d.Get)
			r.Get("/events", d.Events)
			r.Post("/accept", d.Accept)
			r.Post("/pickup", d.PickUp)
			r.Post("/deliver", d.Deliver)
			r.Post("/cancel", d.Cancel)
		})
	}

	if s := h.Seller; s != nil {
		r.Put("/sellers/{id}/location", s.PutLocation)
	}

	return r
}
