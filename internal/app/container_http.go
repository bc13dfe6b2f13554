package app

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"service-dispatch/internal/config"
	"service-dispatch/internal/http/adminserver"
	"service-dispatch/internal/http/handlers"
	"service-dispatch/internal/http/middleware"
	"service-dispatch/internal/http/middleware/ratelimit"
	"service-dispatch/internal/http/router"
	"service-dispatch/internal/logx"
	"service-dispatch/internal/repository"
	"service-dispatch/internal/service/availability"
	"service-dispatch/internal/service/delivery"
	"service-dispatch/internal/service/location"
	"service-dispatch/internal/service/matching"
	"service-dispatch/internal/service/profile"
)

func newBaseHandlers(logger logx.Logger) *handlers.Handlers {
	return handlers.New(logger)
}

func newCourierHandler(
	logger logx.Logger,
	profiles *profile.Service,
	avail *availability.Service,
	loc *location.Service,
	match *matching.Service,
) *handlers.CourierHandler {
	return handlers.NewCourierHandler(logx.Component(logger, "http"), profiles, avail, loc, match)
}

func newDeliveryHandler(logger logx.Logger, svc *delivery.Service) *handlers.DeliveryHandler {
	return handlers.NewDeliveryHandler(logx.Component(logger, "http"), svc)
}

func newSellerHandler(logger logx.Logger, repo *repository.SellerLocationRepo) *handlers.SellerHandler {
	return handlers.NewSellerHandler(logx.Component(logger, "http"), repo)
}

type routerIn struct {
	dig.In
	Logger    logx.Logger
	Base      *handlers.Handlers
	Courier   *handlers.CourierHandler
	Delivery  *handlers.DeliveryHandler
	Seller    *handlers.SellerHandler
	RateLimit *ratelimit.Middleware
	Requests  *prometheus.CounterVec   `name:"http_requests_total"`
	Duration  *prometheus.HistogramVec `name:"http_request_duration_seconds"`
	Metrics   http.Handler             `name:"metrics_handler"`
}

func newRouter(in routerIn) http.Handler {
	return router.New(
		router.Handlers{
			Base:     in.Base,
			Courier:  in.Courier,
			Delivery: in.Delivery,
			Seller:   in.Seller,
		},
		router.Middlewares{
			Observability: middleware.Observability(
				logx.Component(in.Logger, "http"),
				middleware.HTTPMetrics{Requests: in.Requests, Duration: in.Duration},
			),
			MatchLimit: in.RateLimit.Handler(),
			Metrics:    in.Metrics,
		},
	)
}

type adminServerIn struct {
	dig.In
	Config  *config.Config
	Metrics http.Handler `name:"metrics_handler"`
}

type adminServerOut struct {
	dig.Out
	Server *http.Server `name:"admin_server"`
}

// диагностический листенер поднимается отдельно от публичного API
func newAdminServer(in adminServerIn) adminServerOut {
	ac := in.Config.Admin
	if !ac.Enabled {
		return adminServerOut{}
	}
	return adminServerOut{Server: &http.Server{
		Addr:              ac.Addr,
		Handler:           adminserver.Handler(adminserver.Config{User: ac.User, Pass: ac.Pass}, in.Metrics),
		ReadHeaderTimeout: 5 * time.Second,
	}}
}
