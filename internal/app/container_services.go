package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	"service-dispatch/internal/config"
	"service-dispatch/internal/domain"
	"service-dispatch/internal/gateway/routing"
	"service-dispatch/internal/geo"
	"service-dispatch/internal/logx"
	"service-dispatch/internal/repository"
	"service-dispatch/internal/service/availability"
	"service-dispatch/internal/service/delivery"
	"service-dispatch/internal/service/location"
	"service-dispatch/internal/service/matching"
	"service-dispatch/internal/service/profile"
	"service-dispatch/internal/transport/kafka"
)

func registerDomainServices(container *dig.Container) error {
	return provideAll(container,
		newProfileRepo,
		repository.NewDeliveryRepo,
		repository.NewSellerLocationRepo,
		newPositionStore,
		newStatusProducer,
		newProfileService,
		newLocationService,
		newAvailabilityService,
		newDistanceCalculator,
		newMatchingService,
		newDeliveryService,
	)
}

func newProfileRepo(db *pgxpool.Pool, logger logx.Logger) *repository.ProfileRepo {
	return repository.NewProfileRepo(db, logger)
}

func newPositionStore(client *redis.Client, cfg *config.Config) *repository.PositionStore {
	if client == nil {
		return nil
	}
	return repository.NewPositionStore(client, cfg.Location.LiveTTL)
}

func newStatusProducer(cfg *config.Config) (*kafka.SaramaProducer, error) {
	return kafka.NewSaramaProducer(cfg.Kafka.Brokers)
}

func newProfileService(
	cfg *config.Config,
	repo *repository.ProfileRepo,
	store *repository.PositionStore,
	logger logx.Logger,
) *profile.Service {
	s := profile.NewService(repo, cfg.Delivery.OperationTimeout)
	if store == nil {
		return s
	}
	return s.WithPositions(store, logx.Component(logger, "profile"))
}

// nil-указатели не передаем как интерфейс, иначе сервис не увидит nil
func newLocationService(
	cfg *config.Config,
	repo *repository.ProfileRepo,
	store *repository.PositionStore,
	logger logx.Logger,
) *location.Service {
	logger = logx.Component(logger, "location")
	if store == nil {
		return location.NewService(repo, nil, cfg.Delivery.OperationTimeout, logger)
	}
	return location.NewService(repo, store, cfg.Delivery.OperationTimeout, logger)
}

func newAvailabilityService(
	cfg *config.Config,
	repo *repository.ProfileRepo,
	store *repository.PositionStore,
	logger logx.Logger,
) *availability.Service {
	logger = logx.Component(logger, "availability")
	validator := availability.NewValidator(cfg.Schedule.Loc, cfg.Schedule.Locale)
	if store == nil {
		return availability.NewService(repo, nil, validator, cfg.Delivery.OperationTimeout, logger)
	}
	return availability.NewService(repo, store, validator, cfg.Delivery.OperationTimeout, logger)
}

type routingIn struct {
	dig.In
	Config    *config.Config
	Logger    logx.Logger
	Retries   prometheus.Counter `name:"routing_retries_total"`
	Fallbacks prometheus.Counter `name:"routing_fallback_total"`
}

func newDistanceCalculator(in routingIn) (*geo.Calculator, error) {
	logger := logx.Component(in.Logger, "routing")
	rc := in.Config.Routing

	google, err := routing.NewGoogleRouter(rc.APIKey)
	if err != nil {
		return nil, err
	}
	if google == nil {
		logger.Warn("routing provider disabled, distances use haversine")
		return geo.NewCalculator(nil, rc.Timeout, logger, in.Fallbacks), nil
	}
	router := routing.NewRetryingRouter(google, logger, in.Retries, routing.RetryConfig{
		MaxAttempts: rc.MaxAttempts,
		BaseDelay:   rc.BaseDelay,
		MaxDelay:    rc.MaxDelay,
	})
	return geo.NewCalculator(router, rc.Timeout, logger, in.Fallbacks), nil
}

type matchingIn struct {
	dig.In
	Config     *config.Config
	Logger     logx.Logger
	Profiles   *repository.ProfileRepo
	Location   *location.Service
	Orders     *repository.DeliveryRepo
	Sellers    *repository.SellerLocationRepo
	Distances  *geo.Calculator
	Duration   prometheus.Histogram `name:"match_duration_seconds"`
	Candidates prometheus.Histogram `name:"match_candidates"`
}

func newMatchingService(in matchingIn) *matching.Service {
	return matching.NewService(
		matching.Deps{
			Profiles:  in.Profiles,
			Resolver:  in.Location,
			Orders:    in.Orders,
			Pickups:   in.Sellers,
			Distances: in.Distances,
		},
		in.Config.Matching,
		domain.TravelMode(in.Config.Routing.Mode),
		in.Config.Delivery.OperationTimeout,
		matching.Metrics{Duration: in.Duration, Candidates: in.Candidates},
		logx.Component(in.Logger, "matching"),
	)
}

type deliveryIn struct {
	dig.In
	Config      *config.Config
	Logger      logx.Logger
	Repo        *repository.DeliveryRepo
	Profiles    *repository.ProfileRepo
	Producer    *kafka.SaramaProducer
	Transitions *prometheus.CounterVec `name:"delivery_transitions_total"`
}

func newDeliveryService(in deliveryIn) *delivery.Service {
	logger := logx.Component(in.Logger, "delivery")
	var publisher delivery.StatusPublisher
	if in.Producer != nil {
		publisher = kafka.NewStatusPublisher(in.Producer, in.Config.Kafka.StatusTopic, logger)
	}
	return delivery.NewService(
		in.Repo,
		in.Profiles,
		publisher,
		in.Transitions,
		in.Config.Delivery.OperationTimeout,
		logger,
	)
}
