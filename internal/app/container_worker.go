package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"service-dispatch/internal/config"
	earningsgw "service-dispatch/internal/gateway/earnings"
	"service-dispatch/internal/logx"
	"service-dispatch/internal/repository"
	"service-dispatch/internal/service/delivery"
	"service-dispatch/internal/service/earnings"
	"service-dispatch/internal/service/orders"
	"service-dispatch/internal/transport/kafka"
)

// MustBuildWorkerContainer builds the container of the background worker:
// purchase order intake and the earnings outbox relay.
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	b := NewContainerBuilder()
	container, err := b.buildWorker(ctx)
	if err != nil {
		b.logFatalf("failed to build worker container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) buildWorker(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerStorage(container, b.dbConnect, b.redisConnect); err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	if err := container.Provide(provideMetrics); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	if err := registerDomainServices(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerWorker(container); err != nil {
		return nil, fmt.Errorf("worker: %w", err)
	}
	return container, nil
}

func registerWorker(container *dig.Container) error {
	return provideAll(container,
		newOrdersProcessor,
		newOrdersConsumer,
		repository.NewEarningsOutboxRepo,
		newEarningsPublisher,
		newEarningsJob,
	)
}

type ordersProcessorIn struct {
	dig.In
	Logger   logx.Logger
	Delivery *delivery.Service
	Events   *prometheus.CounterVec `name:"order_events_total"`
}

func newOrdersProcessor(in ordersProcessorIn) *orders.Processor {
	return orders.NewProcessor(in.Delivery, in.Events, logx.Component(in.Logger, "orders"))
}

func newOrdersConsumer(cfg *config.Config, logger logx.Logger, p *orders.Processor) (*kafka.Consumer, error) {
	k := cfg.Kafka
	return kafka.NewConsumer(logger, k.Brokers, k.GroupID, k.OrdersTopic, makeOrdersKafka(p, cfg.Delivery.OperationTimeout))
}

func newEarningsPublisher(cfg *config.Config) (*earningsgw.Publisher, error) {
	return earningsgw.Dial(cfg.Earnings)
}

type earningsJobIn struct {
	dig.In
	Config    *config.Config
	Logger    logx.Logger
	Outbox    *repository.EarningsOutboxRepo
	Publisher *earningsgw.Publisher
	Relayed   prometheus.Counter `name:"earnings_relayed_total"`
}

// без AMQP_URL релей не запускается, записи копятся в outbox
func newEarningsJob(in earningsJobIn) *earnings.Job {
	if in.Publisher == nil {
		in.Logger.Warn("earnings relay disabled: AMQP_URL is empty")
		return nil
	}
	logger := logx.Component(in.Logger, "earnings")
	relay := earnings.NewRelay(
		in.Outbox,
		in.Publisher,
		in.Config.Earnings.BatchSize,
		in.Config.Delivery.OperationTimeout,
		in.Relayed,
		logger,
	)
	return earnings.NewJob(relay, in.Config.Earnings.RelaySchedule, logger)
}
