package app

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	earningsgw "service-dispatch/internal/gateway/earnings"
	"service-dispatch/internal/logx"
	"service-dispatch/internal/service/earnings"
	"service-dispatch/internal/transport/kafka"
)

// errNothingToRun - воркер без кафки и без amqp ничего не делает
var errNothingToRun = errors.New("worker has nothing to run: kafka and amqp are not configured")

const jobStopTimeout = 10 * time.Second

// WorkerRunner runs the background worker
type WorkerRunner struct {
	runFn func(*dig.Container) error
}

// NewWorkerRunner returns a new WorkerRunner
func NewWorkerRunner() *WorkerRunner {
	return &WorkerRunner{runFn: runWorker}
}

// MustRun starts the worker using the provided DI container
func (r *WorkerRunner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	panic(err)
}

func runWorker(container *dig.Container) error {
	return container.Invoke(workerRun)
}

type workerIn struct {
	dig.In
	Ctx       context.Context
	Pool      *pgxpool.Pool
	Logger    logx.Logger
	Consumer  *kafka.Consumer
	Job       *earnings.Job
	Publisher *earningsgw.Publisher
	Producer  *kafka.SaramaProducer
}

func workerRun(in workerIn) error {
	if in.Consumer == nil && in.Job == nil {
		return errNothingToRun
	}
	defer closeWorker(in)

	if in.Job != nil {
		if err := in.Job.Start(); err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobStopTimeout)
			defer cancel()
			in.Job.Stop(ctx)
		}()
	}

	in.Logger.Info("service-dispatch-worker started",
		logx.Bool("orders_intake", in.Consumer != nil),
		logx.Bool("earnings_relay", in.Job != nil),
	)
	if in.Consumer == nil {
		<-in.Ctx.Done()
		return in.Ctx.Err()
	}
	return in.Consumer.Run(in.Ctx)
}

func closeWorker(in workerIn) {
	if err := in.Consumer.Close(); err != nil {
		in.Logger.Error("kafka consumer close error", logx.Err(err))
	}
	if err := in.Producer.Close(); err != nil {
		in.Logger.Error("kafka producer close error", logx.Err(err))
	}
	if err := in.Publisher.Close(); err != nil {
		in.Logger.Error("amqp close error", logx.Err(err))
	}
	if in.Pool != nil {
		in.Pool.Close()
	}
}
