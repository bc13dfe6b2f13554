package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	"service-dispatch/internal/logx"
	"service-dispatch/internal/transport/kafka"
)

const shutdownTimeout = 15 * time.Second

// Runner runs the HTTP API
type Runner struct {
	runFn func(*dig.Container) error
}

// NewRunner returns a new Runner
func NewRunner() *Runner {
	return &Runner{runFn: run}
}

// MustRun starts the HTTP server using the provided DI container
func MustRun(container *dig.Container) {
	NewRunner().MustRun(container)
}

// MustRun starts the HTTP server and blocks until the context is done
func (r *Runner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil {
		return
	}
	logger := logx.Nop()
	_ = container.Invoke(func(l logx.Logger) { logger = l })

	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("shutdown requested, exiting")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Error("startup aborted: startup timeout exceeded")
	default:
		logger.Error("run error", logx.Err(err))
		panic(err)
	}
}

type apiIn struct {
	dig.In
	Ctx      context.Context
	Server   *http.Server
	Admin    *http.Server `name:"admin_server" optional:"true"`
	Logger   logx.Logger
	Pool     *pgxpool.Pool
	Redis    *redis.Client         `optional:"true"`
	Producer *kafka.SaramaProducer `optional:"true"`
}

func run(container *dig.Container) error {
	return container.Invoke(func(in apiIn) error {
		errCh := startServer(in.Server, in.Logger)
		if in.Admin != nil {
			startAdmin(in.Admin, in.Logger)
		}
		select {
		case err := <-errCh:
			closeResources(in)
			return err
		case <-in.Ctx.Done():
		}
		in.Logger.Info("shutting down service-dispatch")
		gracefulShutdown(in.Server, in.Logger, shutdownTimeout)
		if in.Admin != nil {
			gracefulShutdown(in.Admin, in.Logger, shutdownTimeout)
		}
		closeResources(in)
		return in.Ctx.Err()
	})
}

func startServer(server *http.Server, logger logx.Logger) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("service-dispatch listening", logx.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	return errCh
}

// падение диагностического листенера не роняет API
func startAdmin(server *http.Server, logger logx.Logger) {
	go func() {
		logger.Info("admin listener started", logx.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("admin listener failed", logx.Err(err))
		}
	}()
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Error("graceful shutdown error", logx.Err(err))
	}
}

func closeResources(in apiIn) {
	if err := in.Server.Close(); err != nil {
		in.Logger.Error("server close error", logx.Err(err))
	}
	if in.Admin != nil {
		if err := in.Admin.Close(); err != nil {
			in.Logger.Error("admin server close error", logx.Err(err))
		}
	}
	if err := in.Producer.Close(); err != nil {
		in.Logger.Error("kafka producer close error", logx.Err(err))
	}
	if in.Redis != nil {
		if err := in.Redis.Close(); err != nil {
			in.Logger.Error("redis close error", logx.Err(err))
		}
	}
	if in.Pool != nil {
		in.Pool.Close()
	}
}
