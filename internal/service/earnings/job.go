package earnings

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"service-dispatch/internal/logx"
)

type runner interface {
	RunOnce(ctx context.Context) (int, error)
}

// Job runs the relay on a cron schedule with a seconds field.
type Job struct {
	relay    runner
	schedule string
	cron     *cron.Cron
	logger   logx.Logger
}

// NewJob creates a relay job. Overlapping runs are skipped.
func NewJob(relay runner, schedule string, logger logx.Logger) *Job {
	logger = logx.Component(logger, "earnings_relay_job")
	cl := cronLogger{l: logger}
	return &Job{
		relay:    relay,
		schedule: schedule,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: logger,
	}
}

// Start registers the relay and starts the scheduler in its own goroutine.
func (j *Job) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.tick); err != nil {
		return fmt.Errorf("schedule earnings relay %q: %w", j.schedule, err)
	}
	j.cron.Start()
	j.logger.Info("earnings relay job started", logx.String("schedule", j.schedule))
	return nil
}

// Stop stops scheduling and waits for a running relay to finish or ctx to end.
func (j *Job) Stop(ctx context.Context) {
	done := j.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		j.logger.Warn("earnings relay job stop timed out", logx.Err(ctx.Err()))
		return
	}
	j.logger.Info("earnings relay job stopped")
}

func (j *Job) tick() {
	if _, err := j.relay.RunOnce(context.Background()); err != nil {
		j.logger.Error("earnings relay failed", logx.Err(err))
	}
}

// cronLogger routes cron's own messages into logx.
type cronLogger struct {
	l logx.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug(msg, kvFields(keysAndValues)...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error(msg, append(kvFields(keysAndValues), logx.Err(err))...)
}

func kvFields(kv []any) []logx.Field {
	out := make([]logx.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		out = append(out, logx.Any(key, kv[i+1]))
	}
	return out
}
