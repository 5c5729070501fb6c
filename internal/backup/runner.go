package backup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/dmitrijs2005/scholarkeeper/internal/logging"
	"github.com/dmitrijs2005/scholarkeeper/internal/transfer"
)

// Exporter produces the document that gets backed up.
type Exporter interface {
	ExportAll(ctx context.Context) (*transfer.Export, error)
}

type Result struct {
	Sink     string
	Location string
}

type Runner struct {
	exporter Exporter
	sinks    []Sink
	logger   logging.Logger
	timeout  time.Duration
}

// NewRunner returns a Runner writing to sinks. A zero timeout means each
// sink write is bounded only by the caller's context.
func NewRunner(exporter Exporter, logger logging.Logger, timeout time.Duration, sinks ...Sink) *Runner {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Runner{exporter: exporter, sinks: sinks, logger: logger, timeout: timeout}
}

// RunOnce exports the store and hands the document to every sink. A failing
// sink does not stop the others; all failures are joined into the error.
func (r *Runner) RunOnce(ctx context.Context) ([]Result, error) {
	if len(r.sinks) == 0 {
		return nil, errors.New("no backup sinks configured")
	}
	log := r.logger.With("run_id", uuid.NewString())

	doc, err := r.exporter.ExportAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	data, err := transfer.Marshal(doc)
	if err != nil {
		return nil, err
	}
	name := transfer.BackupFileName(doc.ExportedAt)

	var (
		results []Result
		errs    []error
	)
	for _, sink := range r.sinks {
		loc, err := r.put(ctx, sink, name, data)
		if err != nil {
			log.Error(ctx, "backup failed", "sink", sink.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
			continue
		}
		log.Info(ctx, "backup written", "sink", sink.Name(), "location", loc, "bytes", len(data))
		results = append(results, Result{Sink: sink.Name(), Location: loc})
	}
	return results, errors.Join(errs...)
}

func (r *Runner) put(ctx context.Context, sink Sink, name string, data []byte) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return sink.Put(ctx, name, data)
}

// Scheduler runs a Runner on a cron schedule ("@daily", "0 3 * * *", ...).
// Overlapping runs are skipped.
type Scheduler struct {
	cron   *cron.Cron
	runner *Runner
	logger logging.Logger
	ctx    context.Context
}

func NewScheduler(ctx context.Context, runner *Runner, spec string) (*Scheduler, error) {
	l := cronLogger{ctx: ctx, logger: runner.logger}
	s := &Scheduler{
		cron:   cron.New(cron.WithLogger(l), cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l))),
		runner: runner,
		logger: runner.logger,
		ctx:    ctx,
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("invalid backup schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) run() {
	if _, err := s.runner.RunOnce(s.ctx); err != nil {
		s.logger.Error(s.ctx, "scheduled backup failed", "error", err)
	}
}

// Next reports when the job fires next; zero before Start.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Run starts the schedule and blocks until ctx is done, then waits for a
// running backup to finish.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	s.logger.Info(ctx, "backup schedule started", "next", s.Next())
	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.Info(ctx, "backup schedule stopped")
}

// cronLogger forwards cron's own logging to a logging.Logger.
type cronLogger struct {
	ctx    context.Context
	logger logging.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.logger.Debug(c.ctx, "cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.logger.Error(c.ctx, "cron: "+msg, append(keysAndValues, "error", err)...)
}
