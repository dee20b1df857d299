// Package scheduler runs recurring ingestion on a cron spec, with one
// warm-up run shortly after startup so a fresh deployment has data before
// the first tick.
package scheduler

import (
	"context"
	"log"
	"time"

	"gmscraper/pipeline"

	"github.com/robfig/cron/v3"
)

const startupDelay = 15 * time.Second

type Scheduler struct {
	cron     *cron.Cron
	ingestor *pipeline.Ingestor
	opts     pipeline.Options
	spec     string
	timeout  time.Duration
}

func New(ingestor *pipeline.Ingestor, spec string, opts pipeline.Options) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		ingestor: ingestor,
		opts:     opts,
		spec:     spec,
		timeout:  30 * time.Minute,
	}
}

// Start registers the cron entry and kicks off the warm-up run. It returns
// an error only when the cron expression does not parse.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.RunOnce); err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("Scheduler started with spec %q", s.spec)

	time.AfterFunc(startupDelay, func() {
		log.Printf("Running startup ingestion...")
		s.RunOnce()
	})

	return nil
}

// RunOnce executes a single full ingestion run under the scheduler's
// timeout.
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	summary := s.ingestor.Run(ctx, s.opts)
	log.Printf("Scheduled ingestion finished in %s: success=%d failed=%d skipped=%d articles=%d",
		time.Since(start).Round(time.Millisecond), summary.Success, summary.Failed, summary.Skipped, len(summary.Articles))
}

// Stop halts the cron loop. Runs already in flight finish on their own.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Printf("Scheduler stopped")
}
