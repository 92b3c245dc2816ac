package orchestrator

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"jobsift/internal/logging"
	"jobsift/pkg/models"
)

// Scheduler runs source crawls on their configured cron schedules. Sources
// without a schedule use the crawler default.
type Scheduler struct {
	orchestrator *Orchestrator
	cron         *cron.Cron
	logger       logging.Logger
}

// NewScheduler creates a scheduler for the orchestrator's configured sources
func NewScheduler(o *Orchestrator) *Scheduler {
	return &Scheduler{
		orchestrator: o,
		cron:         cron.New(),
		logger:       logging.GetGlobalLogger().WithField("component", "scheduler"),
	}
}

// Start registers every source and starts the cron loop. Each source also
// crawls once immediately so records exist before the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	for _, source := range s.orchestrator.config.Sources {
		src := source
		schedule := src.Schedule
		if schedule == "" {
			schedule = s.orchestrator.config.Crawler.DefaultSchedule
		}

		_, err := s.cron.AddFunc(schedule, func() {
			s.orchestrator.CrawlSource(ctx, src)
		})
		if err != nil {
			return fmt.Errorf("failed to schedule source %s (%q): %w", src.OrgName, schedule, err)
		}

		s.logger.Info("Source scheduled", map[string]interface{}{
			"org":      src.OrgName,
			"schedule": schedule,
		})
	}

	s.cron.Start()

	// Initial crawl in the background so startup is not blocked
	go func() {
		for _, source := range s.orchestrator.config.Sources {
			if ctx.Err() != nil {
				return
			}
			s.orchestrator.CrawlSource(ctx, source)
		}
	}()

	return nil
}

// Stop stops the cron loop, waiting for running crawl callbacks to finish
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("Scheduler stopped")
}

// TriggerSource runs an immediate crawl for the named source
func (s *Scheduler) TriggerSource(ctx context.Context, orgName string) (*models.CrawlOutcome, error) {
	for _, source := range s.orchestrator.config.Sources {
		if source.OrgName == orgName {
			return s.orchestrator.CrawlSource(ctx, source), nil
		}
	}
	return nil, fmt.Errorf("unknown source: %s", orgName)
}
