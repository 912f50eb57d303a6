package exchange

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Refresher periodically runs the pipeline for every registered currency to
// keep stored rates warm. It goes through the Orchestrator, so the cooldown
// gate still bounds upstream load; a refresh landing inside the window is
// simply throttled.
type Refresher struct {
	orchestrator *Orchestrator
	registry     *CurrencyRegistry
	interval     time.Duration
	// -----
	sched gocron.Scheduler
}

func (r *Refresher) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	r.sched = scheduler

	job := func(jobCtx context.Context) {
		execID := uuid.NewString()
		for _, code := range r.registry.Supported() {
			view, execErr := r.orchestrator.Execute(jobCtx, code)
			if execErr != nil {
				logrus.Errorf("Refresh job %s failed for %s: %v", execID, code, execErr)
				continue
			}
			logrus.Infof("Refresh job %s: %s -> %s", execID, code, view.Outcome)
		}
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(r.interval),
		gocron.NewTask(job),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)

	if err != nil {
		return err
	}

	scheduler.Start()

	// Stop scheduler when the provided context is canceled.
	go func() {
		<-ctx.Done()
		if sdErr := r.Shutdown(); sdErr != nil {
			logrus.Errorf("Refresher shutdown error: %v", sdErr)
		}
	}()
	return nil
}

func (r *Refresher) Shutdown() error {
	if r.sched == nil {
		return nil
	}
	err := r.sched.Shutdown()
	r.sched = nil
	return err
}

func NewRefresher(orchestrator *Orchestrator, registry *CurrencyRegistry, interval time.Duration) *Refresher {
	return &Refresher{orchestrator: orchestrator, registry: registry, interval: interval}
}
