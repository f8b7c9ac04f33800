package sync

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs the sync service on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	service *Service
	logger  *zap.Logger
}

// NewScheduler wraps the service in a cron runner using a standard
// five-field spec, e.g. "0 18 * * *".
func NewScheduler(service *Service, spec string, logger *zap.Logger) (*Scheduler, error) {
	c := cron.New()
	s := &Scheduler{cron: c, service: service, logger: logger}

	_, err := c.AddFunc(spec, func() {
		if _, err := service.Run(context.Background()); err != nil {
			logger.Error("scheduled sync failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, err
	}
	logger.Info("sync scheduled", zap.String("spec", spec))
	return s, nil
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}
