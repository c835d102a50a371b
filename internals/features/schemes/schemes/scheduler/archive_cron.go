package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"schemetrack_backend/internals/features/schemes/schemes/service"
	"schemetrack_backend/internals/helpers/dbtime"
)

type ArchiveConfig struct {
	Schedule   string // standard 5-field cron or @every
	GraceDays  int
	RunOnStart bool
	Timeout    time.Duration
}

// ArchiveScheduler runs the auto-archive sweep on a cron schedule.
type ArchiveScheduler struct {
	cfg     ArchiveConfig
	sweeper *service.Sweeper
	clock   dbtime.Clock
	log     *zap.Logger

	cron *cron.Cron
	wg   sync.WaitGroup
	stop context.CancelFunc
}

func NewArchiveScheduler(cfg ArchiveConfig, sw *service.Sweeper, clock dbtime.Clock, log *zap.Logger) *ArchiveScheduler {
	if clock == nil {
		clock = dbtime.AppClock
	}
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 4 * time.Minute
	}
	log = log.Named("archive-cron")
	cronLog := cron.PrintfLogger(zap.NewStdLog(log))
	return &ArchiveScheduler{
		cfg:     cfg,
		sweeper: sw,
		clock:   clock,
		log:     log,
		cron:    cron.New(cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog))),
	}
}

// Start registers the job and, when configured, kicks off one sweep right away.
func (s *ArchiveScheduler) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.stop = cancel

	if _, err := s.cron.AddFunc(s.cfg.Schedule, func() { s.runOnce(ctx) }); err != nil {
		cancel()
		return fmt.Errorf("archive cron %q: %w", s.cfg.Schedule, err)
	}
	if s.cfg.RunOnStart {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runOnce(ctx)
		}()
	}
	s.cron.Start()
	s.log.Info("scheduled",
		zap.String("schedule", s.cfg.Schedule),
		zap.Int("grace_days", s.cfg.GraceDays),
		zap.Bool("run_on_start", s.cfg.RunOnStart),
	)
	return nil
}

// Stop lets running sweeps finish, including the startup one, then releases the context.
func (s *ArchiveScheduler) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
	if s.stop != nil {
		s.stop()
	}
}

func (s *ArchiveScheduler) runOnce(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, s.cfg.Timeout)
	defer cancel()

	res, err := s.sweeper.Run(ctx, s.cfg.GraceDays, s.clock())
	switch {
	case errors.Is(err, service.ErrSweepInProgress):
		s.log.Info("sweep skipped, another run in progress")
	case err != nil:
		s.log.Error("sweep failed", zap.Error(err))
	case res.ArchivedCount > 0:
		s.log.Info("schemes archived", zap.Int("count", res.ArchivedCount))
	}
}
