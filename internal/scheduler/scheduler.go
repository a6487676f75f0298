package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shenikar/traffic_incidents_system/internal/service"
	"github.com/sirupsen/logrus"
)

// Scheduler - периодический запуск циклов инжеста по источникам
type Scheduler struct {
	ingest service.IngestService
	clock  clockwork.Clock
	logger *logrus.Logger

	intervals map[string]time.Duration
	timeout   time.Duration
	wg        sync.WaitGroup
}

func NewScheduler(ingest service.IngestService, clock clockwork.Clock, logger *logrus.Logger, intervals map[string]time.Duration, cycleTimeout time.Duration) *Scheduler {
	return &Scheduler{
		ingest:    ingest,
		clock:     clock,
		logger:    logger,
		intervals: intervals,
		timeout:   cycleTimeout,
	}
}

// Start запускает по горутине на источник. Первый цикл выполняется
// сразу, дальше — по тикам интервала. Тик, заставший предыдущий цикл
// в работе, пропускается: обработку перекрытий отдает IngestService.
func (s *Scheduler) Start(ctx context.Context) {
	for _, source := range s.ingest.Sources() {
		interval, ok := s.intervals[source]
		if !ok {
			s.logger.WithField("source", source).Warn("No ingest interval configured, source will not be scheduled")
			continue
		}

		s.wg.Add(1)
		go s.runSource(ctx, source, interval)
	}
}

// Wait блокируется до остановки всех горутин планировщика
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) runSource(ctx context.Context, source string, interval time.Duration) {
	defer s.wg.Done()

	log := s.logger.WithFields(logrus.Fields{
		"source":   source,
		"interval": interval.String(),
	})
	log.Info("Starting ingest scheduler for source...")

	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()

	s.runCycle(ctx, source, log)
	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping ingest scheduler for source.")
			return
		case <-ticker.Chan():
			s.runCycle(ctx, source, log)
		}
	}
}

func (s *Scheduler) runCycle(ctx context.Context, source string, log *logrus.Entry) {
	cycleCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.ingest.RunCycle(cycleCtx, source); err != nil {
		switch {
		case errors.Is(err, service.ErrCycleInFlight):
			log.Warn("Previous ingest cycle still running, skipping tick")
		case errors.Is(err, context.Canceled):
		default:
			log.WithError(err).Error("Scheduled ingest cycle failed")
		}
	}
}
