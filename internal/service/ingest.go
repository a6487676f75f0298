package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/shenikar/traffic_incidents_system/internal/connector"
	"github.com/shenikar/traffic_incidents_system/internal/facets"
	"github.com/shenikar/traffic_incidents_system/internal/observability"
	"github.com/sirupsen/logrus"
)

var (
	// ErrCycleInFlight — цикл по этому источнику уже выполняется
	ErrCycleInFlight = errors.New("ingest cycle already in flight for source")
	// ErrUnknownSource — источник не зарегистрирован
	ErrUnknownSource = errors.New("unknown ingest source")
)

// CycleResult — итог одного цикла инжеста по источнику
type CycleResult struct {
	Source   string `json:"source"`
	Inserted int    `json:"inserted"`
	Updated  int    `json:"updated"`
	Closed   int    `json:"closed"`
	Skipped  int    `json:"skipped"`
	Partial  bool   `json:"partial"`
	Roads    int    `json:"roads,omitempty"`
}

type registeredSource struct {
	connector connector.Connector
	// roads != nil, если источник отдает еще и справочник дорог
	roads connector.RoadFetcher
	mu    sync.Mutex
}

type Ingestor struct {
	repo     IncidentRepository
	roadRepo RoadRepository
	facets   *facets.Index
	metrics  *observability.Metrics
	clock    clockwork.Clock
	logger   *logrus.Logger

	sources map[string]*registeredSource
	order   []string
	// Общая для всех источников: транзакции, выдающие version, обязаны
	// фиксироваться по одной, иначе фид изменений может продвинуть курсор
	// мимо еще не зафиксированных номеров
	writeMu sync.Mutex
}

func NewIngestService(
	repo IncidentRepository,
	roadRepo RoadRepository,
	facetIndex *facets.Index,
	metrics *observability.Metrics,
	clock clockwork.Clock,
	logger *logrus.Logger,
) *Ingestor {
	return &Ingestor{
		repo:     repo,
		roadRepo: roadRepo,
		facets:   facetIndex,
		metrics:  metrics,
		clock:    clock,
		logger:   logger,
		sources:  make(map[string]*registeredSource),
	}
}

// Register добавляет источник. Повторная регистрация имени заменяет коннектор.
func (s *Ingestor) Register(c connector.Connector, roads connector.RoadFetcher) {
	name := c.Source()
	if _, ok := s.sources[name]; !ok {
		s.order = append(s.order, name)
	}
	s.sources[name] = &registeredSource{connector: c, roads: roads}
}

func (s *Ingestor) Sources() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// RunCycle выполняет один цикл: fetch -> план -> транзакция -> фасеты.
// Циклы по одному источнику не перекрываются; по разным — идут параллельно.
func (s *Ingestor) RunCycle(ctx context.Context, source string) (*CycleResult, error) {
	src, ok := s.sources[source]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, source)
	}

	if !src.mu.TryLock() {
		return nil, fmt.Errorf("%w: %s", ErrCycleInFlight, source)
	}
	defer src.mu.Unlock()

	log := s.logger.WithFields(logrus.Fields{
		"service": "ingest",
		"source":  source,
	})

	started := s.clock.Now()
	result, err := s.runLocked(ctx, src, source, log)
	elapsed := s.clock.Since(started)

	switch {
	case err != nil:
		s.metrics.ObserveCycle(source, "error", elapsed)
		log.WithError(err).Error("Ingest cycle failed")
		return nil, err
	case result.Partial:
		s.metrics.ObserveCycle(source, "partial", elapsed)
	default:
		s.metrics.ObserveCycle(source, "ok", elapsed)
		s.metrics.MarkSuccess(source, s.clock.Now())
	}

	s.metrics.ObserveRecords(source, result.Inserted, result.Updated, result.Closed, result.Skipped)
	log.WithFields(logrus.Fields{
		"inserted": result.Inserted,
		"updated":  result.Updated,
		"closed":   result.Closed,
		"skipped":  result.Skipped,
		"partial":  result.Partial,
		"duration": elapsed.String(),
	}).Info("Ingest cycle completed")
	return result, nil
}

func (s *Ingestor) runLocked(ctx context.Context, src *registeredSource, source string, log *logrus.Entry) (*CycleResult, error) {
	batch, fetchErr := src.connector.FetchIncidents(ctx)
	if batch == nil {
		return nil, fmt.Errorf("ingest: fetch %s: %w", source, fetchErr)
	}
	if fetchErr != nil {
		// Частичная партия: вставки и обновления применяем, закрытия — нет
		log.WithError(fetchErr).Warn("Upstream returned a partial batch")
	}

	cycleTime := s.clock.Now().UTC()

	stored, err := s.repo.ScanBySource(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("ingest: scan stored incidents for %s: %w", source, err)
	}

	plan := ComputePlan(source, stored, batch.Records, cycleTime, batch.Complete && fetchErr == nil)

	s.writeMu.Lock()
	applied, err := s.repo.ApplyPlan(ctx, plan)
	s.writeMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("ingest: apply plan for %s: %w", source, err)
	}

	result := &CycleResult{
		Source:   source,
		Inserted: applied.Inserted,
		Updated:  applied.Updated,
		Closed:   applied.Closed,
		Skipped:  batch.Skipped,
		Partial:  plan.Partial,
	}

	// Фасеты только накапливают значения; инкрементально из них ничего не удаляется
	s.facets.ObserveBatch(plan.Inserts)
	s.facets.ObserveBatch(plan.Updates)
	if len(plan.Inserts)+len(plan.Updates) > 0 {
		if err := s.repo.SetFacetsCache(ctx, s.facets.Snapshot()); err != nil {
			log.WithError(err).Warn("Failed to refresh facet snapshot cache")
		}
	}

	if applied.Inserted+applied.Updated+applied.Closed > 0 {
		if err := s.repo.InvalidateActiveCountCache(ctx); err != nil {
			log.WithError(err).Warn("Failed to invalidate active count cache")
		}
		if count, err := s.repo.ActiveCount(ctx); err != nil {
			log.WithError(err).Warn("Failed to refresh active incidents gauge")
		} else {
			s.metrics.SetActiveIncidents(count)
		}
	}

	if src.roads != nil {
		roads, err := s.syncRoads(ctx, src, source)
		if err != nil {
			log.WithError(err).Warn("Failed to sync road inventory")
		} else {
			result.Roads = roads
		}
	}

	return result, nil
}

func (s *Ingestor) syncRoads(ctx context.Context, src *registeredSource, source string) (int, error) {
	batch, err := src.roads.FetchRoads(ctx)
	if batch == nil {
		return 0, err
	}

	stored, scanErr := s.roadRepo.ScanBySource(ctx, source)
	if scanErr != nil {
		return 0, scanErr
	}

	plan := ComputeRoadPlan(source, stored, batch.Records, s.clock.Now().UTC(), batch.Complete && err == nil)
	s.writeMu.Lock()
	applied, applyErr := s.roadRepo.ApplyRoadPlan(ctx, plan)
	s.writeMu.Unlock()
	if applyErr != nil {
		return 0, applyErr
	}
	return applied.Inserted + applied.Updated, err
}
