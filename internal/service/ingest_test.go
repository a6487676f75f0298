package service_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shenikar/traffic_incidents_system/internal/connector"
	"github.com/shenikar/traffic_incidents_system/internal/facets"
	"github.com/shenikar/traffic_incidents_system/internal/models"
	"github.com/shenikar/traffic_incidents_system/internal/observability"
	. "github.com/shenikar/traffic_incidents_system/internal/service"
	"github.com/shenikar/traffic_incidents_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// stubConnector — управляемый коннектор для тестов инжеста
type stubConnector struct {
	source  string
	batch   *connector.Batch
	err     error
	mu      sync.Mutex
	calls   int
	release chan struct{}
}

func (s *stubConnector) Source() string { return s.source }

func (s *stubConnector) FetchIncidents(ctx context.Context) (*connector.Batch, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.release != nil {
		<-s.release
	}
	return s.batch, s.err
}

func newTestIngestService(t *testing.T) (*Ingestor, *mocks.MockIncidentRepository, *facets.Index, clockwork.Clock) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockIncidentRepository(ctrl)
	roadMock := mocks.NewMockRoadRepository(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	facetIndex := facets.New()
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	svc := NewIngestService(repoMock, roadMock, facetIndex, metrics, clock, logger)
	return svc, repoMock, facetIndex, clock
}

func TestRunCycle_InsertsAndObservesFacets(t *testing.T) {
	// Подготовка
	svc, repoMock, facetIndex, _ := newTestIngestService(t)
	ctx := context.Background()

	incoming := &models.Incident{
		UUID:          "ohgo:1",
		SourceSystem:  "OHGO",
		SourceEventID: "1",
		State:         "OH",
		County:        "Franklin",
		SeverityFlag:  models.SeverityHigh,
		IsActive:      true,
	}
	svc.Register(&stubConnector{
		source: "OHGO",
		batch:  &connector.Batch{Source: "OHGO", Records: []*models.Incident{incoming}, Complete: true},
	}, nil)

	// Ожидания
	repoMock.EXPECT().ScanBySource(ctx, "OHGO").Return(map[string]*models.Incident{}, nil).Times(1)
	repoMock.EXPECT().
		ApplyPlan(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, plan *ReconcilePlan) (*ApplyResult, error) {
			require.Len(t, plan.Inserts, 1)
			return &ApplyResult{Inserted: 1}, nil
		}).
		Times(1)
	repoMock.EXPECT().
		SetFacetsCache(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, snapshot map[string][]string) error {
			assert.Contains(t, snapshot["state"], "OH")
			return nil
		}).
		Times(1)
	repoMock.EXPECT().InvalidateActiveCountCache(ctx).Return(nil).Times(1)
	repoMock.EXPECT().ActiveCount(ctx).Return(1, nil).Times(1)

	// Действие
	result, err := svc.RunCycle(ctx, "OHGO")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	assert.False(t, result.Partial)

	snapshot := facetIndex.Snapshot()
	assert.Contains(t, snapshot["state"], "OH")
	assert.Contains(t, snapshot["county"], "Franklin")
}

func TestRunCycle_UnknownSource(t *testing.T) {
	svc, _, _, _ := newTestIngestService(t)

	_, err := svc.RunCycle(context.Background(), "NOPE")

	assert.ErrorIs(t, err, ErrUnknownSource)
}

func TestRunCycle_FetchFailureWithoutBatch(t *testing.T) {
	// Подготовка: источник недоступен, пакета нет вообще
	svc, _, _, _ := newTestIngestService(t)
	svc.Register(&stubConnector{source: "OHGO", err: connector.ErrUpstreamUnavailable}, nil)

	// Действие
	_, err := svc.RunCycle(context.Background(), "OHGO")

	// Проверки
	assert.ErrorIs(t, err, connector.ErrUpstreamUnavailable)
}

func TestRunCycle_PartialBatchStillApplied(t *testing.T) {
	// Подготовка: пагинация оборвалась на середине, часть записей есть
	svc, repoMock, _, _ := newTestIngestService(t)
	ctx := context.Background()

	stored := map[string]*models.Incident{
		"ohgo:gone": {UUID: "ohgo:gone", SourceSystem: "OHGO", IsActive: true},
	}
	svc.Register(&stubConnector{
		source: "OHGO",
		batch: &connector.Batch{
			Source:   "OHGO",
			Records:  []*models.Incident{{UUID: "ohgo:1", SourceSystem: "OHGO", IsActive: true}},
			Complete: false,
		},
		err: connector.ErrUpstreamUnavailable,
	}, nil)

	// Ожидания
	repoMock.EXPECT().ScanBySource(ctx, "OHGO").Return(stored, nil).Times(1)
	repoMock.EXPECT().
		ApplyPlan(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, plan *ReconcilePlan) (*ApplyResult, error) {
			// Закрытия подавлены: исчезновение не доказано
			assert.Empty(t, plan.Closures)
			assert.True(t, plan.Partial)
			return &ApplyResult{Inserted: 1}, nil
		}).
		Times(1)
	repoMock.EXPECT().SetFacetsCache(ctx, gomock.Any()).Return(nil).Times(1)
	repoMock.EXPECT().InvalidateActiveCountCache(ctx).Return(nil).Times(1)
	repoMock.EXPECT().ActiveCount(ctx).Return(2, nil).Times(1)

	// Действие
	result, err := svc.RunCycle(ctx, "OHGO")

	// Проверки
	require.NoError(t, err)
	assert.True(t, result.Partial)
	assert.Equal(t, 1, result.Inserted)
}

func TestRunCycle_OverlappingCyclesRejected(t *testing.T) {
	// Подготовка: первый цикл висит на выборке, второй не должен начаться
	svc, _, _, _ := newTestIngestService(t)
	release := make(chan struct{})
	// Пакета нет: после разблокировки первый цикл завершится ошибкой,
	// до хранилища не дойдет
	svc.Register(&stubConnector{
		source:  "OHGO",
		err:     errors.New("slow upstream"),
		release: release,
	}, nil)

	started := make(chan struct{})
	done := make(chan struct{})
	go func() {
		close(started)
		svc.RunCycle(context.Background(), "OHGO")
		close(done)
	}()
	<-started
	// Даем горутине дойти до блокировки на release
	time.Sleep(10 * time.Millisecond)

	// Действие
	_, err := svc.RunCycle(context.Background(), "OHGO")

	// Проверки
	assert.ErrorIs(t, err, ErrCycleInFlight)

	close(release)
	<-done
}

func TestRunCycle_WritesAreSerializedAcrossSources(t *testing.T) {
	// Подготовка: два источника работают параллельно, но транзакции,
	// выдающие version, должны фиксироваться строго по одной
	svc, repoMock, _, _ := newTestIngestService(t)

	svc.Register(&stubConnector{
		source: "OHGO",
		batch:  &connector.Batch{Source: "OHGO", Records: []*models.Incident{{UUID: "ohgo:1", SourceSystem: "OHGO", IsActive: true}}, Complete: true},
	}, nil)
	svc.Register(&stubConnector{
		source: "DRIVETEXAS",
		batch:  &connector.Batch{Source: "DRIVETEXAS", Records: []*models.Incident{{UUID: "drivetexas:1", SourceSystem: "DRIVETEXAS", IsActive: true}}, Complete: true},
	}, nil)

	firstStarted := make(chan struct{})
	firstRelease := make(chan struct{})
	var secondApplied atomic.Bool

	// Ожидания
	repoMock.EXPECT().ScanBySource(gomock.Any(), gomock.Any()).Return(map[string]*models.Incident{}, nil).Times(2)
	repoMock.EXPECT().
		ApplyPlan(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, plan *ReconcilePlan) (*ApplyResult, error) {
			switch plan.Source {
			case "OHGO":
				close(firstStarted)
				<-firstRelease
			case "DRIVETEXAS":
				secondApplied.Store(true)
			}
			return &ApplyResult{Inserted: 1}, nil
		}).
		Times(2)
	repoMock.EXPECT().SetFacetsCache(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	repoMock.EXPECT().InvalidateActiveCountCache(gomock.Any()).Return(nil).Times(2)
	repoMock.EXPECT().ActiveCount(gomock.Any()).Return(2, nil).Times(2)

	// Действие: первый цикл зависает внутри применения плана
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := svc.RunCycle(context.Background(), "OHGO")
		assert.NoError(t, err)
	}()
	<-firstStarted

	go func() {
		defer wg.Done()
		_, err := svc.RunCycle(context.Background(), "DRIVETEXAS")
		assert.NoError(t, err)
	}()
	time.Sleep(20 * time.Millisecond)

	// Проверки: второй источник не начал писать, пока первый не зафиксировался
	assert.False(t, secondApplied.Load())

	close(firstRelease)
	wg.Wait()
	assert.True(t, secondApplied.Load())
}

func TestRunCycle_UpdatesActiveIncidentsGauge(t *testing.T) {
	// Подготовка
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockIncidentRepository(ctrl)
	roadMock := mocks.NewMockRoadRepository(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	metrics := observability.NewMetrics(prometheus.NewRegistry())
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := NewIngestService(repoMock, roadMock, facets.New(), metrics, clock, logger)

	ctx := context.Background()
	svc.Register(&stubConnector{
		source: "OHGO",
		batch:  &connector.Batch{Source: "OHGO", Records: []*models.Incident{{UUID: "ohgo:1", SourceSystem: "OHGO", IsActive: true}}, Complete: true},
	}, nil)

	// Ожидания
	repoMock.EXPECT().ScanBySource(ctx, "OHGO").Return(map[string]*models.Incident{}, nil).Times(1)
	repoMock.EXPECT().ApplyPlan(ctx, gomock.Any()).Return(&ApplyResult{Inserted: 1}, nil).Times(1)
	repoMock.EXPECT().SetFacetsCache(ctx, gomock.Any()).Return(nil).Times(1)
	repoMock.EXPECT().InvalidateActiveCountCache(ctx).Return(nil).Times(1)
	repoMock.EXPECT().ActiveCount(ctx).Return(42, nil).Times(1)

	// Действие
	_, err := svc.RunCycle(ctx, "OHGO")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, float64(42), testutil.ToFloat64(metrics.ActiveIncidents))
}

func TestSources_PreservesRegistrationOrder(t *testing.T) {
	svc, _, _, _ := newTestIngestService(t)
	svc.Register(&stubConnector{source: "OHGO"}, nil)
	svc.Register(&stubConnector{source: "DRIVETEXAS"}, nil)

	assert.Equal(t, []string{"OHGO", "DRIVETEXAS"}, svc.Sources())
}
