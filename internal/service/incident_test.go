package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/shenikar/traffic_incidents_system/internal/facets"
	"github.com/shenikar/traffic_incidents_system/internal/models"
	. "github.com/shenikar/traffic_incidents_system/internal/service"
	"github.com/shenikar/traffic_incidents_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestIncidentService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestIncidentService(t *testing.T) (IncidentService, *mocks.MockIncidentRepository, *mocks.MockRoadRepository) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockIncidentRepository(ctrl)
	roadMock := mocks.NewMockRoadRepository(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	svc := NewIncidentService(repoMock, roadMock, facets.New(), logger)
	return svc, repoMock, roadMock
}

func TestSearch_Success(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	filter := &models.SearchFilter{
		Fields: map[string][]string{"state": {"OH"}},
	}
	expected := &models.SearchResult{
		Items: []*models.Incident{{UUID: "ohgo:1"}},
		Count: 1,
		Total: 1,
	}

	// Ожидания
	repoMock.EXPECT().
		Search(ctx, filter).
		Return(expected, nil).
		Times(1)

	// Действие
	result, err := svc.Search(ctx, filter)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expected, result)
	// Дефолты проставлены валидацией
	assert.Equal(t, models.OrderUpdatedTimeDesc, filter.Order)
	assert.Equal(t, DefaultSearchLimit, filter.Limit)
}

func TestSearch_UnknownFieldRejected(t *testing.T) {
	// Подготовка
	svc, _, _ := newTestIncidentService(t)
	filter := &models.SearchFilter{
		Fields: map[string][]string{"color": {"red"}},
	}

	// Действие
	_, err := svc.Search(context.Background(), filter)

	// Проверки: ошибка именует параметр, в хранилище не ходим
	var invalid *InvalidFilterError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "color", invalid.Param)
}

func TestSearch_SeverityBoundsValidated(t *testing.T) {
	svc, _, _ := newTestIncidentService(t)

	bad := 7
	_, err := svc.Search(context.Background(), &models.SearchFilter{
		Fields:           map[string][]string{},
		SeverityScoreMin: &bad,
	})

	var invalid *InvalidFilterError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "severity_score_min", invalid.Param)
}

func TestSearch_MinGreaterThanMaxRejected(t *testing.T) {
	svc, _, _ := newTestIncidentService(t)

	min, max := 3, 1
	_, err := svc.Search(context.Background(), &models.SearchFilter{
		Fields:           map[string][]string{},
		SeverityScoreMin: &min,
		SeverityScoreMax: &max,
	})

	var invalid *InvalidFilterError
	require.ErrorAs(t, err, &invalid)
}

func TestSearch_UnknownOrderRejected(t *testing.T) {
	svc, _, _ := newTestIncidentService(t)

	_, err := svc.Search(context.Background(), &models.SearchFilter{
		Fields: map[string][]string{},
		Order:  "alphabetical",
	})

	var invalid *InvalidFilterError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "order", invalid.Param)
}

func TestActiveCount_FromCache(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	cached := 42

	// Ожидания: попадание в кеш, в БД не ходим
	repoMock.EXPECT().
		GetActiveCountFromCache(ctx).
		Return(&cached, nil).
		Times(1)

	// Действие
	count, err := svc.ActiveCount(ctx)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 42, count)
}

func TestActiveCount_CacheMissFallsBackToStore(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()

	// Ожидания
	repoMock.EXPECT().GetActiveCountFromCache(ctx).Return(nil, nil).Times(1)
	repoMock.EXPECT().ActiveCount(ctx).Return(17, nil).Times(1)
	repoMock.EXPECT().SetActiveCountCache(ctx, 17).Return(nil).Times(1)

	// Действие
	count, err := svc.ActiveCount(ctx)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 17, count)
}

func TestActiveCount_CacheErrorIsNotFatal(t *testing.T) {
	svc, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()

	repoMock.EXPECT().GetActiveCountFromCache(ctx).Return(nil, errors.New("redis down")).Times(1)
	repoMock.EXPECT().ActiveCount(ctx).Return(5, nil).Times(1)
	repoMock.EXPECT().SetActiveCountCache(ctx, 5).Return(errors.New("redis down")).Times(1)

	count, err := svc.ActiveCount(ctx)

	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestChangedSince_NegativeCursorRejected(t *testing.T) {
	svc, _, _ := newTestIncidentService(t)

	_, _, err := svc.ChangedSince(context.Background(), -1, 10)

	var invalid *InvalidFilterError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "cursor", invalid.Param)
}

func TestChangedSince_PassesCursorThrough(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	items := []*models.Incident{{UUID: "ohgo:1", Version: 12}}

	// Ожидания
	repoMock.EXPECT().
		ChangedSince(ctx, int64(10), 50).
		Return(items, int64(12), nil).
		Times(1)

	// Действие
	got, next, err := svc.ChangedSince(ctx, 10, 50)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, items, got)
	assert.Equal(t, int64(12), next)
}

func TestRebuildFacets_LoadsAllFields(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()

	// Ожидания: по одному запросу на каждое фасетное поле
	for _, field := range models.FacetFields {
		repoMock.EXPECT().
			DistinctValues(ctx, field).
			Return([]string{"value-" + field}, nil).
			Times(1)
	}
	repoMock.EXPECT().SetFacetsCache(ctx, gomock.Any()).Return(nil).Times(1)

	// Действие
	err := svc.RebuildFacets(ctx)

	// Проверки
	require.NoError(t, err)
	snapshot, err := svc.Facets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"value-state"}, snapshot["state"])
}

func TestWarmFacets_PrefersCachedSnapshot(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	cached := map[string][]string{"state": {"OH", "TX"}}

	// Ожидания: снимок из Redis, полный пересчет не нужен
	repoMock.EXPECT().GetFacetsFromCache(ctx).Return(cached, nil).Times(1)

	// Действие
	err := svc.WarmFacets(ctx)

	// Проверки
	require.NoError(t, err)
	snapshot, _ := svc.Facets(ctx)
	assert.Equal(t, []string{"OH", "TX"}, snapshot["state"])
}

func TestListRoads_DelegatesToRepository(t *testing.T) {
	svc, _, roadMock := newTestIncidentService(t)
	ctx := context.Background()
	roads := []*models.Road{{SourceSystem: "OHGO", RoadID: "70"}}

	roadMock.EXPECT().
		ListRoads(ctx, "OHGO", true, 200, 0).
		Return(roads, nil).
		Times(1)

	got, err := svc.ListRoads(ctx, "OHGO", true, 200, 0)

	require.NoError(t, err)
	assert.Equal(t, roads, got)
}
