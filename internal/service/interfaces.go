package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shenikar/traffic_incidents_system/internal/models"
)

// ErrIncidentNotFound — записи с таким uuid нет в хранилище; отличает
// клиентский 404 от отказа самого хранилища
var ErrIncidentNotFound = errors.New("incident not found")

// IncidentRepository определяет контракт хранилища инцидентов. Сверка
// зависит только от этого интерфейса, не от конкретного движка.
type IncidentRepository interface {
	GetByUUID(ctx context.Context, uuid string) (*models.Incident, error)
	// ScanBySource возвращает все записи категории (активные и нет),
	// индексированные по uuid — вход для вычисления плана сверки
	ScanBySource(ctx context.Context, source string) (map[string]*models.Incident, error)
	// ApplyPlan атомарно применяет план сверки, назначая каждой
	// затронутой записи свежий глобальный version
	ApplyPlan(ctx context.Context, plan *ReconcilePlan) (*ApplyResult, error)
	Search(ctx context.Context, filter *models.SearchFilter) (*models.SearchResult, error)
	Latest(ctx context.Context, limit int) ([]*models.Incident, error)
	ChangedSince(ctx context.Context, cursor int64, limit int) ([]*models.Incident, int64, error)
	ActiveCount(ctx context.Context) (int, error)
	DistinctValues(ctx context.Context, field string) ([]string, error)

	// Кэширование в Redis
	GetActiveCountFromCache(ctx context.Context) (*int, error)
	SetActiveCountCache(ctx context.Context, count int) error
	InvalidateActiveCountCache(ctx context.Context) error
	GetFacetsFromCache(ctx context.Context) (map[string][]string, error)
	SetFacetsCache(ctx context.Context, snapshot map[string][]string) error
}

// RoadRepository определяет контракт хранилища участков дорог
type RoadRepository interface {
	ScanBySource(ctx context.Context, source string) (map[string]*models.Road, error)
	ApplyRoadPlan(ctx context.Context, plan *RoadPlan) (*ApplyResult, error)
	ListRoads(ctx context.Context, source string, activeOnly bool, limit, offset int) ([]*models.Road, error)
}

// IncidentService определяет контракт читающей стороны: поиск, фасеты,
// счетчики и фид изменений
type IncidentService interface {
	Get(ctx context.Context, uuid string) (*models.Incident, error)
	Search(ctx context.Context, filter *models.SearchFilter) (*models.SearchResult, error)
	Latest(ctx context.Context, limit int) ([]*models.Incident, error)
	ChangedSince(ctx context.Context, cursor int64, limit int) ([]*models.Incident, int64, error)
	ActiveCount(ctx context.Context) (int, error)
	Facets(ctx context.Context) (map[string][]string, error)
	RebuildFacets(ctx context.Context) error
	WarmFacets(ctx context.Context) error
	ListRoads(ctx context.Context, source string, activeOnly bool, limit, offset int) ([]*models.Road, error)
}

// IngestService определяет контракт стороны записи: один цикл
// выборки-нормализации-сверки по источнику
type IngestService interface {
	RunCycle(ctx context.Context, source string) (*CycleResult, error)
	Sources() []string
}

// InvalidFilterError — ошибка валидации поискового запроса; именует
// конкретный параметр и доходит до клиента как 400, никогда не
// проглатывается в "нет результатов"
type InvalidFilterError struct {
	Param  string
	Reason string
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("invalid filter parameter %q: %s", e.Param, e.Reason)
}
