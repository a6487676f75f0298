package service

import (
	"context"
	"fmt"

	"github.com/shenikar/traffic_incidents_system/internal/facets"
	"github.com/shenikar/traffic_incidents_system/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	defaultSearchLimit = 200
	maxSearchLimit     = 1000
	maxSeverityScore   = 4
)

type incidentService struct {
	repo       IncidentRepository
	roads      RoadRepository
	facetIndex *facets.Index
	logger     *logrus.Logger
}

func NewIncidentService(repo IncidentRepository, roads RoadRepository, facetIndex *facets.Index, logger *logrus.Logger) IncidentService {
	return &incidentService{
		repo:       repo,
		roads:      roads,
		facetIndex: facetIndex,
		logger:     logger,
	}
}

// Get возвращает одну запись по каноническому идентификатору
func (s *incidentService) Get(ctx context.Context, uuid string) (*models.Incident, error) {
	incident, err := s.repo.GetByUUID(ctx, uuid)
	if err != nil {
		s.logger.WithError(err).WithField("uuid", uuid).Warn("Failed to get incident")
		return nil, err
	}
	return incident, nil
}

// Search выполняет фильтрованный поиск. Невалидный фильтр — ошибка
// клиента с именем параметра, а не пустая выдача.
func (s *incidentService) Search(ctx context.Context, filter *models.SearchFilter) (*models.SearchResult, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "Search",
	})

	if err := validateFilter(filter); err != nil {
		log.WithError(err).Warn("Rejected invalid search filter")
		return nil, err
	}

	result, err := s.repo.Search(ctx, filter)
	if err != nil {
		log.WithError(err).Error("Failed to search incidents in repository")
		return nil, fmt.Errorf("service: could not search incidents: %w", err)
	}

	log.WithFields(logrus.Fields{"total": result.Total, "count": result.Count}).Info("Search completed")
	return result, nil
}

// validateFilter проверяет границы и словари фильтра до похода в хранилище
func validateFilter(filter *models.SearchFilter) error {
	for field := range filter.Fields {
		if !isFacetField(field) {
			return &InvalidFilterError{Param: field, Reason: "unknown filter field"}
		}
	}

	if filter.SeverityScoreMin != nil && (*filter.SeverityScoreMin < 0 || *filter.SeverityScoreMin > maxSeverityScore) {
		return &InvalidFilterError{Param: "severity_score_min", Reason: fmt.Sprintf("must be between 0 and %d", maxSeverityScore)}
	}
	if filter.SeverityScoreMax != nil && (*filter.SeverityScoreMax < 0 || *filter.SeverityScoreMax > maxSeverityScore) {
		return &InvalidFilterError{Param: "severity_score_max", Reason: fmt.Sprintf("must be between 0 and %d", maxSeverityScore)}
	}
	if filter.SeverityScoreMin != nil && filter.SeverityScoreMax != nil && *filter.SeverityScoreMin > *filter.SeverityScoreMax {
		return &InvalidFilterError{Param: "severity_score_min", Reason: "greater than severity_score_max"}
	}

	switch filter.Order {
	case "":
		filter.Order = models.OrderUpdatedTimeDesc
	case models.OrderUpdatedTimeDesc, models.OrderReportedTimeDesc, models.OrderSeverityDesc:
	default:
		return &InvalidFilterError{Param: "order", Reason: "unknown ordering key"}
	}

	if filter.Limit <= 0 {
		filter.Limit = defaultSearchLimit
	}
	if filter.Limit > maxSearchLimit {
		return &InvalidFilterError{Param: "limit", Reason: fmt.Sprintf("must not exceed %d", maxSearchLimit)}
	}
	if filter.Offset < 0 {
		return &InvalidFilterError{Param: "offset", Reason: "must not be negative"}
	}

	return nil
}

func isFacetField(field string) bool {
	for _, f := range models.FacetFields {
		if f == field {
			return true
		}
	}
	return false
}

// Latest возвращает последние обновленные инциденты
func (s *incidentService) Latest(ctx context.Context, limit int) ([]*models.Incident, error) {
	if limit < 1 || limit > 500 {
		limit = 50
	}

	incidents, err := s.repo.Latest(ctx, limit)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list latest incidents")
		return nil, fmt.Errorf("service: could not list latest incidents: %w", err)
	}
	return incidents, nil
}

// ChangedSince возвращает записи с version строго больше курсора в
// порядке возрастания version. Пустая страница не двигает курсор —
// клиент опрашивает с возвращенным значением без пропусков и дублей.
func (s *incidentService) ChangedSince(ctx context.Context, cursor int64, limit int) ([]*models.Incident, int64, error) {
	if cursor < 0 {
		return nil, 0, &InvalidFilterError{Param: "cursor", Reason: "must not be negative"}
	}
	if limit < 1 || limit > maxSearchLimit {
		limit = defaultSearchLimit
	}

	incidents, next, err := s.repo.ChangedSince(ctx, cursor, limit)
	if err != nil {
		s.logger.WithError(err).Error("Failed to read change feed")
		return nil, 0, fmt.Errorf("service: could not read change feed: %w", err)
	}
	return incidents, next, nil
}

// ActiveCount возвращает число активных инцидентов, с коротким кэшем в Redis
func (s *incidentService) ActiveCount(ctx context.Context) (int, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "ActiveCount",
	})

	if cached, err := s.repo.GetActiveCountFromCache(ctx); err != nil {
		log.WithError(err).Warn("Failed to read active count from cache")
	} else if cached != nil {
		return *cached, nil
	}

	count, err := s.repo.ActiveCount(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to count active incidents")
		return 0, fmt.Errorf("service: could not count active incidents: %w", err)
	}

	if err := s.repo.SetActiveCountCache(ctx, count); err != nil {
		log.WithError(err).Warn("Failed to cache active count")
	}
	return count, nil
}

// Facets возвращает снимок фасетного индекса
func (s *incidentService) Facets(ctx context.Context) (map[string][]string, error) {
	return s.facetIndex.Snapshot(), nil
}

// RebuildFacets полностью пересчитывает фасеты из хранилища. Только
// здесь устаревшие значения покидают индекс.
func (s *incidentService) RebuildFacets(ctx context.Context) error {
	snapshot := make(map[string][]string, len(models.FacetFields))
	for _, field := range models.FacetFields {
		values, err := s.repo.DistinctValues(ctx, field)
		if err != nil {
			return fmt.Errorf("service: could not rebuild facet %s: %w", field, err)
		}
		snapshot[field] = values
	}

	s.facetIndex.Load(snapshot)
	if err := s.repo.SetFacetsCache(ctx, snapshot); err != nil {
		s.logger.WithError(err).Warn("Failed to cache facet snapshot")
	}
	s.logger.Info("Facet index rebuilt from store")
	return nil
}

// WarmFacets инициализирует индекс при старте: сперва снимок из Redis,
// при промахе — полный пересчет из хранилища
func (s *incidentService) WarmFacets(ctx context.Context) error {
	snapshot, err := s.repo.GetFacetsFromCache(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to read facet snapshot from cache")
	}
	if snapshot != nil {
		s.facetIndex.Load(snapshot)
		s.logger.Info("Facet index warmed from cache")
		return nil
	}
	return s.RebuildFacets(ctx)
}

// ListRoads возвращает участки дорог с пагинацией
func (s *incidentService) ListRoads(ctx context.Context, source string, activeOnly bool, limit, offset int) ([]*models.Road, error) {
	if limit < 1 || limit > maxSearchLimit {
		limit = defaultSearchLimit
	}
	if offset < 0 {
		offset = 0
	}

	roads, err := s.roads.ListRoads(ctx, source, activeOnly, limit, offset)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list roads")
		return nil, fmt.Errorf("service: could not list roads: %w", err)
	}
	return roads, nil
}
