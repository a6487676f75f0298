package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/traffic_incidents_system/internal/models"
	"github.com/shenikar/traffic_incidents_system/internal/service"
)

const (
	activeCountCacheKey = "incidents:active_count"
	facetsCacheKey      = "incidents:facets"
	facetsCacheTTL      = 24 * time.Hour
)

// Ключи advisory-блокировок, сериализующих транзакции с nextval():
// порядок фиксации обязан совпадать с порядком выдачи номеров
const (
	incidentWriteLockID int64 = 7101
	roadWriteLockID     int64 = 7102
)

// Колонки в порядке сканирования; единый список для всех SELECT
const incidentColumns = `
	uuid,
	source_system,
	source_event_id,
	source_url,
	state,
	county,
	route,
	route_class,
	direction,
	milepost,
	latitude,
	longitude,
	description,
	event_type,
	lanes_affected,
	closure_status,
	severity_flag,
	severity_score,
	is_active,
	reported_time,
	updated_time,
	cleared_time,
	version,
	raw_payload,
	created_at,
	updated_at`

// Белый список колонок для фильтрации и фасетов
var facetColumns = map[string]string{
	"state":          "state",
	"county":         "county",
	"route":          "route",
	"route_class":    "route_class",
	"direction":      "direction",
	"event_type":     "event_type",
	"closure_status": "closure_status",
	"severity_flag":  "severity_flag",
}

var orderClauses = map[string]string{
	models.OrderUpdatedTimeDesc:  "updated_time DESC, uuid",
	models.OrderReportedTimeDesc: "reported_time DESC, uuid",
	models.OrderSeverityDesc:     "severity_score DESC, updated_time DESC, uuid",
}

type IncidentRepository struct {
	db              *pgxpool.Pool
	redisClient     *redis.Client
	conflictRetries int
	activeCountTTL  time.Duration
}

func NewIncidentRepository(db *pgxpool.Pool, redisClient *redis.Client, conflictRetries int, activeCountTTL time.Duration) service.IncidentRepository {
	return &IncidentRepository{
		db:              db,
		redisClient:     redisClient,
		conflictRetries: conflictRetries,
		activeCountTTL:  activeCountTTL,
	}
}

func scanIncident(row pgx.Row) (*models.Incident, error) {
	inc := &models.Incident{}
	err := row.Scan(
		&inc.UUID,
		&inc.SourceSystem,
		&inc.SourceEventID,
		&inc.SourceURL,
		&inc.State,
		&inc.County,
		&inc.Route,
		&inc.RouteClass,
		&inc.Direction,
		&inc.Milepost,
		&inc.Latitude,
		&inc.Longitude,
		&inc.Description,
		&inc.EventType,
		&inc.LanesAffected,
		&inc.ClosureStatus,
		&inc.SeverityFlag,
		&inc.SeverityScore,
		&inc.IsActive,
		&inc.ReportedTime,
		&inc.UpdatedTime,
		&inc.ClearedTime,
		&inc.Version,
		&inc.RawPayload,
		&inc.CreatedAt,
		&inc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return inc, nil
}

// GetByUUID возвращает запись по каноническому идентификатору
func (r *IncidentRepository) GetByUUID(ctx context.Context, uuid string) (*models.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE uuid = $1;`
	inc, err := scanIncident(r.db.QueryRow(ctx, query, uuid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: uuid %s", service.ErrIncidentNotFound, uuid)
		}
		return nil, fmt.Errorf("failed to get incident by uuid: %w", err)
	}
	return inc, nil
}

// ScanBySource возвращает все записи источника, индексированные по uuid.
// Это вход для сверки: и активные, и закрытые записи.
func (r *IncidentRepository) ScanBySource(ctx context.Context, source string) (map[string]*models.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE source_system = $1;`
	rows, err := r.db.Query(ctx, query, source)
	if err != nil {
		return nil, fmt.Errorf("failed to scan incidents by source: %w", err)
	}
	defer rows.Close()

	stored := make(map[string]*models.Incident)
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		stored[inc.UUID] = inc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error source scan iteration: %w", err)
	}
	return stored, nil
}

// ApplyPlan применяет план сверки одной транзакцией. Каждая затронутая
// запись получает version из общей последовательности внутри той же
// транзакции, поэтому фид изменений видит записи в порядке фиксации.
// Конфликты записи (сериализация, дедлок) повторяются целиком.
func (r *IncidentRepository) ApplyPlan(ctx context.Context, plan *service.ReconcilePlan) (*service.ApplyResult, error) {
	var result *service.ApplyResult
	var err error
	conflicts := 0
	for attempt := 0; ; attempt++ {
		result, err = r.applyPlanOnce(ctx, plan)
		if err == nil || attempt >= r.conflictRetries || !isRetryableWriteError(err) {
			break
		}
		conflicts++
	}
	if err != nil {
		return nil, err
	}
	result.Conflicts += conflicts
	return result, nil
}

func isRetryableWriteError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
}

func (r *IncidentRepository) applyPlanOnce(ctx context.Context, plan *service.ReconcilePlan) (*service.ApplyResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin reconcile transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Транзакции, выдающие version, фиксируются строго по одной: без
	// этого читатель фида изменений может увидеть старший номер раньше
	// младшего и продвинуть курсор мимо еще не зафиксированных записей
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1);`, incidentWriteLockID); err != nil {
		return nil, fmt.Errorf("failed to take incident version write lock: %w", err)
	}

	result := &service.ApplyResult{}

	for _, inc := range plan.Inserts {
		if err := r.insertIncident(ctx, tx, inc); err != nil {
			var pgErr *pgconn.PgError
			// Запись успела появиться между сканом и вставкой — применяем как обновление
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				if err := r.updateIncident(ctx, tx, inc); err != nil {
					return nil, err
				}
				result.Updated++
				result.Conflicts++
				continue
			}
			return nil, err
		}
		result.Inserted++
	}

	for _, inc := range plan.Updates {
		if err := r.updateIncident(ctx, tx, inc); err != nil {
			return nil, err
		}
		result.Updated++
	}

	if len(plan.Closures) > 0 {
		closed, err := r.closeIncidents(ctx, tx, plan.Closures, plan.CycleTime)
		if err != nil {
			return nil, err
		}
		result.Closed = closed
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit reconcile transaction: %w", err)
	}
	return result, nil
}

func (r *IncidentRepository) insertIncident(ctx context.Context, tx pgx.Tx, inc *models.Incident) error {
	query := `
		INSERT INTO incidents (
			uuid, source_system, source_event_id, source_url, state, county,
			route, route_class, direction, milepost, latitude, longitude,
			description, event_type, lanes_affected, closure_status,
			severity_flag, severity_score, is_active, reported_time,
			updated_time, cleared_time, raw_payload, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, nextval('incident_version_seq'))
		RETURNING version, created_at, updated_at;
	`
	err := tx.QueryRow(ctx, query,
		inc.UUID,
		inc.SourceSystem,
		inc.SourceEventID,
		inc.SourceURL,
		inc.State,
		inc.County,
		inc.Route,
		inc.RouteClass,
		inc.Direction,
		inc.Milepost,
		inc.Latitude,
		inc.Longitude,
		inc.Description,
		inc.EventType,
		inc.LanesAffected,
		inc.ClosureStatus,
		inc.SeverityFlag,
		inc.SeverityScore,
		inc.IsActive,
		inc.ReportedTime,
		inc.UpdatedTime,
		inc.ClearedTime,
		inc.RawPayload,
	).Scan(&inc.Version, &inc.CreatedAt, &inc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert incident %s: %w", inc.UUID, err)
	}
	return nil
}

func (r *IncidentRepository) updateIncident(ctx context.Context, tx pgx.Tx, inc *models.Incident) error {
	query := `
		UPDATE incidents SET
			source_url = $2,
			state = $3,
			county = $4,
			route = $5,
			route_class = $6,
			direction = $7,
			milepost = $8,
			latitude = $9,
			longitude = $10,
			description = $11,
			event_type = $12,
			lanes_affected = $13,
			closure_status = $14,
			severity_flag = $15,
			severity_score = $16,
			is_active = $17,
			reported_time = $18,
			updated_time = GREATEST(updated_time, $19),
			cleared_time = $20,
			raw_payload = $21,
			version = nextval('incident_version_seq'),
			updated_at = NOW()
		WHERE uuid = $1
		RETURNING version, updated_at;
	`
	err := tx.QueryRow(ctx, query,
		inc.UUID,
		inc.SourceURL,
		inc.State,
		inc.County,
		inc.Route,
		inc.RouteClass,
		inc.Direction,
		inc.Milepost,
		inc.Latitude,
		inc.Longitude,
		inc.Description,
		inc.EventType,
		inc.LanesAffected,
		inc.ClosureStatus,
		inc.SeverityFlag,
		inc.SeverityScore,
		inc.IsActive,
		inc.ReportedTime,
		inc.UpdatedTime,
		inc.ClearedTime,
		inc.RawPayload,
	).Scan(&inc.Version, &inc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("incident with uuid %s not found for update", inc.UUID)
		}
		return fmt.Errorf("failed to update incident %s: %w", inc.UUID, err)
	}
	return nil
}

// closeIncidents неявно закрывает записи, пропавшие из полной выборки.
// Защита AND is_active: повторное закрытие не трогает строку и не
// расходует version.
func (r *IncidentRepository) closeIncidents(ctx context.Context, tx pgx.Tx, uuids []string, cycleTime time.Time) (int, error) {
	query := `
		UPDATE incidents SET
			is_active = FALSE,
			cleared_time = $2,
			updated_time = GREATEST(updated_time, $2),
			version = nextval('incident_version_seq'),
			updated_at = NOW()
		WHERE uuid = ANY($1) AND is_active;
	`
	cmdTag, err := tx.Exec(ctx, query, uuids, cycleTime)
	if err != nil {
		return 0, fmt.Errorf("failed to close vanished incidents: %w", err)
	}
	return int(cmdTag.RowsAffected()), nil
}

// buildSearchConditions собирает WHERE из фильтра. Имена полей уже
// провалидированы сервисом, но колонки все равно берутся из белого списка.
func buildSearchConditions(filter *models.SearchFilter) (string, []any, error) {
	conditions := make([]string, 0, 4)
	args := make([]any, 0, 4)

	fields := make([]string, 0, len(filter.Fields))
	for field := range filter.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		column, ok := facetColumns[field]
		if !ok {
			return "", nil, fmt.Errorf("filter field %q is not searchable", field)
		}
		args = append(args, filter.Fields[field])
		conditions = append(conditions, fmt.Sprintf("%s = ANY($%d)", column, len(args)))
	}

	if filter.SeverityScoreMin != nil {
		args = append(args, *filter.SeverityScoreMin)
		conditions = append(conditions, fmt.Sprintf("severity_score >= $%d", len(args)))
	}
	if filter.SeverityScoreMax != nil {
		args = append(args, *filter.SeverityScoreMax)
		conditions = append(conditions, fmt.Sprintf("severity_score <= $%d", len(args)))
	}
	if filter.UpdatedSince != nil {
		args = append(args, *filter.UpdatedSince)
		conditions = append(conditions, fmt.Sprintf("updated_time >= $%d", len(args)))
	}
	if filter.ReportedSince != nil {
		args = append(args, *filter.ReportedSince)
		conditions = append(conditions, fmt.Sprintf("reported_time >= $%d", len(args)))
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "is_active")
	}

	if len(conditions) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args, nil
}

// Search выполняет фильтрованный поиск с общим количеством и страницей
func (r *IncidentRepository) Search(ctx context.Context, filter *models.SearchFilter) (*models.SearchResult, error) {
	where, args, err := buildSearchConditions(filter)
	if err != nil {
		return nil, err
	}

	orderBy, ok := orderClauses[filter.Order]
	if !ok {
		orderBy = orderClauses[models.OrderUpdatedTimeDesc]
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM incidents` + where + `;`
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count search results: %w", err)
	}

	pageArgs := append(args, filter.Limit, filter.Offset)
	pageQuery := fmt.Sprintf(`SELECT %s FROM incidents%s ORDER BY %s LIMIT $%d OFFSET $%d;`,
		incidentColumns, where, orderBy, len(pageArgs)-1, len(pageArgs))

	rows, err := r.db.Query(ctx, pageQuery, pageArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to search incidents: %w", err)
	}
	defer rows.Close()

	items := make([]*models.Incident, 0)
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row in Search: %w", err)
		}
		items = append(items, inc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error search iteration: %w", err)
	}

	return &models.SearchResult{Items: items, Count: len(items), Total: total}, nil
}

// Latest возвращает последние обновленные записи
func (r *IncidentRepository) Latest(ctx context.Context, limit int) ([]*models.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents ORDER BY updated_time DESC, uuid LIMIT $1;`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list latest incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0, limit)
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row in Latest: %w", err)
		}
		incidents = append(incidents, inc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error latest iteration: %w", err)
	}
	return incidents, nil
}

// ChangedSince возвращает страницу фида изменений: version строго больше
// курсора, по возрастанию version. Вторым значением — курсор для
// следующего опроса (не двигается на пустой странице).
func (r *IncidentRepository) ChangedSince(ctx context.Context, cursor int64, limit int) ([]*models.Incident, int64, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE version > $1 ORDER BY version ASC LIMIT $2;`
	rows, err := r.db.Query(ctx, query, cursor, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read change feed: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan incident row in ChangedSince: %w", err)
		}
		incidents = append(incidents, inc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error change feed iteration: %w", err)
	}
	return incidents, advanceCursor(cursor, incidents), nil
}

// advanceCursor возвращает курсор для следующего опроса фида: version
// последней записи страницы либо прежний курсор, если страница пуста.
// Курсор никогда не откатывается и не прыгает вперед на пустой выдаче.
func advanceCursor(cursor int64, page []*models.Incident) int64 {
	if len(page) == 0 {
		return cursor
	}
	return page[len(page)-1].Version
}

// ActiveCount возвращает число активных записей
func (r *IncidentRepository) ActiveCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM incidents WHERE is_active;`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active incidents: %w", err)
	}
	return count, nil
}

// DistinctValues возвращает отсортированные непустые значения колонки
// для полного пересчета фасетов
func (r *IncidentRepository) DistinctValues(ctx context.Context, field string) ([]string, error) {
	column, ok := facetColumns[field]
	if !ok {
		return nil, fmt.Errorf("field %q is not a facet column", field)
	}

	query := fmt.Sprintf(`SELECT DISTINCT %s FROM incidents WHERE %s <> '' ORDER BY %s;`, column, column, column)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list distinct values for %s: %w", field, err)
	}
	defer rows.Close()

	values := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan distinct value: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error distinct iteration: %w", err)
	}
	return values, nil
}

// GetActiveCountFromCache пытается получить счетчик активных из Redis
func (r *IncidentRepository) GetActiveCountFromCache(ctx context.Context) (*int, error) {
	val, err := r.redisClient.Get(ctx, activeCountCacheKey).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active count from cache: %w", err)
	}
	return &val, nil
}

// SetActiveCountCache сохраняет счетчик активных в Redis
func (r *IncidentRepository) SetActiveCountCache(ctx context.Context, count int) error {
	if err := r.redisClient.Set(ctx, activeCountCacheKey, count, r.activeCountTTL).Err(); err != nil {
		return fmt.Errorf("failed to set active count in cache: %w", err)
	}
	return nil
}

// InvalidateActiveCountCache удаляет счетчик активных из Redis кэша
func (r *IncidentRepository) InvalidateActiveCountCache(ctx context.Context) error {
	if err := r.redisClient.Del(ctx, activeCountCacheKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate active count cache: %w", err)
	}
	return nil
}

// GetFacetsFromCache пытается получить снимок фасетов из Redis
func (r *IncidentRepository) GetFacetsFromCache(ctx context.Context) (map[string][]string, error) {
	val, err := r.redisClient.Get(ctx, facetsCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get facets from cache: %w", err)
	}

	snapshot := make(map[string][]string)
	if err := json.Unmarshal(val, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal facets from cache: %w", err)
	}
	return snapshot, nil
}

// SetFacetsCache сохраняет снимок фасетов в Redis
func (r *IncidentRepository) SetFacetsCache(ctx context.Context, snapshot map[string][]string) error {
	val, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal facets for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, facetsCacheKey, val, facetsCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set facets in cache: %w", err)
	}
	return nil
}
