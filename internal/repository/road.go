package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/traffic_incidents_system/internal/models"
	"github.com/shenikar/traffic_incidents_system/internal/service"
)

const roadColumns = `
	source_system,
	road_id,
	name,
	description,
	direction,
	begin_mile,
	end_mile,
	length,
	geometry,
	is_active,
	updated_time,
	version`

type RoadRepository struct {
	db *pgxpool.Pool
}

func NewRoadRepository(db *pgxpool.Pool) service.RoadRepository {
	return &RoadRepository{db: db}
}

func scanRoad(row pgx.Row) (*models.Road, error) {
	road := &models.Road{}
	err := row.Scan(
		&road.SourceSystem,
		&road.RoadID,
		&road.Name,
		&road.Description,
		&road.Direction,
		&road.BeginMile,
		&road.EndMile,
		&road.Length,
		&road.Geometry,
		&road.IsActive,
		&road.UpdatedTime,
		&road.Version,
	)
	if err != nil {
		return nil, err
	}
	return road, nil
}

// ScanBySource возвращает все участки источника, индексированные по
// road_id (в пределах одного источника он уникален)
func (r *RoadRepository) ScanBySource(ctx context.Context, source string) (map[string]*models.Road, error) {
	query := `SELECT ` + roadColumns + ` FROM roads WHERE source_system = $1;`
	rows, err := r.db.Query(ctx, query, source)
	if err != nil {
		return nil, fmt.Errorf("failed to scan roads by source: %w", err)
	}
	defer rows.Close()

	stored := make(map[string]*models.Road)
	for rows.Next() {
		road, err := scanRoad(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan road row: %w", err)
		}
		stored[road.RoadID] = road
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error road scan iteration: %w", err)
	}
	return stored, nil
}

// ApplyRoadPlan применяет план сверки справочника дорог одной транзакцией.
// Вставки идут через UPSERT: у дорог нет конкурирующих писателей по
// одному источнику, поэтому повторная попытка не нужна.
func (r *RoadRepository) ApplyRoadPlan(ctx context.Context, plan *service.RoadPlan) (*service.ApplyResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin road transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Как и для инцидентов: фиксация в порядке выдачи version
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1);`, roadWriteLockID); err != nil {
		return nil, fmt.Errorf("failed to take road version write lock: %w", err)
	}

	result := &service.ApplyResult{}

	upsert := `
		INSERT INTO roads (
			source_system, road_id, name, description, direction,
			begin_mile, end_mile, length, geometry, is_active,
			updated_time, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, nextval('road_version_seq'))
		ON CONFLICT (source_system, road_id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			direction = EXCLUDED.direction,
			begin_mile = EXCLUDED.begin_mile,
			end_mile = EXCLUDED.end_mile,
			length = EXCLUDED.length,
			geometry = EXCLUDED.geometry,
			is_active = EXCLUDED.is_active,
			updated_time = GREATEST(roads.updated_time, EXCLUDED.updated_time),
			version = nextval('road_version_seq')
		RETURNING version;
	`

	apply := func(roads []*models.Road) error {
		for _, road := range roads {
			err := tx.QueryRow(ctx, upsert,
				road.SourceSystem,
				road.RoadID,
				road.Name,
				road.Description,
				road.Direction,
				road.BeginMile,
				road.EndMile,
				road.Length,
				road.Geometry,
				road.IsActive,
				road.UpdatedTime,
			).Scan(&road.Version)
			if err != nil {
				return fmt.Errorf("failed to upsert road %s: %w", road.Key(), err)
			}
		}
		return nil
	}

	if err := apply(plan.Inserts); err != nil {
		return nil, err
	}
	result.Inserted = len(plan.Inserts)

	if err := apply(plan.Updates); err != nil {
		return nil, err
	}
	result.Updated = len(plan.Updates)

	if len(plan.Closures) > 0 {
		closed, err := r.closeRoads(ctx, tx, plan.Source, plan.Closures, plan.CycleTime)
		if err != nil {
			return nil, err
		}
		result.Closed = closed
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit road transaction: %w", err)
	}
	return result, nil
}

func (r *RoadRepository) closeRoads(ctx context.Context, tx pgx.Tx, source string, roadIDs []string, cycleTime time.Time) (int, error) {
	query := `
		UPDATE roads SET
			is_active = FALSE,
			updated_time = GREATEST(updated_time, $3),
			version = nextval('road_version_seq')
		WHERE source_system = $1 AND road_id = ANY($2) AND is_active;
	`
	cmdTag, err := tx.Exec(ctx, query, source, roadIDs, cycleTime)
	if err != nil {
		return 0, fmt.Errorf("failed to close vanished roads: %w", err)
	}
	return int(cmdTag.RowsAffected()), nil
}

// ListRoads возвращает участки дорог с пагинацией
func (r *RoadRepository) ListRoads(ctx context.Context, source string, activeOnly bool, limit, offset int) ([]*models.Road, error) {
	query := `
		SELECT ` + roadColumns + `
		FROM roads
		WHERE ($1 = '' OR source_system = $1)
			AND (NOT $2::boolean OR is_active)
		ORDER BY source_system, road_id
		LIMIT $3 OFFSET $4;
	`
	rows, err := r.db.Query(ctx, query, source, activeOnly, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list roads: %w", err)
	}
	defer rows.Close()

	roads := make([]*models.Road, 0)
	for rows.Next() {
		road, err := scanRoad(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan road row in ListRoads: %w", err)
		}
		roads = append(roads, road)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error road list iteration: %w", err)
	}
	return roads, nil
}
