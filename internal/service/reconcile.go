package service

import (
	"bytes"
	"sort"
	"time"

	"github.com/shenikar/traffic_incidents_system/internal/models"
)

// ReconcilePlan — результат сверки одного полного пакета с текущим
// состоянием хранилища: что вставить, что обновить, что неявно закрыть.
// Partial=true подавляет вывод о закрытиях (усеченная выборка не
// доказательство исчезновения записи из источника).
type ReconcilePlan struct {
	Source    string
	CycleTime time.Time
	Partial   bool
	Inserts   []*models.Incident
	Updates   []*models.Incident
	Closures  []string
}

// RoadPlan — то же для участков дорог
type RoadPlan struct {
	Source    string
	CycleTime time.Time
	Partial   bool
	Inserts   []*models.Road
	Updates   []*models.Road
	Closures  []string
}

// ApplyResult — счетчики применения плана хранилищем
type ApplyResult struct {
	Inserted  int
	Updated   int
	Closed    int
	Conflicts int
}

// ComputePlan вычисляет план сверки. Функция чистая: не трогает ни
// хранилище, ни аргументы. Закрывается только то, что сейчас активно и
// отсутствует в полном пакете своей категории; уже неактивные записи и
// чужие категории не затрагиваются.
func ComputePlan(source string, stored map[string]*models.Incident, batch []*models.Incident, cycleTime time.Time, complete bool) *ReconcilePlan {
	plan := &ReconcilePlan{
		Source:    source,
		CycleTime: cycleTime,
		Partial:   !complete,
	}

	seen := make(map[string]bool, len(batch))
	for _, inc := range batch {
		if inc.UUID == "" || seen[inc.UUID] {
			continue
		}
		seen[inc.UUID] = true

		prev, exists := stored[inc.UUID]
		if !exists {
			rec := cloneIncident(inc)
			if rec.ReportedTime.IsZero() {
				rec.ReportedTime = cycleTime
			}
			rec.UpdatedTime = cycleTime
			plan.Inserts = append(plan.Inserts, rec)
			continue
		}

		if merged, changed := mergeIncident(prev, inc, cycleTime); changed {
			plan.Updates = append(plan.Updates, merged)
		}
	}

	if complete {
		for uuid, prev := range stored {
			if prev.IsActive && !seen[uuid] {
				plan.Closures = append(plan.Closures, uuid)
			}
		}
		sort.Strings(plan.Closures)
	}

	return plan
}

// mergeIncident сливает входящую запись с сохраненной. Возвращает
// (nil, false), если отслеживаемые поля не изменились — повторная сверка
// того же пакета не порождает записей и не двигает version.
func mergeIncident(prev, incoming *models.Incident, cycleTime time.Time) (*models.Incident, bool) {
	if !incidentChanged(prev, incoming) {
		return nil, false
	}

	merged := cloneIncident(incoming)
	merged.CreatedAt = prev.CreatedAt

	// reported_time неизменяемо в пределах эпизода. Реактивация —
	// новый эпизод: источник снова сообщает запись с более поздним
	// reported_time, и тогда метка переезжает вперед.
	merged.ReportedTime = prev.ReportedTime
	if !prev.IsActive && incoming.IsActive && incoming.ReportedTime.After(prev.ReportedTime) {
		merged.ReportedTime = incoming.ReportedTime
	}

	// updated_time не убывает на протяжении жизни записи
	merged.UpdatedTime = cycleTime
	if prev.UpdatedTime.After(cycleTime) {
		merged.UpdatedTime = prev.UpdatedTime
	}

	return merged, true
}

// incidentChanged сравнивает отслеживаемые поля; version, raw_payload и
// служебные метки в дельту не входят
func incidentChanged(prev, incoming *models.Incident) bool {
	switch {
	case prev.SourceURL != incoming.SourceURL,
		prev.State != incoming.State,
		prev.County != incoming.County,
		prev.Route != incoming.Route,
		prev.RouteClass != incoming.RouteClass,
		prev.Direction != incoming.Direction,
		prev.Milepost != incoming.Milepost,
		prev.Latitude != incoming.Latitude,
		prev.Longitude != incoming.Longitude,
		prev.Description != incoming.Description,
		prev.EventType != incoming.EventType,
		prev.LanesAffected != incoming.LanesAffected,
		prev.ClosureStatus != incoming.ClosureStatus,
		prev.SeverityFlag != incoming.SeverityFlag,
		prev.SeverityScore != incoming.SeverityScore,
		prev.IsActive != incoming.IsActive:
		return true
	}
	return !equalTimePtr(prev.ClearedTime, incoming.ClearedTime)
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func cloneIncident(inc *models.Incident) *models.Incident {
	c := *inc
	if inc.ClearedTime != nil {
		t := *inc.ClearedTime
		c.ClearedTime = &t
	}
	if inc.RawPayload != nil {
		c.RawPayload = append(c.RawPayload[:0:0], inc.RawPayload...)
	}
	return &c
}

// ComputeRoadPlan — сверка справочника дорог, тот же алгоритм
func ComputeRoadPlan(source string, stored map[string]*models.Road, batch []*models.Road, cycleTime time.Time, complete bool) *RoadPlan {
	plan := &RoadPlan{
		Source:    source,
		CycleTime: cycleTime,
		Partial:   !complete,
	}

	seen := make(map[string]bool, len(batch))
	for _, road := range batch {
		if road.RoadID == "" || seen[road.RoadID] {
			continue
		}
		seen[road.RoadID] = true

		prev, exists := stored[road.RoadID]
		if !exists {
			rec := cloneRoad(road)
			rec.IsActive = true
			rec.UpdatedTime = cycleTime
			plan.Inserts = append(plan.Inserts, rec)
			continue
		}

		if roadChanged(prev, road) {
			merged := cloneRoad(road)
			merged.IsActive = true
			merged.UpdatedTime = cycleTime
			plan.Updates = append(plan.Updates, merged)
		}
	}

	if complete {
		for roadID, prev := range stored {
			if prev.IsActive && !seen[roadID] {
				plan.Closures = append(plan.Closures, roadID)
			}
		}
		sort.Strings(plan.Closures)
	}

	return plan
}

func roadChanged(prev, incoming *models.Road) bool {
	return prev.Name != incoming.Name ||
		prev.Description != incoming.Description ||
		prev.Direction != incoming.Direction ||
		prev.BeginMile != incoming.BeginMile ||
		prev.EndMile != incoming.EndMile ||
		prev.Length != incoming.Length ||
		!prev.IsActive ||
		!bytes.Equal(prev.Geometry, incoming.Geometry)
}

func cloneRoad(road *models.Road) *models.Road {
	c := *road
	if road.Geometry != nil {
		c.Geometry = append(c.Geometry[:0:0], road.Geometry...)
	}
	return &c
}
