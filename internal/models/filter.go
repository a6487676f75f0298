package models

import "time"

// Допустимые ключи сортировки поисковой выдачи
const (
	OrderUpdatedTimeDesc  = "updated_time_desc"
	OrderReportedTimeDesc = "reported_time_desc"
	OrderSeverityDesc     = "severity_desc"
)

// FacetFields — поля, по которым поддерживаются многозначные фильтры и фасеты
var FacetFields = []string{
	"state",
	"county",
	"route",
	"route_class",
	"direction",
	"event_type",
	"closure_status",
	"severity_flag",
}

// SearchFilter описывает поисковый запрос: значения внутри одного поля
// объединяются через OR, разные поля — через AND. Отсутствующий фильтр
// означает "без ограничения", а не "пустое множество".
type SearchFilter struct {
	Fields           map[string][]string
	SeverityScoreMin *int
	SeverityScoreMax *int
	UpdatedSince     *time.Time
	ReportedSince    *time.Time
	ActiveOnly       bool
	Order            string
	Limit            int
	Offset           int
}

// SearchResult — страница выдачи: Total — полный размер совпавшей
// популяции, Count/Items — усечённая страница.
type SearchResult struct {
	Items []*Incident
	Count int
	Total int
}
