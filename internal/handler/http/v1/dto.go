package v1

import (
	"time"
)

// IncidentResponse DTO для ответа с канонической записью инцидента
// @Description DTO для ответа с канонической записью инцидента
type IncidentResponse struct {
	UUID          string     `json:"uuid"`
	SourceSystem  string     `json:"source_system"`
	SourceEventID string     `json:"source_event_id"`
	SourceURL     string     `json:"source_url,omitempty"`
	State         string     `json:"state"`
	County        string     `json:"county,omitempty"`
	Route         string     `json:"route,omitempty"`
	RouteClass    string     `json:"route_class,omitempty"`
	Direction     string     `json:"direction,omitempty"`
	Milepost      float64    `json:"milepost,omitempty"`
	Latitude      float64    `json:"latitude,omitempty"`
	Longitude     float64    `json:"longitude,omitempty"`
	Description   string     `json:"description,omitempty"`
	EventType     string     `json:"event_type,omitempty"`
	LanesAffected string     `json:"lanes_affected,omitempty"`
	ClosureStatus string     `json:"closure_status,omitempty"`
	SeverityFlag  string     `json:"severity_flag"`
	SeverityScore int        `json:"severity_score"`
	IsActive      bool       `json:"is_active"`
	ReportedTime  time.Time  `json:"reported_time"`
	UpdatedTime   time.Time  `json:"updated_time"`
	ClearedTime   *time.Time `json:"cleared_time,omitempty"`
	Version       int64      `json:"version"`
}

// SearchResponse DTO страницы поиска с общим количеством совпадений
// @Description DTO страницы поиска
type SearchResponse struct {
	Total int                 `json:"total"`
	Count int                 `json:"count"`
	Items []*IncidentResponse `json:"items"`
}

// ChangedSinceResponse DTO страницы фида изменений. Cursor передается в
// следующий запрос; на пустой странице он равен входному.
// @Description DTO страницы фида изменений
type ChangedSinceResponse struct {
	Cursor int64               `json:"cursor"`
	Items  []*IncidentResponse `json:"items"`
}

// ActiveCountResponse DTO счетчика активных инцидентов
// @Description DTO счетчика активных инцидентов
type ActiveCountResponse struct {
	ActiveCount int `json:"active_count"`
}

// ListRoadsQuery DTO параметров листинга дорог
type ListRoadsQuery struct {
	Source     string `form:"source"`
	ActiveOnly bool   `form:"active_only"`
	Limit      int    `form:"limit,default=200" validate:"min=1,max=1000"`
	Offset     int    `form:"offset" validate:"min=0"`
}

// RoadResponse DTO участка дороги
// @Description DTO участка дороги
type RoadResponse struct {
	SourceSystem string    `json:"source_system"`
	RoadID       string    `json:"road_id"`
	Name         string    `json:"name,omitempty"`
	Description  string    `json:"description,omitempty"`
	Direction    string    `json:"direction,omitempty"`
	BeginMile    float64   `json:"begin_mile,omitempty"`
	EndMile      float64   `json:"end_mile,omitempty"`
	Length       float64   `json:"length,omitempty"`
	IsActive     bool      `json:"is_active"`
	UpdatedTime  time.Time `json:"updated_time"`
}

// IngestCycleResponse DTO итога ручного запуска цикла инжеста
// @Description DTO итога цикла инжеста
type IngestCycleResponse struct {
	Source   string `json:"source"`
	Inserted int    `json:"inserted"`
	Updated  int    `json:"updated"`
	Closed   int    `json:"closed"`
	Skipped  int    `json:"skipped"`
	Partial  bool   `json:"partial"`
	Roads    int    `json:"roads,omitempty"`
}
