package models

import (
	"encoding/json"
	"time"
)

// Канонические значения severity_flag, выводимые из severity_score
const (
	SeverityUnknown  = "unknown"
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Incident представляет каноническую запись о дорожном инциденте.
// UUID и ReportedTime неизменяемы после первой записи; Version — глобально
// монотонный курсор изменений, назначается при каждой сверке с фидом.
type Incident struct {
	UUID          string          `json:"uuid"`
	SourceSystem  string          `json:"source_system"`
	SourceEventID string          `json:"source_event_id"`
	SourceURL     string          `json:"source_url,omitempty"`
	State         string          `json:"state"`
	County        string          `json:"county,omitempty"`
	Route         string          `json:"route,omitempty"`
	RouteClass    string          `json:"route_class,omitempty"`
	Direction     string          `json:"direction,omitempty"`
	Milepost      float64         `json:"milepost,omitempty"`
	Latitude      float64         `json:"latitude,omitempty"`
	Longitude     float64         `json:"longitude,omitempty"`
	Description   string          `json:"description,omitempty"`
	EventType     string          `json:"event_type,omitempty"`
	LanesAffected string          `json:"lanes_affected,omitempty"`
	ClosureStatus string          `json:"closure_status,omitempty"`
	SeverityFlag  string          `json:"severity_flag"`
	SeverityScore int             `json:"severity_score"`
	IsActive      bool            `json:"is_active"`
	ReportedTime  time.Time       `json:"reported_time"`
	UpdatedTime   time.Time       `json:"updated_time"`
	ClearedTime   *time.Time      `json:"cleared_time,omitempty"`
	Version       int64           `json:"version"`
	RawPayload    json.RawMessage `json:"-"`
	CreatedAt     time.Time       `json:"created_at,omitempty"`
	UpdatedAt     time.Time       `json:"updated_at,omitempty"`
}

// SeverityFlagForScore отображает числовой балл в каноническую метку.
// Отображение тотально: любое значение балла даёт ровно одну метку.
func SeverityFlagForScore(score int) string {
	switch {
	case score <= 0:
		return SeverityUnknown
	case score == 1:
		return SeverityLow
	case score == 2:
		return SeverityMedium
	case score == 3:
		return SeverityHigh
	default:
		return SeverityCritical
	}
}
