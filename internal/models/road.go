package models

import (
	"encoding/json"
	"time"
)

// Road представляет участок дороги из фида. Жизненный цикл тот же, что и у
// Incident: вставка при первом появлении, обновление при изменениях,
// неявное закрытие при исчезновении из полной выборки.
type Road struct {
	SourceSystem string          `json:"source_system"`
	RoadID       string          `json:"road_id"`
	Name         string          `json:"name,omitempty"`
	Description  string          `json:"description,omitempty"`
	Direction    string          `json:"direction,omitempty"`
	BeginMile    float64         `json:"begin_mile,omitempty"`
	EndMile      float64         `json:"end_mile,omitempty"`
	Length       float64         `json:"length,omitempty"`
	Geometry     json.RawMessage `json:"geometry,omitempty"`
	IsActive     bool            `json:"is_active"`
	UpdatedTime  time.Time       `json:"updated_time"`
	Version      int64           `json:"version"`
}

// Key возвращает составной идентификатор записи в пределах хранилища
func (r *Road) Key() string {
	return r.SourceSystem + ":" + r.RoadID
}
