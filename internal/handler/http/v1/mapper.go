package v1

import (
	"github.com/shenikar/traffic_incidents_system/internal/models"
	"github.com/shenikar/traffic_incidents_system/internal/service"
)

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	return &IncidentResponse{
		UUID:          model.UUID,
		SourceSystem:  model.SourceSystem,
		SourceEventID: model.SourceEventID,
		SourceURL:     model.SourceURL,
		State:         model.State,
		County:        model.County,
		Route:         model.Route,
		RouteClass:    model.RouteClass,
		Direction:     model.Direction,
		Milepost:      model.Milepost,
		Latitude:      model.Latitude,
		Longitude:     model.Longitude,
		Description:   model.Description,
		EventType:     model.EventType,
		LanesAffected: model.LanesAffected,
		ClosureStatus: model.ClosureStatus,
		SeverityFlag:  model.SeverityFlag,
		SeverityScore: model.SeverityScore,
		IsActive:      model.IsActive,
		ReportedTime:  model.ReportedTime,
		UpdatedTime:   model.UpdatedTime,
		ClearedTime:   model.ClearedTime,
		Version:       model.Version,
	}
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(models []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}

// ModelToRoadResponse преобразует участок дороги в DTO для ответа
func ModelToRoadResponse(model *models.Road) *RoadResponse {
	return &RoadResponse{
		SourceSystem: model.SourceSystem,
		RoadID:       model.RoadID,
		Name:         model.Name,
		Description:  model.Description,
		Direction:    model.Direction,
		BeginMile:    model.BeginMile,
		EndMile:      model.EndMile,
		Length:       model.Length,
		IsActive:     model.IsActive,
		UpdatedTime:  model.UpdatedTime,
	}
}

// ModelsToRoadResponses преобразует слайс участков в слайс DTO
func ModelsToRoadResponses(models []*models.Road) []*RoadResponse {
	responses := make([]*RoadResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToRoadResponse(model)
	}
	return responses
}

// CycleResultToResponse преобразует итог цикла инжеста в DTO
func CycleResultToResponse(result *service.CycleResult) *IngestCycleResponse {
	return &IngestCycleResponse{
		Source:   result.Source,
		Inserted: result.Inserted,
		Updated:  result.Updated,
		Closed:   result.Closed,
		Skipped:  result.Skipped,
		Partial:  result.Partial,
		Roads:    result.Roads,
	}
}
