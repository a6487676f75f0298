package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Читающая сторона: поиск, фасеты, фид изменений
	incidents := api.Group("/incidents")
	{
		incidents.GET("/search", h.searchIncidents)
		incidents.GET("/latest", h.latestIncidents)
		incidents.GET("/changed_since", h.changedSince)
		incidents.GET("/active_count", h.activeCount)
		incidents.GET("/facets", h.facets)
		incidents.GET("/:uuid", h.getIncident)
	}

	// Справочник дорог
	api.GET("/roads", h.listRoads)

	// Ручной запуск цикла инжеста защищен API-ключом
	ingest := api.Group("/ingest", APIKeyAuthMiddleware(h.cfg, h.logger))
	{
		ingest.POST("/:source", h.triggerIngest)
	}

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
