package v1

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shenikar/traffic_incidents_system/internal/config"
	"github.com/shenikar/traffic_incidents_system/internal/models"
	"github.com/shenikar/traffic_incidents_system/internal/service"
	"github.com/sirupsen/logrus"
)

// Скалярные параметры поиска; остальные ключи запроса трактуются как
// фильтры по полям записи
var scalarSearchParams = map[string]bool{
	"severity_score_min": true,
	"severity_score_max": true,
	"updated_since":      true,
	"reported_since":     true,
	"active_only":        true,
	"order":              true,
	"limit":              true,
	"offset":             true,
}

type Handler struct {
	incidentService service.IncidentService
	ingestService   service.IngestService
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
}

func NewHandler(incidentService service.IncidentService, ingestService service.IngestService, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		incidentService: incidentService,
		ingestService:   ingestService,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
	}
}

// @Summary Search incidents
// @Description Filtered incident search. Unknown query keys are treated as record field filters; repeating a key gives OR semantics within the field.
// @Tags Incidents
// @Produce json
// @Param state query []string false "Filter by state" collectionFormat(multi)
// @Param county query []string false "Filter by county" collectionFormat(multi)
// @Param route query []string false "Filter by route" collectionFormat(multi)
// @Param severity_score_min query int false "Minimum severity score (0-4)"
// @Param severity_score_max query int false "Maximum severity score (0-4)"
// @Param updated_since query string false "RFC3339 lower bound on updated_time"
// @Param reported_since query string false "RFC3339 lower bound on reported_time"
// @Param active_only query bool false "Only active incidents"
// @Param order query string false "Ordering key" Enums(updated_time_desc, reported_time_desc, severity_desc)
// @Param limit query int false "Page size" default(200)
// @Param offset query int false "Page offset"
// @Success 200 {object} SearchResponse
// @Failure 400 {object} map[string]string "Invalid filter parameter"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/search [get]
func (h *Handler) searchIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "searchIncidents")

	filter, err := parseSearchFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.incidentService.Search(c.Request.Context(), filter)
	if err != nil {
		var invalid *service.InvalidFilterError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error()})
			return
		}
		log.WithError(err).Error("Failed to search incidents in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, &SearchResponse{
		Total: result.Total,
		Count: result.Count,
		Items: ModelsToIncidentResponses(result.Items),
	})
}

// parseSearchFilter разбирает query-параметры в фильтр. Ошибка всегда
// именует конкретный параметр.
func parseSearchFilter(c *gin.Context) (*models.SearchFilter, error) {
	filter := &models.SearchFilter{Fields: make(map[string][]string)}

	if raw, ok := c.GetQuery("severity_score_min"); ok {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &service.InvalidFilterError{Param: "severity_score_min", Reason: "must be an integer"}
		}
		filter.SeverityScoreMin = &v
	}
	if raw, ok := c.GetQuery("severity_score_max"); ok {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &service.InvalidFilterError{Param: "severity_score_max", Reason: "must be an integer"}
		}
		filter.SeverityScoreMax = &v
	}
	if raw, ok := c.GetQuery("updated_since"); ok {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, &service.InvalidFilterError{Param: "updated_since", Reason: "must be an RFC3339 timestamp"}
		}
		filter.UpdatedSince = &t
	}
	if raw, ok := c.GetQuery("reported_since"); ok {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, &service.InvalidFilterError{Param: "reported_since", Reason: "must be an RFC3339 timestamp"}
		}
		filter.ReportedSince = &t
	}
	if raw, ok := c.GetQuery("active_only"); ok {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, &service.InvalidFilterError{Param: "active_only", Reason: "must be a boolean"}
		}
		filter.ActiveOnly = v
	}
	if raw, ok := c.GetQuery("limit"); ok {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &service.InvalidFilterError{Param: "limit", Reason: "must be an integer"}
		}
		filter.Limit = v
	}
	if raw, ok := c.GetQuery("offset"); ok {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &service.InvalidFilterError{Param: "offset", Reason: "must be an integer"}
		}
		filter.Offset = v
	}
	filter.Order = c.Query("order")

	for key, values := range c.Request.URL.Query() {
		if scalarSearchParams[key] {
			continue
		}
		cleaned := make([]string, 0, len(values))
		for _, v := range values {
			if s := strings.TrimSpace(v); s != "" {
				cleaned = append(cleaned, s)
			}
		}
		if len(cleaned) > 0 {
			filter.Fields[key] = cleaned
		}
	}

	return filter, nil
}

// parseLimit читает limit из query; нечисловое значение — ошибка
// клиента с именем параметра, а не молчаливый откат к умолчанию
func parseLimit(c *gin.Context, defaultLimit int) (int, error) {
	raw, ok := c.GetQuery("limit")
	if !ok {
		return defaultLimit, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &service.InvalidFilterError{Param: "limit", Reason: "must be an integer"}
	}
	return v, nil
}

// @Summary Latest incidents
// @Description Most recently updated incidents across all sources.
// @Tags Incidents
// @Produce json
// @Param limit query int false "Number of incidents" default(50)
// @Success 200 {array} IncidentResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/latest [get]
func (h *Handler) latestIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "latestIncidents")

	limit, err := parseLimit(c, 50)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	incidents, err := h.incidentService.Latest(c.Request.Context(), limit)
	if err != nil {
		log.WithError(err).Error("Failed to list latest incidents from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Change feed
// @Description Incidents with version strictly greater than the cursor, in version order. Poll with the returned cursor for lossless incremental sync.
// @Tags Incidents
// @Produce json
// @Param cursor query int false "Version cursor from the previous page" default(0)
// @Param limit query int false "Page size" default(200)
// @Success 200 {object} ChangedSinceResponse
// @Failure 400 {object} map[string]string "Invalid cursor"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/changed_since [get]
func (h *Handler) changedSince(c *gin.Context) {
	log := h.logger.WithField("method", "changedSince")

	cursor, err := strconv.ParseInt(c.DefaultQuery("cursor", "0"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter parameter \"cursor\": must be an integer"})
		return
	}
	limit, err := parseLimit(c, 200)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	incidents, next, err := h.incidentService.ChangedSince(c.Request.Context(), cursor, limit)
	if err != nil {
		var invalid *service.InvalidFilterError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error()})
			return
		}
		log.WithError(err).Error("Failed to read change feed from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, &ChangedSinceResponse{
		Cursor: next,
		Items:  ModelsToIncidentResponses(incidents),
	})
}

// @Summary Active incident count
// @Description Number of incidents currently marked active.
// @Tags Incidents
// @Produce json
// @Success 200 {object} ActiveCountResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/active_count [get]
func (h *Handler) activeCount(c *gin.Context) {
	log := h.logger.WithField("method", "activeCount")

	count, err := h.incidentService.ActiveCount(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to count active incidents in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, &ActiveCountResponse{ActiveCount: count})
}

// @Summary Facet values
// @Description Observed values per filterable field, for building search UIs.
// @Tags Incidents
// @Produce json
// @Success 200 {object} map[string][]string
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/facets [get]
func (h *Handler) facets(c *gin.Context) {
	snapshot, err := h.incidentService.Facets(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to read facet snapshot from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// @Summary Get incident by UUID
// @Description Get a single canonical incident record by its UUID.
// @Tags Incidents
// @Produce json
// @Param uuid path string true "Incident UUID, e.g. ohgo:12345"
// @Success 200 {object} IncidentResponse
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{uuid} [get]
func (h *Handler) getIncident(c *gin.Context) {
	uuid := c.Param("uuid")
	log := h.logger.WithField("method", "getIncident").WithField("uuid", uuid)

	incident, err := h.incidentService.Get(c.Request.Context(), uuid)
	if err != nil {
		if errors.Is(err, service.ErrIncidentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
			return
		}
		log.WithError(err).Error("Failed to get incident from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary List road segments
// @Description Road inventory synced from upstream feeds, with pagination.
// @Tags Roads
// @Produce json
// @Param source query string false "Filter by source system"
// @Param active_only query bool false "Only segments present in the last sync"
// @Param limit query int false "Page size" default(200)
// @Param offset query int false "Page offset"
// @Success 200 {array} RoadResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /roads [get]
func (h *Handler) listRoads(c *gin.Context) {
	log := h.logger.WithField("method", "listRoads")

	var query ListRoadsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}
	if err := h.validate.Struct(query); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	roads, err := h.incidentService.ListRoads(c.Request.Context(), query.Source, query.ActiveOnly, query.Limit, query.Offset)
	if err != nil {
		log.WithError(err).Error("Failed to list roads from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ModelsToRoadResponses(roads))
}

// @Summary Trigger an ingest cycle
// @Description Run one fetch-reconcile cycle for a source outside the schedule. Requires API key.
// @Tags Ingest
// @Produce json
// @Security ApiKeyAuth
// @Param source path string true "Source system" Enums(OHGO, DRIVETEXAS)
// @Success 200 {object} IngestCycleResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Unknown source"
// @Failure 409 {object} map[string]string "Cycle already in flight"
// @Failure 502 {object} map[string]string "Upstream feed failure"
// @Router /ingest/{source} [post]
func (h *Handler) triggerIngest(c *gin.Context) {
	source := c.Param("source")
	log := h.logger.WithField("method", "triggerIngest").WithField("source", source)

	result, err := h.ingestService.RunCycle(c.Request.Context(), source)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownSource):
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown source"})
		case errors.Is(err, service.ErrCycleInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": "ingest cycle already in flight"})
		default:
			log.WithError(err).Error("Manual ingest cycle failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": "upstream feed failure"})
		}
		return
	}
	c.JSON(http.StatusOK, CycleResultToResponse(result))
}

// @Summary Health check
// @Description Service liveness probe.
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
