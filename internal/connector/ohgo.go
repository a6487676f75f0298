package connector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shenikar/traffic_incidents_system/internal/config"
	"github.com/shenikar/traffic_incidents_system/internal/models"
	"github.com/sirupsen/logrus"
)

// SourceOHGO — категория записей коннектора OHGO (Ohio DOT)
const SourceOHGO = "OHGO"

// OHGOConnector — клиент постраничного API OHGO
type OHGOConnector struct {
	fetcher  *httpFetcher
	baseURL  string
	apiKey   string
	pageSize int
	logger   *logrus.Logger
}

func NewOHGOConnector(cfg *config.Config, log *logrus.Logger) *OHGOConnector {
	return &OHGOConnector{
		fetcher: &httpFetcher{
			client:     &http.Client{Timeout: cfg.FetchTimeout},
			maxRetries: cfg.FetchMaxRetries,
			baseDelay:  cfg.FetchRetryBaseDelay,
			logger:     log,
		},
		baseURL:  strings.TrimRight(cfg.OHGOBaseURL, "/"),
		apiKey:   cfg.OHGOAPIKey,
		pageSize: cfg.OHGOPageSize,
		logger:   log,
	}
}

func (c *OHGOConnector) Source() string { return SourceOHGO }

// Обертка ответа OHGO. encoding/json сопоставляет ключи без учета
// регистра, поэтому одна структура покрывает Results/results и т.п.
type ohgoPage struct {
	Results          []json.RawMessage `json:"results"`
	TotalResultCount int               `json:"totalResultCount"`
	TotalPageCount   int               `json:"totalPageCount"`
}

type ohgoLink struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

type ohgoIncident struct {
	ID            flexString `json:"id"`
	RouteName     string     `json:"routeName"`
	Direction     string     `json:"direction"`
	Latitude      float64    `json:"latitude"`
	Longitude     float64    `json:"longitude"`
	ReportedTime  string     `json:"reportedTime"`
	StartTime     string     `json:"startTime"`
	UpdatedTime   string     `json:"updatedTime"`
	LastUpdated   string     `json:"lastUpdated"`
	ClearedTime   string     `json:"clearedTime"`
	EndTime       string     `json:"endTime"`
	RoadStatus    string     `json:"roadStatus"`
	Status        string     `json:"status"`
	Category      string     `json:"category"`
	State         string     `json:"state"`
	County        string     `json:"county"`
	Description   string     `json:"description"`
	LanesAffected string     `json:"lanesAffected"`
	Severity      string     `json:"severity"`
	SeverityScore int        `json:"severityScore"`
	IsActive      *bool      `json:"isActive"`
	Links         []ohgoLink `json:"links"`
}

type ohgoRoad struct {
	ID          flexString      `json:"id"`
	RoadID      flexString      `json:"roadId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Direction   string          `json:"direction"`
	BeginMile   float64         `json:"beginMile"`
	EndMile     float64         `json:"endMile"`
	Length      float64         `json:"length"`
	Geometry    json.RawMessage `json:"geometry"`
	LastUpdated string          `json:"lastUpdated"`
}

// FetchIncidents обходит все страницы /incidents. При транспортной
// ошибке посреди обхода возвращается уже собранная часть пакета с
// Complete=false вместе с ошибкой — вызывающий фиксирует вставки и
// обновления, но не делает выводов о закрытиях.
func (c *OHGOConnector) FetchIncidents(ctx context.Context) (*Batch, error) {
	batch := &Batch{Source: SourceOHGO}
	log := c.logger.WithField("source", SourceOHGO)

	page := 1
	totalPages := 0
	totalCount := 0
	for {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		q.Set("page-size", strconv.Itoa(c.pageSize))
		if c.apiKey != "" {
			q.Set("api-key", c.apiKey)
		}

		var resp ohgoPage
		err := c.fetcher.getJSON(ctx, c.baseURL+"/incidents", q, c.authHeaders(), &resp)
		if err != nil {
			log.WithError(err).Errorf("Fetch incidents aborted on page %d", page)
			return batch, err
		}

		if page == 1 {
			totalPages = resp.TotalPageCount
			totalCount = resp.TotalResultCount
		}
		if len(resp.Results) == 0 {
			break
		}

		for _, raw := range resp.Results {
			inc, normErr := c.normalizeIncident(raw)
			if normErr != nil {
				batch.Skipped++
				log.WithError(normErr).Warn("Skipping malformed incident record")
				continue
			}
			batch.Records = append(batch.Records, inc)
		}

		page++
		if totalPages > 0 && page > totalPages {
			break
		}
	}

	// Пакет полон, только если обойдены все страницы и число записей
	// сходится с заявленным источником итогом
	batch.Complete = totalCount == 0 || len(batch.Records)+batch.Skipped >= totalCount
	if !batch.Complete {
		log.Warnf("Incident batch looks truncated: observed=%d declared=%d", len(batch.Records)+batch.Skipped, totalCount)
	}

	log.WithFields(logrus.Fields{
		"count":    len(batch.Records),
		"skipped":  batch.Skipped,
		"complete": batch.Complete,
	}).Info("Fetched incidents from OHGO")
	return batch, nil
}

// FetchRoads забирает справочник участков дорог одним запросом page-all
func (c *OHGOConnector) FetchRoads(ctx context.Context) (*RoadBatch, error) {
	q := url.Values{}
	q.Set("page-all", "true")
	if c.apiKey != "" {
		q.Set("api-key", c.apiKey)
	}

	var resp ohgoPage
	if err := c.fetcher.getJSON(ctx, c.baseURL+"/roads", q, c.authHeaders(), &resp); err != nil {
		return &RoadBatch{Source: SourceOHGO}, err
	}

	batch := &RoadBatch{Source: SourceOHGO, Complete: true}
	for _, raw := range resp.Results {
		road, err := c.normalizeRoad(raw)
		if err != nil {
			batch.Skipped++
			c.logger.WithError(err).Warn("Skipping malformed road record")
			continue
		}
		batch.Records = append(batch.Records, road)
	}

	c.logger.WithFields(logrus.Fields{
		"source":  SourceOHGO,
		"count":   len(batch.Records),
		"skipped": batch.Skipped,
	}).Info("Fetched roads from OHGO")
	return batch, nil
}

func (c *OHGOConnector) authHeaders() map[string]string {
	if c.apiKey == "" {
		return nil
	}
	return map[string]string{"Authorization": "APIKEY " + c.apiKey}
}

func (c *OHGOConnector) normalizeIncident(raw json.RawMessage) (*models.Incident, error) {
	var item ohgoIncident
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, &NormalizationError{Field: "record", Reason: err.Error()}
	}

	sourceID := item.ID.String()
	if sourceID == "" {
		// Стабильного идентификатора нет — выводим детерминированный
		// из неизменных полей; совсем без опорных полей запись негодна
		if item.RouteName == "" || (item.ReportedTime == "" && item.StartTime == "") {
			return nil, &NormalizationError{Field: "id", Reason: "missing source identity"}
		}
		sourceID = derivedID(SourceOHGO, item.RouteName, item.Direction, firstNonEmpty(item.ReportedTime, item.StartTime))
	}

	reported, err := parseTime(firstNonEmpty(item.ReportedTime, item.StartTime))
	if err != nil {
		return nil, &NormalizationError{SourceID: sourceID, Field: "reported_time", Reason: err.Error()}
	}
	updated, err := parseTime(firstNonEmpty(item.UpdatedTime, item.LastUpdated))
	if err != nil {
		return nil, &NormalizationError{SourceID: sourceID, Field: "updated_time", Reason: err.Error()}
	}
	cleared, err := parseTime(firstNonEmpty(item.ClearedTime, item.EndTime))
	if err != nil {
		return nil, &NormalizationError{SourceID: sourceID, Field: "cleared_time", Reason: err.Error()}
	}

	status := firstNonEmpty(item.RoadStatus, item.Status)
	inc := &models.Incident{
		UUID:          "ohgo:" + sourceID,
		SourceSystem:  SourceOHGO,
		SourceEventID: sourceID,
		State:         firstNonEmpty(item.State, "OH"),
		County:        item.County,
		Route:         item.RouteName,
		RouteClass:    canonicalizeRouteClass(item.RouteName),
		Direction:     canonicalizeDirection(item.Direction),
		Latitude:      item.Latitude,
		Longitude:     item.Longitude,
		Description:   item.Description,
		EventType:     item.Category,
		LanesAffected: item.LanesAffected,
		ClosureStatus: canonicalizeClosureStatus(status),
		ReportedTime:  reported,
		UpdatedTime:   updated,
		RawPayload:    append(json.RawMessage(nil), raw...),
	}
	if !cleared.IsZero() {
		inc.ClearedTime = &cleared
	}
	inc.SourceURL = linkHref(item.Links, "self")
	inc.IsActive = deriveIsActive(item.IsActive, inc.ClearedTime != nil, status)
	applySeverity(inc, item.SeverityScore, item.Severity)
	return inc, nil
}

func (c *OHGOConnector) normalizeRoad(raw json.RawMessage) (*models.Road, error) {
	var item ohgoRoad
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, &NormalizationError{Field: "record", Reason: err.Error()}
	}

	roadID := firstNonEmpty(item.ID.String(), item.RoadID.String())
	if roadID == "" {
		return nil, &NormalizationError{Field: "road_id", Reason: "missing source identity"}
	}
	updated, err := parseTime(item.LastUpdated)
	if err != nil {
		return nil, &NormalizationError{SourceID: roadID, Field: "last_updated", Reason: err.Error()}
	}

	return &models.Road{
		SourceSystem: SourceOHGO,
		RoadID:       roadID,
		Name:         item.Name,
		Description:  item.Description,
		Direction:    canonicalizeDirection(item.Direction),
		BeginMile:    item.BeginMile,
		EndMile:      item.EndMile,
		Length:       item.Length,
		Geometry:     append(json.RawMessage(nil), item.Geometry...),
		IsActive:     true,
		UpdatedTime:  updated,
	}, nil
}

func linkHref(links []ohgoLink, rel string) string {
	for _, ln := range links {
		if strings.EqualFold(ln.Rel, rel) {
			return ln.Href
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
