package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/shenikar/traffic_incidents_system/internal/config"
	"github.com/shenikar/traffic_incidents_system/internal/models"
	"github.com/sirupsen/logrus"
)

// SourceDriveTexas — категория записей коннектора DriveTexas (TxDOT)
const SourceDriveTexas = "DRIVETEXAS"

// DriveTexasConnector — клиент GeoJSON-фида DriveTexas. Фид отдает весь
// набор одним документом, поэтому успешный запрос всегда полный пакет.
type DriveTexasConnector struct {
	fetcher *httpFetcher
	baseURL string
	apiKey  string
	clock   clockwork.Clock
	logger  *logrus.Logger
}

func NewDriveTexasConnector(cfg *config.Config, clock clockwork.Clock, log *logrus.Logger) *DriveTexasConnector {
	return &DriveTexasConnector{
		fetcher: &httpFetcher{
			client:     &http.Client{Timeout: cfg.FetchTimeout},
			maxRetries: cfg.FetchMaxRetries,
			baseDelay:  cfg.FetchRetryBaseDelay,
			logger:     log,
		},
		baseURL: cfg.DriveTexasBaseURL,
		apiKey:  cfg.DriveTexasAPIKey,
		clock:   clock,
		logger:  log,
	}
}

func (c *DriveTexasConnector) Source() string { return SourceDriveTexas }

type texasFeatureCollection struct {
	Features []json.RawMessage `json:"features"`
}

type texasFeature struct {
	Properties texasProperties `json:"properties"`
	Geometry   struct {
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
}

// Имена свойств в фиде встречаются и в нижнем, и в верхнем регистре —
// декодер encoding/json сопоставляет их без учета регистра
type texasProperties struct {
	GlobalID      flexString `json:"globalid"`
	Identifier    flexString `json:"identifier"`
	RouteName     string     `json:"route_name"`
	Direction     string     `json:"travel_direction"`
	FromRefMarker flexString `json:"from_ref_marker"`
	StartTime     string     `json:"start_time"`
	EndTime       string     `json:"end_time"`
	CreateTime    string     `json:"create_time"`
	Description   string     `json:"description"`
	Condition     string     `json:"condition"`
	DelayFlag     flexString `json:"delay_flag"`
	CountyNum     flexString `json:"county_num"`
}

// FetchIncidents вызывает GeoJSON API и нормализует features в
// канонические записи
func (c *DriveTexasConnector) FetchIncidents(ctx context.Context) (*Batch, error) {
	batch := &Batch{Source: SourceDriveTexas}
	if c.apiKey == "" {
		return batch, fmt.Errorf("%w: DRIVETEXAS_API_KEY is not configured", ErrUpstreamUnavailable)
	}

	q := url.Values{}
	q.Set("key", c.apiKey)
	headers := map[string]string{"User-Agent": "traffic-incidents-system/drivetexas"}

	var fc texasFeatureCollection
	if err := c.fetcher.getJSON(ctx, c.baseURL, q, headers, &fc); err != nil {
		return batch, err
	}

	log := c.logger.WithField("source", SourceDriveTexas)
	for _, raw := range fc.Features {
		inc, err := c.normalizeFeature(raw)
		if err != nil {
			batch.Skipped++
			log.WithError(err).Warn("Skipping malformed incident feature")
			continue
		}
		batch.Records = append(batch.Records, inc)
	}

	batch.Complete = true
	log.WithFields(logrus.Fields{
		"count":   len(batch.Records),
		"skipped": batch.Skipped,
	}).Info("Fetched incidents from DriveTexas")
	return batch, nil
}

func (c *DriveTexasConnector) normalizeFeature(raw json.RawMessage) (*models.Incident, error) {
	var feat texasFeature
	if err := json.Unmarshal(raw, &feat); err != nil {
		return nil, &NormalizationError{Field: "feature", Reason: err.Error()}
	}

	props := feat.Properties
	sourceID := firstNonEmpty(props.GlobalID.String(), props.Identifier.String())
	if sourceID == "" {
		if props.RouteName == "" || props.StartTime == "" {
			return nil, &NormalizationError{Field: "globalid", Reason: "missing source identity"}
		}
		sourceID = derivedID(SourceDriveTexas, props.RouteName, props.Direction, props.StartTime)
	}

	if len(feat.Geometry.Coordinates) < 2 {
		return nil, &NormalizationError{SourceID: sourceID, Field: "geometry", Reason: "missing point coordinates"}
	}

	reported, err := parseTime(props.StartTime)
	if err != nil {
		return nil, &NormalizationError{SourceID: sourceID, Field: "start_time", Reason: err.Error()}
	}
	updated, err := parseTime(firstNonEmpty(props.CreateTime, props.StartTime))
	if err != nil {
		return nil, &NormalizationError{SourceID: sourceID, Field: "create_time", Reason: err.Error()}
	}
	cleared, err := parseTime(props.EndTime)
	if err != nil {
		return nil, &NormalizationError{SourceID: sourceID, Field: "end_time", Reason: err.Error()}
	}

	inc := &models.Incident{
		UUID:          "drivetexas:" + sourceID,
		SourceSystem:  SourceDriveTexas,
		SourceEventID: sourceID,
		State:         "TX",
		County:        props.CountyNum.String(),
		Route:         props.RouteName,
		RouteClass:    canonicalizeRouteClass(props.RouteName),
		Direction:     canonicalizeDirection(props.Direction),
		Milepost:      parseFloat(props.FromRefMarker.String()),
		Latitude:      feat.Geometry.Coordinates[1],
		Longitude:     feat.Geometry.Coordinates[0],
		Description:   props.Description,
		EventType:     firstNonEmpty(props.Condition, "Unknown"),
		LanesAffected: props.Description,
		ClosureStatus: canonicalizeClosureStatus(props.Description),
		ReportedTime:  reported,
		UpdatedTime:   updated,
		RawPayload:    append(json.RawMessage(nil), raw...),
	}

	// Запись активна, пока время окончания не наступило
	if !cleared.IsZero() {
		inc.ClearedTime = &cleared
		inc.IsActive = cleared.After(c.clock.Now())
	} else {
		inc.IsActive = true
	}

	applySeverity(inc, 0, texasSeverityText(props))
	return inc, nil
}

// texasSeverityText выводит текстовую тяжесть из флагов фида: полное
// перекрытие выше задержек, задержки выше прочих условий
func texasSeverityText(props texasProperties) string {
	desc := strings.ToLower(props.Description)
	delay := strings.ToLower(props.DelayFlag.String())
	switch {
	case strings.Contains(desc, "closed"):
		return "high"
	case delay == "true" || delay == "1" || delay == "yes":
		return "medium"
	case strings.Contains(desc, "lane blocked") || strings.Contains(desc, "shoulder blocked"):
		return "medium"
	case desc != "":
		return "low"
	}
	return ""
}
