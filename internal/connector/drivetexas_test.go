package connector

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var texasNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestDriveTexasConnector(srv *httptest.Server) *DriveTexasConnector {
	return &DriveTexasConnector{
		fetcher: &httpFetcher{
			client:     srv.Client(),
			maxRetries: 2,
			baseDelay:  time.Millisecond,
			logger:     testLogger(),
		},
		baseURL: srv.URL,
		apiKey:  "tx-key",
		clock:   clockwork.NewFakeClockAt(texasNow),
		logger:  testLogger(),
	}
}

func TestDriveTexasFetchIncidents(t *testing.T) {
	// Подготовка: GeoJSON с тремя features, одна без геометрии
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "tx-key", r.URL.Query().Get("key"))
		fmt.Fprint(w, `{
			"type": "FeatureCollection",
			"features": [
				{
					"properties": {
						"globalid": "abc-1",
						"route_name": "I-35",
						"travel_direction": "NB",
						"start_time": "2025-06-01T08:00:00Z",
						"description": "Road closed due to flooding",
						"condition": "High Water",
						"from_ref_marker": "142",
						"county_num": 105
					},
					"geometry": {"type": "Point", "coordinates": [-97.74, 30.27]}
				},
				{
					"properties": {
						"identifier": 555,
						"route_name": "US 287",
						"travel_direction": "SB",
						"start_time": "2025-06-01T07:00:00Z",
						"end_time": "2025-06-01T09:00:00Z",
						"description": "Lane blocked",
						"delay_flag": "true"
					},
					"geometry": {"type": "Point", "coordinates": [-101.8, 34.2]}
				},
				{
					"properties": {"globalid": "no-geom", "route_name": "FM 600", "start_time": "2025-06-01T06:00:00Z"},
					"geometry": {}
				}
			]
		}`)
	}))
	defer srv.Close()

	// Действие
	batch, err := newTestDriveTexasConnector(srv).FetchIncidents(context.Background())

	// Проверки
	require.NoError(t, err)
	// Фид отдается одним документом: успех всегда полный пакет
	assert.True(t, batch.Complete)
	assert.Equal(t, 1, batch.Skipped)
	require.Len(t, batch.Records, 2)

	first := batch.Records[0]
	assert.Equal(t, "drivetexas:abc-1", first.UUID)
	assert.Equal(t, SourceDriveTexas, first.SourceSystem)
	assert.Equal(t, "TX", first.State)
	assert.Equal(t, "NORTH", first.Direction)
	assert.Equal(t, "INTERSTATE", first.RouteClass)
	assert.Equal(t, "CLOSED", first.ClosureStatus)
	assert.Equal(t, 142.0, first.Milepost)
	assert.Equal(t, "105", first.County)
	assert.Equal(t, 30.27, first.Latitude)
	assert.Equal(t, -97.74, first.Longitude)
	assert.True(t, first.IsActive)
	// Перекрытие межштатной трассы — критично
	assert.Equal(t, 4, first.SeverityScore)

	// Время окончания уже в прошлом — запись неактивна
	second := batch.Records[1]
	assert.Equal(t, "drivetexas:555", second.UUID)
	assert.False(t, second.IsActive)
	require.NotNil(t, second.ClearedTime)
}

func TestDriveTexasFetchIncidents_FutureEndTimeStillActive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"features": [
				{
					"properties": {
						"globalid": "future-1",
						"route_name": "I-10",
						"start_time": "2025-06-01T08:00:00Z",
						"end_time": "2025-06-02T08:00:00Z",
						"description": "Construction"
					},
					"geometry": {"coordinates": [-98.5, 29.4]}
				}
			]
		}`)
	}))
	defer srv.Close()

	batch, err := newTestDriveTexasConnector(srv).FetchIncidents(context.Background())

	require.NoError(t, err)
	require.Len(t, batch.Records, 1)
	assert.True(t, batch.Records[0].IsActive)
}

func TestDriveTexasFetchIncidents_MissingAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	conn := newTestDriveTexasConnector(srv)
	conn.apiKey = ""

	_, err := conn.FetchIncidents(context.Background())

	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestDriveTexasSeverityText(t *testing.T) {
	cases := []struct {
		desc  string
		delay string
		want  string
	}{
		{"Road closed at mile 12", "", "high"},
		{"Heavy traffic", "true", "medium"},
		{"Left lane blocked", "", "medium"},
		{"Wet pavement", "", "low"},
		{"", "", ""},
	}

	for _, tc := range cases {
		props := texasProperties{Description: tc.desc, DelayFlag: flexString(tc.delay)}
		assert.Equal(t, tc.want, texasSeverityText(props), "desc=%q delay=%q", tc.desc, tc.delay)
	}
}
