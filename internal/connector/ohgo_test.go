package connector

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	return log
}

func newTestOHGOConnector(srv *httptest.Server) *OHGOConnector {
	return &OHGOConnector{
		fetcher: &httpFetcher{
			client:     srv.Client(),
			maxRetries: 2,
			baseDelay:  time.Millisecond,
			logger:     testLogger(),
		},
		baseURL:  srv.URL,
		apiKey:   "test-key",
		pageSize: 2,
		logger:   testLogger(),
	}
}

func TestOHGOFetchIncidents_Paginates(t *testing.T) {
	// Подготовка: две страницы по две записи
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/incidents", r.URL.Path)
		require.Equal(t, "test-key", r.URL.Query().Get("api-key"))

		page := r.URL.Query().Get("page")
		w.Header().Set("Content-Type", "application/json")
		switch page {
		case "1":
			fmt.Fprint(w, `{
				"totalResultCount": 3,
				"totalPageCount": 2,
				"results": [
					{"id": "100", "routeName": "I-70", "direction": "WB", "roadStatus": "Lane Blocked", "category": "Crash", "reportedTime": "2025-06-01T10:00:00Z"},
					{"id": "101", "routeName": "US-23", "direction": "NB", "roadStatus": "Open", "category": "Maintenance", "reportedTime": "2025-06-01T09:00:00Z"}
				]
			}`)
		case "2":
			fmt.Fprint(w, `{
				"totalResultCount": 3,
				"totalPageCount": 2,
				"results": [
					{"id": 102, "routeName": "SR-315", "direction": "SB", "roadStatus": "Closed", "category": "Crash", "reportedTime": "2025-06-01T08:00:00Z"}
				]
			}`)
		default:
			t.Fatalf("unexpected page %q", page)
		}
	}))
	defer srv.Close()

	// Действие
	batch, err := newTestOHGOConnector(srv).FetchIncidents(context.Background())

	// Проверки
	require.NoError(t, err)
	assert.True(t, batch.Complete)
	assert.Equal(t, 0, batch.Skipped)
	require.Len(t, batch.Records, 3)

	first := batch.Records[0]
	assert.Equal(t, "ohgo:100", first.UUID)
	assert.Equal(t, SourceOHGO, first.SourceSystem)
	assert.Equal(t, "OH", first.State)
	assert.Equal(t, "WEST", first.Direction)
	assert.Equal(t, "INTERSTATE", first.RouteClass)
	assert.Equal(t, "PARTIAL", first.ClosureStatus)
	assert.True(t, first.IsActive)

	// Числовой id тоже принимается
	assert.Equal(t, "ohgo:102", batch.Records[2].UUID)
}

func TestOHGOFetchIncidents_SkipsMalformedRecords(t *testing.T) {
	// Подготовка: вторая запись без идентификатора и опорных полей
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"totalResultCount": 2,
			"totalPageCount": 1,
			"results": [
				{"id": "100", "routeName": "I-70", "reportedTime": "2025-06-01T10:00:00Z"},
				{"description": "no identity at all"}
			]
		}`)
	}))
	defer srv.Close()

	// Действие
	batch, err := newTestOHGOConnector(srv).FetchIncidents(context.Background())

	// Проверки: негодная запись пропущена, пакет полный
	require.NoError(t, err)
	assert.Len(t, batch.Records, 1)
	assert.Equal(t, 1, batch.Skipped)
	assert.True(t, batch.Complete)
}

func TestOHGOFetchIncidents_DerivesIDWhenMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"totalResultCount": 1,
			"totalPageCount": 1,
			"results": [
				{"routeName": "I-71", "direction": "NB", "reportedTime": "2025-06-01T10:00:00Z"}
			]
		}`)
	}))
	defer srv.Close()

	conn := newTestOHGOConnector(srv)
	batch, err := conn.FetchIncidents(context.Background())
	require.NoError(t, err)
	require.Len(t, batch.Records, 1)
	first := batch.Records[0].UUID

	// Повторная выборка дает тот же UUID
	batch2, err := conn.FetchIncidents(context.Background())
	require.NoError(t, err)
	require.Len(t, batch2.Records, 1)
	assert.Equal(t, first, batch2.Records[0].UUID)
}

func TestOHGOFetchIncidents_RateLimited(t *testing.T) {
	// Подготовка: источник троттлит все попытки
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	// Действие
	batch, err := newTestOHGOConnector(srv).FetchIncidents(context.Background())

	// Проверки: все повторы исчерпаны
	assert.ErrorIs(t, err, ErrUpstreamRateLimited)
	assert.Equal(t, 3, calls)
	assert.Empty(t, batch.Records)
	assert.False(t, batch.Complete)
}

func TestOHGOFetchIncidents_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestOHGOConnector(srv).FetchIncidents(context.Background())

	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestOHGOFetchIncidents_MalformedJSONNotRetried(t *testing.T) {
	// Подготовка
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"results": [broken`)
	}))
	defer srv.Close()

	// Действие
	_, err := newTestOHGOConnector(srv).FetchIncidents(context.Background())

	// Проверки: битый JSON не повторяется
	assert.ErrorIs(t, err, ErrUpstreamMalformed)
	assert.Equal(t, 1, calls)
}

func TestOHGOFetchIncidents_MidPaginationFailureReturnsPartial(t *testing.T) {
	// Подготовка: первая страница отвечает, вторая падает
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			fmt.Fprint(w, `{
				"totalResultCount": 4,
				"totalPageCount": 2,
				"results": [
					{"id": "100", "routeName": "I-70", "reportedTime": "2025-06-01T10:00:00Z"},
					{"id": "101", "routeName": "I-71", "reportedTime": "2025-06-01T09:00:00Z"}
				]
			}`)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	// Действие
	batch, err := newTestOHGOConnector(srv).FetchIncidents(context.Background())

	// Проверки: собранная часть возвращается вместе с ошибкой
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.Len(t, batch.Records, 2)
	assert.False(t, batch.Complete)
}

func TestOHGOFetchIncidents_ClearedRecordInactive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"totalResultCount": 1,
			"totalPageCount": 1,
			"results": [
				{"id": "100", "routeName": "I-70", "reportedTime": "2025-06-01T08:00:00Z", "clearedTime": "2025-06-01T09:00:00Z"}
			]
		}`)
	}))
	defer srv.Close()

	batch, err := newTestOHGOConnector(srv).FetchIncidents(context.Background())

	require.NoError(t, err)
	require.Len(t, batch.Records, 1)
	rec := batch.Records[0]
	assert.False(t, rec.IsActive)
	require.NotNil(t, rec.ClearedTime)
	assert.Equal(t, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), rec.ClearedTime.UTC())
}

func TestOHGOFetchRoads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/roads", r.URL.Path)
		require.Equal(t, "true", r.URL.Query().Get("page-all"))
		fmt.Fprint(w, `{
			"results": [
				{"id": "70", "name": "I-70", "direction": "EB", "beginMile": 0, "endMile": 142.5, "length": 142.5},
				{"name": "no id"}
			]
		}`)
	}))
	defer srv.Close()

	batch, err := newTestOHGOConnector(srv).FetchRoads(context.Background())

	require.NoError(t, err)
	assert.True(t, batch.Complete)
	require.Len(t, batch.Records, 1)
	assert.Equal(t, 1, batch.Skipped)
	assert.Equal(t, "70", batch.Records[0].RoadID)
	assert.Equal(t, "EAST", batch.Records[0].Direction)
	assert.True(t, batch.Records[0].IsActive)
}
