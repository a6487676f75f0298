package repository

import (
	"testing"
	"time"

	"github.com/shenikar/traffic_incidents_system/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvanceCursor_EmptyPageKeepsCursor(t *testing.T) {
	// Пустая страница не двигает курсор: пропусков в фиде быть не может
	assert.Equal(t, int64(17), advanceCursor(17, nil))
	assert.Equal(t, int64(17), advanceCursor(17, []*models.Incident{}))
}

func TestAdvanceCursor_MovesToLastVersion(t *testing.T) {
	page := []*models.Incident{
		{UUID: "ohgo:1", Version: 18},
		{UUID: "ohgo:2", Version: 19},
		{UUID: "drivetexas:1", Version: 23},
	}

	assert.Equal(t, int64(23), advanceCursor(17, page))
}

func TestBuildSearchConditions_EmptyFilter(t *testing.T) {
	// Подготовка
	filter := &models.SearchFilter{Fields: map[string][]string{}}

	// Действие
	where, args, err := buildSearchConditions(filter)

	// Проверки: без условий WHERE не добавляется вовсе
	require.NoError(t, err)
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestBuildSearchConditions_FieldFiltersAreSortedAndNumbered(t *testing.T) {
	// Подготовка: порядок ключей в map недетерминирован, SQL - нет
	filter := &models.SearchFilter{
		Fields: map[string][]string{
			"state":  {"OH", "TX"},
			"county": {"Franklin"},
		},
	}

	// Действие
	where, args, err := buildSearchConditions(filter)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, " WHERE county = ANY($1) AND state = ANY($2)", where)
	require.Len(t, args, 2)
	assert.Equal(t, []string{"Franklin"}, args[0])
	assert.Equal(t, []string{"OH", "TX"}, args[1])
}

func TestBuildSearchConditions_UnknownFieldRejected(t *testing.T) {
	// Подготовка
	filter := &models.SearchFilter{
		Fields: map[string][]string{"color": {"red"}},
	}

	// Действие
	_, _, err := buildSearchConditions(filter)

	// Проверки: произвольные колонки в SQL не попадают
	require.Error(t, err)
	assert.Contains(t, err.Error(), "color")
}

func TestBuildSearchConditions_ScalarBounds(t *testing.T) {
	// Подготовка
	minScore, maxScore := 2, 4
	updatedSince := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	reportedSince := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	filter := &models.SearchFilter{
		Fields:           map[string][]string{},
		SeverityScoreMin: &minScore,
		SeverityScoreMax: &maxScore,
		UpdatedSince:     &updatedSince,
		ReportedSince:    &reportedSince,
		ActiveOnly:       true,
	}

	// Действие
	where, args, err := buildSearchConditions(filter)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, " WHERE severity_score >= $1 AND severity_score <= $2 AND updated_time >= $3 AND reported_time >= $4 AND is_active", where)
	require.Len(t, args, 4)
	assert.Equal(t, 2, args[0])
	assert.Equal(t, 4, args[1])
	assert.Equal(t, updatedSince, args[2])
	assert.Equal(t, reportedSince, args[3])
}

func TestBuildSearchConditions_FieldsAndScalarsCombined(t *testing.T) {
	// Подготовка: номера плейсхолдеров продолжаются после полевых фильтров
	minScore := 3
	filter := &models.SearchFilter{
		Fields:           map[string][]string{"route_class": {"INTERSTATE"}},
		SeverityScoreMin: &minScore,
		ActiveOnly:       true,
	}

	// Действие
	where, args, err := buildSearchConditions(filter)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, " WHERE route_class = ANY($1) AND severity_score >= $2 AND is_active", where)
	require.Len(t, args, 2)
}
