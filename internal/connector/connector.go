package connector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shenikar/traffic_incidents_system/internal/models"
	"github.com/sirupsen/logrus"
)

// Ошибки транспортного уровня фида. Отличаются от пер-записных ошибок
// нормализации: транспортная ошибка прерывает текущую страницу, ошибка
// нормализации — только пропускает запись.
var (
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrUpstreamRateLimited = errors.New("upstream rate limited")
	ErrUpstreamMalformed   = errors.New("upstream response malformed")
)

// NormalizationError описывает запись, которую не удалось привести к
// канонической форме. Политика — пропустить запись, не прерывая пакет.
type NormalizationError struct {
	SourceID string
	Field    string
	Reason   string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalization failed for %q: field %s: %s", e.SourceID, e.Field, e.Reason)
}

// Batch — результат одного полного цикла выборки инцидентов по источнику.
// Complete=false означает частичную выборку: сверка не должна выполнять
// вывод о закрытиях по такому пакету.
type Batch struct {
	Source   string
	Records  []*models.Incident
	Skipped  int
	Complete bool
}

// RoadBatch — то же для участков дорог
type RoadBatch struct {
	Source   string
	Records  []*models.Road
	Skipped  int
	Complete bool
}

// Connector определяет контракт клиента фида. Коннектор не пишет в
// хранилище — только сетевые вызовы и нормализация.
type Connector interface {
	Source() string
	FetchIncidents(ctx context.Context) (*Batch, error)
}

// RoadFetcher реализуется коннекторами, у которых источник отдаёт
// также справочник участков дорог
type RoadFetcher interface {
	FetchRoads(ctx context.Context) (*RoadBatch, error)
}

// httpFetcher - общий HTTP-транспорт коннекторов: ограниченные повторы
// с экспоненциальной задержкой, отдельная обработка троттлинга
type httpFetcher struct {
	client     *http.Client
	maxRetries int
	baseDelay  time.Duration
	logger     *logrus.Logger
}

// getJSON выполняет GET и декодирует JSON-ответ в out.
// 429 и 5xx повторяются до maxRetries; ошибка парсинга не повторяется.
func (f *httpFetcher) getJSON(ctx context.Context, rawURL string, query url.Values, headers map[string]string, out any) error {
	delay := f.baseDelay
	var lastErr error

	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if attempt > 0 {
			if !sleepWithContext(ctx, delay) {
				return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, ctx.Err())
			}
			delay *= 2
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
		}
		if len(query) > 0 {
			req.URL.RawQuery = query.Encode()
		}
		req.Header.Set("Accept", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := f.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
			f.logger.WithError(err).Warnf("Upstream request failed, retries left: %d", f.maxRetries-attempt)
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = fmt.Errorf("%w: status %d", ErrUpstreamRateLimited, resp.StatusCode)
			f.logger.Warnf("Upstream throttled request, backing off %v, retries left: %d", delay, f.maxRetries-attempt)
			continue
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
			f.logger.Warnf("Upstream returned status %d, retries left: %d", resp.StatusCode, f.maxRetries-attempt)
			continue
		case resp.StatusCode != http.StatusOK:
			return fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
		}

		if readErr != nil {
			lastErr = fmt.Errorf("%w: %v", ErrUpstreamUnavailable, readErr)
			continue
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("%w: %v", ErrUpstreamMalformed, err)
		}
		return nil
	}

	return lastErr
}

// sleepWithContext ждет d или отмены контекста; false при отмене
func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
