package connector

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxDirectionLen = 32

// namespaceIncident — пространство имён для детерминированных UUID,
// когда источник не дает стабильного идентификатора записи
var namespaceIncident = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// flexString принимает из JSON и строку, и число — фиды отдают
// идентификаторы в обоих видах
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

func (s flexString) String() string { return string(s) }

// derivedID строит детерминированный идентификатор из стабильных полей
// записи: одинаковый вход всегда дает одинаковый UUID
func derivedID(parts ...string) string {
	return uuid.NewSHA1(namespaceIncident, []byte(strings.Join(parts, "|"))).String()
}

// clip обрезает строку до maxlen символов (схема ограничивает колонки)
func clip(s string, maxlen int) string {
	if len(s) <= maxlen {
		return s
	}
	return s[:maxlen]
}

// parseTime разбирает временную метку источника в каноническое UTC-время.
// Пустая строка — валидное отсутствие (нулевое время); непустая, но
// неразбираемая строка — ошибка для вызывающей нормализации.
func parseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &NormalizationError{Field: "time", Reason: "unparseable timestamp: " + value}
}

// canonicalizeDirection приводит коды направлений источников к единому
// словарю. Неизвестные непустые коды отображаются в UNKNOWN, не в ошибку.
func canonicalizeDirection(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	switch s {
	case "n", "nb", "north", "northbound":
		return "NORTH"
	case "s", "sb", "south", "southbound":
		return "SOUTH"
	case "e", "eb", "east", "eastbound":
		return "EAST"
	case "w", "wb", "west", "westbound":
		return "WEST"
	}
	if strings.Contains(s, "both") || strings.Contains(s, "all") {
		return "BOTH"
	}
	return clip("UNKNOWN:"+strings.ToUpper(raw), maxDirectionLen)
}

// canonicalizeRouteClass выводит класс маршрута из его имени
func canonicalizeRouteClass(route string) string {
	route = strings.TrimSpace(route)
	switch {
	case route == "":
		return ""
	case strings.HasPrefix(route, "I-"):
		return "INTERSTATE"
	case strings.HasPrefix(route, "US-") || strings.HasPrefix(route, "US "):
		return "US"
	default:
		return "STATE"
	}
}

// canonicalizeClosureStatus сводит статусы перекрытия к словарю
// CLOSED/PARTIAL/RESTRICTED/OPEN; неизвестные коды -> UNKNOWN
func canonicalizeClosureStatus(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	switch {
	case strings.Contains(s, "closed"):
		return "CLOSED"
	case strings.Contains(s, "lane blocked"), strings.Contains(s, "shoulder blocked"), strings.Contains(s, "partial"):
		return "PARTIAL"
	case strings.Contains(s, "restricted"):
		return "RESTRICTED"
	case strings.Contains(s, "open"), strings.Contains(s, "cleared"):
		return "OPEN"
	}
	return "UNKNOWN"
}

// parseFloat разбирает число, возвращая 0 при неудаче (географические и
// милевые поля источников необязательны)
func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
