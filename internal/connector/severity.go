package connector

import (
	"strings"

	"github.com/shenikar/traffic_incidents_system/internal/models"
)

// Таблицы вывода severity_score, когда источник не отдает числовой балл.
// Значения взяты из эксплуатационной практики фидов DOT: полное перекрытие
// и ДТП весят 3, ограничения движения и дорожные работы 2, прочее 1.
var severityTextScore = map[string]int{
	"severe":   3,
	"major":    3,
	"high":     3,
	"critical": 4,
	"moderate": 2,
	"medium":   2,
	"minor":    1,
	"low":      1,
}

var statusScore = map[string]int{
	"closed":     3,
	"restricted": 2,
	"incident":   2,
	"delay":      2,
	"active":     2,
	"open":       1,
	"cleared":    1,
	"completed":  1,
	"ended":      1,
}

var categoryScore = map[string]int{
	"crash":               3,
	"accident":            3,
	"work zone":           2,
	"construction":        2,
	"hazard":              2,
	"maintenance":         1,
	"repairs/maintenance": 1,
	"disabled vehicle":    1,
}

// deriveSeverityScore вычисляет балл: приоритет у явного балла источника,
// затем текстовая метка, статус перекрытия, категория события. Полное
// перекрытие межштатной трассы повышает балл до критического. Функция
// тотальна: всякий вход дает ровно один балл (0 = неизвестно).
func deriveSeverityScore(sourceScore int, severityText, closureStatus, category, routeClass string) int {
	score := sourceScore
	if score <= 0 {
		score = severityTextScore[strings.ToLower(strings.TrimSpace(severityText))]
	}
	if score <= 0 {
		score = statusScore[strings.ToLower(strings.TrimSpace(closureStatus))]
	}
	if score <= 0 {
		c := strings.ToLower(strings.TrimSpace(category))
		for key, v := range categoryScore {
			if strings.Contains(c, key) {
				if v > score {
					score = v
				}
			}
		}
	}
	if score == 3 && canonicalizeClosureStatus(closureStatus) == "CLOSED" && routeClass == "INTERSTATE" {
		score = 4
	}
	return score
}

// applySeverity проставляет балл и производную метку на записи
func applySeverity(inc *models.Incident, sourceScore int, severityText string) {
	inc.SeverityScore = deriveSeverityScore(sourceScore, severityText, inc.ClosureStatus, inc.EventType, inc.RouteClass)
	inc.SeverityFlag = models.SeverityFlagForScore(inc.SeverityScore)
}

// deriveIsActive восстанавливает флаг активности, когда источник его не
// отдает: явный флаг > наличие времени закрытия > терминальный статус
func deriveIsActive(explicit *bool, hasCleared bool, status string) bool {
	if explicit != nil {
		return *explicit
	}
	if hasCleared {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "cleared", "completed", "ended":
		return false
	}
	return true
}
