package facets

import (
	"sort"
	"sync"

	"github.com/shenikar/traffic_incidents_system/internal/models"
)

// Index хранит множества различных значений фильтруемых полей по всем
// записям (активным и неактивным). Обновляется инкрементально при записях;
// устаревшее значение исчезает только при полном пересчете — неактивная
// запись продолжает удерживать свои значения в фасетах.
type Index struct {
	mu     sync.RWMutex
	values map[string]map[string]struct{}
}

func New() *Index {
	return &Index{values: emptySets()}
}

func emptySets() map[string]map[string]struct{} {
	sets := make(map[string]map[string]struct{}, len(models.FacetFields))
	for _, f := range models.FacetFields {
		sets[f] = make(map[string]struct{})
	}
	return sets
}

// Load замещает содержимое индекса снимком (инициализация при старте
// или полный пересчет)
func (i *Index) Load(snapshot map[string][]string) {
	sets := emptySets()
	for field, vals := range snapshot {
		set, ok := sets[field]
		if !ok {
			continue
		}
		for _, v := range vals {
			if v != "" {
				set[v] = struct{}{}
			}
		}
	}

	i.mu.Lock()
	i.values = sets
	i.mu.Unlock()
}

// Observe добавляет значения записи в индекс. Вызывается на каждой
// вставке и обновлении; закрытия не трогают индекс.
func (i *Index) Observe(inc *models.Incident) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.add("state", inc.State)
	i.add("county", inc.County)
	i.add("route", inc.Route)
	i.add("route_class", inc.RouteClass)
	i.add("direction", inc.Direction)
	i.add("event_type", inc.EventType)
	i.add("closure_status", inc.ClosureStatus)
	i.add("severity_flag", inc.SeverityFlag)
}

// ObserveBatch добавляет значения всех записей пакета
func (i *Index) ObserveBatch(incidents []*models.Incident) {
	for _, inc := range incidents {
		i.Observe(inc)
	}
}

func (i *Index) add(field, value string) {
	if value == "" {
		return
	}
	i.values[field][value] = struct{}{}
}

// Snapshot возвращает отсортированную копию множеств значений
func (i *Index) Snapshot() map[string][]string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	out := make(map[string][]string, len(i.values))
	for field, set := range i.values {
		vals := make([]string, 0, len(set))
		for v := range set {
			vals = append(vals, v)
		}
		sort.Strings(vals)
		out[field] = vals
	}
	return out
}
