package facets

import (
	"sync"
	"testing"

	"github.com/shenikar/traffic_incidents_system/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestIndex_ObserveAccumulatesValues(t *testing.T) {
	// Подготовка
	idx := New()
	idx.Observe(&models.Incident{State: "OH", County: "Franklin", Route: "I-70", SeverityFlag: "high"})
	idx.Observe(&models.Incident{State: "TX", County: "Travis", Route: "I-35", SeverityFlag: "medium"})

	// Действие
	snapshot := idx.Snapshot()

	// Проверки: значения отсортированы, пустые поля не попадают
	assert.Equal(t, []string{"OH", "TX"}, snapshot["state"])
	assert.Equal(t, []string{"Franklin", "Travis"}, snapshot["county"])
	assert.Equal(t, []string{"I-35", "I-70"}, snapshot["route"])
	assert.Empty(t, snapshot["direction"])
}

func TestIndex_ObserveIsIdempotent(t *testing.T) {
	idx := New()
	inc := &models.Incident{State: "OH"}
	idx.Observe(inc)
	idx.Observe(inc)

	assert.Equal(t, []string{"OH"}, idx.Snapshot()["state"])
}

func TestIndex_ValuesOnlyLeaveOnLoad(t *testing.T) {
	// Наблюдение только накапливает; устаревшие значения вычищает
	// полная перезагрузка снимка
	idx := New()
	idx.Observe(&models.Incident{State: "OH"})
	idx.Observe(&models.Incident{State: "TX"})

	idx.Load(map[string][]string{"state": {"OH"}})

	assert.Equal(t, []string{"OH"}, idx.Snapshot()["state"])
}

func TestIndex_SnapshotIsACopy(t *testing.T) {
	idx := New()
	idx.Observe(&models.Incident{State: "OH"})

	snapshot := idx.Snapshot()
	snapshot["state"][0] = "mutated"

	assert.Equal(t, []string{"OH"}, idx.Snapshot()["state"])
}

func TestIndex_ConcurrentObserve(t *testing.T) {
	// Индекс делят горутины циклов инжеста и HTTP-хэндлеры
	idx := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				idx.Observe(&models.Incident{State: "OH", County: "Franklin"})
				idx.Snapshot()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, []string{"OH"}, idx.Snapshot()["state"])
}
