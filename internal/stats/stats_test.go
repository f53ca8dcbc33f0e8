package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/eliteGoblin/edutubed/internal/domain"
	"github.com/eliteGoblin/edutubed/internal/infra"
)

func TestAggregator_Counters(t *testing.T) {
	a := New(nil, zap.NewNop())

	a.RecordDecision(domain.Decision{Hidden: true, Layer: domain.LayerListBlacklist})
	a.RecordDecision(domain.Decision{Hidden: false, Layer: domain.LayerKeywordStrong})
	a.RecordDecision(domain.Decision{Hidden: false, Layer: domain.LayerKeywordStrong})
	a.RecordBatch(8, 2)

	snap := a.Snapshot()
	assert.Equal(t, uint64(8), snap.Shown)
	assert.Equal(t, uint64(2), snap.Hidden)
	assert.Equal(t, uint64(1), snap.Sessions)
	assert.Equal(t, uint64(1), snap.Layers[domain.LayerListBlacklist])
	assert.Equal(t, uint64(2), snap.Layers[domain.LayerKeywordStrong])
}

func TestAggregator_SnapshotIsCopy(t *testing.T) {
	a := New(nil, zap.NewNop())
	a.RecordDecision(domain.Decision{Layer: domain.LayerCategory})

	snap := a.Snapshot()
	snap.Layers[domain.LayerCategory] = 99

	assert.Equal(t, uint64(1), a.Snapshot().Layers[domain.LayerCategory])
}

func TestAggregator_PersistAndReload(t *testing.T) {
	settings := infra.NewMemoryStore()

	a := New(settings, zap.NewNop())
	a.RecordDecision(domain.Decision{Layer: domain.LayerSensitivityFallback})
	a.RecordBatch(5, 3)

	reloaded := New(settings, zap.NewNop())
	snap := reloaded.Snapshot()
	assert.Equal(t, uint64(5), snap.Shown)
	assert.Equal(t, uint64(3), snap.Hidden)
	assert.Equal(t, uint64(1), snap.Layers[domain.LayerSensitivityFallback])
}

func TestAggregator_Reset(t *testing.T) {
	settings := infra.NewMemoryStore()
	a := New(settings, zap.NewNop())
	a.RecordBatch(5, 3)

	a.Reset()
	snap := a.Snapshot()
	assert.Zero(t, snap.Shown)
	assert.Zero(t, snap.Hidden)
	assert.Zero(t, snap.Sessions)
	assert.Empty(t, snap.Layers)

	// Reset state persists too.
	reloaded := New(settings, zap.NewNop())
	assert.Zero(t, reloaded.Snapshot().Shown)
}
