package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eliteGoblin/edutubed/internal/domain"
	"github.com/eliteGoblin/edutubed/internal/engine"
	"github.com/eliteGoblin/edutubed/internal/infra"
	"github.com/eliteGoblin/edutubed/internal/lexicon"
	"github.com/eliteGoblin/edutubed/internal/liststore"
	"github.com/eliteGoblin/edutubed/internal/oracle"
	"github.com/eliteGoblin/edutubed/internal/score"
	"github.com/eliteGoblin/edutubed/internal/stats"
)

type fixture struct {
	dispatcher *Dispatcher
	engine     *engine.Engine
	lists      *liststore.Store
	stats      *stats.Aggregator
	toggles    []bool
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()
	store := infra.NewMemoryStore()
	lex := lexicon.Default()
	lists := liststore.New(store, logger)
	agg := stats.New(store, logger)
	eng := engine.New(lex, lists, score.New(lex), nil, agg, store, logger)

	f := &fixture{engine: eng, lists: lists, stats: agg}
	f.dispatcher = NewDispatcher(eng, lists, agg, nil, logger, func(on bool) {
		f.toggles = append(f.toggles, on)
	})
	return f
}

func TestDecode(t *testing.T) {
	m, err := Decode([]byte(`{"type":"set_sensitivity","sensitivity":70}`))
	require.NoError(t, err)
	assert.Equal(t, MsgSetSensitivity, m.Type)
	assert.Equal(t, 70, m.Sensitivity)
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode([]byte(`{not json`))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"sensitivity":70}`))
	assert.Error(t, err, "missing type must be rejected")
}

func TestHandle_Toggle(t *testing.T) {
	f := newFixture(t)

	ack := f.dispatcher.Handle(Message{Type: MsgToggle, Enabled: true})
	assert.True(t, ack.OK)
	assert.True(t, f.engine.Enabled())
	assert.Equal(t, []bool{true}, f.toggles)

	f.dispatcher.Handle(Message{Type: MsgToggle, Enabled: false})
	assert.False(t, f.engine.Enabled())
	assert.Equal(t, []bool{true, false}, f.toggles)
}

func TestHandle_SetSensitivity(t *testing.T) {
	f := newFixture(t)

	ack := f.dispatcher.Handle(Message{Type: MsgSetSensitivity, Sensitivity: 80})
	assert.True(t, ack.OK)
	assert.Equal(t, 80, f.engine.Config().Sensitivity)

	ack = f.dispatcher.Handle(Message{Type: MsgSetSensitivity, Sensitivity: 150})
	assert.False(t, ack.OK)
	assert.NotEmpty(t, ack.Error)
	assert.Equal(t, 80, f.engine.Config().Sensitivity)
}

func TestHandle_ListEntries(t *testing.T) {
	f := newFixture(t)

	ack := f.dispatcher.Handle(Message{
		Type: MsgAddListEntry, List: domain.Blacklist, Kind: domain.KindChannel, ID: "UCx",
	})
	assert.True(t, ack.OK)
	assert.True(t, f.lists.ContainsChannel(domain.Blacklist, "UCx"))

	ack = f.dispatcher.Handle(Message{
		Type: MsgRemoveList, List: domain.Blacklist, Kind: domain.KindChannel, ID: "UCx",
	})
	assert.True(t, ack.OK)
	assert.False(t, f.lists.ContainsChannel(domain.Blacklist, "UCx"))

	ack = f.dispatcher.Handle(Message{Type: MsgAddListEntry, List: domain.Whitelist})
	assert.False(t, ack.OK, "missing id must be rejected")
}

func TestHandle_Keywords(t *testing.T) {
	f := newFixture(t)

	ack := f.dispatcher.Handle(Message{Type: MsgAddKeyword, List: domain.Blacklist, Phrase: "prank"})
	assert.True(t, ack.OK)
	_, _, ok := f.lists.MatchKeyword("prank video")
	assert.True(t, ok)

	ack = f.dispatcher.Handle(Message{Type: MsgRemoveKeyword, List: domain.Blacklist, Phrase: "prank"})
	assert.True(t, ack.OK)
	_, _, ok = f.lists.MatchKeyword("prank video")
	assert.False(t, ok)
}

func TestHandle_StatsQueries(t *testing.T) {
	f := newFixture(t)
	f.stats.RecordBatch(4, 2)

	ack := f.dispatcher.Handle(Message{Type: MsgQueryStats})
	require.True(t, ack.OK)
	require.NotNil(t, ack.Stats)
	assert.Equal(t, uint64(4), ack.Stats.Shown)

	ack = f.dispatcher.Handle(Message{Type: MsgResetStats})
	assert.True(t, ack.OK)
	assert.Zero(t, f.stats.Snapshot().Shown)
}

func TestHandle_QuotaWithoutOracle(t *testing.T) {
	f := newFixture(t)
	ack := f.dispatcher.Handle(Message{Type: MsgQueryQuota})
	assert.False(t, ack.OK)
	assert.NotEmpty(t, ack.Error)
}

type fixedQuota struct{ info oracle.QuotaInfo }

func (q fixedQuota) Quota() oracle.QuotaInfo { return q.info }

func TestHandle_QuotaQuery(t *testing.T) {
	f := newFixture(t)
	f.dispatcher.quota = fixedQuota{info: oracle.QuotaInfo{Limit: 10000, Used: 30, Remaining: 9970}}

	ack := f.dispatcher.Handle(Message{Type: MsgQueryQuota})
	require.True(t, ack.OK)
	require.NotNil(t, ack.Quota)
	assert.Equal(t, 9970, ack.Quota.Remaining)
}

func TestHandle_UnknownTypeIsUnhandledAck(t *testing.T) {
	f := newFixture(t)
	ack := f.dispatcher.Handle(Message{Type: "future_feature"})
	assert.False(t, ack.OK)
	assert.Contains(t, ack.Error, "unhandled")
}
