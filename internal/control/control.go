// Package control decodes and dispatches the typed control messages the
// settings surface sends: toggles, list edits, and stat/quota queries.
package control

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/eliteGoblin/edutubed/internal/domain"
	"github.com/eliteGoblin/edutubed/internal/engine"
	"github.com/eliteGoblin/edutubed/internal/liststore"
	"github.com/eliteGoblin/edutubed/internal/oracle"
	"github.com/eliteGoblin/edutubed/internal/stats"
)

// MsgType discriminates the control message union.
type MsgType string

const (
	MsgToggle         MsgType = "toggle"
	MsgSetSensitivity MsgType = "set_sensitivity"
	MsgAddListEntry   MsgType = "add_list_entry"
	MsgRemoveList     MsgType = "remove_list_entry"
	MsgAddKeyword     MsgType = "add_keyword"
	MsgRemoveKeyword  MsgType = "remove_keyword"
	MsgQueryStats     MsgType = "query_stats"
	MsgResetStats     MsgType = "reset_stats"
	MsgQueryQuota     MsgType = "query_quota"
)

// Message is the flat control envelope. Fields beyond Type are read only by
// the message types that use them.
type Message struct {
	Type        MsgType         `json:"type"`
	Enabled     bool            `json:"enabled,omitempty"`
	Sensitivity int             `json:"sensitivity,omitempty"`
	List        domain.ListName `json:"list,omitempty"`
	Kind        domain.IDKind   `json:"kind,omitempty"`
	ID          string          `json:"id,omitempty"`
	Phrase      string          `json:"phrase,omitempty"`
}

// Ack is the reply to every control message. Unknown message types are
// acknowledged as unhandled rather than erroring, so mixed-version settings
// surfaces degrade gracefully.
type Ack struct {
	OK    bool              `json:"ok"`
	Error string            `json:"error,omitempty"`
	Stats *stats.Snapshot   `json:"stats,omitempty"`
	Quota *oracle.QuotaInfo `json:"quota,omitempty"`
}

// Decode parses one control message from JSON.
func Decode(raw []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(raw, &m); err != nil {
		return Message{}, fmt.Errorf("decode control message: %w", err)
	}
	if m.Type == "" {
		return Message{}, fmt.Errorf("control message missing type")
	}
	return m, nil
}

// QuotaReporter exposes daily quota usage. Nil when no oracle is configured.
type QuotaReporter interface {
	Quota() oracle.QuotaInfo
}

// Dispatcher routes control messages to the engine, lists, and aggregators.
type Dispatcher struct {
	engine *engine.Engine
	lists  *liststore.Store
	stats  *stats.Aggregator
	quota  QuotaReporter
	logger *zap.Logger

	// onToggle is called after the enabled flag flips, with the new state.
	onToggle func(enabled bool)
}

// NewDispatcher wires a dispatcher. onToggle may be nil.
func NewDispatcher(eng *engine.Engine, lists *liststore.Store, agg *stats.Aggregator, quota QuotaReporter, logger *zap.Logger, onToggle func(bool)) *Dispatcher {
	return &Dispatcher{
		engine:   eng,
		lists:    lists,
		stats:    agg,
		quota:    quota,
		logger:   logger,
		onToggle: onToggle,
	}
}

// Handle executes one control message and returns its ack.
func (d *Dispatcher) Handle(m Message) Ack {
	switch m.Type {
	case MsgToggle:
		d.engine.SetEnabled(m.Enabled)
		if d.onToggle != nil {
			d.onToggle(m.Enabled)
		}
		return Ack{OK: true}

	case MsgSetSensitivity:
		if err := d.engine.SetSensitivity(m.Sensitivity); err != nil {
			return Ack{Error: err.Error()}
		}
		return Ack{OK: true}

	case MsgAddListEntry:
		if m.ID == "" {
			return Ack{Error: "missing id"}
		}
		if m.Kind == domain.KindChannel {
			d.lists.AddChannel(m.List, m.ID)
		} else {
			d.lists.AddItem(m.List, m.ID)
		}
		return Ack{OK: true}

	case MsgRemoveList:
		if m.ID == "" {
			return Ack{Error: "missing id"}
		}
		if m.Kind == domain.KindChannel {
			d.lists.RemoveChannel(m.List, m.ID)
		} else {
			d.lists.RemoveItem(m.List, m.ID)
		}
		return Ack{OK: true}

	case MsgAddKeyword:
		if m.Phrase == "" {
			return Ack{Error: "missing phrase"}
		}
		d.lists.AddKeyword(m.List, m.Phrase)
		return Ack{OK: true}

	case MsgRemoveKeyword:
		if m.Phrase == "" {
			return Ack{Error: "missing phrase"}
		}
		d.lists.RemoveKeyword(m.List, m.Phrase)
		return Ack{OK: true}

	case MsgQueryStats:
		snap := d.stats.Snapshot()
		return Ack{OK: true, Stats: &snap}

	case MsgResetStats:
		d.stats.Reset()
		return Ack{OK: true}

	case MsgQueryQuota:
		if d.quota == nil {
			return Ack{Error: "category lookup not configured"}
		}
		info := d.quota.Quota()
		return Ack{OK: true, Quota: &info}

	default:
		d.logger.Warn("unhandled control message", zap.String("type", string(m.Type)))
		return Ack{Error: fmt.Sprintf("unhandled message type %q", m.Type)}
	}
}
