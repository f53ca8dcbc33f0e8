package server

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eliteGoblin/edutubed/internal/domain"
)

// sessionTTL is how long a session survives without the shim checking in.
const sessionTTL = 10 * time.Minute

// slot mirrors one rendered page position reported by the shim. It carries
// the classification markers between scans.
type slot struct {
	mu          sync.Mutex
	raw         domain.RawItem
	processedID string
	hidden      bool
}

func (s *slot) Raw() domain.RawItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.raw
}

func (s *slot) ProcessedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processedID
}

func (s *slot) Hidden() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hidden
}

func (s *slot) Mark(itemID string, hidden bool) {
	s.mu.Lock()
	s.processedID = itemID
	s.hidden = hidden
	s.mu.Unlock()
}

func (s *slot) ClearMarks() {
	s.mu.Lock()
	s.processedID = ""
	s.hidden = false
	s.mu.Unlock()
}

func (s *slot) setRaw(raw domain.RawItem) {
	s.mu.Lock()
	s.raw = raw
	s.mu.Unlock()
}

var _ domain.Slot = (*slot)(nil)

// Session is one connected shim instance (one browser tab).
type Session struct {
	ID       string
	mu       sync.Mutex
	slots    map[string]*slot
	order    []string
	lastSeen time.Time
}

// upsert replaces or creates the slot with the given shim-assigned id.
func (s *Session) upsert(slotID string, raw domain.RawItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.slots[slotID]; ok {
		existing.setRaw(raw)
		return
	}
	s.slots[slotID] = &slot{raw: raw}
	s.order = append(s.order, slotID)
}

// drop removes slots the shim no longer reports.
func (s *Session) drop(slotIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range slotIDs {
		delete(s.slots, id)
	}
	kept := s.order[:0]
	for _, id := range s.order {
		if _, ok := s.slots[id]; ok {
			kept = append(kept, id)
		}
	}
	s.order = kept
}

// decisionView is one slot's marker state as reported to the shim.
type decisionView struct {
	SlotID string `json:"slot_id"`
	ItemID string `json:"item_id"`
	Hidden bool   `json:"hidden"`
}

func (s *Session) decisions() []decisionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]decisionView, 0, len(s.order))
	for _, id := range s.order {
		sl := s.slots[id]
		out = append(out, decisionView{SlotID: id, ItemID: sl.ProcessedID(), Hidden: sl.Hidden()})
	}
	return out
}

// SessionManager tracks live sessions and exposes their slots as one Page
// for the scan loop.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      domain.Clock
}

// NewSessionManager creates an empty manager. A nil clock uses time.Now.
func NewSessionManager(clock domain.Clock) *SessionManager {
	if clock == nil {
		clock = time.Now
	}
	return &SessionManager{
		sessions: make(map[string]*Session),
		now:      clock,
	}
}

// Create registers a new session and returns it.
func (m *SessionManager) Create() *Session {
	s := &Session{
		ID:       uuid.NewString(),
		slots:    make(map[string]*slot),
		lastSeen: m.now(),
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get returns a session by id, refreshing its liveness. Expired sessions are
// pruned on every access.
func (m *SessionManager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for sid, s := range m.sessions {
		if now.Sub(s.lastSeen) > sessionTTL {
			delete(m.sessions, sid)
		}
	}
	s, ok := m.sessions[id]
	if ok {
		s.lastSeen = now
	}
	return s, ok
}

// Remove deletes a session.
func (m *SessionManager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Slots enumerates every live session's slots in a stable order.
func (m *SessionManager) Slots() []domain.Slot {
	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	sessions := make([]*Session, 0, len(ids))
	for _, id := range ids {
		sessions = append(sessions, m.sessions[id])
	}
	m.mu.Unlock()

	var out []domain.Slot
	for _, s := range sessions {
		s.mu.Lock()
		for _, slotID := range s.order {
			out = append(out, s.slots[slotID])
		}
		s.mu.Unlock()
	}
	return out
}

var _ domain.Page = (*SessionManager)(nil)
