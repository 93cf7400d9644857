package cache

import (
	"container/list"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/okian/hacksphere/internal/domain/types"
)

const (
	defaultMaxEvents = 1024
	defaultTTL       = 5 * time.Minute
)

type board struct {
	entries  []types.Entry
	storedAt time.Time
}

type slot struct {
	eventID string
	version uint64
	boards  map[int]board
}

// Memory is an in-process Cache bounded by event count.
type Memory struct {
	mu        sync.Mutex
	slots     map[string]*list.Element
	lru       *list.List
	maxEvents int
	ttl       time.Duration
	now       func() time.Time

	// versions are drawn from one counter so an evicted and recreated
	// event never reuses a version.
	clock uint64
}

var _ Cache = (*Memory)(nil)

// NewMemory creates an empty in-memory cache.
func NewMemory(opts ...Option) *Memory {
	m := &Memory{
		slots:     make(map[string]*list.Element),
		lru:       list.New(),
		maxEvents: defaultMaxEvents,
		ttl:       defaultTTL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// slotFor returns the event's slot, creating it and evicting the least
// recently used one when needed. Callers hold mu.
func (m *Memory) slotFor(eventID string) *slot {
	if el, ok := m.slots[eventID]; ok {
		m.lru.MoveToFront(el)
		return el.Value.(*slot)
	}
	if m.lru.Len() >= m.maxEvents {
		oldest := m.lru.Back()
		m.lru.Remove(oldest)
		delete(m.slots, oldest.Value.(*slot).eventID)
	}
	m.clock++
	s := &slot{eventID: eventID, version: m.clock, boards: make(map[int]board)}
	m.slots[eventID] = m.lru.PushFront(s)
	return s
}

func (m *Memory) Version(_ context.Context, eventID string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slotFor(eventID).version, nil
}

func (m *Memory) Get(_ context.Context, eventID string, version uint64, round int) ([]types.Entry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	el, ok := m.slots[eventID]
	if !ok {
		return nil, false, nil
	}
	s := el.Value.(*slot)
	if s.version != version {
		return nil, false, nil
	}
	b, ok := s.boards[round]
	if !ok {
		return nil, false, nil
	}
	if m.now().Sub(b.storedAt) > m.ttl {
		delete(s.boards, round)
		return nil, false, nil
	}
	m.lru.MoveToFront(el)
	return slices.Clone(b.entries), true, nil
}

func (m *Memory) Put(_ context.Context, eventID string, version uint64, round int, entries []types.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	el, ok := m.slots[eventID]
	if !ok {
		return nil
	}
	s := el.Value.(*slot)
	if s.version != version {
		return nil
	}
	s.boards[round] = board{entries: slices.Clone(entries), storedAt: m.now()}
	m.lru.MoveToFront(el)
	return nil
}

func (m *Memory) Invalidate(_ context.Context, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.slotFor(eventID)
	m.clock++
	s.version = m.clock
	clear(s.boards)
	return nil
}

// Len is the number of events tracked.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lru.Len()
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.slots)
	m.lru.Init()
	return nil
}
