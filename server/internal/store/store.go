package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/duckworthlewis/dlc/pkg/dls"
)

// ErrNotFound is returned for unknown or expired match IDs.
var ErrNotFound = errors.New("match not found")

// Entry is one match together with its bookkeeping.
type Entry struct {
	ID    string
	Team1 string
	Team2 string
	Match dls.Snapshot

	// Target is the last target computed for this match, if any.
	Target *dls.TargetResult
	// TargetErr says why no target could be computed after the last
	// stoppage. Empty when Target is set or no score is known.
	TargetErr string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store is a thread-safe in-memory match store keyed by ID. A background
// goroutine (Run) evicts entries not updated within the TTL.
type Store struct {
	mu   sync.RWMutex
	data map[string]*Entry
	seq  uint64
	ttl  time.Duration
	now  func() time.Time // injectable for deterministic tests
}

// New creates a Store with the given TTL.
func New(ttl time.Duration) *Store {
	return &Store{
		data: make(map[string]*Entry),
		ttl:  ttl,
		now:  time.Now,
	}
}

// TTL returns the configured idle lifetime of an entry.
func (s *Store) TTL() time.Duration { return s.ttl }

// Create stores m under a new ID and returns the entry.
func (s *Store) Create(team1, team2 string, m *dls.Match) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	now := s.now()
	e := &Entry{
		ID:        strconv.FormatUint(s.seq, 10),
		Team1:     team1,
		Team2:     team2,
		Match:     m.Snapshot(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.data[e.ID] = e
	return *e
}

// Get returns the live entry for id. Entries past their TTL that have not
// been evicted yet are reported as missing.
func (s *Store) Get(id string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.data[id]
	if !ok || !s.live(e, s.now()) {
		return Entry{}, false
	}
	return *e, true
}

// List returns all live entries ordered by creation.
func (s *Store) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.now()
	out := make([]Entry, 0, len(s.data))
	for _, e := range s.data {
		if s.live(e, now) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		a, _ := strconv.ParseUint(out[i].ID, 10, 64)
		b, _ := strconv.ParseUint(out[j].ID, 10, 64)
		return a < b
	})
	return out
}

// Update rebuilds the match for id, passes it to fn and, if fn succeeds,
// stores the resulting snapshot. fn may also edit the entry's Target and
// TargetErr. An
// error from fn leaves the entry untouched.
func (s *Store) Update(id string, fn func(m *dls.Match, e *Entry) error) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.data[id]
	if !ok || !s.live(cur, s.now()) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	m, err := dls.Restore(cur.Match)
	if err != nil {
		return Entry{}, fmt.Errorf("store: restore match %s: %w", id, err)
	}

	next := *cur
	if err := fn(m, &next); err != nil {
		return Entry{}, err
	}
	next.Match = m.Snapshot()
	next.UpdatedAt = s.now()
	s.data[id] = &next
	return next, nil
}

// Delete removes id and reports whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[id]
	delete(s.data, id)
	return ok
}

// Count returns the total number of entries held, including stale ones.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Evict removes entries whose UpdatedAt is older than now minus TTL and
// returns how many were removed. A zero TTL keeps everything.
func (s *Store) Evict(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, e := range s.data {
		if !s.live(e, now) {
			delete(s.data, id)
			removed++
		}
	}
	return removed
}

// Run evicts stale entries every half TTL (minimum one second) until ctx is
// cancelled.
func (s *Store) Run(ctx context.Context) {
	if s.ttl <= 0 {
		<-ctx.Done()
		return
	}
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.Evict(now); n > 0 {
				slog.Debug("store: evicted idle matches", "count", n)
			}
		}
	}
}

func (s *Store) live(e *Entry, now time.Time) bool {
	return s.ttl <= 0 || e.UpdatedAt.After(now.Add(-s.ttl))
}
