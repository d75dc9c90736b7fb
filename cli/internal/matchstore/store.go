package matchstore

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/duckworthlewis/dlc/pkg/dls"
)

// ErrNotFound is returned when no match has the requested ID, or the store
// is empty and the latest match was requested.
var ErrNotFound = errors.New("match not found")

// Record is one stored match.
type Record struct {
	ID      int          `json:"match_id"`
	Created time.Time    `json:"created"`
	Team1   string       `json:"team_1"`
	Team2   string       `json:"team_2"`
	Match   dls.Snapshot `json:"match"`
}

// Load rebuilds the match held in r.
func (r *Record) Load() (*dls.Match, error) {
	m, err := dls.Restore(r.Match)
	if err != nil {
		return nil, fmt.Errorf("match %d: %w", r.ID, err)
	}
	return m, nil
}

// Store is the in-memory view of a store file. Changes reach disk on Save.
// A Store is used by one command invocation and is not safe for concurrent
// use.
type Store struct {
	path    string
	records map[int]*Record
	now     func() time.Time
}

// Open reads the store at path. A missing file yields an empty store.
func Open(path string) (*Store, error) {
	s := &Store{path: path, records: make(map[int]*Record), now: time.Now}
	if err := readJSON(path, &s.records); err != nil {
		return nil, fmt.Errorf("matchstore: read %q: %w", path, err)
	}
	if s.records == nil {
		s.records = make(map[int]*Record)
	}
	return s, nil
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string { return s.path }

// Create stores m under the next free ID and returns its record.
func (s *Store) Create(team1, team2 string, m *dls.Match) *Record {
	id := 1
	for existing := range s.records {
		if existing >= id {
			id = existing + 1
		}
	}
	r := &Record{
		ID:      id,
		Created: s.now().UTC(),
		Team1:   team1,
		Team2:   team2,
		Match:   m.Snapshot(),
	}
	s.records[id] = r
	return r
}

// Get returns the record for id, or the latest match when id is 0.
func (s *Store) Get(id int) (*Record, error) {
	if id == 0 {
		return s.latest()
	}
	r, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return r, nil
}

// latest returns the match with the highest ID.
func (s *Store) latest() (*Record, error) {
	var newest *Record
	for _, r := range s.records {
		if newest == nil || r.ID > newest.ID {
			newest = r
		}
	}
	if newest == nil {
		return nil, fmt.Errorf("%w: the store is empty, create one with `dlc new`", ErrNotFound)
	}
	return newest, nil
}

// Update replaces the snapshot held for r with the current state of m.
func (s *Store) Update(r *Record, m *dls.Match) {
	r.Match = m.Snapshot()
	s.records[r.ID] = r
}

// Delete removes the given IDs and returns those that existed.
func (s *Store) Delete(ids ...int) []int {
	var removed []int
	for _, id := range ids {
		if _, ok := s.records[id]; ok {
			delete(s.records, id)
			removed = append(removed, id)
		}
	}
	return removed
}

// List returns all records ordered by ID.
func (s *Store) List() []*Record {
	out := make([]*Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Save writes the store back to its file.
func (s *Store) Save() error {
	if err := writeJSON(s.path, s.records, 0o600); err != nil {
		return fmt.Errorf("matchstore: write %q: %w", s.path, err)
	}
	return nil
}
