package store

import (
	"maps"
	"sync"
)

// MemoryStore is an in-process Store
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]map[string]Record
	closed  bool
}

// NewMemory returns an empty in-memory store
func NewMemory() *MemoryStore {
	return &MemoryStore{records: make(map[string]map[string]Record)}
}

// Put stores r
func (s *MemoryStore) Put(r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	app, ok := s.records[r.AppID]
	if !ok {
		app = make(map[string]Record)
		s.records[r.AppID] = app
	}
	r.Data = maps.Clone(r.Data)
	app[r.Tag] = r
	return nil
}

// Get returns the record for appID and tag
func (s *MemoryStore) Get(appID, tag string) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Record{}, false, ErrClosed
	}
	r, ok := s.records[appID][tag]
	return r, ok, nil
}

// List returns every record for appID, oldest first
func (s *MemoryStore) List(appID string) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	records := make([]Record, 0, len(s.records[appID]))
	for _, r := range s.records[appID] {
		records = append(records, r)
	}
	sortByCreation(records)
	return records, nil
}

// FindNative returns the record carrying nativeID from session
func (s *MemoryStore) FindNative(session string, nativeID uint32) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Record{}, false, ErrClosed
	}
	for _, app := range s.records {
		for _, r := range app {
			if r.Session == session && r.NativeID == nativeID {
				return r, true, nil
			}
		}
	}
	return Record{}, false, nil
}

// Delete removes one record
func (s *MemoryStore) Delete(appID, tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	delete(s.records[appID], tag)
	return nil
}

// DeleteApp removes every record for appID
func (s *MemoryStore) DeleteApp(appID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	delete(s.records, appID)
	return nil
}

// DeleteAll removes every record
func (s *MemoryStore) DeleteAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.records = make(map[string]map[string]Record)
	return nil
}

// Close marks the store closed
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
