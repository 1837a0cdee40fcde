package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.etcd.io/bbolt"
)

// DBFileName is the database file created under the state directory
const DBFileName = "notifications.db"

// lockTimeout bounds the wait for another process's file lock. Locks are
// held for one operation only.
const lockTimeout = 5 * time.Second

// BoltStore is a Store backed by a bbolt database with one bucket per app
// id. The database is opened for each operation so several processes can
// share it.
type BoltStore struct {
	path    string
	timeout time.Duration

	mu     sync.Mutex
	closed bool
}

// OpenBolt creates the database in stateDir if needed and checks that it
// can be opened
func OpenBolt(stateDir string) (*BoltStore, error) {
	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}
	s := &BoltStore{path: filepath.Join(stateDir, DBFileName), timeout: lockTimeout}
	if err := s.update(func(*bbolt.Tx) error { return nil }); err != nil {
		return nil, fmt.Errorf("opening notification store %s: %w", s.path, err)
	}
	return s, nil
}

// Path returns the database file path
func (s *BoltStore) Path() string {
	return s.path
}

func (s *BoltStore) with(readOnly bool, fn func(*bbolt.DB) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	db, err := bbolt.Open(s.path, 0o600, &bbolt.Options{Timeout: s.timeout, ReadOnly: readOnly})
	if err != nil {
		return err
	}
	return errors.Join(fn(db), db.Close())
}

func (s *BoltStore) view(fn func(*bbolt.Tx) error) error {
	return s.with(true, func(db *bbolt.DB) error { return db.View(fn) })
}

func (s *BoltStore) update(fn func(*bbolt.Tx) error) error {
	return s.with(false, func(db *bbolt.DB) error { return db.Update(fn) })
}

// Put stores r, replacing any record with the same app id and tag
func (s *BoltStore) Put(r Record) error {
	value, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding record %s: %w", r.Tag, err)
	}
	if err := s.update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(r.AppID))
		if err != nil {
			return fmt.Errorf("could not create bucket: %w", err)
		}
		return b.Put([]byte(r.Tag), value)
	}); err != nil {
		return fmt.Errorf("could not store record %s: %w", r.Tag, err)
	}
	return nil
}

// Get returns the record for appID and tag
func (s *BoltStore) Get(appID, tag string) (Record, bool, error) {
	var (
		r     Record
		found bool
	)
	err := s.view(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(appID))
		if b == nil {
			return nil
		}
		v := b.Get([]byte(tag))
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &r)
	})
	if err != nil {
		return Record{}, false, fmt.Errorf("reading record %s: %w", tag, err)
	}
	return r, found, nil
}

// List returns every record for appID, oldest first
func (s *BoltStore) List(appID string) ([]Record, error) {
	var records []Record
	err := s.view(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(appID))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var r Record
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("decoding record %s: %w", k, err)
			}
			records = append(records, r)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("listing records for %s: %w", appID, err)
	}
	sortByCreation(records)
	return records, nil
}

// FindNative returns the record carrying nativeID from session
func (s *BoltStore) FindNative(session string, nativeID uint32) (Record, bool, error) {
	var (
		r     Record
		found bool
	)
	err := s.view(func(tx *bbolt.Tx) error {
		return tx.ForEach(func(_ []byte, b *bbolt.Bucket) error {
			if found {
				return nil
			}
			return b.ForEach(func(_, v []byte) error {
				var candidate Record
				if err := json.Unmarshal(v, &candidate); err != nil {
					return nil
				}
				if candidate.Session == session && candidate.NativeID == nativeID && !found {
					r, found = candidate, true
				}
				return nil
			})
		})
	})
	if err != nil {
		return Record{}, false, fmt.Errorf("finding native id %d: %w", nativeID, err)
	}
	return r, found, nil
}

// Delete removes one record. Missing records are not an error.
func (s *BoltStore) Delete(appID, tag string) error {
	return s.update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(appID))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(tag))
	})
}

// DeleteApp removes every record for appID
func (s *BoltStore) DeleteApp(appID string) error {
	return s.update(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(appID)) == nil {
			return nil
		}
		return tx.DeleteBucket([]byte(appID))
	})
}

// DeleteAll removes every record
func (s *BoltStore) DeleteAll() error {
	return s.update(func(tx *bbolt.Tx) error {
		var names [][]byte
		if err := tx.ForEach(func(name []byte, _ *bbolt.Bucket) error {
			names = append(names, append([]byte(nil), name...))
			return nil
		}); err != nil {
			return err
		}
		for _, name := range names {
			if err := tx.DeleteBucket(name); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close marks the store closed. The database itself is only open during
// an operation.
func (s *BoltStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func sortByCreation(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
}
