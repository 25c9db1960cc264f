// Package storage persists game sessions in an embedded badger database.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const keyPrefix = "game/"

var ErrNotFound = errors.New("snapshot not found")

// Snapshot is everything needed to rebuild a session: the compact record of
// the position the game started from, the moves played since, and the seats.
type Snapshot struct {
	ID        string    `json:"id"`
	Record    []byte    `json:"record"`
	Moves     []string  `json:"moves"`
	White     string    `json:"white"`
	Black     string    `json:"black"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store wraps BadgerDB for snapshot storage
type Store struct {
	db *badger.DB
}

// Open opens the database in dir. An empty dir keeps everything in memory.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Save(snap Snapshot) error {
	if snap.ID == "" {
		return errors.New("snapshot without id")
	}
	if snap.UpdatedAt.IsZero() {
		snap.UpdatedAt = time.Now()
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(snap.ID), data)
	})
}

func (s *Store) Load(id string) (Snapshot, error) {
	var snap Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})
	return snap, err
}

// List returns every stored snapshot, most recently updated first.
func (s *Store) List() ([]Snapshot, error) {
	var snaps []Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var snap Snapshot
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &snap)
			}); err != nil {
				return err
			}
			snaps = append(snaps, snap)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].UpdatedAt.After(snaps[j].UpdatedAt) })
	return snaps, nil
}

func (s *Store) Delete(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(id))
	})
}

func key(id string) []byte {
	return []byte(keyPrefix + id)
}
