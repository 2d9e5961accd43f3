// path: internal/store/store.go

// Package store persists game snapshots in BadgerDB so sessions survive a
// restart. Values are the JSON snapshot; the moved flag of every piece rides
// along exactly, since losing it corrupts castling and pawn double-step
// legality on reload.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/Shibainu432/3D-Chesss/internal/engine"
)

// ErrNotFound reports a game id with no stored snapshot.
var ErrNotFound = errors.New("store: game not found")

const keyPrefix = "game:"

// Store is a Badger-backed snapshot store. Safe for concurrent use.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the database directory.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

func gameKey(id string) []byte { return []byte(keyPrefix + id) }

// SaveGame upserts the snapshot under its game id.
func (s *Store) SaveGame(snap engine.GameSnapshot) error {
	if snap.ID == "" {
		return fmt.Errorf("store: snapshot missing game id")
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", snap.ID, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(gameKey(snap.ID), data)
	})
	if err != nil {
		return fmt.Errorf("store: save %s: %w", snap.ID, err)
	}
	return nil
}

// LoadGame fetches one snapshot.
func (s *Store) LoadGame(id string) (engine.GameSnapshot, error) {
	var snap engine.GameSnapshot
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gameKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return engine.GameSnapshot{}, ErrNotFound
		}
		return engine.GameSnapshot{}, fmt.Errorf("store: load %s: %w", id, err)
	}
	return snap, nil
}

// ListGames returns every stored game id.
func (s *Store) ListGames() ([]string, error) {
	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			ids = append(ids, strings.TrimPrefix(key, keyPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	return ids, nil
}

// DeleteGame removes the snapshot; deleting an absent id is a no-op.
func (s *Store) DeleteGame(id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(gameKey(id))
	})
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", id, err)
	}
	return nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
