// Package store defines the permanent storage of scores.
package store

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
	"src.gdsl.dev/pkg/logutil"
	"src.gdsl.dev/pkg/store/storedefs"
)

var logger = logutil.GetLogger("[store] ")
var initDB = map[string](func(*bolt.Tx) error){}

// DBStore is the permanent storage backend for scores.
type DBStore interface {
	storedefs.Store
	Close() error
}

type dbStore struct {
	db *bolt.DB
}

// NewStore creates a new Store from the given file. It waits up to a second
// for another process holding the file.
func NewStore(dbname string) (DBStore, error) {
	db, err := bolt.Open(dbname, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	return NewStoreFromDB(db)
}

// NewStoreFromDB creates a new Store from a bolt DB.
func NewStoreFromDB(db *bolt.DB) (DBStore, error) {
	logger.Println("initializing store")
	defer logger.Println("initialized store")
	st := &dbStore{db: db}

	err := db.Update(func(tx *bolt.Tx) error {
		for name, fn := range initDB {
			if err := fn(tx); err != nil {
				return fmt.Errorf("failed to %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return st, nil
}

// Close closes the store.
func (s *dbStore) Close() error {
	return s.db.Close()
}
