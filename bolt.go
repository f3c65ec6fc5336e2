//go:build !js

package multistorage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var itemsBucket = []byte("items")

// Bolt implements Backend on a bbolt database file. Items live in a single
// bucket.
type Bolt struct {
	path string
	db   *bolt.DB
}

// OpenBolt opens or creates the database at path.
func OpenBolt(path string) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("unable to create directory %s: %w", path, err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("unable to open boltdb file %s: %w", path, err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(itemsBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to create bucket: %w", err)
	}

	return &Bolt{path: path, db: db}, nil
}

// Path returns the database file path.
func (b *Bolt) Path() string { return b.path }

// Close closes the database.
func (b *Bolt) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

func (b *Bolt) GetItem(_ context.Context, key string) (value string, ok bool, err error) {
	err = b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(itemsBucket).Get([]byte(key))
		if v == nil {
			return nil
		}
		// v is only valid inside the transaction; string() copies it.
		value, ok = string(v), true
		return nil
	})
	return value, ok, err
}

func (b *Bolt) SetItem(_ context.Context, key, value string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(itemsBucket).Put([]byte(key), []byte(value))
	})
}

func (b *Bolt) RemoveItem(_ context.Context, key string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(itemsBucket).Delete([]byte(key))
	})
}
