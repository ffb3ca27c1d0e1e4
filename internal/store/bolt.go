package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/varoOP/shinkrolist/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// BoltFileName is the bbolt file created inside the data directory
const BoltFileName = "shinkrolist-cache.db"

var bucketCache = []byte("cache")

// BoltKV implements domain.KVStore using a single BoltDB bucket
type BoltKV struct {
	db *bolt.DB
}

var _ domain.KVStore = (*BoltKV)(nil)

// NewBoltKV opens (and creates if needed) the bbolt file in dir
func NewBoltKV(dir string) (*BoltKV, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, BoltFileName)
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketCache)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltKV{db: db}, nil
}

func (s *BoltKV) Get(_ context.Context, key string) (string, bool, error) {
	var (
		value string
		found bool
	)

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCache)
		if b == nil {
			return nil
		}
		// Bytes are only valid inside the transaction, string() copies them
		if v := b.Get([]byte(key)); v != nil {
			value = string(v)
			found = true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("bolt get %s: %w", key, err)
	}

	return value, found, nil
}

func (s *BoltKV) Set(_ context.Context, key, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCache).Put([]byte(key), []byte(value))
	})
}

func (s *BoltKV) Delete(_ context.Context, key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCache).Delete([]byte(key))
	})
}

// Clear drops every cached value and returns how many were dropped
func (s *BoltKV) Clear(_ context.Context) (int64, error) {
	var n int64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCache)
		n = int64(b.Stats().KeyN)
		if err := tx.DeleteBucket(bucketCache); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketCache)
		return err
	})
	return n, err
}

func (s *BoltKV) Close() error {
	return s.db.Close()
}
