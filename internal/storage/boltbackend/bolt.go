package boltbackend

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/FranksOps/uagen/internal/storage"
	bolt "go.etcd.io/bbolt"
)

// ensure boltBackend implements storage.Backend
var _ storage.Backend = (*boltBackend)(nil)

var bucket = []byte("user_agents")

type boltBackend struct {
	db *bolt.DB
}

// New opens (or creates) a bbolt database at path. Keys are 8-byte big
// endian sequence numbers, so cursor order is insertion order.
func New(path string) (storage.Backend, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		if errors.Is(err, bolt.ErrInvalid) || errors.Is(err, bolt.ErrVersionMismatch) || errors.Is(err, bolt.ErrChecksum) {
			return nil, fmt.Errorf("%w: %s: %v", storage.ErrCorruptStore, path, err)
		}
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	return &boltBackend{db: db}, nil
}

func (b *boltBackend) Load(ctx context.Context) (*storage.Set, error) {
	set := storage.NewSet()
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).ForEach(func(k, v []byte) error {
			if len(k) != 8 {
				return fmt.Errorf("%w: unexpected key length %d", storage.ErrCorruptStore, len(k))
			}
			set.Add(string(v))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load user agents: %w", err)
	}
	return set, nil
}

// Save appends the entries the bucket does not hold yet. The whole save is
// one bolt transaction.
func (b *boltBackend) Save(ctx context.Context, set *storage.Set) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucket)

		stored := storage.NewSet()
		if err := bkt.ForEach(func(_, v []byte) error {
			stored.Add(string(v))
			return nil
		}); err != nil {
			return err
		}

		for _, ua := range set.Items() {
			if stored.Contains(ua) {
				continue
			}
			seq, err := bkt.NextSequence()
			if err != nil {
				return err
			}
			key := make([]byte, 8)
			binary.BigEndian.PutUint64(key, seq)
			if err := bkt.Put(key, []byte(ua)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrWriteFailure, err)
	}
	return nil
}

func (b *boltBackend) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}
