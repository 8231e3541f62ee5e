package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/ogero/stremio-lastvideos/internal/common"
)

// Cache is a TTL key value store backed by badger.
type Cache struct {
	db *badger.DB
}

// Open opens the cache DB at path, or a memory only DB when inMemory is set.
func Open(path string, inMemory bool) (*Cache, error) {
	opts := badger.DefaultOptions(path).
		WithNumVersionsToKeep(0).
		WithValueLogFileSize(1024 * 1024 * 100).
		WithLogger(&l{})
	if inMemory {
		opts = opts.WithDir("").WithValueDir("").WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to badger.Open: %w", err)
	}

	return &Cache{db: db}, nil
}

// Memoize retrieves a cached value for the specified cacheKey.
// If the value is present and decodes into V, it is returned. Otherwise fn is called to compute the value,
// which is then stored in the cache with the specified ttl and returned.
// The boolean result reports whether the value came from the cache.
func Memoize[V any](c *Cache, cacheKey string, ttl time.Duration, fn func() (*V, error)) (*V, bool, error) {

	value := new(V)

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(cacheKey))
		if err != nil {
			return err
		}

		err = item.Value(func(val []byte) error {
			return json.Unmarshal(val, value)
		})
		if err != nil {
			return fmt.Errorf("failed to json.Unmarshal: %w", err)
		}

		return nil
	})
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, fmt.Errorf("failed to get from cache: %w", err)
	} else if err == nil {
		return value, true, nil
	}

	value, err = fn()
	if err != nil {
		return nil, false, err
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		valueJSONBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to json.Marshal: %w", err)
		}
		entry := badger.NewEntry([]byte(cacheKey), valueJSONBytes).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to store on cache: %w", err)
	}

	return value, false, nil
}

// Close closes the cache DB. It's crucial to call it to ensure all the pending updates make their way to disk.
// Calling Close multiple times would still only close the DB once.
func (c *Cache) Close() error {
	return c.db.Close()
}

type l struct{}

func (l *l) Errorf(s string, i ...interface{}) {
	common.Log.Error(fmt.Sprintf(s, i...), "component", "badger")
}

func (l *l) Warningf(s string, i ...interface{}) {
	common.Log.Warn(fmt.Sprintf(s, i...), "component", "badger")
}

func (l *l) Infof(s string, i ...interface{}) {
	common.Log.Debug(fmt.Sprintf(s, i...), "component", "badger")
}

func (l *l) Debugf(s string, i ...interface{}) {
	common.Log.Debug(fmt.Sprintf(s, i...), "component", "badger")
}
