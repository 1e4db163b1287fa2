package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/mmcdole/netkin/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketAccount  = []byte("account")
	bucketProfiles = []byte("profiles")
	bucketLegacy   = []byte("legacy")
)

// Logical document keys
const (
	KeyCurrentUser = "current-user"
	KeyProfiles    = "profiles"
	KeyWatchlist   = "watchlist"
)

// dbFileName is the bolt file created inside the storage directory
const dbFileName = "netkin.db"

// Store implements domain.Store using BoltDB.
type Store struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory copy of every document (promoted on access)
	cache map[string][]byte
}

// New opens (or creates) the store under dir. An empty dir gives a
// memory-only store that forgets everything on exit.
func New(dir string) (*Store, error) {
	if dir == "" {
		return &Store{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}

	dbPath := filepath.Join(dir, dbFileName)
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketAccount, bucketProfiles, bucketLegacy} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, cache: make(map[string][]byte)}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

// raw returns the stored bytes for key, or nil when absent
func (s *Store) raw(bucket []byte, key string) ([]byte, error) {
	cacheKey := string(bucket) + ":" + key

	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return data, nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return nil, nil
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return data, nil
}

// get decodes key into dest. found is false when the key is absent.
func (s *Store) get(bucket []byte, key string, dest interface{}) (found bool, err error) {
	data, err := s.raw(bucket, key)
	if err != nil || data == nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.put(bucket, key, data)
}

func (s *Store) put(bucket []byte, key string, data []byte) error {
	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucket).Put([]byte(key), data)
		})
		if err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.cache[string(bucket)+":"+key] = data
	s.mu.Unlock()
	return nil
}

func (s *Store) delete(bucket []byte, key string) error {
	s.mu.Lock()
	delete(s.cache, string(bucket)+":"+key)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}

// === Profiles ===

func (s *Store) GetProfiles() (domain.ProfileSet, bool, error) {
	var profiles domain.ProfileSet
	found, err := s.get(bucketProfiles, KeyProfiles, &profiles)
	if !found || err != nil {
		return nil, found, err
	}
	return profiles, true, nil
}

func (s *Store) SaveProfiles(profiles domain.ProfileSet) error {
	return s.set(bucketProfiles, KeyProfiles, profiles)
}

// PutRaw stores an undecoded document; used to import data written by
// other clients.
func (s *Store) PutRaw(key string, data []byte) error {
	switch key {
	case KeyProfiles:
		return s.put(bucketProfiles, key, data)
	case KeyCurrentUser:
		return s.put(bucketAccount, key, data)
	case KeyWatchlist:
		return s.put(bucketLegacy, key, data)
	default:
		return fmt.Errorf("unknown document key %q", key)
	}
}

// === Account ===

func (s *Store) GetCurrentUser() (*domain.User, error) {
	var user domain.User
	found, err := s.get(bucketAccount, KeyCurrentUser, &user)
	if !found || err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) SaveCurrentUser(user domain.User) error {
	return s.set(bucketAccount, KeyCurrentUser, user)
}

func (s *Store) ClearCurrentUser() error {
	return s.delete(bucketAccount, KeyCurrentUser)
}

// === Legacy ===

// GetLegacyWatchlist returns the pre-profile single watchlist, if any.
// Malformed data is treated as absent.
func (s *Store) GetLegacyWatchlist() ([]string, bool) {
	var ids []string
	found, err := s.get(bucketLegacy, KeyWatchlist, &ids)
	if !found || err != nil {
		return nil, false
	}
	return ids, true
}

// Compile-time interface check
var _ domain.Store = (*Store)(nil)
