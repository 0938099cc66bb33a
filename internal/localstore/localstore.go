package localstore

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Collection namespaces. The cache is shared across every user ever seen on
// the device, so namespaces are per entity kind, never per user; callers
// filter by user_id at read time.
const (
	NSDoodles   = "doodles"
	NSLikes     = "likes"
	NSFollows   = "follows"
	NSShares    = "shares"
	NSStats     = "stats"
	NSBadges    = "badges"
	NSBookmarks = "bookmarks"
	NSStreaks   = "streaks"
	NSReports   = "reports"
)

type cacheCollection struct {
	Namespace string `gorm:"primaryKey"`
	Payload   string
	UpdatedAt time.Time
}

func (cacheCollection) TableName() string { return "cache_collections" }

// Store persists whole record collections keyed by namespace. Pure
// read/write; no business logic. A single mutex makes every
// read-modify-write atomic within the process.
type Store struct {
	mu sync.Mutex
	db *gorm.DB
}

// Open opens (or creates) the cache database at path. Use ":memory:" for
// tests.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache db: %w", err)
	}
	if err := db.AutoMigrate(&cacheCollection{}); err != nil {
		return nil, fmt.Errorf("failed to migrate cache db: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) read(ns string) (string, error) {
	var rec cacheCollection
	err := s.db.First(&rec, "namespace = ?", ns).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", fmt.Errorf("failed to read namespace %s: %w", ns, err)
	}
	return rec.Payload, nil
}

func (s *Store) write(ns, payload string) error {
	rec := cacheCollection{Namespace: ns, Payload: payload, UpdatedAt: time.Now()}
	err := s.db.Save(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to write namespace %s: %w", ns, err)
	}
	return nil
}

// Wipe drops every cached collection. Safe on logout: the remote store
// already owns everything that was successfully pushed.
func (s *Store) Wipe() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Where("1 = 1").Delete(&cacheCollection{}).Error
}

// Load reads the full collection for a namespace. A missing namespace is an
// empty collection, not an error.
func Load[T any](s *Store, ns string) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return load[T](s, ns)
}

func load[T any](s *Store, ns string) ([]T, error) {
	payload, err := s.read(ns)
	if err != nil {
		return nil, err
	}
	if payload == "" {
		return []T{}, nil
	}
	var records []T
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, fmt.Errorf("corrupt cache namespace %s: %w", ns, err)
	}
	return records, nil
}

// Save replaces the full collection for a namespace.
func Save[T any](s *Store, ns string, records []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return save(s, ns, records)
}

func save[T any](s *Store, ns string, records []T) error {
	if records == nil {
		records = []T{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode namespace %s: %w", ns, err)
	}
	return s.write(ns, string(payload))
}

// Update applies fn to the collection under the store lock, then persists
// the result. Mutating operations use this so their existence checks and
// writes cannot interleave.
func Update[T any](s *Store, ns string, fn func([]T) []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := load[T](s, ns)
	if err != nil {
		return err
	}
	return save(s, ns, fn(records))
}
