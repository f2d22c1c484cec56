package registry

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"loan-sync/core/database"

	"gorm.io/gorm"
)

// Platform is the platform name recorded on every entry this service creates.
const Platform = "loans"

// TableName is the table holding registry entries.
const TableName = "registry_entries"

var (
	// ErrNotFound is returned when an entity id has no entry.
	ErrNotFound = errors.New("registry entry not found")
	// ErrIdentifierTaken is returned when renaming onto an id in use.
	ErrIdentifierTaken = errors.New("entity id already in use")
)

// Entry is a persisted sensor identity.
type Entry struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UniqueKey string    `gorm:"column:unique_key;size:191;uniqueIndex;not null" json:"unique_key"`
	EntityID  string    `gorm:"column:entity_id;size:191;uniqueIndex;not null" json:"entity_id"`
	AccountID string    `gorm:"column:account_id;size:191;index" json:"account_id"`
	Platform  string    `gorm:"column:platform;size:64" json:"platform"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName implements gorm's tabler.
func (Entry) TableName() string {
	return TableName
}

// Registry defines the operations on persisted entries.
type Registry interface {
	// EntityIDForUniqueKey returns the entity id registered for uniqueKey, or "".
	EntityIDForUniqueKey(ctx context.Context, uniqueKey string) (string, error)
	// Get returns the entry with entityID, or nil.
	Get(ctx context.Context, entityID string) (*Entry, error)
	// Rename changes the entity id of an entry.
	Rename(ctx context.Context, entityID, newEntityID string) error
	// Remove deletes the entry with entityID.
	Remove(ctx context.Context, entityID string) error
	// RemoveMany deletes several entries at once.
	RemoveMany(ctx context.Context, entityIDs []string) error
	// EntriesForAccount lists the entries created for an account.
	EntriesForAccount(ctx context.Context, accountID string) ([]Entry, error)
	// GetOrCreate returns the entry for entry.UniqueKey, creating it when
	// missing. A suggested id already in use gets a numeric suffix.
	GetOrCreate(ctx context.Context, entry Entry, suggestedEntityID string) (*Entry, error)
}

// Store is the GORM implementation of Registry.
type Store struct {
	db *gorm.DB
}

// New returns a registry backed by db.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the registry table.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&Entry{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", TableName, err)
	}
	return nil
}

// CheckSchema returns the registry columns missing from the database.
func CheckSchema(db *gorm.DB) ([]string, error) {
	return database.MissingColumns(db, TableName, []string{
		"id", "unique_key", "entity_id", "account_id", "platform", "created_at", "updated_at",
	})
}

func (s *Store) EntityIDForUniqueKey(ctx context.Context, uniqueKey string) (string, error) {
	var entry Entry
	err := s.db.WithContext(ctx).Where("unique_key = ?", uniqueKey).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up unique key %s: %w", uniqueKey, err)
	}
	return entry.EntityID, nil
}

func (s *Store) Get(ctx context.Context, entityID string) (*Entry, error) {
	var entry Entry
	err := s.db.WithContext(ctx).Where("entity_id = ?", entityID).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entity %s: %w", entityID, err)
	}
	return &entry, nil
}

func (s *Store) Rename(ctx context.Context, entityID, newEntityID string) error {
	if entityID == newEntityID {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&Entry{}).Where("entity_id = ?", newEntityID).Count(&taken).Error; err != nil {
			return fmt.Errorf("failed to check entity %s: %w", newEntityID, err)
		}
		if taken > 0 {
			return fmt.Errorf("rename %s to %s: %w", entityID, newEntityID, ErrIdentifierTaken)
		}

		res := tx.Model(&Entry{}).Where("entity_id = ?", entityID).Update("entity_id", newEntityID)
		if res.Error != nil {
			return fmt.Errorf("failed to rename entity %s: %w", entityID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("rename %s: %w", entityID, ErrNotFound)
		}
		return nil
	})
}

func (s *Store) Remove(ctx context.Context, entityID string) error {
	res := s.db.WithContext(ctx).Where("entity_id = ?", entityID).Delete(&Entry{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove entity %s: %w", entityID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("remove %s: %w", entityID, ErrNotFound)
	}
	return nil
}

func (s *Store) RemoveMany(ctx context.Context, entityIDs []string) error {
	if len(entityIDs) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Where("entity_id IN ?", entityIDs).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("failed to remove %d entities: %w", len(entityIDs), err)
	}
	return nil
}

func (s *Store) EntriesForAccount(ctx context.Context, accountID string) ([]Entry, error) {
	var entries []Entry
	err := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("unique_key").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for account %s: %w", accountID, err)
	}
	return entries, nil
}

func (s *Store) GetOrCreate(ctx context.Context, entry Entry, suggestedEntityID string) (*Entry, error) {
	var result *Entry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Entry
		err := tx.Where("unique_key = ?", entry.UniqueKey).Take(&existing).Error
		if err == nil {
			result = &existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up unique key %s: %w", entry.UniqueKey, err)
		}

		entityID, err := freeEntityID(tx, suggestedEntityID)
		if err != nil {
			return err
		}
		entry.ID = 0
		entry.EntityID = entityID
		if entry.Platform == "" {
			entry.Platform = Platform
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to create entity %s: %w", entityID, err)
		}
		result = &entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// freeEntityID returns base, or base with the lowest suffix _2, _3, ... that
// no entry uses.
func freeEntityID(tx *gorm.DB, base string) (string, error) {
	var used []string
	err := tx.Model(&Entry{}).
		// LIKE may over-match; the exact check happens below.
		Where("entity_id LIKE ?", base+"%").
		Pluck("entity_id", &used).Error
	if err != nil {
		return "", fmt.Errorf("failed to check entity %s: %w", base, err)
	}

	taken := make(map[string]struct{}, len(used))
	for _, id := range used {
		taken[id] = struct{}{}
	}
	if _, ok := taken[base]; !ok {
		return base, nil
	}
	for n := 2; ; n++ {
		candidate := base + "_" + strconv.Itoa(n)
		if _, ok := taken[candidate]; !ok {
			return candidate, nil
		}
	}
}
