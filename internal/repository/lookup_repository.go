package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a row lookup by id matches nothing.
	ErrNotFound = errors.New("record not found")
	// ErrAmbiguousKey is returned when a natural-key resolve matches more
	// than one row. Callers map it to HTTP 409.
	ErrAmbiguousKey = errors.New("natural key matches multiple records")
	// ErrDuplicateKey is returned when an insert or update violates the
	// normalized unique index on the natural-key column.
	ErrDuplicateKey = errors.New("duplicate natural key")
)

// Descriptor declares how one lookup table maps onto the generic store.
type Descriptor struct {
	// Entity is the display name used in audit trail entries.
	Entity string
	// Table is the physical table name.
	Table string
	// IDColumn is the surrogate primary key column.
	IDColumn string
	// KeyColumn is the natural-key column resolved with trimmed
	// case-insensitive matching.
	KeyColumn string
	// TrimKeyOnMatch rewrites the stored key to its trimmed form when an
	// update lands via key match. When false the caller's raw value is
	// written as-is.
	TrimKeyOnMatch bool
	// ScopeColumn narrows natural-key resolution to one partition, e.g.
	// compid for company-scoped currencies. Empty means the key is global.
	ScopeColumn string
	// ScopeValue is the partition value matched when ScopeColumn is set.
	ScopeValue interface{}
}

// Scoped returns a copy of the descriptor bound to one partition value.
func (d Descriptor) Scoped(value interface{}) Descriptor {
	d.ScopeValue = value
	return d
}

// LookupStore is the persistence surface for the generic lookup tables.
type LookupStore interface {
	// Resolve finds the surrogate id for a natural key under trimmed
	// case-insensitive comparison. A miss returns (0, nil); more than one
	// match returns ErrAmbiguousKey.
	Resolve(ctx context.Context, desc Descriptor, key string) (int64, error)
	ExistsByID(ctx context.Context, desc Descriptor, id int64) (bool, error)
	// Insert creates a row from the given column values and returns the
	// generated surrogate id.
	Insert(ctx context.Context, desc Descriptor, values map[string]interface{}) (int64, error)
	UpdateByID(ctx context.Context, desc Descriptor, id int64, values map[string]interface{}) error
	DeleteByID(ctx context.Context, desc Descriptor, id int64) error
	List(ctx context.Context, desc Descriptor, dest interface{}) error
	GetByID(ctx context.Context, desc Descriptor, id int64, dest interface{}) error
	// WithTransaction runs fn against a store bound to a single
	// transaction; any error rolls the whole transaction back.
	WithTransaction(ctx context.Context, fn func(LookupStore) error) error
}

type lookupStore struct {
	db *gorm.DB
}

// NewLookupStore creates a LookupStore backed by Postgres via GORM.
func NewLookupStore(db *gorm.DB) LookupStore {
	return &lookupStore{db: db}
}

func (s *lookupStore) Resolve(ctx context.Context, desc Descriptor, key string) (int64, error) {
	var ids []int64
	query := fmt.Sprintf("SELECT %s FROM %s WHERE TRIM(%s) ILIKE ?", desc.IDColumn, desc.Table, desc.KeyColumn)
	args := []interface{}{strings.TrimSpace(key)}
	if desc.ScopeColumn != "" {
		query += fmt.Sprintf(" AND %s = ?", desc.ScopeColumn)
		args = append(args, desc.ScopeValue)
	}
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&ids).Error; err != nil {
		return 0, fmt.Errorf("failed to resolve %s key: %w", desc.Entity, err)
	}
	switch len(ids) {
	case 0:
		return 0, nil
	case 1:
		return ids[0], nil
	default:
		return 0, ErrAmbiguousKey
	}
}

func (s *lookupStore) ExistsByID(ctx context.Context, desc Descriptor, id int64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Table(desc.Table).
		Where(fmt.Sprintf("%s = ?", desc.IDColumn), id).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check %s id: %w", desc.Entity, err)
	}
	return count > 0, nil
}

func (s *lookupStore) Insert(ctx context.Context, desc Descriptor, values map[string]interface{}) (int64, error) {
	cols, args := orderedColumns(values)
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(cols)), ",")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		desc.Table, strings.Join(cols, ", "), placeholders, desc.IDColumn)

	var id int64
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&id).Error; err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateKey
		}
		return 0, fmt.Errorf("failed to insert %s: %w", desc.Entity, err)
	}
	return id, nil
}

func (s *lookupStore) UpdateByID(ctx context.Context, desc Descriptor, id int64, values map[string]interface{}) error {
	result := s.db.WithContext(ctx).Table(desc.Table).
		Where(fmt.Sprintf("%s = ?", desc.IDColumn), id).
		Updates(values)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to update %s: %w", desc.Entity, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *lookupStore) DeleteByID(ctx context.Context, desc Descriptor, id int64) error {
	result := s.db.WithContext(ctx).
		Exec(fmt.Sprintf("DELETE FROM %s WHERE %s = ?", desc.Table, desc.IDColumn), id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete %s: %w", desc.Entity, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *lookupStore) List(ctx context.Context, desc Descriptor, dest interface{}) error {
	query := s.db.WithContext(ctx).Table(desc.Table)
	if desc.ScopeColumn != "" && desc.ScopeValue != nil {
		query = query.Where(fmt.Sprintf("%s = ?", desc.ScopeColumn), desc.ScopeValue)
	}
	err := query.Order(desc.KeyColumn).Find(dest).Error
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", desc.Entity, err)
	}
	return nil
}

func (s *lookupStore) GetByID(ctx context.Context, desc Descriptor, id int64, dest interface{}) error {
	err := s.db.WithContext(ctx).Table(desc.Table).
		Where(fmt.Sprintf("%s = ?", desc.IDColumn), id).
		First(dest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get %s: %w", desc.Entity, err)
	}
	return nil
}

func (s *lookupStore) WithTransaction(ctx context.Context, fn func(LookupStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&lookupStore{db: tx})
	})
}

// orderedColumns returns the map's columns and values in a stable order so
// the generated SQL is deterministic.
func orderedColumns(values map[string]interface{}) ([]string, []interface{}) {
	cols := make([]string, 0, len(values))
	for col := range values {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	args := make([]interface{}, 0, len(cols))
	for _, col := range cols {
		args = append(args, values[col])
	}
	return cols, args
}

func isUniqueViolation(err error) bool {
	// Postgres unique_violation is SQLSTATE 23505. The driver wraps it, so
	// matching on the message keeps this free of driver-specific types.
	return err != nil && strings.Contains(err.Error(), "23505")
}
