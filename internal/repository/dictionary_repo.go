package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// DictionaryRepository serves one reference dictionary table.
type DictionaryRepository[T any] struct {
	db *gorm.DB
}

func NewDictionaryRepository[T any](db *gorm.DB) *DictionaryRepository[T] {
	return &DictionaryRepository[T]{db: db}
}

// List returns all entries ordered by name, optionally filtered by a
// case-insensitive name fragment.
func (r *DictionaryRepository[T]) List(ctx context.Context, query string) ([]T, error) {
	var items []T
	q := r.db.WithContext(ctx).Model(new(T)).Order("name ASC")
	if query != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(query)+"%")
	}
	err := q.Find(&items).Error
	return items, err
}

func (r *DictionaryRepository[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	item := new(T)
	err := r.db.WithContext(ctx).First(item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *DictionaryRepository[T]) Create(ctx context.Context, item *T) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Update applies the non-zero fields of patch to entry id.
func (r *DictionaryRepository[T]) Update(ctx context.Context, id uint, patch *T) (*T, error) {
	result := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(patch)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *DictionaryRepository[T]) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
