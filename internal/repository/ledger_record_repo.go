package repository

import (
	"context"
	"errors"
	"fmt"

	"finance-ledger-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrMissingBatch rejects a ledger record that does not reference a batch.
var ErrMissingBatch = errors.New("ledger record has no import batch")

type LedgerRecordRepository struct {
	db *gorm.DB
}

func NewLedgerRecordRepository(db *gorm.DB) *LedgerRecordRepository {
	return &LedgerRecordRepository{db: db}
}

func (r *LedgerRecordRepository) WithTx(tx *gorm.DB) *LedgerRecordRepository {
	return &LedgerRecordRepository{db: tx}
}

// Create inserts one record inside a savepoint, so a failed insert leaves the
// surrounding transaction usable for the next row.
func (r *LedgerRecordRepository) Create(ctx context.Context, record models.LedgerRecord) error {
	if record.BatchID() == uuid.Nil {
		return ErrMissingBatch
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(record).Error
	})
}

// DeleteByBatch removes every record of the given kind owned by batchID.
func (r *LedgerRecordRepository) DeleteByBatch(ctx context.Context, kind models.RecordKind, batchID uuid.UUID) (int64, error) {
	if !kind.Valid() {
		return 0, fmt.Errorf("unknown record kind %q", kind)
	}
	result := r.db.WithContext(ctx).
		Where("import_batch_id = ?", batchID).
		Delete(kind.Model())
	return result.RowsAffected, result.Error
}

// CountByBatch counts the records of the given kind owned by batchID.
func (r *LedgerRecordRepository) CountByBatch(ctx context.Context, kind models.RecordKind, batchID uuid.UUID) (int64, error) {
	if !kind.Valid() {
		return 0, fmt.Errorf("unknown record kind %q", kind)
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(kind.Model()).
		Where("import_batch_id = ?", batchID).
		Count(&count).Error
	return count, err
}

// SampleByBatch returns up to limit records of the batch in sheet order,
// as a pointer to a slice of the kind's record type.
func (r *LedgerRecordRepository) SampleByBatch(ctx context.Context, kind models.RecordKind, batchID uuid.UUID, limit int) (any, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}
	out := kind.NewSlice()
	err := r.db.WithContext(ctx).
		Where("import_batch_id = ?", batchID).
		Order("source_row ASC").
		Limit(limit).
		Find(out).Error
	return out, err
}
