package repository

import (
	"context"
	"errors"

	"finance-ledger-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

type ImportBatchRepository struct {
	db *gorm.DB
}

func NewImportBatchRepository(db *gorm.DB) *ImportBatchRepository {
	return &ImportBatchRepository{db: db}
}

// WithTx returns a repository bound to an open transaction.
func (r *ImportBatchRepository) WithTx(tx *gorm.DB) *ImportBatchRepository {
	return &ImportBatchRepository{db: tx}
}

func (r *ImportBatchRepository) Create(ctx context.Context, batch *models.ImportBatch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

// GetByID fetch a single batch by ID
func (r *ImportBatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ImportBatch, error) {
	var batch models.ImportBatch
	err := r.db.WithContext(ctx).First(&batch, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

// List returns every batch, newest first.
func (r *ImportBatchRepository) List(ctx context.Context) ([]models.ImportBatch, error) {
	var batches []models.ImportBatch
	err := r.db.WithContext(ctx).
		Omit("row_errors").
		Order("created_at DESC").
		Find(&batches).Error
	return batches, err
}

// MarkCompleted sets the terminal status and row counters of a batch.
func (r *ImportBatchRepository) MarkCompleted(ctx context.Context, id uuid.UUID, processed, failed int, rowErrors datatypes.JSON) error {
	result := r.db.WithContext(ctx).Model(&models.ImportBatch{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         string(models.BatchCompleted),
			"processed_rows": processed,
			"failed_rows":    failed,
			"row_errors":     rowErrors,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ImportBatchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ImportBatch{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
