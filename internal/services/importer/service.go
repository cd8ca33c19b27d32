// Package importer loads ledger spreadsheets into the database. Each upload
// becomes one ImportBatch whose rows are inserted in a single transaction;
// a row that fails to insert is skipped without failing the batch.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"

	"finance-ledger-backend/internal/logger"
	"finance-ledger-backend/internal/models"
	"finance-ledger-backend/internal/repository"
	"finance-ledger-backend/internal/spreadsheet"
	"finance-ledger-backend/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DefaultMaxUploadBytes = 10 << 20
	SampleLimit           = 100
)

var allowedContentTypes = map[spreadsheet.Format][]string{
	spreadsheet.FormatXLSX: {
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/zip",
		"application/octet-stream",
	},
	spreadsheet.FormatCSV: {
		"text/csv",
		"application/csv",
		"text/plain",
		"application/vnd.ms-excel",
		"application/octet-stream",
	},
}

// Upload is one file offered for import.
type Upload struct {
	OriginalName string
	ContentType  string
	// Size is the declared size in bytes; a negative value means unknown.
	Size       int64
	Body       io.Reader
	Kind       string
	UploadedBy string
}

// BatchDetail is a batch together with a sample of its records.
type BatchDetail struct {
	Batch       *models.ImportBatch `json:"batch"`
	Records     any                 `json:"records"`
	RecordCount int64               `json:"recordCount"`
}

type Service struct {
	db             *gorm.DB
	batches        *repository.ImportBatchRepository
	records        *repository.LedgerRecordRepository
	store          storage.Store
	log            zerolog.Logger
	maxUploadBytes int64
	now            func() time.Time
}

func NewService(
	db *gorm.DB,
	batches *repository.ImportBatchRepository,
	records *repository.LedgerRecordRepository,
	store storage.Store,
	log zerolog.Logger,
	maxUploadBytes int64,
) *Service {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &Service{
		db:             db,
		batches:        batches,
		records:        records,
		store:          store,
		log:            log.With().Str("component", "importer").Logger(),
		maxUploadBytes: maxUploadBytes,
		now:            time.Now,
	}
}

func (s *Service) MaxUploadBytes() int64 {
	return s.maxUploadBytes
}

// Import validates and stores the upload, then parses it and inserts one
// ledger record per row inside one transaction together with the batch row.
// Rows whose insert fails are skipped and recorded on the batch. Any other
// failure rolls the whole batch back; the stored file is kept in that case.
func (s *Service) Import(ctx context.Context, up Upload) (*models.ImportBatch, error) {
	kind, format, err := s.validate(up)
	if err != nil {
		return nil, err
	}

	name := storage.GenerateName(up.OriginalName)
	location, size, err := s.save(ctx, name, up.Body)
	if err != nil {
		return nil, err
	}

	batch := &models.ImportBatch{
		ID:           uuid.New(),
		Filename:     name,
		OriginalName: up.OriginalName,
		FilePath:     location,
		FileSize:     size,
		RecordKind:   kind,
		Status:       models.BatchProcessing,
	}
	if up.UploadedBy != "" {
		uploadedBy := up.UploadedBy
		batch.UploadedBy = &uploadedBy
	}
	log := logger.WithFields(s.log, map[string]interface{}{
		"batch_id": batch.ID.String(),
		"kind":     kind.String(),
		"file":     up.OriginalName,
	})

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.process(ctx, tx, batch, format, log)
	})
	if err != nil {
		if KindOf(err) == "" {
			err = newError(Persistence, "Error committing import", err)
		}
		log.Error().Err(err).Msg("import rolled back")
		return nil, err
	}

	log.Info().
		Int("processed_rows", batch.ProcessedRows).
		Int("failed_rows", batch.FailedRows).
		Msg("import completed")
	return batch, nil
}

func (s *Service) validate(up Upload) (models.RecordKind, spreadsheet.Format, error) {
	if up.Body == nil || up.OriginalName == "" {
		return "", "", newError(Validation, "No file uploaded", nil)
	}
	kind, err := models.ParseRecordKind(up.Kind)
	if err != nil {
		return "", "", newError(Validation, "Invalid type. Must be one of: purchases, payroll, sales", err)
	}
	format, ok := spreadsheet.FormatFromName(up.OriginalName)
	if !ok {
		return "", "", newError(Validation, "Only Excel (.xlsx) and CSV (.csv) files are allowed", nil)
	}
	if !contentTypeAllowed(format, up.ContentType) {
		return "", "", newError(Validation, "Only Excel (.xlsx) and CSV (.csv) files are allowed",
			fmt.Errorf("content type %q does not match %s", up.ContentType, format))
	}
	if up.Size > s.maxUploadBytes {
		return "", "", newError(Validation, "File too large",
			fmt.Errorf("%d bytes exceeds the %d byte limit", up.Size, s.maxUploadBytes))
	}
	return kind, format, nil
}

func contentTypeAllowed(format spreadsheet.Format, contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	for _, allowed := range allowedContentTypes[format] {
		if strings.EqualFold(mediaType, allowed) {
			return true
		}
	}
	return false
}

// save copies the body into the content store, enforcing the size ceiling
// for bodies whose declared size was missing or wrong.
func (s *Service) save(ctx context.Context, name string, body io.Reader) (string, int64, error) {
	location, size, err := s.store.Save(ctx, name, io.LimitReader(body, s.maxUploadBytes+1))
	if err != nil {
		return "", 0, newError(Infrastructure, "Error storing uploaded file", err)
	}
	if size > s.maxUploadBytes {
		if rerr := s.store.Remove(ctx, name); rerr != nil {
			s.log.Warn().Err(rerr).Str("file", name).Msg("could not remove oversized upload")
		}
		return "", 0, newError(Validation, "File too large",
			fmt.Errorf("upload exceeds the %d byte limit", s.maxUploadBytes))
	}
	return location, size, nil
}

func (s *Service) process(ctx context.Context, tx *gorm.DB, batch *models.ImportBatch, format spreadsheet.Format, log zerolog.Logger) error {
	batches := s.batches.WithTx(tx)
	records := s.records.WithTx(tx)

	if err := batches.Create(ctx, batch); err != nil {
		return newError(Persistence, "Error creating import batch", err)
	}
	log.Info().Msg("import batch created")

	src, err := s.store.Open(ctx, batch.Filename)
	if err != nil {
		return newError(Infrastructure, "Error reading uploaded file", err)
	}
	defer src.Close()

	rows, err := spreadsheet.Open(src, format)
	if err != nil {
		return newError(Parse, "Error processing file", err)
	}
	defer rows.Close()

	mapRow := mappers[batch.RecordKind]
	processed := 0
	var rowErrors []models.RowError
	for rows.Next() {
		row := rows.Row()
		record := mapRow(row, batch.ID, s.now())
		if err := records.Create(ctx, record); err != nil {
			merr := newError(Mapping, fmt.Sprintf("row %d", row.Number), err)
			log.Warn().Err(merr).Int("row", row.Number).Interface("cells", row.Values()).Msg("skipping row")
			rowErrors = append(rowErrors, models.RowError{Row: row.Number, Error: err.Error()})
			continue
		}
		processed++
	}
	if err := rows.Err(); err != nil {
		return newError(Parse, "Error processing file", err)
	}

	var rowErrorsJSON datatypes.JSON
	if len(rowErrors) > 0 {
		if rowErrorsJSON, err = json.Marshal(rowErrors); err != nil {
			return newError(Persistence, "Error encoding row errors", err)
		}
	}
	if err := batches.MarkCompleted(ctx, batch.ID, processed, len(rowErrors), rowErrorsJSON); err != nil {
		return newError(Persistence, "Error updating import batch", err)
	}

	batch.Status = models.BatchCompleted
	batch.ProcessedRows = processed
	batch.FailedRows = len(rowErrors)
	batch.RowErrors = rowErrorsJSON
	return nil
}

// ListBatches returns the import history, newest first.
func (s *Service) ListBatches(ctx context.Context) ([]models.ImportBatch, error) {
	batches, err := s.batches.List(ctx)
	if err != nil {
		return nil, newError(Persistence, "Error fetching import history", err)
	}
	return batches, nil
}

// GetBatch returns a batch with up to SampleLimit of its records.
func (s *Service) GetBatch(ctx context.Context, id uuid.UUID) (*BatchDetail, error) {
	batch, err := s.batches.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrBatchNotFound
	}
	if err != nil {
		return nil, newError(Persistence, "Error fetching import batch", err)
	}

	sample, err := s.records.SampleByBatch(ctx, batch.RecordKind, id, SampleLimit)
	if err != nil {
		return nil, newError(Persistence, "Error fetching import records", err)
	}
	count, err := s.records.CountByBatch(ctx, batch.RecordKind, id)
	if err != nil {
		return nil, newError(Persistence, "Error counting import records", err)
	}
	return &BatchDetail{Batch: batch, Records: sample, RecordCount: count}, nil
}

// DeleteBatch removes the batch, its records and its stored file. Records go
// first so that a database failure leaves the file untouched; the file is
// removed on a best-effort basis before the batch row.
func (s *Service) DeleteBatch(ctx context.Context, id uuid.UUID) error {
	log := s.log.With().Str("batch_id", id.String()).Logger()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		batches := s.batches.WithTx(tx)
		records := s.records.WithTx(tx)

		batch, err := batches.GetByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBatchNotFound
		}
		if err != nil {
			return newError(Persistence, "Error fetching import batch", err)
		}

		deleted, err := records.DeleteByBatch(ctx, batch.RecordKind, id)
		if err != nil {
			return newError(Persistence, "Error deleting import records", err)
		}

		if err := s.store.Remove(ctx, batch.Filename); err != nil {
			log.Warn().Err(err).Str("file", batch.Filename).Msg("could not remove stored file")
		}

		if err := batches.Delete(ctx, id); err != nil {
			return newError(Persistence, "Error deleting import batch", err)
		}
		log.Info().Int64("records_deleted", deleted).Msg("import batch deleted")
		return nil
	})
	if err != nil && !errors.Is(err, ErrBatchNotFound) && KindOf(err) == "" {
		err = newError(Persistence, "Error deleting import batch", err)
	}
	return err
}
