package handler

import (
	"context"
	"errors"
	"net/http"

	"finance-ledger-backend/internal/logger"
	"finance-ledger-backend/internal/models"
	"finance-ledger-backend/internal/services/importer"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserIDHeader names the uploader of a spreadsheet. It is recorded as given.
const UserIDHeader = "X-User-ID"

// multipartOverhead is the allowance for form fields and part headers on top
// of the file size ceiling.
const multipartOverhead = 1 << 20

type ImportHandler struct {
	service *importer.Service
	errorResponder
}

func NewImportHandler(s *importer.Service, production bool) *ImportHandler {
	return &ImportHandler{service: s, errorResponder: errorResponder{production: production}}
}

// Upload accepts a multipart form with a `file` part and a `type` field and
// imports it synchronously.
func (h *ImportHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.service.MaxUploadBytes()+multipartOverhead)

	up := importer.Upload{Size: -1}
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(c, http.StatusBadRequest, "File too large", err)
			return
		}
	} else {
		defer file.Close()
		up.OriginalName = header.Filename
		up.ContentType = header.Header.Get("Content-Type")
		up.Size = header.Size
		up.Body = file
	}
	up.Kind = c.PostForm("type")
	up.UploadedBy = c.GetHeader(UserIDHeader)

	// the import outlives a client that hangs up mid-request
	ctx := context.WithoutCancel(c.Request.Context())
	batch, err := h.service.Import(ctx, up)
	if err != nil {
		h.failImport(c, err)
		return
	}

	log := logger.FromContext(ctx)
	log.Info().
		Str("batch_id", batch.ID.String()).
		Int("processed_rows", batch.ProcessedRows).
		Msg("upload processed")

	c.JSON(http.StatusOK, gin.H{
		"message": "File uploaded and processed successfully",
		"file": gin.H{
			"id":            batch.ID,
			"originalName":  batch.OriginalName,
			"path":          batch.FilePath,
			"size":          batch.FileSize,
			"type":          batch.RecordKind,
			"status":        batch.Status,
			"processedRows": batch.ProcessedRows,
			"failedRows":    batch.FailedRows,
		},
		"processedRows": batch.ProcessedRows,
	})
}

// History lists every import batch, newest first.
func (h *ImportHandler) History(c *gin.Context) {
	batches, err := h.service.ListBatches(c.Request.Context())
	if err != nil {
		h.failImport(c, err)
		return
	}
	if batches == nil {
		batches = []models.ImportBatch{}
	}
	c.JSON(http.StatusOK, batches)
}

// Detail returns one batch with a sample of its records.
func (h *ImportHandler) Detail(c *gin.Context) {
	id, ok := h.batchID(c)
	if !ok {
		return
	}

	detail, err := h.service.GetBatch(c.Request.Context(), id)
	if err != nil {
		h.failImport(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *ImportHandler) Delete(c *gin.Context) {
	id, ok := h.batchID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteBatch(c.Request.Context(), id); err != nil {
		h.failImport(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Import batch deleted", "id": id})
}

func (h *ImportHandler) batchID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid batch ID", err)
		return uuid.Nil, false
	}
	return id, true
}
