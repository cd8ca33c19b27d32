package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type BatchStatus string

const (
	BatchPending    BatchStatus = "pending"
	BatchProcessing BatchStatus = "processing"
	BatchCompleted  BatchStatus = "completed"
	BatchError      BatchStatus = "error"
)

// ImportBatch is the manifest row of one uploaded spreadsheet.
type ImportBatch struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Filename      string         `gorm:"size:255;not null" json:"filename"`
	OriginalName  string         `gorm:"size:255;not null" json:"originalName"`
	FilePath      string         `gorm:"size:512" json:"path"`
	FileSize      int64          `json:"size"`
	RecordKind    RecordKind     `gorm:"size:16;index;not null" json:"type"`
	Status        BatchStatus    `gorm:"size:16;index;not null" json:"status"`
	ProcessedRows int            `gorm:"not null;default:0" json:"processedRows"`
	FailedRows    int            `gorm:"not null;default:0" json:"failedRows"`
	RowErrors     datatypes.JSON `json:"rowErrors,omitempty"`
	ErrorMessage  *string        `gorm:"type:text" json:"errorMessage,omitempty"`
	UploadedBy    *string        `gorm:"size:100" json:"uploadedBy,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// RowError describes a spreadsheet row that could not be stored.
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}
