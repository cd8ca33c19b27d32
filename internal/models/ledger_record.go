package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerRecord is implemented by every record kind produced by an import.
type LedgerRecord interface {
	TableName() string
	BatchID() uuid.UUID
}

type PurchaseRecord struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ImportBatchID  uuid.UUID       `gorm:"type:uuid;index;not null" json:"importBatchId"`
	ImportBatch    *ImportBatch    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SourceRow      int             `gorm:"not null" json:"sourceRow"`
	Date           time.Time       `gorm:"index" json:"date"`
	InvoiceNumber  string          `gorm:"size:100;check:chk_purchase_invoice_number,length(invoice_number) <= 100" json:"invoiceNumber"`
	Description    string          `gorm:"size:255;check:chk_purchase_description,length(description) <= 255" json:"description"`
	NetAmount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"netAmount"`
	VatAmount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"vatAmount"`
	GrossAmount    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"grossAmount"`
	DepartmentID   *uint           `gorm:"index" json:"departmentId"`
	GroupID        *uint           `gorm:"index" json:"groupId"`
	ServiceTypeID  *uint           `json:"serviceTypeId"`
	ContractorID   *uint           `gorm:"index" json:"contractorId"`
	CostCategoryID *uint           `json:"costCategoryId"`
	CreatedAt      time.Time       `json:"createdAt"`
}

func (PurchaseRecord) TableName() string     { return "purchase_records" }
func (r PurchaseRecord) BatchID() uuid.UUID { return r.ImportBatchID }

type PayrollRecord struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ImportBatchID  uuid.UUID       `gorm:"type:uuid;index;not null" json:"importBatchId"`
	ImportBatch    *ImportBatch    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SourceRow      int             `gorm:"not null" json:"sourceRow"`
	Date           time.Time       `gorm:"index" json:"date"`
	EmployeeName   string          `gorm:"size:255;check:chk_payroll_employee_name,length(employee_name) <= 255" json:"employeeName"`
	JobTitle       string          `gorm:"size:100;check:chk_payroll_job_title,length(job_title) <= 100" json:"jobTitle"`
	GrossAmount    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"grossAmount"`
	Contributions  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"contributions"`
	TaxAmount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"taxAmount"`
	NetAmount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"netAmount"`
	DepartmentID   *uint           `gorm:"index" json:"departmentId"`
	GroupID        *uint           `gorm:"index" json:"groupId"`
	CostCategoryID *uint           `json:"costCategoryId"`
	CreatedAt      time.Time       `json:"createdAt"`
}

func (PayrollRecord) TableName() string     { return "payroll_records" }
func (r PayrollRecord) BatchID() uuid.UUID { return r.ImportBatchID }

type SaleRecord struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ImportBatchID uuid.UUID       `gorm:"type:uuid;index;not null" json:"importBatchId"`
	ImportBatch   *ImportBatch    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SourceRow     int             `gorm:"not null" json:"sourceRow"`
	Date          time.Time       `gorm:"index" json:"date"`
	InvoiceNumber string          `gorm:"size:100;check:chk_sale_invoice_number,length(invoice_number) <= 100" json:"invoiceNumber"`
	Description   string          `gorm:"size:255;check:chk_sale_description,length(description) <= 255" json:"description"`
	NetAmount     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"netAmount"`
	VatAmount     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"vatAmount"`
	GrossAmount   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"grossAmount"`
	DepartmentID  *uint           `gorm:"index" json:"departmentId"`
	GroupID       *uint           `gorm:"index" json:"groupId"`
	ServiceTypeID *uint           `json:"serviceTypeId"`
	ContractorID  *uint           `gorm:"index" json:"contractorId"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func (SaleRecord) TableName() string     { return "sale_records" }
func (r SaleRecord) BatchID() uuid.UUID { return r.ImportBatchID }
