package importer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"finance-ledger-backend/internal/models"
	"finance-ledger-backend/internal/spreadsheet"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Spreadsheet column headers, matched case-insensitively.
const (
	colDate           = "date"
	colInvoiceNumber  = "invoiceNumber"
	colDescription    = "description"
	colNetAmount      = "netAmount"
	colVatAmount      = "vatAmount"
	colGrossAmount    = "grossAmount"
	colEmployeeName   = "employeeName"
	colPosition       = "position"
	colContributions  = "contributions"
	colTaxAmount      = "taxAmount"
	colDepartmentID   = "departmentId"
	colGroupID        = "groupId"
	colServiceTypeID  = "serviceTypeId"
	colContractorID   = "contractorId"
	colCostCategoryID = "costCategoryId"
)

// rowMapper builds the record for one row. Mapping never fails: unreadable
// cells fall back to defaults (0 for money, now for dates, nil for ids).
type rowMapper func(row spreadsheet.Row, batchID uuid.UUID, now time.Time) models.LedgerRecord

var mappers = map[models.RecordKind]rowMapper{
	models.KindPurchases: mapPurchase,
	models.KindPayroll:   mapPayroll,
	models.KindSales:     mapSale,
}

func mapPurchase(row spreadsheet.Row, batchID uuid.UUID, now time.Time) models.LedgerRecord {
	return &models.PurchaseRecord{
		ID:             uuid.New(),
		ImportBatchID:  batchID,
		SourceRow:      row.Number,
		Date:           parseDate(row.Get(colDate), now),
		InvoiceNumber:  row.Get(colInvoiceNumber),
		Description:    row.Get(colDescription),
		NetAmount:      parseAmount(row.Get(colNetAmount)),
		VatAmount:      parseAmount(row.Get(colVatAmount)),
		GrossAmount:    parseAmount(row.Get(colGrossAmount)),
		DepartmentID:   parseID(row.Get(colDepartmentID)),
		GroupID:        parseID(row.Get(colGroupID)),
		ServiceTypeID:  parseID(row.Get(colServiceTypeID)),
		ContractorID:   parseID(row.Get(colContractorID)),
		CostCategoryID: parseID(row.Get(colCostCategoryID)),
	}
}

func mapPayroll(row spreadsheet.Row, batchID uuid.UUID, now time.Time) models.LedgerRecord {
	return &models.PayrollRecord{
		ID:             uuid.New(),
		ImportBatchID:  batchID,
		SourceRow:      row.Number,
		Date:           parseDate(row.Get(colDate), now),
		EmployeeName:   row.Get(colEmployeeName),
		JobTitle:       row.Get(colPosition),
		GrossAmount:    parseAmount(row.Get(colGrossAmount)),
		Contributions:  parseAmount(row.Get(colContributions)),
		TaxAmount:      parseAmount(row.Get(colTaxAmount)),
		NetAmount:      parseAmount(row.Get(colNetAmount)),
		DepartmentID:   parseID(row.Get(colDepartmentID)),
		GroupID:        parseID(row.Get(colGroupID)),
		CostCategoryID: parseID(row.Get(colCostCategoryID)),
	}
}

func mapSale(row spreadsheet.Row, batchID uuid.UUID, now time.Time) models.LedgerRecord {
	return &models.SaleRecord{
		ID:            uuid.New(),
		ImportBatchID: batchID,
		SourceRow:     row.Number,
		Date:          parseDate(row.Get(colDate), now),
		InvoiceNumber: row.Get(colInvoiceNumber),
		Description:   row.Get(colDescription),
		NetAmount:     parseAmount(row.Get(colNetAmount)),
		VatAmount:     parseAmount(row.Get(colVatAmount)),
		GrossAmount:   parseAmount(row.Get(colGrossAmount)),
		DepartmentID:  parseID(row.Get(colDepartmentID)),
		GroupID:       parseID(row.Get(colGroupID)),
		ServiceTypeID: parseID(row.Get(colServiceTypeID)),
		ContractorID:  parseID(row.Get(colContractorID)),
	}
}

var (
	commaGrouped = regexp.MustCompile(`^-?[1-9]\d{0,2}(,\d{3})+$`)
	dotGrouped   = regexp.MustCompile(`^-?[1-9]\d{0,2}(\.\d{3}){2,}$`)
)

// parseAmount reads a money cell. Anything unparsable becomes zero, which
// means a malformed amount is stored as 0 rather than rejected.
//
// A comma followed by groups of exactly three digits is a thousands
// separator ("1,234" is 1234, "1,234,567" is 1234567); any other single
// comma is a decimal separator ("12,5", "0,125"). A single dot is always
// decimal, so "1.234" is 1.234; two or more dot groups ("1.234.567") are
// thousands separators.
func parseAmount(s string) decimal.Decimal {
	s = strings.NewReplacer(" ", "", "\u00a0", "", "'", "").Replace(strings.TrimSpace(s))
	if s == "" {
		return decimal.Zero
	}
	comma, dot := strings.LastIndex(s, ","), strings.LastIndex(s, ".")
	switch {
	case commaGrouped.MatchString(s):
		s = strings.ReplaceAll(s, ",", "")
	case dotGrouped.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
	case comma >= 0 && dot >= 0 && comma > dot:
		// 1.234,56
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0 && dot >= 0:
		// 1,234.56
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0 && strings.Count(s, ",") == 1:
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02.01.2006",
	"02/01/2006",
	"02-01-2006",
}

// parseDate accepts ISO dates, common day-first layouts and Excel serial
// numbers. A blank or unreadable cell yields now.
func parseDate(s string, now time.Time) time.Time {
	if s == "" {
		return now
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t
		}
	}
	return now
}

// parseID reads a dictionary reference. The id is not checked against the
// dictionary table.
func parseID(s string) *uint {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 1 || f != math.Trunc(f) || f > math.MaxUint32 {
		return nil
	}
	id := uint(f)
	return &id
}
