package importer

import (
	"testing"
	"time"

	"finance-ledger-backend/internal/models"
	"finance-ledger-backend/internal/spreadsheet"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := map[string]string{
		"":             "0",
		"100":          "100",
		"100.25":       "100.25",
		" 12,5 ":       "12.5",
		"1.234,56":     "1234.56",
		"1,234.56":     "1234.56",
		"1 234.50":     "1234.5",
		"1\u00a0000":   "1000",
		"-7.10":        "-7.1",
		"abc":          "0",
		"12abc":        "0",
		"1,2,3":        "0",
		"1,234":        "1234",
		"1,234,567":    "1234567",
		"1.234.567":    "1234567",
		"1.234.567,89": "1234567.89",
		"1,234,567.89": "1234567.89",
		"-1,234":       "-1234",
		"0,125":        "0.125",
		"1.234":        "1.234",
		"12,50":        "12.5",
	}
	for in, want := range cases {
		got := parseAmount(in)
		assert.True(t, got.Equal(decimal.RequireFromString(want)), "parseAmount(%q) = %s, want %s", in, got, want)
	}
}

func TestParseDate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	for _, in := range []string{"2024-03-15", "15.03.2024", "15/03/2024", "45366"} {
		got := parseDate(in, now)
		assert.True(t, want.Equal(got), "parseDate(%q) = %s", in, got)
	}
	assert.True(t, parseDate("2024-03-15T10:30:00Z", now).Equal(time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)))

	assert.Equal(t, now, parseDate("", now))
	assert.Equal(t, now, parseDate("not a date", now))
	assert.Equal(t, now, parseDate("-3", now))
}

func TestParseID(t *testing.T) {
	id := parseID("42")
	require.NotNil(t, id)
	assert.Equal(t, uint(42), *id)

	id = parseID("7.0")
	require.NotNil(t, id)
	assert.Equal(t, uint(7), *id)

	assert.Nil(t, parseID(""))
	assert.Nil(t, parseID("0"))
	assert.Nil(t, parseID("-1"))
	assert.Nil(t, parseID("2.5"))
	assert.Nil(t, parseID("dept-1"))
}

func TestMappersCoverEveryKind(t *testing.T) {
	for _, kind := range []models.RecordKind{models.KindPurchases, models.KindPayroll, models.KindSales} {
		_, ok := mappers[kind]
		assert.True(t, ok, "no mapper for %s", kind)
	}
}

func TestMapPurchase(t *testing.T) {
	batchID := uuid.New()
	now := time.Now()
	row := spreadsheet.NewRow(2, map[string]string{
		"Date":          "2024-01-31",
		"InvoiceNumber": " INV-1 ",
		"Description":   "office chairs",
		"netAmount":     "100",
		"vatAmount":     "20",
		"grossAmount":   "120",
		"departmentId":  "3",
		"contractorId":  "999999",
	})

	rec, ok := mapPurchase(row, batchID, now).(*models.PurchaseRecord)
	require.True(t, ok)
	assert.Equal(t, batchID, rec.ImportBatchID)
	assert.Equal(t, 2, rec.SourceRow)
	assert.Equal(t, "INV-1", rec.InvoiceNumber)
	assert.Equal(t, "office chairs", rec.Description)
	assert.True(t, rec.GrossAmount.Equal(decimal.NewFromInt(120)))
	require.NotNil(t, rec.DepartmentID)
	assert.Equal(t, uint(3), *rec.DepartmentID)
	// unknown dictionary ids are kept as-is
	require.NotNil(t, rec.ContractorID)
	assert.Equal(t, uint(999999), *rec.ContractorID)
	assert.Nil(t, rec.GroupID)
	assert.Nil(t, rec.CostCategoryID)
}

func TestMapPayrollDefaults(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	row := spreadsheet.NewRow(5, map[string]string{"grossAmount": "5000"})

	rec, ok := mapPayroll(row, uuid.New(), now).(*models.PayrollRecord)
	require.True(t, ok)
	assert.Equal(t, now, rec.Date)
	assert.Equal(t, "", rec.EmployeeName)
	assert.True(t, rec.GrossAmount.Equal(decimal.NewFromInt(5000)))
	assert.True(t, rec.NetAmount.IsZero())
	assert.True(t, rec.TaxAmount.IsZero())
	assert.Nil(t, rec.DepartmentID)
}

func TestMapSale(t *testing.T) {
	row := spreadsheet.NewRow(3, map[string]string{
		"description":   "consulting",
		"netAmount":     "1.000,00",
		"serviceTypeId": "4",
	})

	rec, ok := mapSale(row, uuid.New(), time.Now()).(*models.SaleRecord)
	require.True(t, ok)
	assert.Equal(t, "consulting", rec.Description)
	assert.True(t, rec.NetAmount.Equal(decimal.NewFromInt(1000)))
	require.NotNil(t, rec.ServiceTypeID)
	assert.Equal(t, uint(4), *rec.ServiceTypeID)
}
