package models

import (
	"fmt"
	"strings"
)

// RecordKind is the declared ledger type of an uploaded spreadsheet.
type RecordKind string

const (
	KindPurchases RecordKind = "purchases"
	KindPayroll   RecordKind = "payroll"
	KindSales     RecordKind = "sales"
)

type kindInfo struct {
	model func() LedgerRecord
	slice func() any
}

var kinds = map[RecordKind]kindInfo{
	KindPurchases: {
		model: func() LedgerRecord { return &PurchaseRecord{} },
		slice: func() any { return &[]PurchaseRecord{} },
	},
	KindPayroll: {
		model: func() LedgerRecord { return &PayrollRecord{} },
		slice: func() any { return &[]PayrollRecord{} },
	},
	KindSales: {
		model: func() LedgerRecord { return &SaleRecord{} },
		slice: func() any { return &[]SaleRecord{} },
	},
}

// ParseRecordKind accepts the plural wire names as well as their singular forms.
func ParseRecordKind(s string) (RecordKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "purchases", "purchase":
		return KindPurchases, nil
	case "payroll":
		return KindPayroll, nil
	case "sales", "sale":
		return KindSales, nil
	}
	return "", fmt.Errorf("unknown record kind %q", s)
}

func (k RecordKind) Valid() bool {
	_, ok := kinds[k]
	return ok
}

// Model returns an empty record of the kind, usable as a gorm model target.
func (k RecordKind) Model() LedgerRecord {
	return kinds[k].model()
}

// NewSlice returns a pointer to an empty slice of the kind's record type.
func (k RecordKind) NewSlice() any {
	return kinds[k].slice()
}

func (k RecordKind) String() string {
	return string(k)
}
