package models

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&Department{},
		&Group{},
		&ServiceType{},
		&Contractor{},
		&CostCategory{},
		&ImportBatch{},
		&PurchaseRecord{},
		&PayrollRecord{},
		&SaleRecord{},
	}
}
