package models

import "time"

// DictionaryEntry holds the columns shared by every reference dictionary.
// Ledger records point at entries by id only.
type DictionaryEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:150;not null" json:"name"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Department struct {
	DictionaryEntry
}

type Group struct {
	DictionaryEntry
}

type ServiceType struct {
	DictionaryEntry
}

type Contractor struct {
	DictionaryEntry
	TaxID string `gorm:"size:32;index" json:"taxId"`
}

type CostCategory struct {
	DictionaryEntry
}

// Dictionary is implemented by pointers to every dictionary model.
type Dictionary interface {
	Entry() *DictionaryEntry
}

func (e *DictionaryEntry) Entry() *DictionaryEntry {
	return e
}
