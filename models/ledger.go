package models

import "time"

const (
	ProjectInventoryTable = "jumbly_project_inventory"
	TransactionTable      = "jumbly_transactions"
)

// Ledger actions. Every audit row carries exactly one of these.
const (
	ActionBorrow = "borrow"
	ActionReturn = "return"
)

// ProjectInventory is the materialized balance: how many units of an item are
// currently checked out to a project. A row only exists while quantity > 0; the
// last return deletes it, so row absence means "no allocation".
type ProjectInventory struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID string `gorm:"type:uuid;index;not null" json:"project_id"`
	ItemID    string `gorm:"type:uuid;index;not null" json:"item_id"`
	Quantity  int64  `gorm:"not null" json:"quantity"` // > 0 while the row exists

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Transaction is one append-only ledger entry. Rows are never updated or deleted
// through normal operation; the log is the audit trail the materialized balances
// can be checked against.
type Transaction struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"transaction_id"`
	TenantID  string    `gorm:"type:uuid;index;not null" json:"tenant_id"`
	ItemID    string    `gorm:"type:uuid;index;not null" json:"item_id"`
	ProjectID string    `gorm:"type:uuid;index;not null" json:"project_id"`
	Quantity  int64     `gorm:"not null" json:"quantity"` // >= 1
	Action    string    `gorm:"size:10;not null" json:"action"`
	Date      time.Time `gorm:"index;not null" json:"date"`

	CreatedAt time.Time `json:"created_at"`

	Item    *Item    `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

func (ProjectInventory) TableName() string { return ProjectInventoryTable }
func (Transaction) TableName() string      { return TransactionTable }
