package models

import "time"

const (
	ItemTable    = "jumbly_items"
	ProjectTable = "jumbly_projects"
)

// Item is one line of the tenant-wide inventory pool. Quantity is the number of
// units currently available for allocation, never what is checked out.
type Item struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"item_id"`
	TenantID    string `gorm:"type:uuid;index;not null" json:"tenant_id"`
	Name        string `gorm:"size:200;not null" json:"name"`
	Quantity    int64  `gorm:"not null;default:0" json:"quantity"` // pool units, >= 0
	Description string `gorm:"size:500" json:"description,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Project is an allocation target. Task and schedule bookkeeping lives elsewhere;
// the ledger only needs the project row to exist.
type Project struct {
	ID          string  `gorm:"type:uuid;primaryKey" json:"project_id"`
	TenantID    string  `gorm:"type:uuid;index;not null" json:"tenant_id"`
	ClientID    *string `gorm:"type:uuid" json:"client_id,omitempty"`
	StatusID    string  `gorm:"size:30;not null;default:'active'" json:"status_id"`
	Name        string  `gorm:"size:200;not null" json:"name"`
	Description string  `gorm:"size:500" json:"description,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Item) TableName() string    { return ItemTable }
func (Project) TableName() string { return ProjectTable }
