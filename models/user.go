package models

import "time"

const (
	TenantTable = "jumbly_tenants"
	RoleTable   = "jumbly_roles"
	UserTable   = "jumbly_users"
)

// Role names seeded at migration time.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type Tenant struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"tenant_id"`
	Name      string    `gorm:"size:200;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Role struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"role_id"`
	Name        string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"size:255" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type User struct {
	ID           string `gorm:"type:uuid;primaryKey" json:"user_id"`
	TenantID     string `gorm:"type:uuid;index;not null" json:"tenant_id"`
	RoleID       string `gorm:"type:uuid;index;not null" json:"role_id"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string `gorm:"size:100;not null" json:"-"`
	FirstName    string `gorm:"size:100" json:"first_name,omitempty"`
	LastName     string `gorm:"size:100" json:"last_name,omitempty"`

	LastLoginAt *time.Time `gorm:"index" json:"last_login_at,omitempty"`
	LastSeenAt  *time.Time `gorm:"index" json:"last_seen_at,omitempty"`
	LoginCount  int64      `gorm:"not null;default:0" json:"login_count"`
	LastLoginIP string     `gorm:"size:45" json:"-"`
	LastLoginUA string     `gorm:"size:255" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Role *Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

func (Tenant) TableName() string { return TenantTable }
func (Role) TableName() string   { return RoleTable }
func (User) TableName() string   { return UserTable }

func (u *User) IsAdmin() bool { return u.Role != nil && u.Role.Name == RoleAdmin }
