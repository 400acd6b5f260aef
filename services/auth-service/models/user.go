package models

import (
	"time"

	"gorm.io/gorm"
)

// Staff roles. Exactly one role per staff account; auditor is read-only.
const (
	RoleSuperAdmin   = "super_admin"
	RoleCyberAdmin   = "cyber_admin"
	RoleSupportAgent = "support_agent"
	RoleAuditor      = "auditor"
)

var validRoles = map[string]bool{
	RoleSuperAdmin:   true,
	RoleCyberAdmin:   true,
	RoleSupportAgent: true,
	RoleAuditor:      true,
}

func ValidRole(role string) bool { return validRoles[role] }

type Profile struct {
	ID        string         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	FullName  string         `gorm:"not null" json:"full_name"`
	Active    bool           `gorm:"default:true" json:"active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type UserRole struct {
	ID     string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID string `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Role   string `gorm:"not null" json:"role"`
}
