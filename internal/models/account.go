package models

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies which token scheme and account family a principal belongs to.
type Role string

const (
	RoleUser  Role = "user"
	RoleChef  Role = "chef"
	RoleAdmin Role = "admin"
)

// NumberPrefix returns the prefix of the human readable account number (USER001, CHEF001...).
func (r Role) NumberPrefix() string {
	switch r {
	case RoleChef:
		return "CHEF"
	case RoleAdmin:
		return "ADMIN"
	default:
		return "USER"
	}
}

// Label is the capitalized role name used in user facing messages.
func (r Role) Label() string {
	switch r {
	case RoleChef:
		return "Chef"
	case RoleAdmin:
		return "Admin"
	default:
		return "User"
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleChef || r == RoleAdmin
}

// Account is a registered principal. Users, chefs and the admin share the
// same shape and are told apart by Role; email, username and number are
// unique within a role.
type Account struct {
	ID           string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Role         Role      `gorm:"size:16;not null;uniqueIndex:idx_accounts_role_email;uniqueIndex:idx_accounts_role_username" bson:"role" json:"role"`
	Username     string    `gorm:"not null;uniqueIndex:idx_accounts_role_username" bson:"username" json:"username"`
	Email        string    `gorm:"not null;uniqueIndex:idx_accounts_role_email" bson:"email" json:"email"`
	PasswordHash string    `gorm:"not null" bson:"passwordHash" json:"-"`
	Number       string    `gorm:"size:32;not null;uniqueIndex" bson:"number" json:"number"`
	IsActive     bool      `gorm:"not null" bson:"isActive" json:"isActive"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"-"`
}

// NewID returns a new random identifier for any stored entity.
func NewID() string {
	return uuid.NewString()
}
