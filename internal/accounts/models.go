package accounts

import "time"

// Role is an account's privilege level.
type Role string

const (
	RoleStandard Role = "standard"
	RoleElevated Role = "elevated"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleStandard || r == RoleElevated
}

type Account struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         Role      `gorm:"not null;default:'standard'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Account) TableName() string { return "accounts" }
