package profiles

import "time"

// Profile is a student's descriptive record. AccountID is the optional
// one-to-one back-reference to the account that owns it.
type Profile struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	AccountID  *string   `gorm:"uniqueIndex" json:"account_id"`
	FirstName  string    `gorm:"not null;default:''" json:"first_name"`
	LastName   string    `gorm:"not null;default:''" json:"last_name"`
	Email      string    `gorm:"not null;default:'';index" json:"email"`
	Phone      *string   `json:"phone"`
	StreetAddr string    `gorm:"not null;default:''" json:"street_addr"`
	City       string    `gorm:"not null;default:''" json:"city"`
	State      string    `gorm:"not null;default:''" json:"state"`
	Country    string    `gorm:"not null;default:''" json:"country"`
	RoleHint   string    `gorm:"not null;default:'standard'" json:"role_hint"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Profile) TableName() string { return "profiles" }
