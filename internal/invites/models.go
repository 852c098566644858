package invites

import "time"

// Invite is a single-use code that authorizes creating an elevated account.
type Invite struct {
	Code      string     `gorm:"primaryKey" json:"code"`
	CreatedBy *string    `gorm:"index" json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	Used      bool       `gorm:"not null;default:false;index" json:"used"`
	UsedBy    *string    `json:"used_by"`
	UsedAt    *time.Time `json:"used_at"`
}

func (Invite) TableName() string { return "invites" }
