// Package invites owns the invite ledger: single-use codes that gate creation
// of elevated accounts.
package invites

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/EmpoweredVote/registrar/internal/apperr"
	"gorm.io/gorm"
)

// codeBytes is the entropy per generated code; codes are its lower-case hex.
const codeBytes = 8

type Ledger struct {
	db  *gorm.DB
	now func() time.Time
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db, now: time.Now}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Invite{})
}

// Create mints a random code on behalf of issuerID. A nil issuer marks a
// bootstrap code minted outside the HTTP surface.
func (l *Ledger) Create(ctx context.Context, issuerID *string) (string, error) {
	code, err := newCode()
	if err != nil {
		return "", err
	}
	if err := l.insert(ctx, issuerID, code); err != nil {
		return "", err
	}
	return code, nil
}

// CreateWithCode stores a caller-chosen code.
func (l *Ledger) CreateWithCode(ctx context.Context, issuerID *string, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return apperr.InvalidInput("invite code is empty")
	}
	return l.insert(ctx, issuerID, code)
}

func (l *Ledger) insert(ctx context.Context, issuerID *string, code string) error {
	inv := Invite{Code: code, CreatedBy: issuerID, CreatedAt: l.now()}
	if err := l.db.WithContext(ctx).Create(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("invite code already exists")
		}
		return apperr.Storage("create invite", err)
	}
	return nil
}

// Lookup reads an invite without changing it.
func (l *Ledger) Lookup(ctx context.Context, code string) (*Invite, error) {
	var inv Invite
	err := l.db.WithContext(ctx).Where("code = ?", code).Take(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("invite code not found")
		}
		return nil, apperr.Storage("lookup invite", err)
	}
	return &inv, nil
}

// Redeem marks code used by consumerID. The flip is a single conditional
// UPDATE guarded by used = false, so of any number of concurrent calls for
// the same code exactly one succeeds. Losers get Conflict; unknown codes get
// NotFound.
func (l *Ledger) Redeem(ctx context.Context, code, consumerID string) error {
	now := l.now()
	res := l.db.WithContext(ctx).
		Model(&Invite{}).
		Where("code = ? AND used = ?", code, false).
		Updates(map[string]any{
			"used":    true,
			"used_by": consumerID,
			"used_at": now,
		})
	if res.Error != nil {
		return apperr.Storage("redeem invite", res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	if _, err := l.Lookup(ctx, code); err != nil {
		return err
	}
	return apperr.Conflict("invite code already used")
}

// List returns every invite, newest first.
func (l *Ledger) List(ctx context.Context) ([]Invite, error) {
	var out []Invite
	if err := l.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, apperr.Storage("list invites", err)
	}
	return out, nil
}

func newCode() (string, error) {
	b := make([]byte, codeBytes)
	if _, err := rand.Read(b); err != nil {
		return "", apperr.Storage("generate invite code", err)
	}
	return hex.EncodeToString(b), nil
}
