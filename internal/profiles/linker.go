package profiles

import (
	"context"
	"errors"

	"github.com/EmpoweredVote/registrar/internal/accounts"
	"github.com/EmpoweredVote/registrar/internal/apperr"
	"gorm.io/gorm"
)

// AccountFinder is the slice of the credential store the linker needs.
type AccountFinder interface {
	FindByID(ctx context.Context, id string) (*accounts.Account, error)
}

// Linker sets a profile's account back-reference while keeping the
// profile/account relation one-to-one.
type Linker struct {
	db       *gorm.DB
	profiles *Store
	accounts AccountFinder
}

func NewLinker(db *gorm.DB, profiles *Store, accts AccountFinder) *Linker {
	return &Linker{db: db, profiles: profiles, accounts: accts}
}

// Link points profileID at accountID.
//
// The write is a single UPDATE that only matches while the profile is
// unlinked (or already linked to this same account); the unique index on
// account_id rejects an account that is linked elsewhere. Two racing links
// against the same profile or account therefore cannot both succeed.
func (l *Linker) Link(ctx context.Context, profileID, accountID string) (*Profile, error) {
	if profileID == "" || accountID == "" {
		return nil, apperr.InvalidInput("profile id and account id are required")
	}
	if _, err := l.accounts.FindByID(ctx, accountID); err != nil {
		return nil, err
	}

	res := l.db.WithContext(ctx).
		Model(&Profile{}).
		Where("id = ? AND (account_id IS NULL OR account_id = ?)", profileID, accountID).
		Update("account_id", accountID)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("account already linked to another profile")
		}
		return nil, apperr.Storage("link profile", res.Error)
	}

	if res.RowsAffected == 0 {
		// Either the profile is missing or it belongs to someone else.
		if _, err := l.profiles.FindByID(ctx, profileID); err != nil {
			return nil, err
		}
		return nil, apperr.Conflict("profile already linked to another account")
	}

	return l.profiles.FindByID(ctx, profileID)
}
