package accounts

import (
	"context"
	"errors"

	"github.com/EmpoweredVote/registrar/internal/apperr"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store persists accounts. It is safe for concurrent use.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the accounts table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Account{})
}

// CreateAccount stores a new account under the normalized email. The unique
// index decides races between concurrent registrations of the same address.
func (s *Store) CreateAccount(ctx context.Context, email, passwordHash string, role Role) (*Account, error) {
	acct := &Account{
		ID:           uuid.NewString(),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		Role:         role,
	}
	if err := s.db.WithContext(ctx).Create(acct).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("email already registered")
		}
		return nil, apperr.Storage("create account", err)
	}
	return acct, nil
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*Account, error) {
	var acct Account
	err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).Take(&acct).Error
	if err != nil {
		return nil, notFoundOr(err, "find account by email")
	}
	return &acct, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*Account, error) {
	var acct Account
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&acct).Error
	if err != nil {
		return nil, notFoundOr(err, "find account by id")
	}
	return &acct, nil
}

// DeleteAccount removes an account. Deleting a missing id is not an error.
func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Account{}).Error; err != nil {
		return apperr.Storage("delete account", err)
	}
	return nil
}

// List returns all accounts, oldest first.
func (s *Store) List(ctx context.Context) ([]Account, error) {
	var out []Account
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&out).Error; err != nil {
		return nil, apperr.Storage("list accounts", err)
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&Account{}).Count(&n).Error; err != nil {
		return 0, apperr.Storage("count accounts", err)
	}
	return n, nil
}

func notFoundOr(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("account not found")
	}
	return apperr.Storage(op, err)
}
