package profiles

import (
	"context"
	"errors"
	"strings"

	"github.com/EmpoweredVote/registrar/internal/apperr"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store is the profile table. Profile lifecycle belongs to admins; the only
// field the auth core writes is AccountID, through Linker.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Profile{})
}

// Create inserts p, assigning an id when p.ID is empty.
func (s *Store) Create(ctx context.Context, p *Profile) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.Email = strings.TrimSpace(p.Email)
	if p.RoleHint == "" {
		p.RoleHint = "standard"
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("profile already exists or account already linked")
		}
		return apperr.Storage("create profile", err)
	}
	return nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*Profile, error) {
	var p Profile
	if err := s.db.WithContext(ctx).Where("id = ?", id).Take(&p).Error; err != nil {
		return nil, notFoundOr(err, "find profile")
	}
	return &p, nil
}

// FindByAccount returns the profile linked to accountID.
func (s *Store) FindByAccount(ctx context.Context, accountID string) (*Profile, error) {
	var p Profile
	if err := s.db.WithContext(ctx).Where("account_id = ?", accountID).Take(&p).Error; err != nil {
		return nil, notFoundOr(err, "find profile by account")
	}
	return &p, nil
}

// List returns all profiles ordered by last then first name.
func (s *Store) List(ctx context.Context) ([]Profile, error) {
	var out []Profile
	if err := s.db.WithContext(ctx).Order("last_name, first_name, id").Find(&out).Error; err != nil {
		return nil, apperr.Storage("list profiles", err)
	}
	return out, nil
}

// ListUnlinked returns profiles with no account and a non-empty email.
func (s *Store) ListUnlinked(ctx context.Context) ([]Profile, error) {
	var out []Profile
	err := s.db.WithContext(ctx).
		Where("account_id IS NULL AND email <> ''").
		Order("id").
		Find(&out).Error
	if err != nil {
		return nil, apperr.Storage("list unlinked profiles", err)
	}
	return out, nil
}

func notFoundOr(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("profile not found")
	}
	return apperr.Storage(op, err)
}
