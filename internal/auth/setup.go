package auth

import (
	"fmt"

	"github.com/EmpoweredVote/registrar/internal/accounts"
	"github.com/EmpoweredVote/registrar/internal/invites"
	"github.com/EmpoweredVote/registrar/internal/profiles"
	"gorm.io/gorm"
)

// Migrate brings every table the gateway depends on up to date. Accounts go
// first; invites and profiles refer to account ids.
func Migrate(db *gorm.DB) error {
	steps := []struct {
		name string
		fn   func(*gorm.DB) error
	}{
		{"accounts", accounts.Migrate},
		{"invites", invites.Migrate},
		{"profiles", profiles.Migrate},
	}
	for _, s := range steps {
		if err := s.fn(db); err != nil {
			return fmt.Errorf("auto-migrate %s: %w", s.name, err)
		}
	}
	return nil
}
