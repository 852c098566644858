// Package seeds loads student profiles from CSV, YAML or JSON files and
// mints the bootstrap invite that lets the first elevated account register.
package seeds

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/EmpoweredVote/registrar/internal/apperr"
	"github.com/EmpoweredVote/registrar/internal/profiles"
)

// ProfileSeed is one row of a seed file.
type ProfileSeed struct {
	ID         string  `yaml:"id" json:"id"`
	FirstName  string  `yaml:"first_name" json:"first_name"`
	LastName   string  `yaml:"last_name" json:"last_name"`
	Email      string  `yaml:"email" json:"email"`
	Phone      *string `yaml:"phone" json:"phone"`
	StreetAddr string  `yaml:"street_addr" json:"street_addr"`
	City       string  `yaml:"city" json:"city"`
	State      string  `yaml:"state" json:"state"`
	Country    string  `yaml:"country" json:"country"`
}

func (s ProfileSeed) profile() *profiles.Profile {
	return &profiles.Profile{
		ID:         strings.TrimSpace(s.ID),
		FirstName:  strings.TrimSpace(s.FirstName),
		LastName:   strings.TrimSpace(s.LastName),
		Email:      strings.TrimSpace(s.Email),
		Phone:      s.Phone,
		StreetAddr: strings.TrimSpace(s.StreetAddr),
		City:       strings.TrimSpace(s.City),
		State:      strings.TrimSpace(s.State),
		Country:    strings.TrimSpace(s.Country),
	}
}

// ProfileCreator is the part of the profile store seeding writes through.
type ProfileCreator interface {
	Create(ctx context.Context, p *profiles.Profile) error
}

// Counts summarizes a seeding run.
type Counts struct {
	Created int
	Skipped int
}

// Validate rejects rows without a name and rows that repeat an id.
func Validate(rows []ProfileSeed) error {
	seen := map[string]int{}
	var errs []error
	for i, r := range rows {
		line := i + 1
		if strings.TrimSpace(r.FirstName) == "" || strings.TrimSpace(r.LastName) == "" {
			errs = append(errs, fmt.Errorf("row %d: first_name and last_name are required", line))
		}
		id := strings.TrimSpace(r.ID)
		if id == "" {
			continue
		}
		if prev, dup := seen[id]; dup {
			errs = append(errs, fmt.Errorf("row %d: id %q already used on row %d", line, id, prev))
			continue
		}
		seen[id] = line
	}
	return errors.Join(errs...)
}

// SeedProfiles inserts rows in order. Rows whose id already exists are
// skipped, so a file with stable ids can be applied repeatedly.
func SeedProfiles(ctx context.Context, store ProfileCreator, rows []ProfileSeed) (Counts, error) {
	var c Counts
	for _, r := range rows {
		p := r.profile()
		err := store.Create(ctx, p)
		switch {
		case err == nil:
			c.Created++
		case apperr.KindOf(err) == apperr.KindConflict:
			slog.InfoContext(ctx, "profile exists, skipping", "id", p.ID, "name", p.FirstName+" "+p.LastName)
			c.Skipped++
		default:
			return c, fmt.Errorf("create profile %s %s: %w", p.FirstName, p.LastName, err)
		}
	}
	return c, nil
}
