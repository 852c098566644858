package seeds_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/EmpoweredVote/registrar/internal/db/dbtest"
	"github.com/EmpoweredVote/registrar/internal/invites"
	"github.com/EmpoweredVote/registrar/internal/profiles"
	"github.com/EmpoweredVote/registrar/internal/seeds"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeed(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadProfiles_CSV(t *testing.T) {
	path := writeSeed(t, "students.csv", "first_name,last_name,email,phone,city\n"+
		"Bob, Jones ,bob@example.com,555-0100,Springfield\n"+
		"Ann,Adams,,,\n")

	rows, err := seeds.LoadProfiles(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Jones", rows[0].LastName)
	assert.Equal(t, "bob@example.com", rows[0].Email)
	require.NotNil(t, rows[0].Phone)
	assert.Equal(t, "555-0100", *rows[0].Phone)
	assert.Equal(t, "Springfield", rows[0].City)
	assert.Nil(t, rows[1].Phone)
	assert.Empty(t, rows[1].ID)
}

func TestLoadProfiles_CSVMissingColumn(t *testing.T) {
	path := writeSeed(t, "bad.csv", "first_name,email\nBob,bob@example.com\n")
	_, err := seeds.LoadProfiles(path)
	assert.ErrorContains(t, err, "last_name")
}

func TestLoadProfiles_YAMLAndJSON(t *testing.T) {
	yml := writeSeed(t, "students.yaml", `
- id: p-1
  first_name: Cara
  last_name: Diaz
  email: cara@example.com
- first_name: Dan
  last_name: Evans
`)
	rows, err := seeds.LoadProfiles(yml)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "p-1", rows[0].ID)
	assert.Equal(t, "Evans", rows[1].LastName)

	js := writeSeed(t, "students.json", `[{"first_name":"Fay","last_name":"Gray","phone":"555"}]`)
	rows, err = seeds.LoadProfiles(js)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].Phone)
	assert.Equal(t, "555", *rows[0].Phone)

	_, err = seeds.LoadProfiles(writeSeed(t, "students.txt", ""))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, seeds.Validate([]seeds.ProfileSeed{
		{FirstName: "A", LastName: "B"},
		{ID: "x", FirstName: "C", LastName: "D"},
	}))

	err := seeds.Validate([]seeds.ProfileSeed{
		{ID: "x", FirstName: "A", LastName: "B"},
		{ID: "x", FirstName: "C", LastName: "D"},
		{FirstName: "NoLast"},
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "row 2")
	assert.ErrorContains(t, err, "row 3")
}

func TestSeedProfiles_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := profiles.NewStore(dbtest.Open(t, &profiles.Profile{}))
	rows := []seeds.ProfileSeed{
		{ID: "p-1", FirstName: "Cara", LastName: "Diaz", Email: " cara@example.com "},
		{ID: "p-2", FirstName: "Dan", LastName: "Evans"},
	}

	c, err := seeds.SeedProfiles(ctx, store, rows)
	require.NoError(t, err)
	assert.Equal(t, seeds.Counts{Created: 2}, c)

	c, err = seeds.SeedProfiles(ctx, store, rows)
	require.NoError(t, err)
	assert.Equal(t, seeds.Counts{Skipped: 2}, c)

	p, err := store.FindByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "cara@example.com", p.Email)
	assert.Nil(t, p.AccountID)
}

func TestBootstrapInvite(t *testing.T) {
	ctx := context.Background()
	ledger := invites.NewLedger(dbtest.Open(t, &invites.Invite{}))

	code, existed, err := seeds.BootstrapInvite(ctx, ledger, "")
	require.NoError(t, err)
	assert.False(t, existed)
	assert.Len(t, code, 16)

	code, existed, err = seeds.BootstrapInvite(ctx, ledger, "ABC123")
	require.NoError(t, err)
	assert.False(t, existed)
	assert.Equal(t, "ABC123", code)

	_, existed, err = seeds.BootstrapInvite(ctx, ledger, "ABC123")
	require.NoError(t, err)
	assert.True(t, existed)

	inv, err := ledger.Lookup(ctx, "ABC123")
	require.NoError(t, err)
	assert.Nil(t, inv.CreatedBy)
	assert.False(t, inv.Used)
}
