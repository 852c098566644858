package profiles_test

import (
	"context"
	"testing"

	"github.com/EmpoweredVote/registrar/internal/apperr"
	"github.com/EmpoweredVote/registrar/internal/profiles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CreateListFind(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	zed := &profiles.Profile{FirstName: "Zed", LastName: "Adams", Email: " zed@example.com "}
	amy := &profiles.Profile{FirstName: "Amy", LastName: "Baker", Email: "amy@example.com"}
	require.NoError(t, f.profiles.Create(ctx, amy))
	require.NoError(t, f.profiles.Create(ctx, zed))

	assert.NotEmpty(t, zed.ID)
	assert.Equal(t, "zed@example.com", zed.Email)
	assert.Equal(t, "standard", zed.RoleHint)

	all, err := f.profiles.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Adams", all[0].LastName)

	_, err = f.profiles.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.profiles.FindByAccount(ctx, "nobody")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStore_CreateWithTakenAccount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.account(t, "x@example.com")

	id := a.ID
	require.NoError(t, f.profiles.Create(ctx, &profiles.Profile{FirstName: "One", AccountID: &id}))
	err := f.profiles.Create(ctx, &profiles.Profile{FirstName: "Two", AccountID: &id})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestStore_ListUnlinked(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.account(t, "linked@example.com")

	linked := f.profile(t, "Linked", "linked@example.com")
	_, err := f.linker.Link(ctx, linked.ID, a.ID)
	require.NoError(t, err)

	open := f.profile(t, "Open", "open@example.com")
	f.profile(t, "NoEmail", "")

	got, err := f.profiles.ListUnlinked(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, open.ID, got[0].ID)
}
