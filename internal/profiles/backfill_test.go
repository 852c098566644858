package profiles_test

import (
	"context"
	"testing"

	"github.com/EmpoweredVote/registrar/internal/profiles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkByEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	bob := f.account(t, "bob@example.com")
	ann := f.account(t, "ann@example.com")

	pBob := f.profile(t, "Bob", "Bob@Example.com")
	pAnn := f.profile(t, "Ann", "ann@example.com")
	pAnnDup := f.profile(t, "Annie", "ANN@example.com")
	pNobody := f.profile(t, "Zed", "zed@example.com")
	f.profile(t, "NoEmail", "")

	dry, err := f.linker.LinkByEmail(ctx, f.accounts, true)
	require.NoError(t, err)
	assert.Equal(t, profiles.BackfillResult{Linked: 3, Unmatched: 1}, dry)

	unlinked, err := f.profiles.ListUnlinked(ctx)
	require.NoError(t, err)
	assert.Len(t, unlinked, 4)

	res, err := f.linker.LinkByEmail(ctx, f.accounts, false)
	require.NoError(t, err)
	assert.Equal(t, profiles.BackfillResult{Linked: 2, Unmatched: 1, Conflicts: 1}, res)

	got, err := f.profiles.FindByID(ctx, pBob.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AccountID)
	assert.Equal(t, bob.ID, *got.AccountID)

	owner, err := f.profiles.FindByAccount(ctx, ann.ID)
	require.NoError(t, err)
	assert.Contains(t, []string{pAnn.ID, pAnnDup.ID}, owner.ID)

	got, err = f.profiles.FindByID(ctx, pNobody.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AccountID)

	// A second run finds only the leftovers.
	res, err = f.linker.LinkByEmail(ctx, f.accounts, false)
	require.NoError(t, err)
	assert.Equal(t, profiles.BackfillResult{Unmatched: 1, Conflicts: 1}, res)
}
