package seeds

import (
	"context"
	"strings"

	"github.com/EmpoweredVote/registrar/internal/apperr"
)

// InviteMinter is the part of the invite ledger the bootstrap needs.
type InviteMinter interface {
	Create(ctx context.Context, issuerID *string) (string, error)
	CreateWithCode(ctx context.Context, issuerID *string, code string) error
}

// BootstrapInvite mints an issuer-less invite. With code empty a random code
// is generated; otherwise code is stored as given. existed reports that the
// chosen code was already in the ledger, which is not an error.
func BootstrapInvite(ctx context.Context, ledger InviteMinter, code string) (minted string, existed bool, err error) {
	code = strings.TrimSpace(code)
	if code == "" {
		minted, err = ledger.Create(ctx, nil)
		return minted, false, err
	}

	if err := ledger.CreateWithCode(ctx, nil, code); err != nil {
		if apperr.KindOf(err) == apperr.KindConflict {
			return code, true, nil
		}
		return "", false, err
	}
	return code, false, nil
}
