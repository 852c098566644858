package profiles

import (
	"context"
	"log/slog"

	"github.com/EmpoweredVote/registrar/internal/accounts"
	"github.com/EmpoweredVote/registrar/internal/apperr"
)

// EmailFinder resolves an email to its account.
type EmailFinder interface {
	FindByEmail(ctx context.Context, email string) (*accounts.Account, error)
}

// BackfillResult counts what LinkByEmail did with each unlinked profile.
type BackfillResult struct {
	Linked    int
	Unmatched int
	Conflicts int
}

// LinkByEmail links every unlinked profile to the account registered under
// the same email, compared case-insensitively. Profiles with no matching
// account are left alone; so are matches whose account already owns another
// profile. With dryRun set nothing is written.
func (l *Linker) LinkByEmail(ctx context.Context, finder EmailFinder, dryRun bool) (BackfillResult, error) {
	var res BackfillResult

	unlinked, err := l.profiles.ListUnlinked(ctx)
	if err != nil {
		return res, err
	}

	for _, p := range unlinked {
		acct, err := finder.FindByEmail(ctx, p.Email)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound {
				res.Unmatched++
				continue
			}
			return res, err
		}

		if dryRun {
			res.Linked++
			continue
		}

		if _, err := l.Link(ctx, p.ID, acct.ID); err != nil {
			if apperr.KindOf(err) == apperr.KindConflict {
				slog.WarnContext(ctx, "profile not linked",
					"profile_id", p.ID,
					"account_id", acct.ID,
					"reason", apperr.Message(err),
				)
				res.Conflicts++
				continue
			}
			return res, err
		}
		res.Linked++
	}
	return res, nil
}
