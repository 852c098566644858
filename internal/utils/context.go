package utils

import (
	"context"

	"github.com/EmpoweredVote/registrar/internal/accounts"
)

type contextKey string

const ContextAccountKey contextKey = "account"

// WithAccount stores the authenticated account on ctx.
func WithAccount(ctx context.Context, acct *accounts.Account) context.Context {
	return context.WithValue(ctx, ContextAccountKey, acct)
}

func GetAccountFromContext(ctx context.Context) (*accounts.Account, bool) {
	acct, ok := ctx.Value(ContextAccountKey).(*accounts.Account)
	return acct, ok && acct != nil
}
