// Package auth is the auth gateway: registration, login, session checks and
// role enforcement, coordinating the credential store, the invite ledger, the
// identity linker and the token service.
package auth

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/EmpoweredVote/registrar/internal/accounts"
	"github.com/EmpoweredVote/registrar/internal/apperr"
	"github.com/EmpoweredVote/registrar/internal/invites"
	"github.com/EmpoweredVote/registrar/internal/profiles"
	"github.com/EmpoweredVote/registrar/internal/tokens"
)

type AccountStore interface {
	CreateAccount(ctx context.Context, email, passwordHash string, role accounts.Role) (*accounts.Account, error)
	FindByEmail(ctx context.Context, email string) (*accounts.Account, error)
	FindByID(ctx context.Context, id string) (*accounts.Account, error)
	DeleteAccount(ctx context.Context, id string) error
}

type InviteLedger interface {
	Lookup(ctx context.Context, code string) (*invites.Invite, error)
	Redeem(ctx context.Context, code, consumerID string) error
}

type ProfileLinker interface {
	Link(ctx context.Context, profileID, accountID string) (*profiles.Profile, error)
}

type TokenService interface {
	Issue(c tokens.Claims) (string, error)
	Verify(raw string) (tokens.Claims, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// Gateway holds no mutable state of its own; storage is the single source of
// truth and the synchronization point between requests.
type Gateway struct {
	accounts AccountStore
	invites  InviteLedger
	linker   ProfileLinker
	tokens   TokenService
	hasher   PasswordHasher
	log      *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

type Deps struct {
	Accounts AccountStore
	Invites  InviteLedger
	Linker   ProfileLinker
	Tokens   TokenService
	Hasher   PasswordHasher
	Logger   *slog.Logger
}

func NewGateway(d Deps) *Gateway {
	lg := d.Logger
	if lg == nil {
		lg = slog.Default()
	}
	return &Gateway{
		accounts: d.Accounts,
		invites:  d.Invites,
		linker:   d.Linker,
		tokens:   d.Tokens,
		hasher:   d.Hasher,
		log:      lg.With("module", "auth"),
	}
}

// RegisterInput is a registration request. StudentProfileID is honored only
// for standard accounts; InviteCode is required for elevated ones.
type RegisterInput struct {
	Email            string
	Password         string
	Role             accounts.Role
	StudentProfileID string
	InviteCode       string
}

// Session is the result of a successful register or login.
type Session struct {
	Account   *accounts.Account
	Token     string
	ExpiresAt time.Time
}

// Register creates an account and returns a session for it.
//
// Elevated path: validate inputs, check the invite is unused, create the
// account, redeem the invite for the new account id, issue a token. Standard
// path with a profile id: create the account, link the profile, issue a token.
// Any failure after the account exists deletes it again.
func (g *Gateway) Register(ctx context.Context, in RegisterInput) (sess *Session, err error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, apperr.InvalidInput("email and password required")
	}
	role := in.Role
	if role == "" {
		role = accounts.RoleStandard
	}
	if !role.Valid() {
		return nil, apperr.InvalidInput("unknown role")
	}

	code := strings.TrimSpace(in.InviteCode)
	if role == accounts.RoleElevated {
		if err := g.checkInvite(ctx, code); err != nil {
			return nil, err
		}
	}

	hash, err := g.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	acct, err := g.accounts.CreateAccount(ctx, email, hash, role)
	if err != nil {
		return nil, err
	}

	rb := &rollback{log: g.log}
	rb.add("delete account", func(ctx context.Context) error {
		return g.accounts.DeleteAccount(ctx, acct.ID)
	})
	defer func() {
		if err != nil {
			g.log.WarnContext(ctx, "registration aborted",
				"operation", "register",
				"account_id", acct.ID,
				"error", err,
			)
			rb.unwind(ctx, err)
		}
	}()

	switch {
	case role == accounts.RoleElevated:
		if err = g.invites.Redeem(ctx, code, acct.ID); err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound {
				err = apperr.InvalidInput("invalid invite code")
			}
			return nil, err
		}
	case strings.TrimSpace(in.StudentProfileID) != "":
		if _, err = g.linker.Link(ctx, strings.TrimSpace(in.StudentProfileID), acct.ID); err != nil {
			return nil, err
		}
	}

	sess, err = g.issue(acct)
	if err != nil {
		return nil, err
	}

	g.log.InfoContext(ctx, "account registered",
		"operation", "register",
		"account_id", acct.ID,
		"role", acct.Role,
	)
	return sess, nil
}

// checkInvite rejects a missing, unknown or used code before any account is
// created. Redeem re-checks atomically afterwards.
func (g *Gateway) checkInvite(ctx context.Context, code string) error {
	if code == "" {
		return apperr.InvalidInput("invite_code required to create elevated account")
	}
	inv, err := g.invites.Lookup(ctx, code)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return apperr.InvalidInput("invalid invite code")
		}
		return err
	}
	if inv.Used {
		return apperr.Conflict("invite code already used")
	}
	return nil
}

// Login checks credentials. Unknown email and wrong password produce the same
// error, and both cost one bcrypt comparison.
func (g *Gateway) Login(ctx context.Context, email, password string) (*Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, apperr.InvalidInput("email and password required")
	}

	acct, err := g.accounts.FindByEmail(ctx, email)
	if err != nil {
		if apperr.KindOf(err) != apperr.KindNotFound {
			return nil, err
		}
		_ = g.hasher.Compare(g.dummy(), password)
		return nil, apperr.InvalidCredentials()
	}

	if err := g.hasher.Compare(acct.PasswordHash, password); err != nil {
		return nil, apperr.InvalidCredentials()
	}

	return g.issue(acct)
}

// Logout keeps the gateway's operation set complete. Sessions are stateless
// tokens with nothing to revoke server-side; the HTTP layer clears the cookie.
func (g *Gateway) Logout() {}

// CurrentUser verifies token and loads the account it names. The account is
// always re-read so role changes and deletions apply before the token expires.
func (g *Gateway) CurrentUser(ctx context.Context, token string) (*accounts.Account, error) {
	if token == "" {
		return nil, apperr.Unauthenticated("not authenticated")
	}
	claims, err := g.tokens.Verify(token)
	if err != nil {
		return nil, apperr.Unauthenticated("invalid token")
	}
	return g.accounts.FindByID(ctx, claims.AccountID)
}

// RequireRole is the gate in front of every protected operation.
func (g *Gateway) RequireRole(ctx context.Context, token string, role accounts.Role) (*accounts.Account, error) {
	acct, err := g.CurrentUser(ctx, token)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.Unauthenticated("account no longer exists")
		}
		return nil, err
	}
	if acct.Role != role {
		return nil, apperr.Forbidden("forbidden")
	}
	return acct, nil
}

func (g *Gateway) issue(acct *accounts.Account) (*Session, error) {
	tok, err := g.tokens.Issue(tokens.Claims{
		AccountID: acct.ID,
		Email:     acct.Email,
		Role:      string(acct.Role),
	})
	if err != nil {
		return nil, apperr.Storage("issue token", err)
	}
	claims, err := g.tokens.Verify(tok)
	if err != nil {
		return nil, apperr.Storage("verify issued token", err)
	}
	return &Session{Account: acct, Token: tok, ExpiresAt: claims.ExpiresAt}, nil
}

// dummy is a valid hash of a random-looking string, compared against when
// the email is unknown so both failure paths take similar time.
func (g *Gateway) dummy() string {
	g.dummyOnce.Do(func() {
		h, err := g.hasher.Hash("registrar-timing-equalizer")
		if err == nil {
			g.dummyHash = h
		}
	})
	return g.dummyHash
}
