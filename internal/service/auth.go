package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/balaji2k423/class-room/internal/core"
	domainauth "github.com/balaji2k423/class-room/internal/domain/auth"
	"github.com/balaji2k423/class-room/internal/domain/model"
	"github.com/balaji2k423/class-room/internal/ports"
)

// Redirect targets returned to the client after login, keyed off the stored
// account role (not the freshly derived candidate).
const (
	redirectAdmin = "/admin"
	redirectUser  = "/user"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Verifier ports.IdentityVerifier  // Required: identity-provider assertion verifier
	Accounts core.AccountRepository  // Required: account store
	Roles    ports.RoleClassifier    // Required: candidate-role strategy
	Tokens   ports.TokenSigner       // Required: session token signer
	Logger   *slog.Logger            // Optional: structured logger
}

// AuthService turns verified identity-provider claims into an internal
// account and a signed session credential.
type AuthService struct {
	verifier ports.IdentityVerifier
	accounts core.AccountRepository
	roles    ports.RoleClassifier
	tokens   ports.TokenSigner
	logger   *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) (*AuthService, error) {
	if opts.Verifier == nil {
		return nil, errors.New("IdentityVerifier is required")
	}
	if opts.Accounts == nil {
		return nil, errors.New("AccountRepository is required")
	}
	if opts.Roles == nil {
		return nil, errors.New("RoleClassifier is required")
	}
	if opts.Tokens == nil {
		return nil, errors.New("TokenSigner is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "auth_service")
	}

	return &AuthService{
		verifier: opts.Verifier,
		accounts: opts.Accounts,
		roles:    opts.Roles,
		tokens:   opts.Tokens,
		logger:   logger,
	}, nil
}

// LoginResult contains the signed session credential and the area the client
// should navigate to.
type LoginResult struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirectUrl"`
}

// Login verifies an identity-provider assertion, resolves or lazily creates
// the account for the verified email, and issues a session token.
//
// The candidate role derived from the email only matters for a never-seen
// email: an existing account keeps its stored role and the candidate is
// discarded. Repeat logins have no side effects.
func (s *AuthService) Login(ctx context.Context, assertion string) (*LoginResult, error) {
	identity, err := s.verifier.Verify(ctx, assertion)
	if err != nil {
		return nil, fmt.Errorf("verify assertion: %w", err)
	}

	candidate := s.roles.Classify(identity.Email)

	account, err := s.accounts.CreateIfAbsent(ctx, model.CreateAccountParams{
		GoogleID: identity.SubjectID,
		Email:    identity.Email,
		Name:     identity.DisplayName,
		Role:     string(candidate),
	})
	if err != nil {
		return nil, fmt.Errorf("resolve account: %w", err)
	}

	token, err := s.tokens.Issue(domainauth.Claims{
		AccountID: account.ID,
		Role:      domainauth.Role(account.Role),
	})
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	if s.logger != nil {
		s.logger.DebugContext(ctx, "login completed", "account_id", account.ID, "role", account.Role)
	}

	return &LoginResult{
		Token:       token,
		RedirectURL: redirectTargetFor(domainauth.Role(account.Role)),
	}, nil
}

// redirectTargetFor maps a stored role to its post-login area.
func redirectTargetFor(role domainauth.Role) string {
	if role == domainauth.RoleAdmin {
		return redirectAdmin
	}
	return redirectUser
}
