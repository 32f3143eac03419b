// Package oidc verifies identity-provider ID tokens for the classroom system.
package oidc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/balaji2k423/class-room/internal/domain/auth"
	apperrors "github.com/balaji2k423/class-room/internal/errors"
)

// Verifier implements the IdentityVerifier port using go-oidc against a
// single configured issuer (Google by default).
type Verifier struct {
	verifier *gooidc.IDTokenVerifier
}

// VerifierConfig holds configuration for the ID-token verifier.
type VerifierConfig struct {
	// IssuerURL is the OIDC issuer used for discovery and key fetching.
	IssuerURL string
	// Audience is the expected "aud" claim (the OAuth client ID).
	Audience string
	// HTTPClient is optional and defaults to a client with a 30s timeout.
	HTTPClient *http.Client
}

// NewVerifier constructs a Verifier. Discovery runs once at startup; the
// key set refreshes lazily afterward.
func NewVerifier(ctx context.Context, cfg VerifierConfig) (*Verifier, error) {
	if cfg.IssuerURL == "" {
		return nil, errors.New("issuer URL is required")
	}
	if cfg.Audience == "" {
		return nil, errors.New("audience is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(cfg.IssuerURL, "/")
	provider, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}

	return &Verifier{
		verifier: provider.Verifier(&gooidc.Config{ClientID: cfg.Audience}),
	}, nil
}

// idTokenClaims is the subset of ID-token claims the directory cares about.
type idTokenClaims struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Verify checks the assertion's signature, audience, and expiry and maps the
// verified claims into a domain identity. Any verification failure is an
// invalid-assertion error; callers must not retry.
func (v *Verifier) Verify(ctx context.Context, assertion string) (domainauth.Identity, error) {
	if assertion == "" {
		return domainauth.Identity{}, apperrors.InvalidAssertion("identity assertion is required")
	}

	idToken, err := v.verifier.Verify(ctx, assertion)
	if err != nil {
		return domainauth.Identity{}, apperrors.Wrap(err, apperrors.ErrCodeInvalidAssertion, "verify id token")
	}

	var claims idTokenClaims
	if claimsErr := idToken.Claims(&claims); claimsErr != nil {
		return domainauth.Identity{}, apperrors.Wrap(claimsErr, apperrors.ErrCodeInvalidAssertion, "parse id token claims")
	}
	if claims.Email == "" {
		return domainauth.Identity{}, apperrors.InvalidAssertion("id token missing email claim")
	}

	return domainauth.Identity{
		SubjectID:   claims.Sub,
		Email:       claims.Email,
		DisplayName: claims.Name,
	}, nil
}
