package bootstrap

import (
	"context"
	"fmt"

	"github.com/balaji2k423/class-room/config"
	"github.com/balaji2k423/class-room/internal/adapters/devauth"
	"github.com/balaji2k423/class-room/internal/adapters/oidc"
	"github.com/balaji2k423/class-room/internal/adapters/sessiontoken"
	domainauth "github.com/balaji2k423/class-room/internal/domain/auth"
	"github.com/balaji2k423/class-room/internal/ports"
)

// NewIdentityVerifier builds the identity verifier for the configured auth
// mode. Google mode performs OIDC discovery against the issuer at startup.
//
//nolint:ireturn // the verifier implementation is selected at runtime by config.
func NewIdentityVerifier(ctx context.Context, cfg config.AuthConfig) (ports.IdentityVerifier, error) {
	switch cfg.Mode {
	case config.AuthModeMock:
		return devauth.NewVerifier(domainauth.Identity{
			SubjectID:   cfg.DevAuth.SubjectID,
			Email:       cfg.DevAuth.Email,
			DisplayName: cfg.DevAuth.Name,
		}), nil
	case config.AuthModeGoogle:
		verifier, err := oidc.NewVerifier(ctx, oidc.VerifierConfig{
			IssuerURL: cfg.Google.IssuerURL,
			Audience:  cfg.Google.ClientID,
		})
		if err != nil {
			return nil, fmt.Errorf("build oidc verifier: %w", err)
		}
		return verifier, nil
	default:
		return nil, fmt.Errorf("unsupported auth mode: %q", cfg.Mode)
	}
}

// NewTokenSigner builds the session token signer from auth configuration.
func NewTokenSigner(cfg config.AuthConfig) (*sessiontoken.Signer, error) {
	signer, err := sessiontoken.NewSigner(sessiontoken.SignerConfig{
		Secret: cfg.TokenSecret,
		TTL:    cfg.TokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("build token signer: %w", err)
	}
	return signer, nil
}
