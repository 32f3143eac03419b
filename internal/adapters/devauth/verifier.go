// Package devauth provides a static identity verifier for development and
// testing. Never enable it in production.
package devauth

import (
	"context"

	domainauth "github.com/balaji2k423/class-room/internal/domain/auth"
	apperrors "github.com/balaji2k423/class-room/internal/errors"
)

// Verifier returns a fixed identity for any non-empty assertion.
type Verifier struct {
	Identity domainauth.Identity
}

// NewVerifier constructs a dev verifier with the given static identity.
func NewVerifier(identity domainauth.Identity) *Verifier {
	return &Verifier{Identity: identity}
}

// Verify returns the configured identity. Empty assertions still fail so the
// login handler's error path stays exercised in dev mode.
func (v *Verifier) Verify(_ context.Context, assertion string) (domainauth.Identity, error) {
	if assertion == "" {
		return domainauth.Identity{}, apperrors.InvalidAssertion("identity assertion is required")
	}
	return v.Identity, nil
}
