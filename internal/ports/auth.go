// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.
package ports

import (
	"context"

	domainauth "github.com/balaji2k423/class-room/internal/domain/auth"
)

// IdentityVerifier validates an opaque assertion from an external identity
// provider and extracts verified claims. Once Verify returns success the
// identity is fully trusted.
type IdentityVerifier interface {
	// Verify checks the assertion's signature, audience, and expiry.
	// Failures surface as invalid-assertion errors and are never retried.
	Verify(ctx context.Context, assertion string) (domainauth.Identity, error)
}

// RoleClassifier derives a role from an email address.
//
// Injected as a strategy so the current pattern-based rule can be replaced
// with a real policy (domain allow-list, claims-based) without touching the
// issuer or the auth middleware.
type RoleClassifier interface {
	Classify(email string) domainauth.Role
}

// TokenSigner issues and verifies signed session tokens.
// The signing key is process-wide configuration, never derived from data.
type TokenSigner interface {
	Issue(claims domainauth.Claims) (string, error)
	Verify(token string) (domainauth.Claims, error)
}
