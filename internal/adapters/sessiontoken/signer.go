// Package sessiontoken issues and verifies the signed bearer credential that
// authenticates every protected request. Tokens are HS256 JWTs with a fixed
// short expiry; there is no refresh mechanism.
package sessiontoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainauth "github.com/balaji2k423/class-room/internal/domain/auth"
	apperrors "github.com/balaji2k423/class-room/internal/errors"
)

// sessionClaims is the wire shape of the session token payload.
type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Signer signs and verifies session tokens with a process-wide HMAC key.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// SignerConfig holds configuration for the token signer.
type SignerConfig struct {
	// Secret is the HMAC signing key. Required.
	Secret string
	// TTL is the token lifetime. Defaults to one hour.
	TTL time.Duration
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// NewSigner constructs a Signer.
func NewSigner(cfg SignerConfig) (*Signer, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token secret is required")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Signer{secret: []byte(cfg.Secret), ttl: ttl, now: now}, nil
}

// Issue signs a token embedding the account ID and role.
func (s *Signer) Issue(claims domainauth.Claims) (string, error) {
	if claims.AccountID == "" {
		return "", errors.New("account ID is required")
	}
	issued := s.now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Role: string(claims.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.AccountID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(s.ttl)),
		},
	})
	return token.SignedString(s.secret)
}

// Verify parses and validates a token, returning its claims. Tampered,
// expired, and wrong-key tokens all surface as unauthorized errors.
func (s *Signer) Verify(tokenString string) (domainauth.Claims, error) {
	parsed, err := jwt.ParseWithClaims(
		tokenString,
		&sessionClaims{},
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return domainauth.Claims{}, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "verify session token")
	}
	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return domainauth.Claims{}, apperrors.Unauthorized("invalid session token claims")
	}

	out := domainauth.Claims{
		AccountID: claims.Subject,
		Role:      domainauth.Role(claims.Role),
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
