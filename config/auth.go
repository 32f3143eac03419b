package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the identity-verification mode for the application.
type AuthMode string

const (
	// AuthModeGoogle verifies Google ID tokens against the configured audience.
	AuthModeGoogle AuthMode = "google"
	// AuthModeMock uses a static dev identity (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "google", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: google, mock)", v)
	}
}

// GoogleConfig contains Google identity-provider configuration.
type GoogleConfig struct {
	// ClientID is the OAuth client ID, used as the expected audience when
	// verifying ID tokens.
	ClientID string `env:"CLIENT_ID"`

	// IssuerURL is the OIDC issuer used for discovery and key fetching.
	IssuerURL string `env:"ISSUER_URL" envDefault:"https://accounts.google.com"`
}

// DevAuthConfig controls the mock identity returned when AUTH_MODE=mock.
// Used for development and testing without a live identity provider.
type DevAuthConfig struct {
	SubjectID string `env:"SUBJECT_ID" envDefault:"dev-subject"`
	Email     string `env:"EMAIL"      envDefault:"dev@example.com"`
	Name      string `env:"NAME"       envDefault:"Dev User"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which identity verifier to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"google"`

	// Google configuration (used when Mode=google).
	Google GoogleConfig `envPrefix:"GOOGLE_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// TokenSecret is the HMAC key used to sign session tokens.
	// Process-wide, loaded once at startup.
	TokenSecret string `env:"JWT_SECRET,required"`

	// TokenTTL is the lifetime of issued session tokens.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"1h"`
}

// Sanitize applies guardrails to auth configuration values.
func (c *AuthConfig) Sanitize() {
	if c.TokenTTL <= 0 {
		c.TokenTTL = time.Hour
	}
	c.Google.IssuerURL = strings.TrimSuffix(strings.TrimSpace(c.Google.IssuerURL), "/")
}
