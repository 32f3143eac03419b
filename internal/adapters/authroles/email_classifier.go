package authroles

import (
	"strings"
	"unicode"

	domainauth "github.com/balaji2k423/class-room/internal/domain/auth"
)

// EmailRoleClassifier derives a role from the character immediately preceding
// the '@' in an email address: a letter means admin, a digit means user, and
// anything else defaults to user.
//
// This is a legacy placeholder rule carried over from the original deployment,
// not a security boundary. It lives behind the RoleClassifier port so it can
// be swapped for a real policy without touching the issuer or middleware.
type EmailRoleClassifier struct{}

func (EmailRoleClassifier) Classify(email string) domainauth.Role {
	at := strings.Index(email, "@")
	if at < 1 {
		return domainauth.RoleUser
	}
	r := []rune(email[:at])
	switch last := r[len(r)-1]; {
	case unicode.IsLetter(last):
		return domainauth.RoleAdmin
	case unicode.IsDigit(last):
		return domainauth.RoleUser
	default:
		return domainauth.RoleUser
	}
}
