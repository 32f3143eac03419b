package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("token expired")
	err := Wrap(cause, ErrCodeUnauthorized, "verify session token")
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsUnauthorized(err))
	assert.Contains(t, err.Error(), "verify session token")
	assert.Contains(t, err.Error(), "token expired")

	assert.Nil(t, Wrap(nil, ErrCodeUnauthorized, "ignored"))
}

func TestCodeCheckers(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{name: "invalid assertion", err: InvalidAssertion("bad credential"), check: IsInvalidAssertion},
		{name: "unauthorized", err: Unauthorized("session expired"), check: IsUnauthorized},
		{name: "forbidden", err: Forbidden("not yours"), check: IsForbidden},
		{name: "validation", err: Validation("too short"), check: IsValidation},
		{name: "already member", err: AlreadyMember("joined twice"), check: IsAlreadyMember},
		{name: "code space exhausted", err: CodeSpaceExhausted("out of retries"), check: IsCodeSpaceExhausted},
		{name: "internal", err: Internal("store unavailable"), check: IsInternal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, tc.check(tc.err))
			assert.True(t, tc.check(fmt.Errorf("outer: %w", tc.err)), "code survives wrapping")
			assert.False(t, tc.check(errors.New("unrelated")))
		})
	}
}

func TestGetField(t *testing.T) {
	assert.Equal(t, "name", GetField(ValidationField("name", "too short")))
	assert.Empty(t, GetField(Validation("no field attached")))
	assert.Empty(t, GetField(errors.New("not an app error")))
}
