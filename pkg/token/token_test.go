package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	iss := NewIssuer("signing-secret", time.Hour)

	signed, exp, err := iss.Issue("acct-1", "employer")
	require.NoError(t, err)
	assert.True(t, LooksSigned(signed))
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := iss.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "acct-1", claims.Subject)
	assert.Equal(t, "employer", claims.Role)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	signed, _, err := NewIssuer("a", time.Hour).Issue("acct-1", "student")
	require.NoError(t, err)

	_, err = NewIssuer("b", time.Hour).Parse(signed)
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	iss := NewIssuer("secret", time.Minute)
	iss.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	signed, _, err := iss.Issue("acct-1", "student")
	require.NoError(t, err)

	_, err = NewIssuer("secret", time.Minute).Parse(signed)
	assert.Error(t, err)
}

func TestDisabledIssuer(t *testing.T) {
	iss := NewIssuer("", time.Hour)
	assert.False(t, iss.Enabled())
	_, _, err := iss.Issue("acct-1", "student")
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestLooksSigned(t *testing.T) {
	assert.False(t, LooksSigned("3f2504e0-4f89-41d3-9a0c-0305e82c3301"))
	assert.True(t, LooksSigned("a.b.c"))
}
