package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeVerifier_Deterministic(t *testing.T) {
	salt := []byte("0123456789abcdef0123456789abcdef")
	a := MakeVerifier([]byte("hunter2"), salt)
	b := MakeVerifier([]byte("hunter2"), salt)

	require.Len(t, a, 32)
	assert.Equal(t, a, b)
	assert.NotEqual(t, DeriveKey([]byte("hunter2"), salt), a, "verifier must not be the raw key")
}

func TestMakeVerifier_SaltMatters(t *testing.T) {
	a := MakeVerifier([]byte("pw"), []byte("salt-one-salt-one-salt-one-salt1"))
	b := MakeVerifier([]byte("pw"), []byte("salt-two-salt-two-salt-two-salt2"))
	assert.NotEqual(t, a, b)
}

func TestCheckVerifier(t *testing.T) {
	salt := []byte("some-salt-some-salt-some-salt-xx")
	v := MakeVerifier([]byte("correct"), salt)

	assert.True(t, CheckVerifier([]byte("correct"), salt, v))
	assert.False(t, CheckVerifier([]byte("wrong"), salt, v))
	assert.False(t, CheckVerifier([]byte("correct"), salt, v[:16]))
}
