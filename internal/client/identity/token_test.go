package identity

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/echovault/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	now := time.Now()

	tok, exp, err := GenerateToken("user-123", "ada@example.com", secret, now, time.Hour)
	require.NoError(t, err)

	s, err := ParseToken(tok, secret, now)
	require.NoError(t, err)
	assert.Equal(t, "user-123", s.UserID)
	assert.Equal(t, "ada@example.com", s.Email)
	assert.Equal(t, tok, s.Token)
	assert.True(t, s.ExpiresAt.Equal(exp))
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	now := time.Now()
	tok, _, err := GenerateToken("u1", "a@b.c", secret, now, time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(tok, secret, now.Add(2*time.Minute))
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, _, err := GenerateToken("u2", "a@b.c", []byte("right-secret"), time.Now(), time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(tok, []byte("wrong-secret"), time.Now())
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u3",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseToken(tok, []byte("secret"), time.Now())
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_Garbage(t *testing.T) {
	t.Parallel()

	_, err := ParseToken("not-a-token", []byte("s"), time.Now())
	require.ErrorIs(t, err, common.ErrInvalidToken)
}
