package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestGenerateAndValidate(t *testing.T) {
	s := NewHMACService("secret", time.Hour)
	s.now = fixedClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	id := uuid.New()
	tok, err := s.GenerateAccessToken(id, "a@example.com")
	require.NoError(t, err)

	c, err := s.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, id, c.UserID)
	assert.Equal(t, "a@example.com", c.Email)
	assert.Equal(t, TokenTypeAccess, c.TokenType)
}

func TestValidate_Expired(t *testing.T) {
	s := NewHMACService("secret", time.Minute)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = fixedClock(start)

	tok, err := s.GenerateAccessToken(uuid.New(), "")
	require.NoError(t, err)

	s.now = fixedClock(start.Add(2 * time.Minute))
	_, err = s.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidate_RejectsForeignSecretAndAlgorithm(t *testing.T) {
	s := NewHMACService("secret", time.Hour)
	other := NewHMACService("other", time.Hour)

	tok, err := other.GenerateAccessToken(uuid.New(), "")
	require.NoError(t, err)
	_, err = s.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	none := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, jwtlib.RegisteredClaims{Subject: uuid.NewString()})
	unsigned, err := none.SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = s.ValidateToken(unsigned)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = s.ValidateToken("   ")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidate_SubjectOnlyToken(t *testing.T) {
	s := NewHMACService("secret", time.Hour)
	id := uuid.New()

	tok := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.RegisteredClaims{
		Subject:   id.String(),
		ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := tok.SignedString([]byte("secret"))
	require.NoError(t, err)

	c, err := s.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, id, c.UserID)
}
