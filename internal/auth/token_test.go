package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/authflow/internal/models"
)

func TestGenerateAndParse(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("super-secret", "authflow-test", time.Hour)
	tok, err := tm.Generate(models.User{ID: 42, Username: "bob"})
	require.NoError(t, err)

	claims, err := tm.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "bob", claims.Username)
	assert.Equal(t, "authflow-test", claims.Issuer)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestParse_Expired(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	tm := NewTokenManagerWithClock("secret", "iss", time.Minute, clock)
	tok, err := tm.Generate(models.User{ID: 1, Username: "u1"})
	require.NoError(t, err)

	_, err = tm.Parse(tok)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	_, err = tm.Parse(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenManager("right-secret", "iss", time.Hour).Generate(models.User{ID: 2})
	require.NoError(t, err)

	_, err = NewTokenManager("wrong-secret", "iss", time.Hour).Parse(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_WrongIssuer(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenManager("secret", "someone-else", time.Hour).Generate(models.User{ID: 3})
	require.NoError(t, err)

	_, err = NewTokenManager("secret", "iss", time.Hour).Parse(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    "iss",
		Subject:   "4",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenManager("secret", "iss", time.Hour).Parse(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	_, err := NewTokenManager("k", "iss", time.Hour).Parse("not.a.jwt")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaims_UserIDBadSubject(t *testing.T) {
	t.Parallel()

	c := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "abc"}}
	_, err := c.UserID()
	require.ErrorIs(t, err, ErrInvalidToken)
}
