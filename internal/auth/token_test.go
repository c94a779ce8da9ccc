package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedIssuer(secret string, ttl time.Duration, now time.Time) *Issuer {
	i := NewIssuer(secret, ttl)
	i.now = func() time.Time { return now }
	return i
}

func TestIssueAndParse(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := fixedIssuer("s3cret", time.Hour, now)

	token, err := issuer.Issue("ada@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token.ID)
	assert.True(t, now.Add(time.Hour).Equal(token.ExpiresAt))

	for _, raw := range []string{token.Value, "Bearer " + token.Value} {
		claims, err := issuer.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", claims.Subject)
		assert.Equal(t, token.ID, claims.ID)
		assert.Equal(t, now.Unix(), claims.IssuedAt.Unix())
	}

	other, err := issuer.Issue("ada@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, token.ID, other.ID, "every token gets its own id")
}

func TestParseRejects(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := fixedIssuer("s3cret", time.Hour, now)
	token, err := issuer.Issue("ada@example.com")
	require.NoError(t, err)

	t.Run("empty", func(t *testing.T) {
		_, err := issuer.Parse("Bearer ")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.Parse("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other secret", func(t *testing.T) {
		_, err := fixedIssuer("different", time.Hour, now).Parse(token.Value)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		_, err := fixedIssuer("s3cret", time.Hour, now.Add(2*time.Hour)).Parse(token.Value)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			ID:        "x",
			Subject:   "ada@example.com",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = issuer.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("without expiry", func(t *testing.T) {
		claims := jwt.RegisteredClaims{ID: "x", Subject: "ada@example.com"}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s3cret"))
		require.NoError(t, err)
		_, err = issuer.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
