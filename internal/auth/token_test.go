package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"school_service/internal/models"
)

var testKey = []byte("test-signing-key-0123456789")

func newTestCodec(t *testing.T, now func() time.Time) *Codec {
	t.Helper()

	codec, err := NewCodec(testKey, 365*24*time.Hour, now)
	require.NoError(t, err)

	return codec
}

func TestTokenRoundTrip(t *testing.T) {
	codec := newTestCodec(t, nil)

	token, err := codec.Issue("alice", models.RoleStudent)
	require.NoError(t, err)
	assert.True(t, IsWellFormed(token))

	claims, err := codec.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, models.RoleStudent, claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(365*24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestIssueProducesDistinctTokens(t *testing.T) {
	fixed := time.Unix(1_700_000_000, 0)
	codec := newTestCodec(t, func() time.Time { return fixed })

	a, err := codec.Issue("alice", models.RoleStudent)
	require.NoError(t, err)
	b, err := codec.Issue("alice", models.RoleStudent)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestParseDoesNotCheckExpiry(t *testing.T) {
	past := time.Now().Add(-2 * 365 * 24 * time.Hour)
	codec := newTestCodec(t, func() time.Time { return past })

	token, err := codec.Issue("alice", models.RoleStudent)
	require.NoError(t, err)

	claims, err := codec.Parse(token)
	require.NoError(t, err)
	assert.True(t, claims.ExpiresAt.Before(time.Now()))
}

func TestParseRejectsForeignKey(t *testing.T) {
	other, err := NewCodec([]byte("another-key-9876543210"), time.Hour, nil)
	require.NoError(t, err)

	token, err := other.Issue("alice", models.RoleAdmin)
	require.NoError(t, err)

	_, err = newTestCodec(t, nil).Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{
		Username: "alice",
		Role:     models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(testKey)
	require.NoError(t, err)

	_, err = newTestCodec(t, nil).Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestCodec(t, nil).Parse(none)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsMissingClaims(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{Username: "alice", Role: models.RoleStudent}).
		SignedString(testKey)
	require.NoError(t, err)

	_, err = newTestCodec(t, nil).Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewCodecValidation(t *testing.T) {
	_, err := NewCodec(nil, time.Hour, nil)
	require.ErrorIs(t, err, ErrEmptySigningKey)

	_, err = NewCodec(testKey, 0, nil)
	require.Error(t, err)
}

func TestNewCodecCopiesKey(t *testing.T) {
	key := []byte("mutable-signing-key-0000")
	codec, err := NewCodec(key, time.Hour, nil)
	require.NoError(t, err)

	token, err := codec.Issue("alice", models.RoleStudent)
	require.NoError(t, err)

	key[0] = 'X'

	_, err = codec.Parse(token)
	require.NoError(t, err)
}

func TestIsWellFormed(t *testing.T) {
	cases := map[string]bool{
		"":            false,
		"abc":         false,
		"a.b":         false,
		"a.b.c":       true,
		"a.b.c.d":     false,
		"..":          true,
		"x.y.z" + ".": false,
	}

	for token, want := range cases {
		assert.Equal(t, want, IsWellFormed(token), "token %q", token)
	}

	assert.True(t, IsWellFormed(strings.Repeat("a", 10)+".b.c"))
}
