package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens_RoundTrip(t *testing.T) {
	now := time.Now()
	tokens := &Tokens{Secret: []byte("secret"), TTL: time.Hour, Now: func() time.Time { return now }}
	station := uint(3)
	id := Identity{UserID: uuid.NewString(), Fullname: "Ops", Email: "ops@example.com", Role: "manager", StationID: &station}

	signed, exp, err := tokens.Issue(id)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(time.Hour), exp, time.Second)

	got, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, id.UserID, got.UserID)
	assert.Equal(t, "manager", got.Role)
	require.NotNil(t, got.StationID)
	assert.Equal(t, uint(3), *got.StationID)
}

func TestTokens_Expired(t *testing.T) {
	issued := time.Now().Add(-2 * time.Hour)
	issuer := &Tokens{Secret: []byte("secret"), TTL: time.Hour, Now: func() time.Time { return issued }}
	signed, _, err := issuer.Issue(Identity{UserID: uuid.NewString(), Role: "viewer"})
	require.NoError(t, err)

	verifier := &Tokens{Secret: []byte("secret"), TTL: time.Hour}
	_, err = verifier.Parse(signed)
	assert.Equal(t, ErrInvalidToken, err)
}

func TestTokens_WrongSecret(t *testing.T) {
	signed, _, err := (&Tokens{Secret: []byte("a"), TTL: time.Hour}).Issue(Identity{UserID: uuid.NewString(), Role: "viewer"})
	require.NoError(t, err)
	_, err = (&Tokens{Secret: []byte("b")}).Parse(signed)
	assert.Equal(t, ErrInvalidToken, err)
}

func TestTokens_RejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{Role: "admin", RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = (&Tokens{Secret: []byte("secret")}).Parse(signed)
	assert.Equal(t, ErrInvalidToken, err)
}

func TestTokens_InvalidRoleRejected(t *testing.T) {
	tokens := &Tokens{Secret: []byte("secret"), TTL: time.Hour}
	signed, _, err := tokens.Issue(Identity{UserID: uuid.NewString(), Role: "owner"})
	require.NoError(t, err)
	_, err = tokens.Parse(signed)
	assert.Equal(t, ErrInvalidToken, err)
}

func TestTokens_EmptySecret(t *testing.T) {
	_, _, err := (&Tokens{}).Issue(Identity{UserID: "x", Role: "viewer"})
	assert.Error(t, err)
	_, err = (&Tokens{}).Parse("abc")
	assert.Equal(t, ErrInvalidToken, err)
}
