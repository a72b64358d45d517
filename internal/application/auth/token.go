package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "asset-register"

// Claims are the bearer token claims. Subject is the user id.
type Claims struct {
	Fullname  string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	StationID *uint  `json:"station_id,omitempty"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 bearer tokens.
type Tokens struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func (t *Tokens) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

// Issue signs a token for id and returns it with its expiry.
func (t *Tokens) Issue(id Identity) (string, time.Time, error) {
	if len(t.Secret) == 0 {
		return "", time.Time{}, errors.New("auth: empty secret")
	}
	now := t.now()
	exp := now.Add(t.TTL)
	claims := Claims{
		Fullname:  id.Fullname,
		Email:     id.Email,
		Role:      id.Role,
		StationID: id.StationID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, exp, nil
}

// Parse validates tokenString and returns the identity it carries.
func (t *Tokens) Parse(tokenString string) (*Identity, error) {
	if tokenString == "" || len(t.Secret) == 0 {
		return nil, ErrInvalidToken
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return t.Secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	id, err := VerifyUser(&Identity{
		UserID:    claims.Subject,
		Fullname:  claims.Fullname,
		Email:     claims.Email,
		Role:      claims.Role,
		StationID: claims.StationID,
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	return id, nil
}
