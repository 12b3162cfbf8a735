package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs HS256 tokens for subjects.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue returns a signed token for sub and its expiry.
func (i *Issuer) Issue(sub Subject, now time.Time) (string, time.Time, error) {
	if !sub.Authenticated() {
		return "", time.Time{}, errors.New("issue token: subject id and role are required")
	}
	exp := now.Add(i.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: string(sub.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Resolver verifies tokens minted by an Issuer with the same secret.
type Resolver struct {
	secret  []byte
	nowFunc func() time.Time
}

func NewResolver(secret string) *Resolver {
	return &Resolver{secret: []byte(secret), nowFunc: time.Now}
}

// Resolve verifies signature and expiry and returns the subject. Every
// failure is reported as ErrInvalidToken.
func (r *Resolver) Resolve(token string) (Subject, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return r.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(r.nowFunc),
	)
	if err != nil || !parsed.Valid {
		return Subject{}, ErrInvalidToken
	}

	role, ok := ParseRole(c.Role)
	if !ok || c.Subject == "" {
		return Subject{}, ErrInvalidToken
	}
	return Subject{ID: c.Subject, Role: role}, nil
}
