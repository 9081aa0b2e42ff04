package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims identifies the account a token was issued to. The subject is the
// account id and the token id is used for revocation.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

type Option func(*TokenManager)

// WithClock overrides the time source used for issuing and validating.
func WithClock(now func() time.Time) Option {
	return func(m *TokenManager) { m.now = now }
}

func WithIssuer(issuer string) Option {
	return func(m *TokenManager) { m.issuer = issuer }
}

func NewTokenManager(secret string, ttl time.Duration, opts ...Option) *TokenManager {
	m := &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "hospital-api",
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Issue signs an HS256 token for the subject.
func (m *TokenManager) Issue(subject, role string) (string, *Claims, error) {
	now := m.now()
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   subject,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, claims, nil
}

// Parse verifies signature, issuer and expiry. Tokens signed with anything other
// than HMAC are rejected.
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
