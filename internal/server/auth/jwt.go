// Package auth implements credential hashing, signed session tokens and the
// bearer-token guard for protected operations.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/herowall/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind selects a signing context.
type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

// TokenConfig holds the secrets and lifetimes of both signing contexts.
// Secrets are expected to differ; equal secrets still work because the kind
// is also embedded in the token.
type TokenConfig struct {
	AccessSecret  []byte
	AccessTTL     time.Duration
	RefreshSecret []byte
	RefreshTTL    time.Duration
}

// Claims is the token payload: registered claims (sub, exp, iat, jti) plus
// the account email and the token kind.
type Claims struct {
	jwt.RegisteredClaims
	Email string    `json:"email"`
	Kind  TokenKind `json:"typ"`
}

// Identity is who a verified token speaks for.
type Identity struct {
	UserID string
	Email  string
}

type signingContext struct {
	secret []byte
	ttl    time.Duration
}

// TokenIssuer signs and verifies access and refresh tokens.
type TokenIssuer struct {
	contexts map[TokenKind]signingContext
	now      func() time.Time
}

var errUnknownKind = errors.New("unknown token kind")

func NewTokenIssuer(cfg TokenConfig) *TokenIssuer {
	return &TokenIssuer{
		contexts: map[TokenKind]signingContext{
			AccessToken:  {secret: cfg.AccessSecret, ttl: cfg.AccessTTL},
			RefreshToken: {secret: cfg.RefreshSecret, ttl: cfg.RefreshTTL},
		},
		now: time.Now,
	}
}

// Issue signs a token of the given kind for id. Every call yields a distinct
// token (unique jti) even within the same second.
func (i *TokenIssuer) Issue(id Identity, kind TokenKind) (string, error) {
	sc, ok := i.contexts[kind]
	if !ok {
		return "", errUnknownKind
	}

	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sc.ttl)),
		},
		Email: id.Email,
		Kind:  kind,
	})

	return token.SignedString(sc.secret)
}

// Verify checks signature, expiry and kind. Every failure collapses into
// common.ErrInvalidToken.
func (i *TokenIssuer) Verify(tokenString string, kind TokenKind) (Identity, error) {
	sc, ok := i.contexts[kind]
	if !ok {
		return Identity{}, common.ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return sc.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !token.Valid {
		return Identity{}, common.ErrInvalidToken
	}

	if claims.Kind != kind || claims.Subject == "" {
		return Identity{}, common.ErrInvalidToken
	}

	return Identity{UserID: claims.Subject, Email: claims.Email}, nil
}

// TTL returns the configured lifetime for kind.
func (i *TokenIssuer) TTL(kind TokenKind) time.Duration {
	return i.contexts[kind].ttl
}
