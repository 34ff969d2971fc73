package auth

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/herowall/internal/common"
)

type ctxKey string

const identityKey ctxKey = "identity"

// Guard gates protected operations on a valid access token.
type Guard struct {
	issuer *TokenIssuer
}

func NewGuard(issuer *TokenIssuer) *Guard {
	return &Guard{issuer: issuer}
}

// Authenticate parses "Bearer <token>", verifies it as an access token and
// returns ctx carrying the caller's Identity. Any failure is
// common.ErrorUnauthorized.
func (g *Guard) Authenticate(ctx context.Context, authorization string) (context.Context, error) {
	token, ok := bearerToken(authorization)
	if !ok {
		return ctx, common.ErrorUnauthorized
	}

	id, err := g.issuer.Verify(token, AccessToken)
	if err != nil {
		return ctx, common.ErrorUnauthorized
	}

	return WithIdentity(ctx, id), nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// WithIdentity attaches id to ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the identity set by the guard, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.UserID != ""
}
