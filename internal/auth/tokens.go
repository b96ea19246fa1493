package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anonto42/social-pod/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Scopes an access token can carry.
const (
	ScopeRead  = "read"
	ScopeWrite = "write"
)

var (
	ErrInvalidToken = errors.New("invalid access token")
	ErrRevokedToken = errors.New("access token revoked")
	ErrUnknownScope = errors.New("unknown scope")
)

// Tokens issues and verifies HS256 access tokens.
type Tokens struct {
	secret    []byte
	ttl       time.Duration
	blacklist Blacklist
	now       func() time.Time
}

func NewTokens(secret string, ttl time.Duration, blacklist Blacklist) *Tokens {
	if blacklist == nil {
		blacklist = NopBlacklist{}
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, blacklist: blacklist, now: time.Now}
}

// Issue signs a token for userID with the given scopes.
func (t *Tokens) Issue(userID uint, scopes ...string) (string, *models.AccessTokenClaims, error) {
	for _, s := range scopes {
		if s != ScopeRead && s != ScopeWrite {
			return "", nil, fmt.Errorf("%w: %q", ErrUnknownScope, s)
		}
	}
	now := t.now()
	claims := &models.AccessTokenClaims{
		UserID: userID,
		Scope:  strings.Join(scopes, " "),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign access token: %w", err)
	}
	return signed, claims, nil
}

// Verify parses a token and checks it has not been revoked.
func (t *Tokens) Verify(ctx context.Context, token string) (*models.AccessTokenClaims, error) {
	claims := &models.AccessTokenClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	})
	if err != nil || !parsed.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}

	revoked, err := t.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrRevokedToken
	}
	return claims, nil
}

// Revoke blacklists the token until it would have expired anyway.
func (t *Tokens) Revoke(ctx context.Context, claims *models.AccessTokenClaims) error {
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return t.blacklist.Revoke(ctx, claims.ID, ttl)
}

// HasScope reports whether the claims grant scope.
func HasScope(claims *models.AccessTokenClaims, scope string) bool {
	for _, s := range strings.Fields(claims.Scope) {
		if s == scope {
			return true
		}
	}
	return false
}
