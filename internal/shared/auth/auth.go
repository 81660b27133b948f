// Package auth resolves bearer tokens to identities and enforces the
// ownership rule for mutating blog operations.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"bloglist-backend/internal/domains/user"
	"bloglist-backend/internal/shared/apperr"
	"bloglist-backend/internal/shared/cachekey"
	"bloglist-backend/pkg/cache"
	"bloglist-backend/pkg/jwt"
)

var (
	ErrMissingToken = apperr.New(apperr.KindUnauthorized, "TOKEN_MISSING", "token missing or invalid")
	ErrInvalidToken = apperr.New(apperr.KindUnauthorized, "TOKEN_INVALID", "token invalid")
	ErrTokenExpired = apperr.New(apperr.KindUnauthorized, "TOKEN_EXPIRED", "token expired")
	ErrUnknownUser  = apperr.New(apperr.KindUnauthorized, "USER_NOT_FOUND", "user no longer exists")
	ErrNotOwner     = apperr.New(apperr.KindUnauthorized, "NOT_OWNER", "only the creator of a blog can modify it")
)

// Identity is the authenticated principal of a request.
type Identity struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
}

// UserFinder is the part of the credential store the guard needs.
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

type Guard struct {
	tokens *jwt.Manager
	users  UserFinder
	cache  cache.Cache
	ttl    time.Duration
}

// NewGuard builds a guard; ttl <= 0 disables the identity cache.
func NewGuard(tokens *jwt.Manager, users UserFinder, c cache.Cache, ttl time.Duration) *Guard {
	if c == nil {
		c = cache.NewNoop()
	}
	return &Guard{tokens: tokens, users: users, cache: c, ttl: ttl}
}

// Authenticate verifies the Authorization header value and resolves it to a
// live user.
func (g *Guard) Authenticate(ctx context.Context, header string) (*Identity, error) {
	raw, ok := BearerToken(header)
	if !ok {
		return nil, ErrMissingToken
	}

	claims, err := g.tokens.ValidateAccessToken(raw)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired.WithCause(err)
		}
		return nil, ErrInvalidToken.WithCause(err)
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken.WithCause(err)
	}

	return g.resolve(ctx, id)
}

// AuthorizeOwnership allows the operation only when identity owns the resource.
func (g *Guard) AuthorizeOwnership(identity *Identity, ownerID uuid.UUID) error {
	if identity == nil {
		return ErrMissingToken
	}
	if identity.ID != ownerID {
		return ErrNotOwner
	}
	return nil
}

// resolve looks the user up through the identity cache. A user removed from
// the store keeps authenticating until its cached entry expires, so the
// staleness window is bounded by ttl; ttl <= 0 checks the store every time.
func (g *Guard) resolve(ctx context.Context, id uuid.UUID) (*Identity, error) {
	key := cachekey.Identity(id.String())

	if g.ttl > 0 {
		var cached Identity
		if found, err := g.cache.Get(ctx, key, &cached); err == nil && found {
			return &cached, nil
		}
	}

	u, err := g.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, err
	}

	identity := &Identity{ID: u.ID, Username: u.Username, Name: u.Name}
	if g.ttl > 0 {
		if err := g.cache.Set(ctx, key, identity, g.ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to cache identity")
		}
	}
	return identity, nil
}

// BearerToken extracts the token from "Bearer <token>"; the scheme is
// case-insensitive.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
