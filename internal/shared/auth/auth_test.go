package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bloglist-backend/internal/domains/user"
	"bloglist-backend/internal/shared/cachekey"
	"bloglist-backend/pkg/cache"
	"bloglist-backend/pkg/jwt"
)

type fakeUsers struct {
	users map[uuid.UUID]*user.User
	calls int
}

func (f *fakeUsers) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	f.calls++
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func newGuard(t *testing.T, ttl time.Duration) (*Guard, *fakeUsers, *jwt.Manager, *user.User) {
	t.Helper()
	root := &user.User{ID: uuid.New(), Username: "root", Name: "Superuser"}
	users := &fakeUsers{users: map[uuid.UUID]*user.User{root.ID: root}}
	tokens := jwt.NewManager("test-secret", time.Hour)
	return NewGuard(tokens, users, cache.NewMemory(), ttl), users, tokens, root
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"BEARER   abc  ", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"", "", false},
		{"abc", "", false},
	}
	for _, tc := range cases {
		token, ok := BearerToken(tc.header)
		assert.Equal(t, tc.ok, ok, tc.header)
		assert.Equal(t, tc.token, token, tc.header)
	}
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	g, _, tokens, root := newGuard(t, 0)

	tok, err := tokens.GenerateAccessToken(root.ID.String(), root.Username)
	require.NoError(t, err)

	id, err := g.Authenticate(ctx, "Bearer "+tok)
	require.NoError(t, err)
	assert.Equal(t, root.ID, id.ID)
	assert.Equal(t, "root", id.Username)
	assert.Equal(t, "Superuser", id.Name)
}

func TestAuthenticate_Failures(t *testing.T) {
	ctx := context.Background()
	g, _, tokens, _ := newGuard(t, 0)

	_, err := g.Authenticate(ctx, "")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = g.Authenticate(ctx, "Bearer garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, err := jwt.NewManager("other-secret", time.Hour).GenerateAccessToken(uuid.NewString(), "root")
	require.NoError(t, err)
	_, err = g.Authenticate(ctx, "Bearer "+other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	notUUID, err := tokens.GenerateAccessToken("42", "root")
	require.NoError(t, err)
	_, err = g.Authenticate(ctx, "Bearer "+notUUID)
	assert.ErrorIs(t, err, ErrInvalidToken)

	ghost, err := tokens.GenerateAccessToken(uuid.NewString(), "ghost")
	require.NoError(t, err)
	_, err = g.Authenticate(ctx, "Bearer "+ghost)
	assert.ErrorIs(t, err, ErrUnknownUser)
}

func TestAuthenticate_Expired(t *testing.T) {
	ctx := context.Background()
	root := &user.User{ID: uuid.New(), Username: "root"}
	users := &fakeUsers{users: map[uuid.UUID]*user.User{root.ID: root}}
	tokens := jwt.NewManager("k", -time.Minute)
	g := NewGuard(tokens, users, nil, 0)

	tok, err := tokens.GenerateAccessToken(root.ID.String(), root.Username)
	require.NoError(t, err)

	_, err = g.Authenticate(ctx, "Bearer "+tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestAuthenticate_CachesIdentity(t *testing.T) {
	ctx := context.Background()
	g, users, tokens, root := newGuard(t, time.Minute)

	tok, err := tokens.GenerateAccessToken(root.ID.String(), root.Username)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = g.Authenticate(ctx, "Bearer "+tok)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, users.calls)

	// a removed user stays cached until the entry is gone
	delete(users.users, root.ID)
	_, err = g.Authenticate(ctx, "Bearer "+tok)
	require.NoError(t, err)

	require.NoError(t, g.cache.Delete(ctx, cachekey.Identity(root.ID.String())))
	_, err = g.Authenticate(ctx, "Bearer "+tok)
	assert.ErrorIs(t, err, ErrUnknownUser)
	assert.Equal(t, 2, users.calls)
}

func TestAuthenticate_NoCacheSeesRemovedUser(t *testing.T) {
	ctx := context.Background()
	g, users, tokens, root := newGuard(t, 0)

	tok, err := tokens.GenerateAccessToken(root.ID.String(), root.Username)
	require.NoError(t, err)

	_, err = g.Authenticate(ctx, "Bearer "+tok)
	require.NoError(t, err)

	delete(users.users, root.ID)
	_, err = g.Authenticate(ctx, "Bearer "+tok)
	assert.ErrorIs(t, err, ErrUnknownUser)
}

func TestAuthorizeOwnership(t *testing.T) {
	g, _, _, root := newGuard(t, 0)
	identity := &Identity{ID: root.ID, Username: root.Username}

	assert.NoError(t, g.AuthorizeOwnership(identity, root.ID))
	assert.ErrorIs(t, g.AuthorizeOwnership(identity, uuid.New()), ErrNotOwner)
	assert.ErrorIs(t, g.AuthorizeOwnership(nil, root.ID), ErrMissingToken)
}
