package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"bloglist-backend/internal/domains/user"
	"bloglist-backend/internal/shared/apperr"
	"bloglist-backend/internal/shared/cachekey"
	"bloglist-backend/pkg/cache"
	"bloglist-backend/pkg/jwt"
	"bloglist-backend/pkg/logger"
)

func init() {
	logger.Silence()
}

type fakeRepo struct {
	mu        sync.Mutex
	users     []*user.User
	listCalls int
}

func (r *fakeRepo) Create(ctx context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return user.ErrUsernameTaken
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users = append(r.users, &cp)
	return nil
}

func (r *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *fakeRepo) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *fakeRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	return err == nil, nil
}

func (r *fakeRepo) List(ctx context.Context) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	out := make([]user.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func newService(t *testing.T, opts Options) (user.Service, *fakeRepo, *jwt.Manager, *cache.Memory) {
	t.Helper()
	repo := &fakeRepo{}
	tokens := jwt.NewManager("test-secret", time.Hour)
	mem := cache.NewMemory()
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.MinCost
	}
	return NewUserService(repo, tokens, mem, opts), repo, tokens, mem
}

func register(t *testing.T, svc user.Service, username, password string) *user.User {
	t.Helper()
	u, err := svc.Register(context.Background(), user.RegisterRequest{Username: username, Name: "Test", Password: password})
	require.NoError(t, err)
	return u
}

func TestRegister_HashesPassword(t *testing.T) {
	svc, repo, _, _ := newService(t, Options{})

	u := register(t, svc, "root", "sekret")

	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.NotEqual(t, "sekret", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("sekret")))
	assert.NotNil(t, u.Blogs)
	assert.Len(t, repo.users, 1)
}

func TestRegister_Validation(t *testing.T) {
	svc, repo, _, _ := newService(t, Options{})

	_, err := svc.Register(context.Background(), user.RegisterRequest{Username: "ml", Password: "salainen"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "`username` is shorter than the minimum allowed length (3)")

	_, err = svc.Register(context.Background(), user.RegisterRequest{Username: "mluukkai", Password: "pw"})
	assert.Contains(t, err.Error(), "password must be at least 3 characters long")

	assert.Empty(t, repo.users)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, repo, _, _ := newService(t, Options{})
	register(t, svc, "root", "sekret")

	_, err := svc.Register(context.Background(), user.RegisterRequest{Username: " root ", Password: "another"})
	assert.ErrorIs(t, err, user.ErrUsernameTaken)

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "expected `username` to be unique", appErr.Message)
	assert.Len(t, repo.users, 1)
}

func TestLogin_Success(t *testing.T) {
	svc, _, tokens, _ := newService(t, Options{})
	u := register(t, svc, "root", "sekret")

	resp, err := svc.Login(context.Background(), user.LoginRequest{Username: "root", Password: "sekret"})
	require.NoError(t, err)
	assert.Equal(t, "root", resp.Username)
	assert.Equal(t, "Test", resp.Name)

	claims, err := tokens.ValidateAccessToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.UserID)
	assert.Equal(t, "root", claims.Username)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	svc, _, _, _ := newService(t, Options{})
	register(t, svc, "root", "sekret")
	ctx := context.Background()

	_, wrongPassword := svc.Login(ctx, user.LoginRequest{Username: "root", Password: "wrong"})
	_, unknownUser := svc.Login(ctx, user.LoginRequest{Username: "nobody", Password: "sekret"})
	_, missing := svc.Login(ctx, user.LoginRequest{Username: "root"})

	for _, err := range []error{wrongPassword, unknownUser, missing} {
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
		assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	}
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestLogin_Throttle(t *testing.T) {
	svc, _, _, mem := newService(t, Options{MaxLoginAttempts: 3, LockoutWindow: time.Minute})
	register(t, svc, "root", "sekret")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Login(ctx, user.LoginRequest{Username: "ROOT", Password: "wrong"})
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	}

	ttl, err := mem.TTL(ctx, cachekey.LoginAttempts("root"))
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	// correct password is refused while locked out
	_, err = svc.Login(ctx, user.LoginRequest{Username: "root", Password: "sekret"})
	assert.ErrorIs(t, err, user.ErrTooManyAttempts)
	assert.Equal(t, apperr.KindTooManyRequests, apperr.KindOf(err))

	require.NoError(t, mem.Delete(ctx, cachekey.LoginAttempts("root")))
	_, err = svc.Login(ctx, user.LoginRequest{Username: "root", Password: "sekret"})
	assert.NoError(t, err)
}

func TestLogin_SuccessResetsCounter(t *testing.T) {
	svc, _, _, mem := newService(t, Options{MaxLoginAttempts: 3, LockoutWindow: time.Minute})
	register(t, svc, "root", "sekret")
	ctx := context.Background()

	_, _ = svc.Login(ctx, user.LoginRequest{Username: "root", Password: "wrong"})
	_, err := svc.Login(ctx, user.LoginRequest{Username: "root", Password: "sekret"})
	require.NoError(t, err)

	ok, _ := mem.Exists(ctx, cachekey.LoginAttempts("root"))
	assert.False(t, ok)
}

func TestLogin_ThrottleDisabled(t *testing.T) {
	svc, _, _, _ := newService(t, Options{})
	register(t, svc, "root", "sekret")
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, _ = svc.Login(ctx, user.LoginRequest{Username: "root", Password: "wrong"})
	}
	_, err := svc.Login(ctx, user.LoginRequest{Username: "root", Password: "sekret"})
	assert.NoError(t, err)
}

func TestList_CachedAndInvalidatedOnRegister(t *testing.T) {
	svc, repo, _, _ := newService(t, Options{ListTTL: time.Minute})
	ctx := context.Background()
	register(t, svc, "root", "sekret")

	first, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	_, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)

	register(t, svc, "mluukkai", "salainen")
	_, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)

	// cached entries never carry credentials
	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)

	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Username)
		assert.Empty(t, u.PasswordHash)
	}
	assert.Equal(t, "root,mluukkai", strings.Join(names, ","))
}
