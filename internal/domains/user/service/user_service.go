package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"bloglist-backend/internal/domains/user"
	"bloglist-backend/internal/shared/apperr"
	"bloglist-backend/internal/shared/cachekey"
	"bloglist-backend/pkg/cache"
	"bloglist-backend/pkg/jwt"
)

// Options tunes hashing, login throttling and list caching.
type Options struct {
	BcryptCost       int
	MaxLoginAttempts int           // 0 disables the throttle
	LockoutWindow    time.Duration // counter lifetime after the first failure
	ListTTL          time.Duration // 0 disables list caching
}

// userService implements user.Service
type userService struct {
	repo       user.Repository
	jwtManager *jwt.Manager
	cache      cache.Cache
	opts       Options

	dummyOnce sync.Once
	dummyHash []byte
}

func NewUserService(repo user.Repository, jwtManager *jwt.Manager, c cache.Cache, opts Options) user.Service {
	if c == nil {
		c = cache.NewNoop()
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &userService{
		repo:       repo,
		jwtManager: jwtManager,
		cache:      c,
		opts:       opts,
	}
}

// ========================================
// REGISTRATION
// ========================================

func (s *userService) Register(ctx context.Context, req user.RegisterRequest) (*user.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperr.FromValidation(err)
	}

	exists, err := s.repo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username exists: %w", err)
	}
	if exists {
		return nil, user.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	newUser := &user.User{
		Username:     req.Username,
		Name:         req.Name,
		PasswordHash: string(hash),
		Blogs:        []user.BlogRef{},
	}

	// The unique index still guards against a concurrent registration.
	if err := s.repo.Create(ctx, newUser); err != nil {
		if errors.Is(err, user.ErrUsernameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.invalidate(ctx, cachekey.UserList)

	log.Info().
		Str("user_id", newUser.ID.String()).
		Str("username", newUser.Username).
		Msg("User registered")

	return newUser, nil
}

// ========================================
// LOGIN
// ========================================

func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, user.ErrInvalidCredentials
	}

	if s.isLockedOut(ctx, username) {
		return nil, user.ErrTooManyAttempts
	}

	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, user.ErrUserNotFound) {
			return nil, fmt.Errorf("find user: %w", err)
		}
		// Spend a comparable amount of time so unknown usernames
		// are not distinguishable from wrong passwords.
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(req.Password))
		s.recordFailure(ctx, username)
		return nil, user.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		s.recordFailure(ctx, username)
		return nil, user.ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateAccessToken(u.ID.String(), u.Username)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	s.invalidate(ctx, cachekey.LoginAttempts(username))

	return &user.LoginResponse{
		Token:    token,
		Username: u.Username,
		Name:     u.Name,
	}, nil
}

// ========================================
// LISTING
// ========================================

func (s *userService) List(ctx context.Context) ([]user.User, error) {
	if s.opts.ListTTL > 0 {
		var cached []user.User
		found, err := s.cache.Get(ctx, cachekey.UserList, &cached)
		if err != nil {
			log.Warn().Err(err).Str("key", cachekey.UserList).Msg("Cache read failed")
		}
		if found {
			return cached, nil
		}
	}

	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	if s.opts.ListTTL > 0 {
		if err := s.cache.Set(ctx, cachekey.UserList, users, s.opts.ListTTL); err != nil {
			log.Warn().Err(err).Str("key", cachekey.UserList).Msg("Cache write failed")
		}
	}

	return users, nil
}

// ========================================
// HELPERS
// ========================================

// isLockedOut reports whether username has exhausted its failed attempts.
// Cache failures never block a login.
func (s *userService) isLockedOut(ctx context.Context, username string) bool {
	if s.opts.MaxLoginAttempts <= 0 {
		return false
	}

	var attempts int64
	found, err := s.cache.Get(ctx, cachekey.LoginAttempts(username), &attempts)
	if err != nil || !found {
		return false
	}
	return attempts >= int64(s.opts.MaxLoginAttempts)
}

func (s *userService) recordFailure(ctx context.Context, username string) {
	if s.opts.MaxLoginAttempts <= 0 {
		return
	}

	key := cachekey.LoginAttempts(username)
	n, err := s.cache.Increment(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to record login attempt")
		return
	}
	if n == 1 {
		_ = s.cache.Expire(ctx, key, s.opts.LockoutWindow)
	}

	if n >= int64(s.opts.MaxLoginAttempts) {
		log.Warn().Str("username", username).Int64("attempts", n).Msg("Login locked out")
	}
}

func (s *userService) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("Cache invalidation failed")
	}
}

func (s *userService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.opts.BcryptCost)
	})
	return s.dummyHash
}
