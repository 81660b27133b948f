package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"bloglist-backend/internal/domains/blog"
	"bloglist-backend/internal/shared/apperr"
	"bloglist-backend/internal/shared/auth"
	"bloglist-backend/internal/shared/cachekey"
	"bloglist-backend/pkg/cache"
)

// Authorizer enforces the ownership rule; implemented by *auth.Guard.
type Authorizer interface {
	AuthorizeOwnership(identity *auth.Identity, ownerID uuid.UUID) error
}

// blogService implements blog.Service
type blogService struct {
	repo    blog.Repository
	guard   Authorizer
	cache   cache.Cache
	listTTL time.Duration
}

// NewBlogService wires the service; listTTL <= 0 disables list caching.
func NewBlogService(repo blog.Repository, guard Authorizer, c cache.Cache, listTTL time.Duration) blog.Service {
	if c == nil {
		c = cache.NewNoop()
	}
	return &blogService{
		repo:    repo,
		guard:   guard,
		cache:   c,
		listTTL: listTTL,
	}
}

// ========================================
// READ
// ========================================

func (s *blogService) List(ctx context.Context) ([]blog.Blog, error) {
	if s.listTTL > 0 {
		var cached []blog.Blog
		found, err := s.cache.Get(ctx, cachekey.BlogList, &cached)
		if err != nil {
			log.Warn().Err(err).Str("key", cachekey.BlogList).Msg("Cache read failed")
		}
		if found {
			for i := range cached {
				cached[i].UserID = cached[i].OwnerID()
			}
			return cached, nil
		}
	}

	blogs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}

	if s.listTTL > 0 {
		if err := s.cache.Set(ctx, cachekey.BlogList, blogs, s.listTTL); err != nil {
			log.Warn().Err(err).Str("key", cachekey.BlogList).Msg("Cache write failed")
		}
	}
	return blogs, nil
}

// ========================================
// WRITE
// ========================================

func (s *blogService) Create(ctx context.Context, identity *auth.Identity, req blog.CreateBlogRequest) (*blog.Blog, error) {
	if identity == nil {
		return nil, auth.ErrMissingToken
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperr.FromValidation(err)
	}

	b := &blog.Blog{
		Title:  req.Title,
		Author: req.Author,
		URL:    req.URL,
		Likes:  req.LikesOrZero(),
		UserID: identity.ID,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		if errors.Is(err, blog.ErrOwnerNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("create blog: %w", err)
	}
	b.Owner = &blog.Owner{ID: identity.ID, Username: identity.Username, Name: identity.Name}

	s.invalidateLists(ctx)

	log.Info().
		Str("blog_id", b.ID.String()).
		Str("user_id", identity.ID.String()).
		Msg("Blog created")

	return b, nil
}

func (s *blogService) Update(ctx context.Context, identity *auth.Identity, id uuid.UUID, req blog.UpdateBlogRequest) (*blog.Blog, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperr.FromValidation(err)
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.guard.AuthorizeOwnership(identity, existing.UserID); err != nil {
		return nil, err
	}

	if req.IsEmpty() {
		return existing, nil
	}

	existing.Apply(req)
	if err := s.repo.Update(ctx, existing); err != nil {
		if errors.Is(err, blog.ErrBlogNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update blog: %w", err)
	}

	s.invalidateLists(ctx)
	return existing, nil
}

func (s *blogService) Delete(ctx context.Context, identity *auth.Identity, id uuid.UUID) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.guard.AuthorizeOwnership(identity, existing.UserID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, blog.ErrBlogNotFound) {
			return err
		}
		return fmt.Errorf("delete blog: %w", err)
	}

	s.invalidateLists(ctx)

	log.Info().
		Str("blog_id", id.String()).
		Str("user_id", identity.ID.String()).
		Msg("Blog deleted")

	return nil
}

// invalidateLists drops both cached lists: users embed their blogs.
func (s *blogService) invalidateLists(ctx context.Context) {
	if err := s.cache.Delete(ctx, cachekey.BlogList, cachekey.UserList); err != nil {
		log.Warn().Err(err).Msg("Cache invalidation failed")
	}
}
