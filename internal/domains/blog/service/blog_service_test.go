package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bloglist-backend/internal/domains/blog"
	"bloglist-backend/internal/shared/apperr"
	"bloglist-backend/internal/shared/auth"
	"bloglist-backend/internal/shared/cachekey"
	"bloglist-backend/pkg/cache"
	"bloglist-backend/pkg/logger"
)

func init() {
	logger.Silence()
}

type fakeRepo struct {
	mu        sync.Mutex
	blogs     []blog.Blog
	owners    map[uuid.UUID]bool
	listCalls int
}

func newFakeRepo(owners ...uuid.UUID) *fakeRepo {
	r := &fakeRepo{owners: make(map[uuid.UUID]bool)}
	for _, id := range owners {
		r.owners[id] = true
	}
	return r
}

func (r *fakeRepo) List(ctx context.Context) ([]blog.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	out := make([]blog.Blog, 0, len(r.blogs))
	for _, b := range r.blogs {
		b.Owner = &blog.Owner{ID: b.UserID}
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*blog.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.blogs {
		if b.ID == id {
			cp := b
			return &cp, nil
		}
	}
	return nil, blog.ErrBlogNotFound
}

func (r *fakeRepo) Create(ctx context.Context, b *blog.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.owners[b.UserID] {
		return blog.ErrOwnerNotFound
	}
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	r.blogs = append(r.blogs, *b)
	return nil
}

func (r *fakeRepo) Update(ctx context.Context, b *blog.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.blogs {
		if r.blogs[i].ID == b.ID {
			r.blogs[i] = *b
			return nil
		}
	}
	return blog.ErrBlogNotFound
}

func (r *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.blogs {
		if r.blogs[i].ID == id {
			r.blogs = append(r.blogs[:i], r.blogs[i+1:]...)
			return nil
		}
	}
	return blog.ErrBlogNotFound
}

type fixture struct {
	svc   blog.Service
	repo  *fakeRepo
	cache *cache.Memory
	owner *auth.Identity
	other *auth.Identity
}

func newFixture(t *testing.T, listTTL time.Duration) *fixture {
	t.Helper()
	owner := &auth.Identity{ID: uuid.New(), Username: "root", Name: "Superuser"}
	other := &auth.Identity{ID: uuid.New(), Username: "mluukkai", Name: "Matti"}
	repo := newFakeRepo(owner.ID, other.ID)
	mem := cache.NewMemory()
	guard := auth.NewGuard(nil, nil, mem, 0)
	return &fixture{
		svc:   NewBlogService(repo, guard, mem, listTTL),
		repo:  repo,
		cache: mem,
		owner: owner,
		other: other,
	}
}

func likes(n int) *blog.LikeCount {
	l := blog.LikeCount(n)
	return &l
}

func (f *fixture) create(t *testing.T, title string) *blog.Blog {
	t.Helper()
	b, err := f.svc.Create(context.Background(), f.owner, blog.CreateBlogRequest{Title: title, Author: "a", URL: "http://x"})
	require.NoError(t, err)
	return b
}

func TestCreate(t *testing.T) {
	f := newFixture(t, 0)

	b := f.create(t, "  Go Statement Considered Harmful ")

	assert.NotEqual(t, uuid.Nil, b.ID)
	assert.Equal(t, "Go Statement Considered Harmful", b.Title)
	assert.Equal(t, 0, b.Likes)
	assert.Equal(t, f.owner.ID, b.UserID)
	require.NotNil(t, b.Owner)
	assert.Equal(t, "root", b.Owner.Username)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.owner, blog.CreateBlogRequest{Author: "a", URL: "u"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "title missing")

	_, err = f.svc.Create(ctx, f.owner, blog.CreateBlogRequest{Title: "t", Author: "a"})
	assert.Contains(t, err.Error(), "url missing")

	_, err = f.svc.Create(ctx, f.owner, blog.CreateBlogRequest{Title: "t", URL: "u", Likes: likes(-1)})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	assert.Empty(t, f.repo.blogs)
}

func TestCreate_RequiresIdentity(t *testing.T) {
	f := newFixture(t, 0)

	_, err := f.svc.Create(context.Background(), nil, blog.CreateBlogRequest{Title: "t", URL: "u"})
	assert.ErrorIs(t, err, auth.ErrMissingToken)
}

func TestCreate_OwnerGone(t *testing.T) {
	f := newFixture(t, 0)
	ghost := &auth.Identity{ID: uuid.New(), Username: "ghost"}

	_, err := f.svc.Create(context.Background(), ghost, blog.CreateBlogRequest{Title: "t", URL: "u"})
	assert.ErrorIs(t, err, blog.ErrOwnerNotFound)
}

func TestUpdate(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	b := f.create(t, "t")

	updated, err := f.svc.Update(ctx, f.owner, b.ID, blog.UpdateBlogRequest{Likes: likes(10)})
	require.NoError(t, err)
	assert.Equal(t, 10, updated.Likes)
	assert.Equal(t, "t", updated.Title)

	stored, _ := f.repo.FindByID(ctx, b.ID)
	assert.Equal(t, 10, stored.Likes)
}

func TestUpdate_NonOwnerRejected(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	b := f.create(t, "t")

	_, err := f.svc.Update(ctx, f.other, b.ID, blog.UpdateBlogRequest{Likes: likes(10)})
	assert.ErrorIs(t, err, auth.ErrNotOwner)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	stored, _ := f.repo.FindByID(ctx, b.ID)
	assert.Equal(t, 0, stored.Likes)
}

func TestUpdate_Missing(t *testing.T) {
	f := newFixture(t, 0)

	_, err := f.svc.Update(context.Background(), f.owner, uuid.New(), blog.UpdateBlogRequest{Likes: likes(1)})
	assert.ErrorIs(t, err, blog.ErrBlogNotFound)
}

func TestDelete(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	b := f.create(t, "t")

	err := f.svc.Delete(ctx, f.other, b.ID)
	assert.ErrorIs(t, err, auth.ErrNotOwner)
	assert.Len(t, f.repo.blogs, 1)

	err = f.svc.Delete(ctx, nil, b.ID)
	assert.ErrorIs(t, err, auth.ErrMissingToken)

	require.NoError(t, f.svc.Delete(ctx, f.owner, b.ID))
	assert.Empty(t, f.repo.blogs)

	err = f.svc.Delete(ctx, f.owner, b.ID)
	assert.ErrorIs(t, err, blog.ErrBlogNotFound)
}

func TestList_CacheInvalidatedByWrites(t *testing.T) {
	f := newFixture(t, time.Minute)
	ctx := context.Background()
	f.create(t, "first")

	_, err := f.svc.List(ctx)
	require.NoError(t, err)
	cached, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, f.repo.listCalls)
	require.Len(t, cached, 1)

	require.NoError(t, f.cache.Set(ctx, cachekey.UserList, []string{"stale"}, time.Minute))
	second := f.create(t, "second")

	ok, _ := f.cache.Exists(ctx, cachekey.UserList)
	assert.False(t, ok)

	blogs, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, blogs, 2)
	assert.Equal(t, 2, f.repo.listCalls)

	// ownership survives the cache round trip
	require.NoError(t, f.svc.Delete(ctx, f.owner, second.ID))
	_, _ = f.svc.List(ctx)
	listed, _ := f.svc.List(ctx)
	require.Len(t, listed, 1)
	assert.Equal(t, f.owner.ID, listed[0].UserID)
}
