package blog

import (
	"context"

	"github.com/google/uuid"

	"bloglist-backend/internal/shared/auth"
)

type Service interface {
	List(ctx context.Context) ([]Blog, error)
	Create(ctx context.Context, identity *auth.Identity, req CreateBlogRequest) (*Blog, error)
	Update(ctx context.Context, identity *auth.Identity, id uuid.UUID, req UpdateBlogRequest) (*Blog, error)
	Delete(ctx context.Context, identity *auth.Identity, id uuid.UUID) error
}
