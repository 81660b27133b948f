package blog

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists blogs together with the owner's owned-blog list.
type Repository interface {
	// List returns every blog with Owner populated, oldest first.
	List(ctx context.Context) ([]Blog, error)

	// Returns: ErrBlogNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*Blog, error)

	// Create inserts the blog and appends it to the owner's list in one
	// transaction. Returns: ErrOwnerNotFound
	Create(ctx context.Context, b *Blog) error

	// Update writes the mutable fields of b. Returns: ErrBlogNotFound
	Update(ctx context.Context, b *Blog) error

	// Delete removes the blog and its owned-list entry in one transaction.
	// Returns: ErrBlogNotFound
	Delete(ctx context.Context, id uuid.UUID) error
}
