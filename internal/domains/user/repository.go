package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the credential store.
type Repository interface {
	// Create inserts u and fills ID/CreatedAt/UpdatedAt.
	// Returns: ErrUsernameTaken when the username already exists
	Create(ctx context.Context, u *User) error

	// FindByID returns the user with its owned blogs populated.
	// Returns: ErrUserNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByUsername is used by login; blogs are not populated.
	// Returns: ErrUserNotFound
	FindByUsername(ctx context.Context, username string) (*User, error)

	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// List returns every user with owned blogs populated, oldest first.
	List(ctx context.Context) ([]User, error)
}
