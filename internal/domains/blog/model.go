package blog

import (
	"time"

	"github.com/google/uuid"
)

// Blog maps to the blogs table. Owner is populated on reads.
type Blog struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	URL       string    `json:"url"`
	Likes     int       `json:"likes"`
	UserID    uuid.UUID `json:"-"`
	Owner     *Owner    `json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Owner is the populated form of a blog's user reference.
type Owner struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
}

// OwnerID returns the owning user, falling back to the populated owner
// for values that went through JSON (UserID is not serialized).
func (b *Blog) OwnerID() uuid.UUID {
	if b.UserID == uuid.Nil && b.Owner != nil {
		return b.Owner.ID
	}
	return b.UserID
}

// Apply copies the supplied fields of a partial update onto b.
func (b *Blog) Apply(req UpdateBlogRequest) {
	if req.Title != nil {
		b.Title = *req.Title
	}
	if req.Author != nil {
		b.Author = *req.Author
	}
	if req.URL != nil {
		b.URL = *req.URL
	}
	if req.Likes != nil {
		b.Likes = int(*req.Likes)
	}
}
