package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the credential record - maps to the users table.
// Blogs is the owned-blog list (user_blogs), kept in insertion order.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"` // Never expose in JSON
	Blogs        []BlogRef `json:"blogs"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// BlogRef is the populated form of an owned-blog list entry.
type BlogRef struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	Author string    `json:"author"`
	URL    string    `json:"url"`
	Likes  int       `json:"likes"`
}

const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MaxNameLength     = 100
	MinPasswordLength = 3
	// bcrypt ignores everything after 72 bytes
	MaxPasswordBytes = 72
)

// BlogIDs returns the owned-blog list as identifiers.
func (u *User) BlogIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(u.Blogs))
	for _, b := range u.Blogs {
		ids = append(ids, b.ID)
	}
	return ids
}

// ToResponse drops credentials and guarantees a non-nil blogs array.
func (u *User) ToResponse() UserResponse {
	blogs := u.Blogs
	if blogs == nil {
		blogs = []BlogRef{}
	}
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Blogs:    blogs,
	}
}
