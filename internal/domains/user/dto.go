package user

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// ========================================
// REGISTRATION
// ========================================

// RegisterRequest - POST /api/users
type RegisterRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Normalize trims surrounding whitespace from username and name.
// The password is taken verbatim.
func (r *RegisterRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Name = strings.TrimSpace(r.Name)
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required.Error("`username` is required"),
			validation.RuneLength(MinUsernameLength, 0).Error("`username` is shorter than the minimum allowed length (3)"),
			validation.RuneLength(0, MaxUsernameLength).Error("`username` is longer than the maximum allowed length (50)"),
		),
		validation.Field(&r.Name,
			validation.RuneLength(0, MaxNameLength).Error("`name` is longer than the maximum allowed length (100)"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password missing"),
			validation.RuneLength(MinPasswordLength, 0).Error("password must be at least 3 characters long"),
			validation.Length(0, MaxPasswordBytes).Error("password must be at most 72 bytes long"),
		),
	)
}

// ========================================
// LOGIN
// ========================================

// LoginRequest - POST /api/login
// No declarative rules: any missing field is reported as invalid credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse - issued session token
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// ========================================
// PUBLIC REPRESENTATION
// ========================================

// UserResponse - public user representation (safe to expose)
type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
	Blogs    []BlogRef `json:"blogs"`
}
