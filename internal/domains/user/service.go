package user

import "context"

// Service is the registration and login use-case layer.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	List(ctx context.Context) ([]User, error)
}
