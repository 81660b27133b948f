package blog

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreateBlogRequest - POST /api/blogs
// The owner is the authenticated user, never taken from the body.
type CreateBlogRequest struct {
	Title  string     `json:"title"`
	Author string     `json:"author"`
	URL    string     `json:"url"`
	Likes  *LikeCount `json:"likes"`
}

func (r *CreateBlogRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Author = strings.TrimSpace(r.Author)
	r.URL = strings.TrimSpace(r.URL)
}

func (r CreateBlogRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("title missing")),
		validation.Field(&r.URL, validation.Required.Error("url missing")),
		validation.Field(&r.Likes, validation.By(nonNegative)),
	)
}

// LikesOrZero applies the default like count.
func (r CreateBlogRequest) LikesOrZero() int {
	if r.Likes == nil {
		return 0
	}
	return int(*r.Likes)
}

// UpdateBlogRequest - PUT /api/blogs/:id
// Nil fields are left unchanged.
type UpdateBlogRequest struct {
	Title  *string    `json:"title"`
	Author *string    `json:"author"`
	URL    *string    `json:"url"`
	Likes  *LikeCount `json:"likes"`
}

func (r *UpdateBlogRequest) Normalize() {
	trim := func(s *string) {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
	trim(r.Title)
	trim(r.Author)
	trim(r.URL)
}

func (r UpdateBlogRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty.Error("title must not be empty")),
		validation.Field(&r.URL, validation.NilOrNotEmpty.Error("url must not be empty")),
		validation.Field(&r.Likes, validation.By(nonNegative)),
	)
}

// IsEmpty reports whether the request changes nothing.
func (r UpdateBlogRequest) IsEmpty() bool {
	return r.Title == nil && r.Author == nil && r.URL == nil && r.Likes == nil
}

func nonNegative(value interface{}) error {
	l, _ := value.(*LikeCount)
	if l != nil && *l < 0 {
		return validation.NewError("validation_likes_negative", "likes must be a non-negative integer")
	}
	return nil
}
