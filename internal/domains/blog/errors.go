package blog

import "bloglist-backend/internal/shared/apperr"

var (
	ErrBlogNotFound = apperr.NotFound("BLOG_NOT_FOUND", "blog not found")

	// The owning user vanished between authentication and insert.
	ErrOwnerNotFound = apperr.New(apperr.KindValidation, "OWNER_NOT_FOUND", "user missing").
		WithFields(map[string]string{"user": "user missing"})

	ErrInvalidLikes = apperr.New(apperr.KindValidation, "INVALID_LIKES", "likes must be a non-negative integer").
		WithFields(map[string]string{"likes": "likes must be a non-negative integer"})
)
