package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bloglist-backend/internal/domains/blog"
	"bloglist-backend/internal/shared/apperr"
	"bloglist-backend/internal/shared/middleware"
	"bloglist-backend/internal/shared/response"
	"bloglist-backend/internal/shared/utils"
)

// BlogHandler handles HTTP requests for the blog domain.
type BlogHandler struct {
	service blog.Service
}

func NewBlogHandler(service blog.Service) *BlogHandler {
	return &BlogHandler{service: service}
}

// List handles GET /api/blogs
func (h *BlogHandler) List(c *gin.Context) {
	blogs, err := h.service.List(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}
	if blogs == nil {
		blogs = []blog.Blog{}
	}
	response.Success(c, http.StatusOK, blogs)
}

// Create handles POST /api/blogs (auth required)
func (h *BlogHandler) Create(c *gin.Context) {
	var req blog.CreateBlogRequest
	if err := h.bind(c, &req); err != nil {
		return
	}

	created, err := h.service.Create(c.Request.Context(), middleware.CurrentIdentity(c), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	c.Header("Location", "/api/blogs/"+created.ID.String())
	response.Success(c, http.StatusCreated, created)
}

// Update handles PUT /api/blogs/:id (auth + ownership required)
func (h *BlogHandler) Update(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	var req blog.UpdateBlogRequest
	if err := h.bind(c, &req); err != nil {
		return
	}

	updated, err := h.service.Update(c.Request.Context(), middleware.CurrentIdentity(c), id, req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, updated)
}

// Delete handles DELETE /api/blogs/:id (auth + ownership required)
func (h *BlogHandler) Delete(c *gin.Context) {
	id, err := utils.ParseID(c.Param("id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.CurrentIdentity(c), id); err != nil {
		response.HandleError(c, err)
		return
	}

	response.NoContent(c)
}

// bind decodes the JSON body. Decoding errors that are already classified
// (e.g. an unparseable likes value) are reported as such.
func (h *BlogHandler) bind(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		if _, ok := apperr.As(err); ok {
			response.HandleError(c, err)
		} else {
			response.HandleError(c, apperr.Validation("invalid request body").WithCause(err))
		}
		return err
	}
	return nil
}
