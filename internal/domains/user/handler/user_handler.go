package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bloglist-backend/internal/domains/user"
	"bloglist-backend/internal/shared/apperr"
	"bloglist-backend/internal/shared/response"
)

// UserHandler handles HTTP requests for the user domain.
// Stateless - only holds dependencies
type UserHandler struct {
	service user.Service
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{service: service}
}

// ========================================
// USER ENDPOINTS
// ========================================

// Register handles POST /api/users
func (h *UserHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := h.bind(c, &req); err != nil {
		return
	}

	created, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	c.Header("Location", "/api/users/"+created.ID.String())
	response.Success(c, http.StatusCreated, created.ToResponse())
}

// List handles GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		response.HandleError(c, err)
		return
	}

	out := make([]user.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToResponse())
	}
	response.Success(c, http.StatusOK, out)
}

// ========================================
// AUTHENTICATION ENDPOINTS
// ========================================

// Login handles POST /api/login
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	// a body that does not decode is just a failed login
	if err := c.ShouldBindJSON(&req); err != nil {
		response.HandleError(c, user.ErrInvalidCredentials)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ========================================
// HELPERS
// ========================================

func (h *UserHandler) bind(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		response.HandleError(c, apperr.Validation("invalid request body").WithCause(err))
		return err
	}
	return nil
}
