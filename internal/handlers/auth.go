package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wjy1814-droid/memos/internal/auth"
	"github.com/wjy1814-droid/memos/internal/services"
	"github.com/wjy1814-droid/memos/pkg/response"
)

// AuthHandler exposes registration, login and the identity probe.
type AuthHandler struct {
	users *services.UserService
	jwt   *auth.JWTService
}

// NewAuthHandler constructs an AuthHandler instance.
func NewAuthHandler(users *services.UserService, jwt *auth.JWTService) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt}
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

// Register creates an account and signs the new user in.
func (h *AuthHandler) Register(c *gin.Context) {
	req, err := bindAndValidate[registerRequest](c)
	if err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.users.Register(requestContext(c), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.jwt.GenerateAccessToken(user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, sessionResponse{Token: token, User: user})
}

// Login verifies credentials and issues a token.
func (h *AuthHandler) Login(c *gin.Context) {
	req, err := bindAndValidate[loginRequest](c)
	if err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.users.Authenticate(requestContext(c), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.jwt.GenerateAccessToken(user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, sessionResponse{Token: token, User: user})
}

// Me returns the account behind the presented token.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.users.Get(requestContext(c), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}
