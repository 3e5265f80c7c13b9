package controller

import (
	"ctchen222/todo-api/internal/api/models"
	"ctchen222/todo-api/internal/api/response"
	"ctchen222/todo-api/internal/api/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserController handles user-related HTTP requests.
type UserController struct {
	userService service.UserService
}

// NewUserController creates a new UserController.
func NewUserController(userService service.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// Register handles the user registration endpoint. A taken username is
// answered with 401, like a failed login.
func (uc *UserController) Register(c *gin.Context) {
	var req models.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Abort(c, http.StatusBadRequest, err)
		return
	}

	token, err := uc.userService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			response.Abort(c, http.StatusUnauthorized, err)
			return
		}
		response.InternalError(c, err)
		return
	}

	response.OK(c, models.TokenResponse{Token: token})
}

// Login handles the user login endpoint.
func (uc *UserController) Login(c *gin.Context) {
	var req models.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Abort(c, http.StatusBadRequest, err)
		return
	}

	token, err := uc.userService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Abort(c, http.StatusUnauthorized, err)
			return
		}
		response.InternalError(c, err)
		return
	}

	response.OK(c, models.TokenResponse{Token: token})
}
