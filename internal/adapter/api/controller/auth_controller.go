package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rmcastle/fieldops/internal/adapter/api/dto"
	"github.com/rmcastle/fieldops/pkg/auth"
	"github.com/rmcastle/fieldops/pkg/logger"
	"github.com/rmcastle/fieldops/pkg/repository"
)

// AuthController handles user authentication
type AuthController struct {
	users  repository.UserRepository
	jwt    *auth.JWTService
	logger logger.Logger
}

// NewAuthController creates the auth controller
func NewAuthController(users repository.UserRepository, jwt *auth.JWTService, log logger.Logger) *AuthController {
	return &AuthController{users: users, jwt: jwt, logger: log}
}

// Login godoc
// @Summary Authenticate a user
// @Description Validates credentials and returns a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (ctl *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	user, err := ctl.users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		ctl.logger.Error("error finding user: %v", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "could not log in"})
		return
	}
	if user == nil || !user.Active || !user.CheckPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid email or password"})
		return
	}

	token, err := ctl.jwt.GenerateToken(user)
	if err != nil {
		ctl.logger.Error("error generating token: %v", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "could not log in"})
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token: token,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	})
}
