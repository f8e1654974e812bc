package api

import (
	"errors"
	"fmt"
	"net/http"
	"recipehub/meal-planner/internal/domain"
	"recipehub/meal-planner/internal/service"
	"time"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Role       domain.Role `json:"role"`
	Phone      string      `json:"phone,omitempty"`
	Country    string      `json:"country,omitempty"`
	Gender     string      `json:"gender,omitempty"`
	PictureURL string      `json:"pictureUrl,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UpdateProfileRequest struct {
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone"`
	Country    string `json:"country"`
	Gender     string `json:"gender"`
	PictureURL string `json:"pictureUrl" binding:"omitempty,url"`
}

// --- Handler Methods ---

// Register godoc
// @Summary Register a new user
// @Description Creates a new user account. Configured admin emails get the admin role.
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration details"
// @Success 201 {object} UserResponse "User created successfully"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 409 {object} gin.H "Conflict (email already exists)"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else if errors.Is(err, service.ErrHashingFailed) {
			abortWithError(c, http.StatusInternalServerError, "Could not process registration")
		} else {
			abortWithServiceError(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, MapUserToResponse(user))
}

// Login godoc
// @Summary Log in a user
// @Description Authenticates a user and returns a JWT token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse "Login successful"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized (invalid credentials)"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			abortWithError(c, http.StatusUnauthorized, err.Error())
		} else if errors.Is(err, service.ErrTokenGeneration) {
			abortWithError(c, http.StatusInternalServerError, "Could not process login")
		} else {
			abortWithServiceError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User:  MapUserToResponse(user),
	})
}

// GetMe godoc
// @Summary Get the current user's profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "User no longer exists"
// @Router /me [get]
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	user, err := h.authService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// UpdateMe godoc
// @Summary Update the current user's profile
// @Description Overwrites name, phone, country, gender and picture URL.
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} UserResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /me [put]
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), userID, service.ProfileUpdate{
		Name:       req.Name,
		Phone:      req.Phone,
		Country:    req.Country,
		Gender:     req.Gender,
		PictureURL: req.PictureURL,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:         user.ID.Hex(),
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		Phone:      user.Phone,
		Country:    user.Country,
		Gender:     user.Gender,
		PictureURL: user.PictureURL,
		CreatedAt:  user.CreatedAt,
	}
}
