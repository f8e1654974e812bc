package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"recipehub/meal-planner/internal/domain" // For domain.Role
	"recipehub/meal-planner/internal/service"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// Constants for context keys
const (
	ContextUserIDKey   = "userID"
	ContextUserRoleKey = "userRole"
)

// jwtClaims defines the structure we expect in the JWT payload.
// Mirroring the structure used in authService.generateJWT
type jwtClaims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}
		tokenString := parts[1]

		claims := &jwtClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})

		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, fmt.Sprintf("Invalid token: %v", err))
			}
			return
		}

		if !token.Valid || claims.UserID == "" || claims.Role == "" {
			abortWithError(c, http.StatusUnauthorized, "Invalid token or missing claims")
			return
		}

		// Tokens without an expiry are never accepted.
		if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(time.Now()) {
			abortWithError(c, http.StatusUnauthorized, "Token has expired (claim check)")
			return
		}

		c.Set(ContextUserIDKey, claims.UserID) // Store UserID as string (Hex representation)
		c.Set(ContextUserRoleKey, claims.Role)

		c.Next()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// abortWithServiceError maps a service error onto an HTTP status. Errors
// nobody planned for become a 500 and are logged with the route.
func abortWithServiceError(c *gin.Context, err error) {
	var te *service.TransportError
	switch {
	case errors.Is(err, service.ErrValidation):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrRecipeNotFound),
		errors.Is(err, service.ErrScheduleEntryNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrNoRecipeImage):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrRecipeAccessDenied),
		errors.Is(err, service.ErrInvalidObjectKey):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrStaleResult):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.As(err, &te):
		// the backend detail stays in the server log
		abortWithError(c, http.StatusBadGateway, fmt.Sprintf("Upstream failure during %s", te.Op))
	default:
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.FullPath(), err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// RoleMiddleware creates middleware to check if user has the required role(s).
// Must run AFTER AuthMiddleware.
func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, err := getUserRoleFromContext(c)
		if err != nil {
			// AuthMiddleware did not run
			abortWithError(c, http.StatusInternalServerError, err.Error())
			return
		}

		allowed := false
		for _, allowedRole := range allowedRoles {
			if userRole == allowedRole {
				allowed = true
				break
			}
		}

		if !allowed {
			abortWithError(c, http.StatusForbidden, fmt.Sprintf("Access denied: Role '%s' does not have permission", userRole))
			return
		}

		c.Next()
	}
}

// Helper function to get User ID from context (used by handlers)
func getUserIDFromContext(c *gin.Context) (string, error) {
	idRaw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", errors.New("user ID not found in context")
	}
	idStr, ok := idRaw.(string)
	if !ok {
		return "", errors.New("invalid user ID type in context")
	}
	return idStr, nil
}

// Helper function to get User Role from context (used by handlers)
func getUserRoleFromContext(c *gin.Context) (domain.Role, error) {
	roleRaw, exists := c.Get(ContextUserRoleKey)
	if !exists {
		return "", errors.New("user role not found in context")
	}
	role, ok := roleRaw.(domain.Role)
	if !ok {
		return "", errors.New("invalid user role type in context")
	}
	return role, nil
}

// mustUserID aborts with 401 when the token carried no user.
func mustUserID(c *gin.Context) (string, bool) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return "", false
	}
	return userID, true
}

// parseDateParam reads a yyyy-MM-dd value, aborting with 400 when malformed.
func parseDateParam(c *gin.Context, name, raw string) (domain.Date, bool) {
	d, err := domain.ParseDate(raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s: %v", name, err))
		return "", false
	}
	return d, true
}
