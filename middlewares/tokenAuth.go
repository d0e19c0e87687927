package middlewares

import (
	"MediBook/models"
	"MediBook/utils"
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// contextKey defines a custom context key type to store user details in the context.
type contextKey string

const (
	userIDKey   contextKey = "userID"
	userTypeKey contextKey = "userType"
)

// extractToken reads the access token from the Authorization header, falling
// back to the accessToken query parameter.
func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.DefaultQuery("accessToken", "")
}

// TokenAuthMiddleware validates the token and adds user details to the request context.
func TokenAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing access token"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(token, models.UserTypePatient, models.UserTypeDoctor)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		// Add user details to the context for later use in handlers.
		ctx := context.WithValue(c.Request.Context(), userIDKey, claims.UserID)
		ctx = context.WithValue(ctx, userTypeKey, claims.UserType)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// UserTypeAuthMiddleware restricts access to users of the specified type.
func UserTypeAuthMiddleware(requiredType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userType, err := ExtractUserTypeFromContext(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User type not found in context"})
			c.Abort()
			return
		}

		if userType != requiredType {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient privileges"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// ExtractUserIDFromContext retrieves the acting user's ID from the context.
func ExtractUserIDFromContext(ctx context.Context) (int64, error) {
	raw, ok := ctx.Value(userIDKey).(string)
	if !ok {
		return 0, errors.New("user ID not found in context")
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.New("malformed user ID in context")
	}
	return userID, nil
}

// ExtractUserTypeFromContext retrieves the acting user's type from the context.
func ExtractUserTypeFromContext(ctx context.Context) (string, error) {
	userType, ok := ctx.Value(userTypeKey).(string)
	if !ok {
		return "", errors.New("user type not found in context")
	}
	return userType, nil
}
