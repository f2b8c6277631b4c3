package middleware

import (
	"net/http"
	"strings"

	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"loadlink/internal/access"
)

var secret = []byte(getJWTSecret())

func getJWTSecret() string {
	if val := os.Getenv("JWT_SECRET"); val != "" {
		return val
	}
	return "supersecret" // fallback
}

// GenerateToken issues the session token. Organization and account
// status ride along so every handler can build an access.Actor without
// a DB round trip.
func GenerateToken(userID uint, role string, orgID uint, status string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"org_id":  orgID,
		"status":  status,
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ValidateToken(tokenStr string) (*jwt.Token, error) {
	return jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
}

// RequireAuth ensures a valid JWT is present
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		// Store claims in context for downstream handlers
		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			c.Set("user_id", claims["user_id"])
			c.Set("role", claims["role"])
			c.Set("org_id", claims["org_id"])
			c.Set("status", claims["status"])
		} else {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		c.Next()
	}
}

// RequireAuthWithRole ensures the JWT is valid and the user has a specific role
func RequireAuthWithRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// First ensure basic auth
		req := RequireAuth()
		req(c)
		if c.IsAborted() {
			return
		}

		// Check role
		roleIfc, exists := c.Get("role")
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Role not found in token"})
			return
		}
		if role, ok := roleIfc.(string); !ok || role != requiredRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}

		c.Next()
	}
}

// ActorFrom rebuilds the access.Actor from the claims RequireAuth
// stashed in the context. Numeric claims come back as float64.
func ActorFrom(c *gin.Context) access.Actor {
	actor := access.Actor{}
	if v, ok := c.Get("user_id"); ok {
		if f, ok := v.(float64); ok {
			actor.UserID = uint(f)
		}
	}
	if v, ok := c.Get("role"); ok {
		if s, ok := v.(string); ok {
			actor.Role = access.Role(s)
		}
	}
	if v, ok := c.Get("org_id"); ok {
		if f, ok := v.(float64); ok {
			actor.OrganizationID = uint(f)
		}
	}
	if v, ok := c.Get("status"); ok {
		if s, ok := v.(string); ok {
			actor.Status = s
		}
	}
	return actor
}
