// Package middleware provides gin middleware for the API service.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// PlanPremium is the entitlement plan that bypasses the free-tier limit.
const PlanPremium = "premium"

// Claims are the session claims issued by the identity provider. Plan carries
// the entitlement tier so usage gating never trusts client-supplied fields.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Plan  string `json:"plan"`
	jwt.RegisteredClaims
}

// Premium reports whether the session holds the premium entitlement.
func (c *Claims) Premium() bool {
	return c.Plan == PlanPremium
}

// Auth creates a JWT bearer authentication middleware. Validated claims are
// stored in the gin context for handlers.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		token, err := jwt.ParseWithClaims(parts[1], &Claims{}, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := token.Claims.(*Claims)
		if !ok || !token.Valid || claims.Email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("claims", claims)
		c.Next()
	}
}

// GetClaims extracts session claims from the gin context.
func GetClaims(c *gin.Context) (*Claims, bool) {
	v, exists := c.Get("claims")
	if !exists {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}

// SigningKeyAuth creates a shared-key bearer middleware for the agent runner
// endpoints.
func SigningKeyAuth(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "Bearer "+key {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid signing key"})
			return
		}
		c.Next()
	}
}
