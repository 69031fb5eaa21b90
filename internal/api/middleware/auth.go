package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/leaguehq/draftsim/pkg/utils"
)

const memberIDKey = "member_id"

// AuthRequired rejects requests without a valid bearer token and stores
// the member id claim in the context.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		memberID, err := memberFromToken(c, secret)
		if err != nil {
			utils.SendUnauthorized(c, err.Error())
			c.Abort()
			return
		}
		c.Set(memberIDKey, memberID)
		c.Next()
	}
}

// OptionalAuth parses a bearer token when present; anonymous requests
// continue without a member id.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if memberID, err := memberFromToken(c, secret); err == nil {
			c.Set(memberIDKey, memberID)
		}
		c.Next()
	}
}

// MemberID returns the authenticated member id, if any.
func MemberID(c *gin.Context) (string, bool) {
	value, ok := c.Get(memberIDKey)
	if !ok {
		return "", false
	}
	memberID, ok := value.(string)
	return memberID, ok
}

func memberFromToken(c *gin.Context, secret string) (string, error) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", fmt.Errorf("missing bearer token")
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}
	memberID, _ := claims["sub"].(string)
	if memberID == "" {
		return "", fmt.Errorf("token missing subject")
	}
	return memberID, nil
}
