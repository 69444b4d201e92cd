package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTTL     = 7 * 24 * time.Hour
	renewalAfter = 24 * time.Hour

	CtxUserID    = "user_id"
	CtxUserEmail = "user_email"
)

// IssueToken signs an HS256 token for an admin user.
func IssueToken(secret []byte, uid int, email string) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":   uid,
		"email": email,
		"exp":   time.Now().Add(TokenTTL).Unix(),
	}).SignedString(secret)
}

// ParseToken validates a raw token and returns its claims.
func ParseToken(secret []byte, raw string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func bearer(c *gin.Context) (string, bool) {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	return auth[7:], true
}

func JWTAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearer(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		claims, err := ParseToken(secret, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		uid, _ := claims["uid"].(float64)
		email, _ := claims["email"].(string)
		c.Set(CtxUserID, int(uid))
		c.Set(CtxUserEmail, email)

		// renew when less than a day remains
		if exp, ok := claims["exp"].(float64); ok {
			if time.Until(time.Unix(int64(exp), 0)) < renewalAfter {
				if newToken, err := IssueToken(secret, int(uid), email); err == nil {
					c.Header("X-New-Token", newToken)
				}
			}
		}

		c.Next()
	}
}

// BearerClaims returns the claims of the request's bearer token.
func BearerClaims(c *gin.Context, secret []byte) (jwt.MapClaims, error) {
	raw, ok := bearer(c)
	if !ok {
		return nil, errors.New("token not provided")
	}
	return ParseToken(secret, raw)
}
