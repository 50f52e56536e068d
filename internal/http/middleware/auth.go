package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/AleeDevp/italihub-app-sub003/internal/http/dto"
	"github.com/AleeDevp/italihub-app-sub003/internal/http/resp"
)

// Claims is the bearer-token payload issued by the identity service.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"user_id"`
}

const contextKeyUserID = "user_id"

// SignToken mints a token for the given user. Used by tests and local
// tooling; production tokens come from the identity service.
func SignToken(secret string, userID int64, ttl time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "italihub",
		},
		UserID: userID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// JWTAuth resolves the current user from the Authorization header, or from
// an access_token query parameter for the SSE endpoint (EventSource cannot
// set headers).
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Code: resp.CodeUnauthorized, Message: "missing bearer token",
			})
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid || claims.UserID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Code: resp.CodeUnauthorized, Message: "invalid token",
			})
			return
		}

		c.Set(contextKeyUserID, claims.UserID)
		c.Next()
	}
}

// ServiceAuth guards the internal produce endpoints with a shared token.
func ServiceAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" || c.GetHeader("X-Service-Token") != token {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{
				Code: resp.CodeForbidden, Message: "invalid service token",
			})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, found := strings.CutPrefix(header, "Bearer "); found {
			return token
		}
		return ""
	}
	return c.Query("access_token")
}

// CurrentUserID returns the authenticated user id set by JWTAuth.
func CurrentUserID(c *gin.Context) int64 {
	v, _ := c.Get(contextKeyUserID)
	if id, ok := v.(int64); ok {
		return id
	}
	return 0
}
