package middleware

import (
	"net/http"
	"strings"

	"wanderlog/internal/auth"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// AuthMiddleware 验证 token 是否有效，并把 Principal 写入上下文。
func AuthMiddleware(session *auth.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")

		// 检查 token 是否在黑名单
		in, _ := session.InBlackList(token)
		if in {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token invalid"})
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(principalKey, auth.FromClaims(claims))
		c.Set("device", claims.Device)
		c.Next()
	}
}

// OptionalAuthMiddleware 与 AuthMiddleware 相同，但缺失或无效的 token 按匿名放行。
// 用于单篇笔记详情：匿名只能看到已通过审核的内容。
func OptionalAuthMiddleware(session *auth.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.Next()
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if in, _ := session.InBlackList(token); in {
			c.Next()
			return
		}
		claims, err := auth.ParseToken(token)
		if err != nil {
			c.Next()
			return
		}
		c.Set(principalKey, auth.FromClaims(claims))
		c.Set("device", claims.Device)
		c.Next()
	}
}

// PrincipalFrom extracts the authenticated principal placed by the auth
// middleware. ok is false for anonymous requests.
func PrincipalFrom(c *gin.Context) (auth.Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}
