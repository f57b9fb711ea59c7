package middleware

import (
	"github.com/daijiahui66/ADDoc/internal/models"
	"github.com/daijiahui66/ADDoc/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	userKey   = "user"
	userIDKey = "user_id"
)

// AuthMiddleware 要求请求携带有效令牌。
func AuthMiddleware(resolver *IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := resolver.Resolve(extractToken(c))
		if err != nil {
			utils.HandleError(c, err)
			c.Abort()
			return
		}

		switch identity.State {
		case Anonymous:
			utils.Unauthorized(c, "缺少访问令牌")
			c.Abort()
			return
		case Invalid:
			utils.Unauthorized(c, "无效的访问令牌")
			c.Abort()
			return
		}

		setUser(c, identity.User)
		c.Next()
	}
}

// OptionalAuthMiddleware 解析令牌但不强制登录，无效令牌按匿名处理。
func OptionalAuthMiddleware(resolver *IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := resolver.Resolve(extractToken(c))
		if err != nil {
			utils.HandleError(c, err)
			c.Abort()
			return
		}
		if identity.State == Authenticated {
			setUser(c, identity.User)
		}
		c.Next()
	}
}

func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			utils.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}
		if !user.IsAdmin() {
			utils.Forbidden(c, "需要管理员权限")
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUser 返回当前请求的用户，匿名访问时为 nil。
func CurrentUser(c *gin.Context) *models.User {
	v, exists := c.Get(userKey)
	if !exists {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

func setUser(c *gin.Context, user *models.User) {
	c.Set(userKey, user)
	c.Set(userIDKey, user.ID)
}
