package middleware

import (
	"strings"

	"github.com/daijiahui66/ADDoc/internal/errs"
	"github.com/daijiahui66/ADDoc/internal/models"
	"github.com/daijiahui66/ADDoc/internal/services"
	"github.com/daijiahui66/ADDoc/internal/utils"

	"github.com/gin-gonic/gin"
)

type IdentityState int

const (
	Anonymous IdentityState = iota
	Authenticated
	Invalid
)

// Identity 是一次请求解析出的身份，只有 Authenticated 时 User 非空。
type Identity struct {
	State IdentityState
	User  *models.User
}

// IdentityResolver 把访问令牌解析为用户。
type IdentityResolver struct {
	auth   *services.AuthService
	secret string
}

func NewIdentityResolver(auth *services.AuthService, secret string) *IdentityResolver {
	return &IdentityResolver{auth: auth, secret: secret}
}

// Resolve 没有令牌时返回 Anonymous；令牌无效、过期或用户已不存在时返回 Invalid。
func (r *IdentityResolver) Resolve(token string) (Identity, error) {
	if token == "" {
		return Identity{State: Anonymous}, nil
	}

	claims, err := utils.ParseToken(token, r.secret)
	if err != nil {
		return Identity{State: Invalid}, nil
	}

	user, err := r.auth.UserByUsername(claims.Username())
	if err != nil {
		if errs.Is(err, errs.KindNotFound) {
			return Identity{State: Invalid}, nil
		}
		return Identity{State: Invalid}, err
	}
	return Identity{State: Authenticated, User: user}, nil
}

func extractToken(c *gin.Context) string {
	// 从 Authorization header 获取
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	// 从查询参数获取（用于直接下载备份等场景）
	return c.Query("token")
}
