package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/daijiahui66/ADDoc/internal/models"

	"github.com/gin-gonic/gin"
)

const visitorTTL = 10 * time.Minute

// RateLimiter 按客户端 IP 做令牌桶限流，每分钟补满一次。
type RateLimiter struct {
	requestsPerMinute int
	visitors          map[string]*visitor
	mutex             sync.Mutex
	now               func() time.Time
}

type visitor struct {
	tokens     int
	lastRefill time.Time
	lastSeen   time.Time
}

func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	return &RateLimiter{
		requestsPerMinute: requestsPerMinute,
		visitors:          make(map[string]*visitor),
		now:               time.Now,
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.Response{
				Code:    http.StatusTooManyRequests,
				Message: "请求频率过高，请稍后再试",
			})
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) Allow(ip string) bool {
	if rl.requestsPerMinute <= 0 {
		return true
	}

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	v, exists := rl.visitors[ip]
	if !exists {
		v = &visitor{tokens: rl.requestsPerMinute, lastRefill: now}
		rl.visitors[ip] = v
	}
	v.lastSeen = now

	if minutes := int(now.Sub(v.lastRefill).Minutes()); minutes > 0 {
		v.tokens += minutes * rl.requestsPerMinute
		if v.tokens > rl.requestsPerMinute {
			v.tokens = rl.requestsPerMinute
		}
		v.lastRefill = now
	}

	if v.tokens > 0 {
		v.tokens--
		return true
	}
	return false
}

// Cleanup 定期清理长时间没有请求的 IP，ctx 结束时退出。
func (rl *RateLimiter) Cleanup(ctx context.Context) {
	ticker := time.NewTicker(visitorTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.evict()
		}
	}
}

func (rl *RateLimiter) evict() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := rl.now()
	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) > visitorTTL {
			delete(rl.visitors, ip)
		}
	}
}
