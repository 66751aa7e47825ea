package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// EditRateLimitConfig bounds how many writes a caller may send per window
type EditRateLimitConfig struct {
	Limit     int
	Window    time.Duration
	KeyPrefix string
}

// sliding window over a sorted set, returns {allowed, remaining, oldest_ms}
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count < limit then
    redis.call('ZADD', key, now, now .. ':' .. math.random(1000000))
    redis.call('PEXPIRE', key, window + 1000)
    return {1, limit - count - 1, 0}
end
local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local first = 0
if #oldest >= 2 then
    first = tonumber(oldest[2])
end
return {0, 0, first}
`)

// EditRateLimit throttles state changing requests per signed-in user, or per
// client IP for anonymous callers. Reads and moderators are never limited.
// Runs after JWTAuth. Fails open without redis or when redis errors.
func EditRateLimit(client *redis.Client, cfg EditRateLimitConfig) gin.HandlerFunc {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "footprints:ratelimit:edit:"
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	return func(c *gin.Context) {
		if client == nil || cfg.Limit <= 0 || isSafeMethod(c.Request.Method) || GetViewer(c).IsModerator() {
			c.Next()
			return
		}

		key := cfg.KeyPrefix + "ip:" + c.ClientIP()
		if id := GetUserID(c); id != 0 {
			key = cfg.KeyPrefix + "user:" + strconv.FormatUint(id, 10)
		}

		now := time.Now().UnixMilli()
		window := cfg.Window.Milliseconds()
		res, err := slidingWindowScript.Run(c.Request.Context(), client, []string{key}, cfg.Limit, window, now).Int64Slice()
		if err != nil || len(res) != 3 {
			logger.FromContext(c.Request.Context()).Warn().Err(err).Msg("rate limit check skipped")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(res[1], 10))
		if res[0] != 1 {
			retry := (res[2] + window - now) / 1000
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", fmt.Sprintf("%d", retry))
			common.HandleError(c, common.ErrRateLimited, false)
			c.Abort()
			return
		}
		c.Next()
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
