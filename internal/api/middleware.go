package api

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"bharathbhent-backend/internal/apperr"
	"bharathbhent-backend/internal/auth"
	"bharathbhent-backend/internal/service"
)

const identityKey = "identity"

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(h[len("Bearer "):])
	}
	// Browsers cannot set headers on websocket upgrades.
	return c.Query("token")
}

// Authenticate resolves the bearer token into an auth.Identity or aborts with 401.
func Authenticate(svc *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			fail(c, apperr.New(apperr.Unauthorized, "Please login to access this resource"))
			return
		}
		id, err := svc.Resolve(c.Request.Context(), token)
		if err != nil {
			fail(c, err)
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

func identity(c *gin.Context) auth.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}
	}
	id, _ := v.(auth.Identity)
	return id
}

func RequireUser(c *gin.Context) {
	if !identity(c).IsUser() {
		fail(c, apperr.New(apperr.Forbidden, "Not authorized to access this resource"))
		return
	}
	c.Next()
}

func RequireAdmin(c *gin.Context) {
	if !identity(c).IsAdmin() {
		fail(c, apperr.New(apperr.Forbidden, "Not authorized to access this resource"))
		return
	}
	c.Next()
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter keeps one token bucket per client IP.
type ipLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
}

func newIPLimiter(perSecond float64, burst int) *ipLimiter {
	return &ipLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(perSecond),
		burst:    burst,
		idle:     3 * time.Minute,
	}
}

func (l *ipLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if now.Sub(l.lastSweep) > l.idle {
		for k, v := range l.visitors {
			if now.Sub(v.lastSeen) > l.idle {
				delete(l.visitors, k)
			}
		}
		l.lastSweep = now
	}
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// RateLimit throttles each client IP. A non-positive rate disables it.
func RateLimit(perSecond float64, burst int) gin.HandlerFunc {
	if perSecond <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	l := newIPLimiter(perSecond, burst)
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP(), time.Now()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, envelope{Success: false, Message: "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
