package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Ysanit2020/sistema-de-gestion-de-inventario-y-pos/internal/apierror"

	"github.com/gin-gonic/gin"
)

// windowLimiter counts requests per client IP in fixed windows. Expired
// entries are swept lazily, at most once per window.
type windowLimiter struct {
	limit  int
	window time.Duration
	msg    string
	now    func() time.Time

	mu        sync.Mutex
	entries   map[string]*windowEntry
	lastSweep time.Time
}

type windowEntry struct {
	count     int
	windowEnd time.Time
}

func newWindowLimiter(limit int, window time.Duration, msg string) *windowLimiter {
	return &windowLimiter{
		limit:   limit,
		window:  window,
		msg:     msg,
		now:     time.Now,
		entries: make(map[string]*windowEntry),
	}
}

// allow records one hit for key and reports whether it is within the limit,
// plus the seconds until the window resets.
func (l *windowLimiter) allow(key string) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > l.window {
		for k, e := range l.entries {
			if now.After(e.windowEnd) {
				delete(l.entries, k)
			}
		}
		l.lastSweep = now
	}

	e, ok := l.entries[key]
	if !ok || now.After(e.windowEnd) {
		e = &windowEntry{windowEnd: now.Add(l.window)}
		l.entries[key] = e
	}
	e.count++
	retry := int(e.windowEnd.Sub(now).Seconds()) + 1
	return e.count <= l.limit, retry
}

func (l *windowLimiter) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, retry := l.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.msg))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return newWindowLimiter(20, time.Minute, "Demasiados intentos de login. Intente en 1 minuto.").handler()
}

// RateLimiter limits every client IP to limit requests per window.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return newWindowLimiter(limit, window, "Demasiadas solicitudes. Intente nuevamente en un momento.").handler()
}
