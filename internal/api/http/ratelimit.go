package http

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	apperrors "github.com/winkingcatstudios/video-streaming-backend/pkg/util"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a per-IP token bucket.
type RateLimiter struct {
	rpm     int
	mu      sync.Mutex
	clients map[string]*clientLimiter
}

// NewRateLimiter builds a limiter allowing rpm requests per minute per client.
func NewRateLimiter(rpm int) *RateLimiter {
	if rpm <= 0 {
		rpm = 300
	}
	return &RateLimiter{rpm: rpm, clients: map[string]*clientLimiter{}}
}

// Handler rejects clients over budget with 429. Preflight requests are exempt.
func (m *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions {
			return c.Next()
		}
		if !m.get(c.IP()).Allow() {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(60))
			return apperrors.NewRateLimited("Too many requests")
		}
		return c.Next()
	}
}

func (m *RateLimiter) get(clientIP string) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cl, exists := m.clients[clientIP]; exists {
		cl.lastSeen = time.Now()
		m.gcLocked()
		return cl.limiter
	}

	cl := &clientLimiter{
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(m.rpm)), m.rpm),
		lastSeen: time.Now(),
	}
	m.clients[clientIP] = cl
	m.gcLocked()
	return cl.limiter
}

func (m *RateLimiter) gcLocked() {
	if len(m.clients) < 1000 {
		return
	}
	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, cl := range m.clients {
		if cl.lastSeen.Before(cutoff) {
			delete(m.clients, ip)
		}
	}
}
